package usecase

import (
	"context"

	crmdomain "salescrm-backend/internal/crm/domain"
	"salescrm-backend/internal/mailbox/domain"
)

// MailProvider is the mailbox-client surface the sync coordinator drives.
// pkg/gmail implements it against the Gmail REST API.
type MailProvider interface {
	ListCandidateMessages(ctx context.Context, accessToken string, account *domain.MailboxAccount, opts domain.ListOptions) ([]string, error)
	FetchMessage(ctx context.Context, accessToken, messageID string) (*domain.InboundMessage, error)
	MarkRead(ctx context.Context, accessToken, messageID string) error
	EnsureLabelApplied(ctx context.Context, accessToken, messageID, labelName string) error
	SendReply(ctx context.Context, accessToken string, account *domain.MailboxAccount, draft *domain.DraftRecord) error
}

// CredentialSource resolves a usable bearer token for an account,
// refreshing and persisting as needed. A returned error means the account
// must be skipped for the whole pass.
type CredentialSource interface {
	ValidAccessToken(ctx context.Context, account *domain.MailboxAccount) (string, error)
}

// CRMProjector resolves an inbound message into CRM entities.
// internal/crm/usecase.Projector implements it.
type CRMProjector interface {
	ResolveContact(msg *domain.InboundMessage) (*crmdomain.Contact, error)
	ResolveOrCreateDeal(contact *crmdomain.Contact, account *domain.MailboxAccount, msg *domain.InboundMessage) (*crmdomain.Deal, error)
	LogActivity(deal *crmdomain.Deal, contact *crmdomain.Contact, msg *domain.InboundMessage) error
}

// DraftCreator generates and persists a reply draft for a projected message.
type DraftCreator interface {
	CreateDraft(ctx context.Context, account *domain.MailboxAccount, record *domain.ProcessedMessage, msg *domain.InboundMessage, contact *crmdomain.Contact, deal *crmdomain.Deal) (*domain.DraftRecord, error)
}

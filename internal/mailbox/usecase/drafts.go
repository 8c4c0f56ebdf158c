package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	crmdomain "salescrm-backend/internal/crm/domain"
	"salescrm-backend/internal/mailbox/domain"
	"salescrm-backend/internal/mailbox/repository"
	"salescrm-backend/pkg/ai"
)

// DraftOrchestrator calls the generation provider for each projected
// message and owns the draft lifecycle (pending -> sent / failed).
type DraftOrchestrator struct {
	draftRepo   repository.DraftRepository
	accountRepo repository.AccountRepository
	generator   ai.DraftGenerator
	provider    MailProvider
	creds       CredentialSource
	tone        string
}

// NewDraftOrchestrator creates a new instance of DraftOrchestrator
func NewDraftOrchestrator(draftRepo repository.DraftRepository, accountRepo repository.AccountRepository, generator ai.DraftGenerator, provider MailProvider, creds CredentialSource, tone string) *DraftOrchestrator {
	return &DraftOrchestrator{
		draftRepo:   draftRepo,
		accountRepo: accountRepo,
		generator:   generator,
		provider:    provider,
		creds:       creds,
		tone:        tone,
	}
}

// CreateDraft generates a reply and persists it with status pending. The
// caller treats errors as message-local: the message stays fully processed
// even when no draft could be produced.
func (o *DraftOrchestrator) CreateDraft(ctx context.Context, account *domain.MailboxAccount, record *domain.ProcessedMessage, msg *domain.InboundMessage, contact *crmdomain.Contact, deal *crmdomain.Deal) (*domain.DraftRecord, error) {
	if o.generator == nil {
		log.Printf("[Drafts] AI service not configured, skipping draft for message %s", msg.ID)
		return nil, nil
	}

	generated, err := o.generator.GenerateReply(ctx, ai.ReplyRequest{
		FromName:       msg.FromName,
		FromEmail:      msg.FromEmail,
		Subject:        msg.Subject,
		Body:           msg.Body,
		ContactName:    contact.Name,
		ContactCompany: contact.Company,
		DealTitle:      deal.Title,
		DealStage:      deal.Stage,
		Tone:           o.tone,
	})
	if err != nil {
		return nil, fmt.Errorf("draft generation failed: %v", err)
	}

	draft := &domain.DraftRecord{
		ProcessedMessageID: record.ID,
		AccountID:          account.ID,
		ThreadID:           msg.ThreadID,
		ContactID:          contact.ID,
		DealID:             deal.ID,
		FromName:           msg.FromName,
		FromEmail:          msg.FromEmail,
		OriginalSubject:    msg.Subject,
		OriginalBody:       msg.Body,
		ReceivedAt:         msg.ReceivedAt,
		DraftSubject:       generated.Subject,
		DraftBody:          generated.Body,
		Tone:               o.tone,
		Status:             domain.DraftStatusPending,
	}
	if err := o.draftRepo.Create(draft); err != nil {
		return nil, err
	}

	log.Printf("[Drafts] Created draft %s for message %s (%s)", draft.ID, msg.ID, msg.FromEmail)
	return draft, nil
}

// ListDrafts returns drafts filtered by status, newest first.
func (o *DraftOrchestrator) ListDrafts(status string, limit int) ([]*domain.DraftRecord, error) {
	return o.draftRepo.ListByStatus(status, limit)
}

// SendDraft delivers a pending draft through the owning account and marks
// it sent. Send failures mark the draft failed so the review UI surfaces
// them; the draft body is preserved for retry after editing.
func (o *DraftOrchestrator) SendDraft(ctx context.Context, draftID string) (*domain.DraftRecord, error) {
	draft, err := o.draftRepo.FindByID(draftID)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		return nil, errors.New("draft not found")
	}
	if draft.Status != domain.DraftStatusPending {
		return nil, fmt.Errorf("draft is %s, only pending drafts can be sent", draft.Status)
	}

	account, err := o.accountRepo.FindByID(draft.AccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, errors.New("owning account not found")
	}

	token, err := o.creds.ValidAccessToken(ctx, account)
	if err != nil {
		return nil, err
	}

	if err := o.provider.SendReply(ctx, token, account, draft); err != nil {
		draft.Status = domain.DraftStatusFailed
		draft.ErrorMessage = err.Error()
		if updateErr := o.draftRepo.Update(draft); updateErr != nil {
			log.Printf("[Drafts] Failed to record send failure for draft %s: %v", draft.ID, updateErr)
		}
		return nil, err
	}

	now := time.Now()
	draft.Status = domain.DraftStatusSent
	draft.ErrorMessage = ""
	draft.SentAt = &now
	if err := o.draftRepo.Update(draft); err != nil {
		return nil, err
	}

	log.Printf("[Drafts] Sent draft %s to %s", draft.ID, draft.FromEmail)
	return draft, nil
}

// DiscardDraft marks a pending draft failed with a human-entered reason.
func (o *DraftOrchestrator) DiscardDraft(draftID, reason string) (*domain.DraftRecord, error) {
	draft, err := o.draftRepo.FindByID(draftID)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		return nil, errors.New("draft not found")
	}
	if draft.Status != domain.DraftStatusPending {
		return nil, fmt.Errorf("draft is %s, only pending drafts can be discarded", draft.Status)
	}

	draft.Status = domain.DraftStatusFailed
	if reason == "" {
		reason = "discarded by user"
	}
	draft.ErrorMessage = reason
	if err := o.draftRepo.Update(draft); err != nil {
		return nil, err
	}
	return draft, nil
}

package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	crmdomain "salescrm-backend/internal/crm/domain"
	crmrepo "salescrm-backend/internal/crm/repository"
	"salescrm-backend/internal/mailbox/domain"
	"salescrm-backend/pkg/ai"

	"github.com/google/uuid"
)

// In-memory fakes behind the repository and provider interfaces.

type fakeAccountRepo struct {
	accounts []*domain.MailboxAccount
}

func (r *fakeAccountRepo) Upsert(account *domain.MailboxAccount) (*domain.MailboxAccount, error) {
	for _, existing := range r.accounts {
		if existing.Email == account.Email {
			existing.AccessToken = account.AccessToken
			if account.RefreshToken != "" {
				existing.RefreshToken = account.RefreshToken
			}
			existing.TokenExpiry = account.TokenExpiry
			existing.IsActive = true
			return existing, nil
		}
	}
	account.ID = uuid.New().String()
	account.IsActive = true
	account.CreatedAt = time.Now()
	r.accounts = append(r.accounts, account)
	return account, nil
}

func (r *fakeAccountRepo) FindByID(id string) (*domain.MailboxAccount, error) {
	for _, account := range r.accounts {
		if account.ID == id {
			return account, nil
		}
	}
	return nil, nil
}

func (r *fakeAccountRepo) FindByEmail(email string) (*domain.MailboxAccount, error) {
	for _, account := range r.accounts {
		if account.Email == email {
			return account, nil
		}
	}
	return nil, nil
}

func (r *fakeAccountRepo) Update(account *domain.MailboxAccount) error {
	return nil
}

func (r *fakeAccountRepo) ListActive() ([]*domain.MailboxAccount, error) {
	var active []*domain.MailboxAccount
	for _, account := range r.accounts {
		if account.IsActive {
			active = append(active, account)
		}
	}
	return active, nil
}

func (r *fakeAccountRepo) ListAll() ([]*domain.MailboxAccount, error) {
	return r.accounts, nil
}

func (r *fakeAccountRepo) Deactivate(id string) error {
	for _, account := range r.accounts {
		if account.ID == id {
			account.IsActive = false
		}
	}
	return nil
}

type fakeLedger struct {
	records []*domain.ProcessedMessage
}

func (l *fakeLedger) IsProcessed(messageID string) (bool, error) {
	for _, rec := range l.records {
		if rec.GmailMessageID == messageID {
			return true, nil
		}
	}
	return false, nil
}

func (l *fakeLedger) Create(record *domain.ProcessedMessage) error {
	for _, rec := range l.records {
		if rec.GmailMessageID == record.GmailMessageID {
			return fmt.Errorf("duplicate ledger entry for %s", record.GmailMessageID)
		}
	}
	record.ID = uuid.New().String()
	record.CreatedAt = time.Now()
	l.records = append(l.records, record)
	return nil
}

func (l *fakeLedger) FindByMessageID(messageID string) (*domain.ProcessedMessage, error) {
	for _, rec := range l.records {
		if rec.GmailMessageID == messageID {
			return rec, nil
		}
	}
	return nil, nil
}

func (l *fakeLedger) ListByAccount(accountID string, limit int) ([]*domain.ProcessedMessage, error) {
	var out []*domain.ProcessedMessage
	for _, rec := range l.records {
		if rec.AccountID == accountID {
			out = append(out, rec)
		}
	}
	return out, nil
}

type fakeProvider struct {
	inbox      map[string][]string // account id -> message ids
	messages   map[string]*domain.InboundMessage
	listErr    map[string]error // account id -> error
	fetchErr   map[string]error // message id -> error
	sendErr    error
	markedRead []string
	labeled    []string
	sent       []string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		inbox:    map[string][]string{},
		messages: map[string]*domain.InboundMessage{},
		listErr:  map[string]error{},
		fetchErr: map[string]error{},
	}
}

func (p *fakeProvider) addMessage(accountID string, msg *domain.InboundMessage) {
	p.inbox[accountID] = append(p.inbox[accountID], msg.ID)
	p.messages[msg.ID] = msg
}

func (p *fakeProvider) ListCandidateMessages(ctx context.Context, accessToken string, account *domain.MailboxAccount, opts domain.ListOptions) ([]string, error) {
	if err := p.listErr[account.ID]; err != nil {
		return nil, err
	}
	return p.inbox[account.ID], nil
}

func (p *fakeProvider) FetchMessage(ctx context.Context, accessToken, messageID string) (*domain.InboundMessage, error) {
	if err := p.fetchErr[messageID]; err != nil {
		return nil, err
	}
	msg, ok := p.messages[messageID]
	if !ok {
		return nil, fmt.Errorf("message %s not found", messageID)
	}
	return msg, nil
}

func (p *fakeProvider) MarkRead(ctx context.Context, accessToken, messageID string) error {
	p.markedRead = append(p.markedRead, messageID)
	return nil
}

func (p *fakeProvider) EnsureLabelApplied(ctx context.Context, accessToken, messageID, labelName string) error {
	p.labeled = append(p.labeled, messageID)
	return nil
}

func (p *fakeProvider) SendReply(ctx context.Context, accessToken string, account *domain.MailboxAccount, draft *domain.DraftRecord) error {
	if p.sendErr != nil {
		return p.sendErr
	}
	p.sent = append(p.sent, draft.ID)
	return nil
}

type fakeCreds struct {
	fail map[string]error // account id -> error
}

func (c *fakeCreds) ValidAccessToken(ctx context.Context, account *domain.MailboxAccount) (string, error) {
	if c.fail != nil {
		if err := c.fail[account.ID]; err != nil {
			return "", err
		}
	}
	return "token-" + account.ID, nil
}

type fakeContactRepo struct {
	contacts []*crmdomain.Contact
}

func (r *fakeContactRepo) Create(contact *crmdomain.Contact) error {
	contact.ID = uuid.New().String()
	contact.Email = strings.ToLower(contact.Email)
	r.contacts = append(r.contacts, contact)
	return nil
}

func (r *fakeContactRepo) FindByEmail(email string) (*crmdomain.Contact, error) {
	for _, contact := range r.contacts {
		if contact.Email == strings.ToLower(email) {
			return contact, nil
		}
	}
	return nil, nil
}

func (r *fakeContactRepo) FindByID(id string) (*crmdomain.Contact, error) {
	for _, contact := range r.contacts {
		if contact.ID == id {
			return contact, nil
		}
	}
	return nil, nil
}

func (r *fakeContactRepo) List(limit, offset int) ([]*crmdomain.Contact, error) {
	return r.contacts, nil
}

type fakeDealRepo struct {
	deals []*crmdomain.Deal
}

func (r *fakeDealRepo) Create(deal *crmdomain.Deal) error {
	deal.ID = uuid.New().String()
	r.deals = append(r.deals, deal)
	return nil
}

func (r *fakeDealRepo) FindByID(id string) (*crmdomain.Deal, error) {
	for _, deal := range r.deals {
		if deal.ID == id {
			return deal, nil
		}
	}
	return nil, nil
}

func (r *fakeDealRepo) FindFirstByContact(contactID string) (*crmdomain.Deal, error) {
	for _, deal := range r.deals {
		if deal.ContactID == contactID {
			return deal, nil
		}
	}
	return nil, nil
}

func (r *fakeDealRepo) List(limit, offset int) ([]*crmdomain.Deal, error) {
	return r.deals, nil
}

func (r *fakeDealRepo) Update(deal *crmdomain.Deal) error {
	return nil
}

type fakeActivityRepo struct {
	activities []*crmdomain.Activity
}

func (r *fakeActivityRepo) Create(activity *crmdomain.Activity) error {
	activity.ID = uuid.New().String()
	r.activities = append(r.activities, activity)
	return nil
}

func (r *fakeActivityRepo) ListByDeal(dealID string, limit int) ([]*crmdomain.Activity, error) {
	var out []*crmdomain.Activity
	for _, activity := range r.activities {
		if activity.DealID == dealID {
			out = append(out, activity)
		}
	}
	return out, nil
}

var _ crmrepo.ContactRepository = (*fakeContactRepo)(nil)
var _ crmrepo.DealRepository = (*fakeDealRepo)(nil)
var _ crmrepo.ActivityRepository = (*fakeActivityRepo)(nil)

type fakeDraftRepo struct {
	drafts []*domain.DraftRecord
}

func (r *fakeDraftRepo) Create(draft *domain.DraftRecord) error {
	draft.ID = uuid.New().String()
	if draft.Status == "" {
		draft.Status = domain.DraftStatusPending
	}
	r.drafts = append(r.drafts, draft)
	return nil
}

func (r *fakeDraftRepo) FindByID(id string) (*domain.DraftRecord, error) {
	for _, draft := range r.drafts {
		if draft.ID == id {
			return draft, nil
		}
	}
	return nil, nil
}

func (r *fakeDraftRepo) ListByStatus(status string, limit int) ([]*domain.DraftRecord, error) {
	var out []*domain.DraftRecord
	for _, draft := range r.drafts {
		if status == "" || draft.Status == status {
			out = append(out, draft)
		}
	}
	return out, nil
}

func (r *fakeDraftRepo) Update(draft *domain.DraftRecord) error {
	return nil
}

type fakeGenerator struct {
	err      error
	calls    int
	requests []ai.ReplyRequest
}

func (g *fakeGenerator) GenerateReply(ctx context.Context, req ai.ReplyRequest) (*ai.ReplyDraft, error) {
	g.calls++
	g.requests = append(g.requests, req)
	if g.err != nil {
		return nil, g.err
	}
	return &ai.ReplyDraft{
		Subject: "Re: " + req.Subject,
		Body:    "Thanks for reaching out, we will follow up shortly.",
	}, nil
}

package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	crmusecase "salescrm-backend/internal/crm/usecase"
	"salescrm-backend/internal/mailbox/domain"
	"salescrm-backend/pkg/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncEnv struct {
	accounts    *fakeAccountRepo
	ledger      *fakeLedger
	provider    *fakeProvider
	creds       *fakeCreds
	contacts    *fakeContactRepo
	deals       *fakeDealRepo
	activities  *fakeActivityRepo
	drafts      *fakeDraftRepo
	generator   *fakeGenerator
	coordinator *SyncCoordinator
}

func newSyncEnv() *syncEnv {
	env := &syncEnv{
		accounts:   &fakeAccountRepo{},
		ledger:     &fakeLedger{},
		provider:   newFakeProvider(),
		creds:      &fakeCreds{},
		contacts:   &fakeContactRepo{},
		deals:      &fakeDealRepo{},
		activities: &fakeActivityRepo{},
		drafts:     &fakeDraftRepo{},
		generator:  &fakeGenerator{},
	}

	cfg := &config.Config{
		ImportLabel:        "CRM/Imported",
		ScheduledPageSize:  10,
		OnDemandPageSize:   25,
		OnDemandWindowDays: 7,
	}

	projector := crmusecase.NewProjector(env.contacts, env.deals, env.activities)
	orchestrator := NewDraftOrchestrator(env.drafts, env.accounts, env.generator, env.provider, env.creds, "professional")
	env.coordinator = NewSyncCoordinator(env.accounts, env.ledger, env.provider, env.creds, projector, orchestrator, cfg)
	return env
}

func (e *syncEnv) addAccount(email string) *domain.MailboxAccount {
	account := &domain.MailboxAccount{
		ID:       uuid.New().String(),
		Email:    email,
		Name:     email,
		IsActive: true,
	}
	e.accounts.accounts = append(e.accounts.accounts, account)
	return account
}

func inbound(id, fromName, fromEmail, subject, body string) *domain.InboundMessage {
	return &domain.InboundMessage{
		ID:         id,
		ThreadID:   "thread-" + id,
		FromName:   fromName,
		FromEmail:  fromEmail,
		Subject:    subject,
		Body:       body,
		ReceivedAt: time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC),
	}
}

func TestRunScheduledPassMixedInbox(t *testing.T) {
	env := newSyncEnv()
	account := env.addAccount("sales@example.com")
	env.provider.addMessage(account.ID, inbound("m1", "Jane Doe", "jane@acme.com", "Pricing?", "Hi, what does the enterprise tier cost?"))
	env.provider.addMessage(account.ID, inbound("m2", "", "noreply@billing.com", "Your invoice", "Amount due: $12"))

	summary, err := env.coordinator.RunScheduledPass(context.Background())
	require.NoError(t, err)
	require.Len(t, summary.Accounts, 1)

	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Empty(t, summary.Accounts[0].Error)

	// Both messages are ledgered; only the real lead carries CRM links.
	require.Len(t, env.ledger.records, 2)
	lead, err := env.ledger.FindByMessageID("m1")
	require.NoError(t, err)
	require.NotNil(t, lead)
	require.NotNil(t, lead.ContactID)
	require.NotNil(t, lead.DealID)

	filtered, err := env.ledger.FindByMessageID("m2")
	require.NoError(t, err)
	require.NotNil(t, filtered)
	assert.Nil(t, filtered.ContactID)
	assert.Nil(t, filtered.DealID)
	assert.Equal(t, "noreply@billing.com", filtered.FromEmail)

	// One contact, one deal, one activity, one pending draft for jane.
	require.Len(t, env.contacts.contacts, 1)
	assert.Equal(t, "jane@acme.com", env.contacts.contacts[0].Email)
	assert.Equal(t, "Jane Doe", env.contacts.contacts[0].Name)

	require.Len(t, env.deals.deals, 1)
	deal := env.deals.deals[0]
	assert.Equal(t, "Jane Doe (jane@acme.com)", deal.Title)
	assert.Equal(t, "new", deal.Stage)
	assert.Equal(t, 20, deal.Probability)
	require.NotNil(t, deal.NextFollowUpAt)

	require.Len(t, env.activities.activities, 1)
	assert.Equal(t, "Pricing?", env.activities.activities[0].Subject)

	require.Len(t, env.drafts.drafts, 1)
	assert.Equal(t, domain.DraftStatusPending, env.drafts.drafts[0].Status)
	assert.Equal(t, "Re: Pricing?", env.drafts.drafts[0].DraftSubject)

	// Both messages marked read, only the lead labeled.
	assert.ElementsMatch(t, []string{"m1", "m2"}, env.provider.markedRead)
	assert.Equal(t, []string{"m1"}, env.provider.labeled)

	require.NotNil(t, account.LastSyncAt)
}

func TestRunScheduledPassSecondPassSkipsEverything(t *testing.T) {
	env := newSyncEnv()
	account := env.addAccount("sales@example.com")
	env.provider.addMessage(account.ID, inbound("m1", "Jane Doe", "jane@acme.com", "Pricing?", "body"))
	env.provider.addMessage(account.ID, inbound("m2", "", "noreply@billing.com", "Invoice", "body"))

	_, err := env.coordinator.RunScheduledPass(context.Background())
	require.NoError(t, err)

	summary, err := env.coordinator.RunScheduledPass(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Processed)
	assert.Equal(t, 2, summary.Skipped)

	// No second round of side effects.
	assert.Len(t, env.ledger.records, 2)
	assert.Len(t, env.contacts.contacts, 1)
	assert.Len(t, env.deals.deals, 1)
	assert.Len(t, env.activities.activities, 1)
	assert.Len(t, env.drafts.drafts, 1)
	assert.Equal(t, 1, env.generator.calls)
}

func TestRunScheduledPassReusesDealForKnownContact(t *testing.T) {
	env := newSyncEnv()
	account := env.addAccount("sales@example.com")
	env.provider.addMessage(account.ID, inbound("m1", "Jane Doe", "jane@acme.com", "Pricing?", "first"))
	env.provider.addMessage(account.ID, inbound("m2", "Jane Doe", "JANE@ACME.COM", "Follow-up", "second"))

	summary, err := env.coordinator.RunScheduledPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Processed)

	assert.Len(t, env.contacts.contacts, 1)
	assert.Len(t, env.deals.deals, 1)
	assert.Len(t, env.activities.activities, 2)

	first, err := env.ledger.FindByMessageID("m1")
	require.NoError(t, err)
	second, err := env.ledger.FindByMessageID("m2")
	require.NoError(t, err)
	require.NotNil(t, first.DealID)
	require.NotNil(t, second.DealID)
	assert.Equal(t, *first.DealID, *second.DealID)
}

func TestRunScheduledPassIsolatesAccountFailures(t *testing.T) {
	env := newSyncEnv()
	a1 := env.addAccount("a1@example.com")
	a2 := env.addAccount("a2@example.com")
	a3 := env.addAccount("a3@example.com")
	env.provider.addMessage(a1.ID, inbound("m1", "Jane", "jane@acme.com", "Hello", "body"))
	env.provider.addMessage(a3.ID, inbound("m3", "Bob", "bob@initech.com", "Demo request", "body"))
	env.creds.fail = map[string]error{a2.ID: errors.New("token refresh failed")}

	summary, err := env.coordinator.RunScheduledPass(context.Background())
	require.NoError(t, err)
	require.Len(t, summary.Accounts, 3)

	assert.Equal(t, 2, summary.Processed)
	assert.Empty(t, summary.Accounts[0].Error)
	assert.Contains(t, summary.Accounts[1].Error, "token refresh failed")
	assert.Empty(t, summary.Accounts[2].Error)

	// The pass counts as attempted only where a token was resolved.
	assert.NotNil(t, a1.LastSyncAt)
	assert.Nil(t, a2.LastSyncAt)
	assert.NotNil(t, a3.LastSyncAt)
}

func TestRunScheduledPassDraftFailureKeepsMessageProcessed(t *testing.T) {
	env := newSyncEnv()
	account := env.addAccount("sales@example.com")
	env.provider.addMessage(account.ID, inbound("m1", "Jane", "jane@acme.com", "Pricing?", "body"))
	env.generator.err = errors.New("model overloaded")

	summary, err := env.coordinator.RunScheduledPass(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Processed)
	assert.Empty(t, summary.Accounts[0].Error)
	assert.Len(t, env.ledger.records, 1)
	assert.Len(t, env.activities.activities, 1)
	assert.Empty(t, env.drafts.drafts)
	assert.Equal(t, []string{"m1"}, env.provider.markedRead)
}

func TestRunScheduledPassFetchFailureAbortsRemainder(t *testing.T) {
	env := newSyncEnv()
	account := env.addAccount("sales@example.com")
	env.provider.addMessage(account.ID, inbound("m1", "Jane", "jane@acme.com", "Hello", "body"))
	env.provider.addMessage(account.ID, inbound("m2", "Bob", "bob@initech.com", "Hi", "body"))
	env.provider.fetchErr["m1"] = errors.New("gmail unavailable")

	summary, err := env.coordinator.RunScheduledPass(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Processed)
	assert.Contains(t, summary.Accounts[0].Error, "gmail unavailable")
	// Nothing ledgered, and the remainder of the page was not attempted.
	assert.Empty(t, env.ledger.records)
	assert.Empty(t, env.contacts.contacts)
}

func TestRunScheduledPassListingFailureStillRecordsAttempt(t *testing.T) {
	env := newSyncEnv()
	account := env.addAccount("sales@example.com")
	env.provider.listErr[account.ID] = errors.New("quota exceeded")

	summary, err := env.coordinator.RunScheduledPass(context.Background())
	require.NoError(t, err)

	assert.Contains(t, summary.Accounts[0].Error, "quota exceeded")
	assert.NotNil(t, account.LastSyncAt)
}

func TestRunScheduledPassNoAccounts(t *testing.T) {
	env := newSyncEnv()

	summary, err := env.coordinator.RunScheduledPass(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Processed)
	assert.Equal(t, 0, summary.Skipped)
	assert.Empty(t, summary.Accounts)
}

func TestIsNoReplySender(t *testing.T) {
	cases := []struct {
		email    string
		filtered bool
	}{
		{"noreply@billing.com", true},
		{"no-reply@github.com", true},
		{"DoNotReply@corp.example.com", true},
		{"mailer-daemon@googlemail.com", true},
		{"notifications@slack.com", true},
		{"postmaster@example.com", true},
		{"alert@pagerduty.example", true},
		{"jane@acme.com", false},
		{"reply@customer.example.com", false},
	}

	for _, tc := range cases {
		t.Run(tc.email, func(t *testing.T) {
			assert.Equal(t, tc.filtered, isNoReplySender(tc.email))
		})
	}
}

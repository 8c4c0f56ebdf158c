package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"salescrm-backend/internal/mailbox/domain"
	"salescrm-backend/internal/mailbox/repository"
	"salescrm-backend/pkg/config"
)

// providerCallTimeout bounds every provider API call so one stuck account
// cannot stall a scheduled run past its next trigger.
const providerCallTimeout = 30 * time.Second

// Sender substrings that mark a message as automated. Matching messages are
// ledgered without CRM projection or drafting.
var noReplyMarkers = []string{
	"noreply", "no-reply", "donotreply", "do-not-reply",
	"mailer-daemon", "postmaster", "notifications", "alert",
	"system", "automated",
}

type messageOutcome int

const (
	outcomeProcessed messageOutcome = iota
	outcomeSkippedDuplicate
	outcomeSkippedFiltered
)

// AccountSyncResult is the per-account fold of one pass.
type AccountSyncResult struct {
	Email     string `json:"email"`
	Processed int    `json:"processed"`
	Skipped   int    `json:"skipped"`
	Error     string `json:"error,omitempty"`
}

// SyncSummary is the envelope returned by every pass. The pass itself never
// fails: per-account errors land in the Accounts entries. An empty Accounts
// slice means no mailbox is connected.
type SyncSummary struct {
	Processed int                 `json:"processed"`
	Skipped   int                 `json:"skipped"`
	Accounts  []AccountSyncResult `json:"accounts"`
}

// SyncCoordinator runs one sync pass over all active accounts: list
// candidates, skip already-processed and no-reply messages, project the
// rest into the CRM, and hand them to the draft orchestrator. One account's
// failure never aborts its siblings.
type SyncCoordinator struct {
	accountRepo repository.AccountRepository
	ledger      repository.ProcessedMessageRepository
	provider    MailProvider
	creds       CredentialSource
	projector   CRMProjector
	drafts      DraftCreator
	importLabel string

	scheduledOpts domain.ListOptions
	onDemandOpts  domain.ListOptions
}

// NewSyncCoordinator creates a new instance of SyncCoordinator
func NewSyncCoordinator(accountRepo repository.AccountRepository, ledger repository.ProcessedMessageRepository, provider MailProvider, creds CredentialSource, projector CRMProjector, drafts DraftCreator, cfg *config.Config) *SyncCoordinator {
	return &SyncCoordinator{
		accountRepo: accountRepo,
		ledger:      ledger,
		provider:    provider,
		creds:       creds,
		projector:   projector,
		drafts:      drafts,
		importLabel: cfg.ImportLabel,
		scheduledOpts: domain.ListOptions{
			MaxResults: int64(cfg.ScheduledPageSize),
			OnlyUnread: true,
		},
		onDemandOpts: domain.ListOptions{
			MaxResults:    int64(cfg.OnDemandPageSize),
			NewerThanDays: cfg.OnDemandWindowDays,
		},
	}
}

// RunScheduledPass is the recurring low-latency pass: unread only, small
// page size.
func (c *SyncCoordinator) RunScheduledPass(ctx context.Context) (*SyncSummary, error) {
	return c.runPass(ctx, c.scheduledOpts)
}

// RunOnDemandPass widens the window to recent messages regardless of read
// state, with a larger page size.
func (c *SyncCoordinator) RunOnDemandPass(ctx context.Context) (*SyncSummary, error) {
	return c.runPass(ctx, c.onDemandOpts)
}

func (c *SyncCoordinator) runPass(ctx context.Context, opts domain.ListOptions) (*SyncSummary, error) {
	accounts, err := c.accountRepo.ListActive()
	if err != nil {
		return nil, err
	}

	summary := &SyncSummary{Accounts: make([]AccountSyncResult, 0, len(accounts))}

	for _, account := range accounts {
		result := c.syncAccount(ctx, account, opts)
		summary.Processed += result.Processed
		summary.Skipped += result.Skipped
		summary.Accounts = append(summary.Accounts, result)
	}

	return summary, nil
}

func (c *SyncCoordinator) syncAccount(ctx context.Context, account *domain.MailboxAccount, opts domain.ListOptions) AccountSyncResult {
	result := AccountSyncResult{Email: account.Email}

	token, err := c.creds.ValidAccessToken(ctx, account)
	if err != nil {
		log.Printf("[Sync] Skipping account %s: %v", account.Email, err)
		result.Error = err.Error()
		return result
	}

	ids, err := c.listCandidates(ctx, token, account, opts)
	if err != nil {
		log.Printf("[Sync] Listing failed for %s: %v", account.Email, err)
		result.Error = err.Error()
	} else {
		for _, id := range ids {
			outcome, err := c.processMessage(ctx, token, account, id)
			if err != nil {
				// Account-fatal for the remainder of this pass; messages
				// already handled stay committed.
				log.Printf("[Sync] Aborting pass for %s at message %s: %v", account.Email, id, err)
				result.Error = err.Error()
				break
			}
			switch outcome {
			case outcomeProcessed:
				result.Processed++
			case outcomeSkippedDuplicate, outcomeSkippedFiltered:
				result.Skipped++
			}
		}
	}

	// Token resolution succeeded, so the pass counts as attempted even if
	// some messages failed.
	now := time.Now()
	account.LastSyncAt = &now
	if err := c.accountRepo.Update(account); err != nil {
		log.Printf("[Sync] Failed to update last-sync time for %s: %v", account.Email, err)
	}

	return result
}

func (c *SyncCoordinator) listCandidates(ctx context.Context, token string, account *domain.MailboxAccount, opts domain.ListOptions) ([]string, error) {
	tctx, cancel := context.WithTimeout(ctx, providerCallTimeout)
	defer cancel()
	return c.provider.ListCandidateMessages(tctx, token, account, opts)
}

// processMessage drives one message through the per-message state machine:
// duplicate check, no-reply filter, CRM projection, ledger write, draft
// generation, then the best-effort read/label side effects. The ledger is
// the sole authority on "already handled"; mark-read and labeling are
// organizational only.
func (c *SyncCoordinator) processMessage(ctx context.Context, token string, account *domain.MailboxAccount, messageID string) (messageOutcome, error) {
	processed, err := c.ledger.IsProcessed(messageID)
	if err != nil {
		return 0, err
	}
	if processed {
		return outcomeSkippedDuplicate, nil
	}

	fctx, cancel := context.WithTimeout(ctx, providerCallTimeout)
	msg, err := c.provider.FetchMessage(fctx, token, messageID)
	cancel()
	if err != nil {
		return 0, err
	}

	if isNoReplySender(msg.FromEmail) {
		c.bestEffort("mark read", msg.ID, func() error {
			return c.markRead(ctx, token, msg.ID)
		})
		record := &domain.ProcessedMessage{
			AccountID:      account.ID,
			GmailMessageID: msg.ID,
			FromEmail:      msg.FromEmail,
			Subject:        msg.Subject,
		}
		if err := c.ledger.Create(record); err != nil {
			return 0, err
		}
		log.Printf("[Sync] Filtered automated sender %s (message %s)", msg.FromEmail, msg.ID)
		return outcomeSkippedFiltered, nil
	}

	// Projection order: contact before deal, activity after both.
	contact, err := c.projector.ResolveContact(msg)
	if err != nil {
		return 0, err
	}
	deal, err := c.projector.ResolveOrCreateDeal(contact, account, msg)
	if err != nil {
		return 0, err
	}
	if err := c.projector.LogActivity(deal, contact, msg); err != nil {
		return 0, err
	}

	record := &domain.ProcessedMessage{
		AccountID:      account.ID,
		GmailMessageID: msg.ID,
		FromEmail:      msg.FromEmail,
		Subject:        msg.Subject,
		ContactID:      &contact.ID,
		DealID:         &deal.ID,
	}
	if err := c.ledger.Create(record); err != nil {
		return 0, err
	}

	// Draft generation is message-local: the lead is already visible in
	// the CRM even when no draft could be produced.
	if _, err := c.drafts.CreateDraft(ctx, account, record, msg, contact, deal); err != nil {
		log.Printf("[Sync] Draft generation failed for message %s: %v", msg.ID, err)
	}

	c.bestEffort("mark read", msg.ID, func() error {
		return c.markRead(ctx, token, msg.ID)
	})
	if c.importLabel != "" {
		c.bestEffort("apply label", msg.ID, func() error {
			lctx, cancel := context.WithTimeout(ctx, providerCallTimeout)
			defer cancel()
			return c.provider.EnsureLabelApplied(lctx, token, msg.ID, c.importLabel)
		})
	}

	return outcomeProcessed, nil
}

func (c *SyncCoordinator) markRead(ctx context.Context, token, messageID string) error {
	mctx, cancel := context.WithTimeout(ctx, providerCallTimeout)
	defer cancel()
	return c.provider.MarkRead(mctx, token, messageID)
}

// bestEffort runs a side effect whose failure must never escalate.
func (c *SyncCoordinator) bestEffort(what, messageID string, fn func() error) {
	if err := fn(); err != nil {
		log.Printf("[Sync] Best-effort %s failed for message %s: %v", what, messageID, err)
	}
}

func isNoReplySender(email string) bool {
	lower := strings.ToLower(email)
	for _, marker := range noReplyMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

package delivery

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"salescrm-backend/internal/mailbox/repository"
	"salescrm-backend/internal/mailbox/usecase"
	"salescrm-backend/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MailboxHandler exposes the account lifecycle, the on-demand sync trigger,
// and the draft review surface.
type MailboxHandler struct {
	creds       *usecase.CredentialManager
	coordinator *usecase.SyncCoordinator
	drafts      *usecase.DraftOrchestrator
	accountRepo repository.AccountRepository
	ledgerRepo  repository.ProcessedMessageRepository
	config      *config.Config

	// Pending OAuth states for the connect flow.
	statesMu sync.Mutex
	states   map[string]time.Time
}

func NewMailboxHandler(creds *usecase.CredentialManager, coordinator *usecase.SyncCoordinator, drafts *usecase.DraftOrchestrator, accountRepo repository.AccountRepository, ledgerRepo repository.ProcessedMessageRepository, cfg *config.Config) *MailboxHandler {
	return &MailboxHandler{
		creds:       creds,
		coordinator: coordinator,
		drafts:      drafts,
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		config:      cfg,
		states:      map[string]time.Time{},
	}
}

func (h *MailboxHandler) googleConfigured() bool {
	return h.config.GoogleClientID != "" && h.config.GoogleClientSecret != ""
}

// Connect returns the Google consent URL for connecting a new mailbox.
func (h *MailboxHandler) Connect(c *gin.Context) {
	if !h.googleConfigured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google OAuth is not configured (GOOGLE_CLIENT_ID / GOOGLE_CLIENT_SECRET)"})
		return
	}

	state := uuid.New().String()

	h.statesMu.Lock()
	now := time.Now()
	h.states[state] = now.Add(5 * time.Minute)
	for s, exp := range h.states {
		if exp.Before(now) {
			delete(h.states, s)
		}
	}
	h.statesMu.Unlock()

	c.JSON(http.StatusOK, gin.H{"auth_url": h.creds.AuthURL(state)})
}

func (h *MailboxHandler) consumeState(state string) bool {
	if state == "" {
		return false
	}
	h.statesMu.Lock()
	defer h.statesMu.Unlock()
	expiry, exists := h.states[state]
	if !exists {
		return false
	}
	delete(h.states, state)
	return time.Now().Before(expiry)
}

// ConnectCallback handles the OAuth redirect: validates state, exchanges
// the code, and upserts the account.
func (h *MailboxHandler) ConnectCallback(c *gin.Context) {
	if !h.consumeState(c.Query("state")) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired state parameter"})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing authorization code"})
		return
	}

	account, err := h.creds.ConnectAccount(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, account)
}

func (h *MailboxHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.accountRepo.ListAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

func (h *MailboxHandler) DisconnectAccount(c *gin.Context) {
	id := c.Param("id")
	if err := h.creds.Disconnect(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "account disconnected"})
}

// SyncNow runs the on-demand pass and surfaces the summary directly.
func (h *MailboxHandler) SyncNow(c *gin.Context) {
	if !h.googleConfigured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google OAuth is not configured (GOOGLE_CLIENT_ID / GOOGLE_CLIENT_SECRET)"})
		return
	}

	summary, err := h.coordinator.RunOnDemandPass(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if len(summary.Accounts) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"message": "no mailbox accounts connected",
			"summary": summary,
		})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ListProcessedMessages shows the ledger for one account, newest first.
func (h *MailboxHandler) ListProcessedMessages(c *gin.Context) {
	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	records, err := h.ledgerRepo.ListByAccount(c.Param("id"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": records})
}

func (h *MailboxHandler) ListDrafts(c *gin.Context) {
	status := c.DefaultQuery("status", "pending")
	if status == "all" {
		status = ""
	}

	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	drafts, err := h.drafts.ListDrafts(status, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"drafts": drafts})
}

func (h *MailboxHandler) SendDraft(c *gin.Context) {
	draft, err := h.drafts.SendDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, draft)
}

func (h *MailboxHandler) DiscardDraft(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	draft, err := h.drafts.DiscardDraft(c.Param("id"), req.Reason)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, draft)
}

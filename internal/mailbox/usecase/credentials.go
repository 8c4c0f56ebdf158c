package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"salescrm-backend/internal/mailbox/domain"
	"salescrm-backend/internal/mailbox/repository"
	"salescrm-backend/pkg/config"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailapi "google.golang.org/api/gmail/v1"
)

// Tokens within this margin of expiry are refreshed before use, so a token
// cannot expire mid-pass.
const tokenExpiryMargin = 5 * time.Minute

// ProfileFetcher resolves the email address behind an access token.
type ProfileFetcher interface {
	Profile(ctx context.Context, accessToken string) (email string, err error)
}

// CredentialManager owns the OAuth credential lifecycle for mailbox
// accounts: connect, refresh, disconnect. Refresh failure deactivates the
// account until the holder re-authorizes.
type CredentialManager struct {
	accountRepo repository.AccountRepository
	profiles    ProfileFetcher
	oauthCfg    *oauth2.Config
}

// NewCredentialManager creates a new instance of CredentialManager
func NewCredentialManager(accountRepo repository.AccountRepository, profiles ProfileFetcher, cfg *config.Config) *CredentialManager {
	return &CredentialManager{
		accountRepo: accountRepo,
		profiles:    profiles,
		oauthCfg: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURI,
			Endpoint:     google.Endpoint,
			Scopes: []string{
				gmailapi.GmailModifyScope,
				gmailapi.GmailSendScope,
				gmailapi.GmailLabelsScope,
				"https://www.googleapis.com/auth/userinfo.email",
			},
		},
	}
}

// AuthURL returns the Google consent URL for connecting a new mailbox.
// prompt=consent forces Google to reissue a refresh token on reconnect.
func (m *CredentialManager) AuthURL(state string) string {
	return m.oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
}

// ConnectAccount exchanges an authorization code, resolves the mailbox
// address behind it, and upserts the account row. Reconnecting an existing
// address reactivates the row rather than creating a duplicate.
func (m *CredentialManager) ConnectAccount(ctx context.Context, code string) (*domain.MailboxAccount, error) {
	token, err := m.oauthCfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %v", err)
	}

	email, err := m.profiles.Profile(ctx, token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("unable to resolve mailbox address: %v", err)
	}

	account, err := m.accountRepo.Upsert(&domain.MailboxAccount{
		Email:        email,
		Name:         email,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenExpiry:  token.Expiry,
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[Accounts] Connected mailbox %s", account.Email)
	return account, nil
}

// ValidAccessToken returns a bearer token usable for the whole of one sync
// pass. A stored token outside the expiry margin is returned as-is;
// otherwise the refresh token is exchanged synchronously and the new
// credentials persisted. On refresh failure the account is deactivated and
// the caller must skip it for this pass.
func (m *CredentialManager) ValidAccessToken(ctx context.Context, account *domain.MailboxAccount) (string, error) {
	if account.AccessToken != "" && time.Until(account.TokenExpiry) > tokenExpiryMargin {
		return account.AccessToken, nil
	}

	if account.RefreshToken == "" {
		m.deactivate(account)
		return "", errors.New("no refresh token on file; account needs to be reconnected")
	}

	tokenSource := m.oauthCfg.TokenSource(ctx, &oauth2.Token{
		RefreshToken: account.RefreshToken,
	})

	token, err := tokenSource.Token()
	if err != nil {
		m.deactivate(account)
		return "", fmt.Errorf("token refresh failed: %v", err)
	}

	account.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		account.RefreshToken = token.RefreshToken
	}
	account.TokenExpiry = token.Expiry
	if err := m.accountRepo.Update(account); err != nil {
		return "", fmt.Errorf("unable to persist refreshed token: %v", err)
	}

	return token.AccessToken, nil
}

func (m *CredentialManager) deactivate(account *domain.MailboxAccount) {
	if err := m.accountRepo.Deactivate(account.ID); err != nil {
		log.Printf("[Accounts] Failed to deactivate account %s: %v", account.Email, err)
		return
	}
	account.IsActive = false
	log.Printf("[Accounts] Deactivated account %s until re-authorization", account.Email)
}

// Disconnect soft-deletes the account. History (ledger, drafts, deals)
// stays in place.
func (m *CredentialManager) Disconnect(accountID string) error {
	account, err := m.accountRepo.FindByID(accountID)
	if err != nil {
		return err
	}
	if account == nil {
		return errors.New("account not found")
	}
	return m.accountRepo.Deactivate(accountID)
}

// ReconcileLegacyAccount migrates the old settings-based single-account
// credentials into the accounts table. Runs once at startup; a no-op when
// the legacy env vars are unset or the address already has a row.
func (m *CredentialManager) ReconcileLegacyAccount(cfg *config.Config) error {
	if cfg.LegacyGmailAddress == "" || cfg.LegacyGmailRefreshToken == "" {
		return nil
	}

	existing, err := m.accountRepo.FindByEmail(cfg.LegacyGmailAddress)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	// Zero expiry forces a refresh on first use.
	_, err = m.accountRepo.Upsert(&domain.MailboxAccount{
		Email:        cfg.LegacyGmailAddress,
		Name:         cfg.LegacyGmailAddress,
		RefreshToken: cfg.LegacyGmailRefreshToken,
	})
	if err != nil {
		return err
	}

	log.Printf("[Accounts] Migrated legacy credentials for %s", cfg.LegacyGmailAddress)
	return nil
}

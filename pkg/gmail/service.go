package gmail

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
	"time"

	mailboxdomain "salescrm-backend/internal/mailbox/domain"

	"github.com/emersion/go-message/mail"
	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const user = "me"

// Service is the Gmail-backed mailbox client. Every call takes an access
// token that the credential store has already validated/refreshed, so no
// token plumbing happens at this layer.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

func (s *Service) gmailService(ctx context.Context, accessToken string) (*gmail.Service, error) {
	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	})

	srv, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %v", err)
	}
	return srv, nil
}

// Profile returns the email address of the mailbox behind the token.
func (s *Service) Profile(ctx context.Context, accessToken string) (string, error) {
	srv, err := s.gmailService(ctx, accessToken)
	if err != nil {
		return "", err
	}

	profile, err := srv.Users.GetProfile(user).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to retrieve profile: %v", err)
	}
	return strings.ToLower(profile.EmailAddress), nil
}

// ListCandidateMessages returns the IDs of messages matching the account's
// filter configuration and the given options. Provider default ordering
// (most-recent-first) is assumed but not relied upon.
func (s *Service) ListCandidateMessages(ctx context.Context, accessToken string, account *mailboxdomain.MailboxAccount, opts mailboxdomain.ListOptions) ([]string, error) {
	srv, err := s.gmailService(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	var parts []string
	if opts.OnlyUnread {
		parts = append(parts, "is:unread")
	}
	if opts.NewerThanDays > 0 {
		parts = append(parts, fmt.Sprintf("newer_than:%dd", opts.NewerThanDays))
	}
	if account.LabelFilter != "" {
		parts = append(parts, "label:"+account.LabelFilter)
	}
	q := strings.Join(parts, " ")

	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}
	if maxResults > 500 {
		maxResults = 500 // Gmail API maximum
	}

	listQuery := srv.Users.Messages.List(user).MaxResults(maxResults).Context(ctx)
	if q != "" {
		listQuery = listQuery.Q(q)
	}

	resp, err := listQuery.Do()
	if err != nil {
		return nil, fmt.Errorf("unable to list messages: %v", err)
	}

	ids := make([]string, 0, len(resp.Messages))
	for _, msg := range resp.Messages {
		ids = append(ids, msg.Id)
	}
	return ids, nil
}

// FetchMessage retrieves one message and normalizes it: From header split
// into display name and lower-cased address, body extracted per the
// plain-text-first rule.
func (s *Service) FetchMessage(ctx context.Context, accessToken, messageID string) (*mailboxdomain.InboundMessage, error) {
	srv, err := s.gmailService(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	msg, err := srv.Users.Messages.Get(user, messageID).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve message: %v", err)
	}

	fromName, fromEmail := parseFromHeader(getHeader(msg.Payload.Headers, "From"))

	return &mailboxdomain.InboundMessage{
		ID:         msg.Id,
		ThreadID:   msg.ThreadId,
		FromName:   fromName,
		FromEmail:  fromEmail,
		Subject:    getHeader(msg.Payload.Headers, "Subject"),
		Body:       extractBody(msg.Payload),
		ReceivedAt: time.Unix(msg.InternalDate/1000, 0),
	}, nil
}

// MarkRead clears the unread marker. Idempotent.
func (s *Service) MarkRead(ctx context.Context, accessToken, messageID string) error {
	srv, err := s.gmailService(ctx, accessToken)
	if err != nil {
		return err
	}

	modifyReq := &gmail.ModifyMessageRequest{
		RemoveLabelIds: []string{"UNREAD"},
	}

	_, err = srv.Users.Messages.Modify(user, messageID, modifyReq).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to mark message as read: %v", err)
	}

	return nil
}

// EnsureLabelApplied looks up the label by name, creates it if absent, and
// applies it to the message. Purely an organizational aid for the inbox
// owner; callers treat failures as best-effort.
func (s *Service) EnsureLabelApplied(ctx context.Context, accessToken, messageID, labelName string) error {
	srv, err := s.gmailService(ctx, accessToken)
	if err != nil {
		return err
	}

	labelsResp, err := srv.Users.Labels.List(user).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to retrieve labels: %v", err)
	}

	labelID := ""
	for _, label := range labelsResp.Labels {
		if strings.EqualFold(label.Name, labelName) {
			labelID = label.Id
			break
		}
	}

	if labelID == "" {
		created, err := srv.Users.Labels.Create(user, &gmail.Label{
			Name:                  labelName,
			LabelListVisibility:   "labelShow",
			MessageListVisibility: "show",
		}).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("unable to create label %q: %v", labelName, err)
		}
		labelID = created.Id
	}

	modifyReq := &gmail.ModifyMessageRequest{
		AddLabelIds: []string{labelID},
	}

	_, err = srv.Users.Messages.Modify(user, messageID, modifyReq).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to apply label: %v", err)
	}

	return nil
}

// SendReply sends a reply draft from the connected account, threading it
// onto the original conversation when a thread ID is available.
func (s *Service) SendReply(ctx context.Context, accessToken string, account *mailboxdomain.MailboxAccount, draft *mailboxdomain.DraftRecord) error {
	srv, err := s.gmailService(ctx, accessToken)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	var header mail.Header
	header.SetDate(time.Now())
	header.SetAddressList("From", []*mail.Address{{Name: account.Name, Address: account.Email}})
	header.SetAddressList("To", []*mail.Address{{Name: draft.FromName, Address: draft.FromEmail}})
	header.SetSubject(draft.DraftSubject)

	mw, err := mail.CreateSingleInlineWriter(&buf, header)
	if err != nil {
		return fmt.Errorf("unable to build reply message: %v", err)
	}
	if _, err := io.WriteString(mw, draft.DraftBody); err != nil {
		_ = mw.Close()
		return fmt.Errorf("unable to write reply body: %v", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("unable to finalize reply message: %v", err)
	}

	msg := &gmail.Message{
		Raw:      base64.URLEncoding.EncodeToString(buf.Bytes()),
		ThreadId: draft.ThreadID,
	}

	_, err = srv.Users.Messages.Send(user, msg).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to send message: %v", err)
	}

	return nil
}

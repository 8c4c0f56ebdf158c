package ai

import "context"

// ReplyRequest carries the inbound message plus whatever CRM context is
// available at generation time.
type ReplyRequest struct {
	FromName       string
	FromEmail      string
	Subject        string
	Body           string
	ContactName    string
	ContactCompany string
	DealTitle      string
	DealStage      string
	Tone           string
}

// ReplyDraft is the structured generation result.
type ReplyDraft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// DraftGenerator is the interface for reply-draft generation.
// Implement this interface to add new AI providers.
type DraftGenerator interface {
	GenerateReply(ctx context.Context, req ReplyRequest) (*ReplyDraft, error)
}

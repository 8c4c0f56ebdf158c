package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// GeminiService generates reply drafts via the Gemini REST API.
type GeminiService struct {
	ApiKey string
	client *http.Client
}

func NewGeminiService(apiKey string) *GeminiService {
	return &GeminiService{
		ApiKey: apiKey,
		// Generation calls are the slowest upstream dependency; a stuck
		// call must not stall a sync pass past its next trigger.
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

func (g *GeminiService) GenerateReply(ctx context.Context, req ReplyRequest) (*ReplyDraft, error) {
	url := "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash:generateContent?key=" + g.ApiKey

	body := req.Body
	if len(body) > 2000 {
		body = body[:2000]
	}

	tone := req.Tone
	if tone == "" {
		tone = "professional"
	}

	crmContext := ""
	if req.ContactName != "" {
		crmContext += "Contact: " + req.ContactName
		if req.ContactCompany != "" {
			crmContext += " (" + req.ContactCompany + ")"
		}
		crmContext += "\n"
	}
	if req.DealTitle != "" {
		crmContext += fmt.Sprintf("Open deal: %s (stage: %s)\n", req.DealTitle, req.DealStage)
	}

	prompt := fmt.Sprintf(`You are a sales assistant drafting a reply to an inbound email.
Write a %s reply the salesperson can send with minimal editing.

GUIDELINES:
- Address the sender by name when known
- Answer what was asked; do not invent pricing or commitments
- Close with a concrete next step (a call or a meeting)
- Respond with ONLY a JSON object: {"subject": "...", "body": "..."}

%sEMAIL FROM: %s <%s>
SUBJECT: %s

%s

REPLY:`, tone, crmContext, req.FromName, req.FromEmail, req.Subject, body)

	payload := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	}

	reqBody, _ := json.Marshal(payload)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Gemini API error: %s", string(respBody))
	}

	var result map[string]interface{}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, err
	}

	text := extractCandidateText(result)
	if text == "" {
		return nil, fmt.Errorf("no draft returned")
	}

	return DecodeReply(req.Subject, text), nil
}

func extractCandidateText(result map[string]interface{}) string {
	if c, ok := result["candidates"].([]interface{}); ok && len(c) > 0 {
		if cand, ok := c[0].(map[string]interface{}); ok {
			if content, ok := cand["content"].(map[string]interface{}); ok {
				if parts, ok := content["parts"].([]interface{}); ok && len(parts) > 0 {
					if part, ok := parts[0].(map[string]interface{}); ok {
						if text, ok := part["text"].(string); ok {
							return text
						}
					}
				}
			}
		}
	}
	return ""
}

// DecodeReply parses the model output into a subject/body pair. Models
// sometimes wrap JSON in markdown fences or return prose; an unparseable
// response falls back to "Re: <subject>" with the raw text as the body so
// generation never fails on response shape alone.
func DecodeReply(originalSubject, raw string) *ReplyDraft {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var draft ReplyDraft
	if err := json.Unmarshal([]byte(text), &draft); err == nil && draft.Body != "" {
		if draft.Subject == "" {
			draft.Subject = replySubject(originalSubject)
		}
		return &draft
	}

	return &ReplyDraft{
		Subject: replySubject(originalSubject),
		Body:    strings.TrimSpace(raw),
	}
}

func replySubject(subject string) string {
	if strings.HasPrefix(strings.ToLower(subject), "re:") {
		return subject
	}
	return "Re: " + subject
}

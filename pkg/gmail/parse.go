package gmail

import (
	"encoding/base64"
	"regexp"
	"strings"

	"google.golang.org/api/gmail/v1"
)

var htmlTagRe = regexp.MustCompile(`<[^>]*>`)

func getHeader(headers []*gmail.MessagePartHeader, name string) string {
	for _, header := range headers {
		if strings.EqualFold(header.Name, name) {
			return header.Value
		}
	}
	return ""
}

// parseFromHeader splits "Name <addr@example.com>" into display name and
// normalized (lower-cased) address. A bare address yields an empty name.
func parseFromHeader(from string) (name, email string) {
	from = strings.TrimSpace(from)
	if from == "" {
		return "", ""
	}

	if idx := strings.Index(from, "<"); idx >= 0 {
		name = strings.Trim(strings.TrimSpace(from[:idx]), `"`)
		email = strings.TrimSpace(strings.TrimSuffix(from[idx+1:], ">"))
		if end := strings.Index(email, ">"); end >= 0 {
			email = email[:end]
		}
	} else {
		email = from
	}

	email = strings.ToLower(email)
	if name == "" {
		// Use the mailbox part of the address as a display name fallback.
		if at := strings.Index(email, "@"); at > 0 {
			name = email[:at]
		}
	}
	return name, email
}

// extractBody returns the plain-text body of a message, falling back to the
// HTML part with tags stripped, falling back to the empty string.
func extractBody(payload *gmail.MessagePart) string {
	if payload == nil {
		return ""
	}

	// Single-part message: the payload itself carries the body.
	if payload.Body != nil && payload.Body.Data != "" {
		if data, err := base64.URLEncoding.DecodeString(payload.Body.Data); err == nil {
			if payload.MimeType == "text/html" {
				return stripHTML(string(data))
			}
			return string(data)
		}
	}

	var plainBody string
	var htmlBody string

	var findBody func(parts []*gmail.MessagePart)
	findBody = func(parts []*gmail.MessagePart) {
		for _, part := range parts {
			if part.Body != nil && part.Body.Data != "" {
				data, err := base64.URLEncoding.DecodeString(part.Body.Data)
				if err == nil {
					switch part.MimeType {
					case "text/plain":
						if plainBody == "" {
							plainBody = string(data)
						}
					case "text/html":
						if htmlBody == "" {
							htmlBody = string(data)
						}
					}
				}
			}
			if len(part.Parts) > 0 {
				findBody(part.Parts)
			}
		}
	}
	findBody(payload.Parts)

	if plainBody != "" {
		return plainBody
	}
	if htmlBody != "" {
		return stripHTML(htmlBody)
	}
	return ""
}

func stripHTML(html string) string {
	text := htmlTagRe.ReplaceAllString(html, " ")
	text = strings.ReplaceAll(text, "&nbsp;", " ")
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")
	text = strings.ReplaceAll(text, "&amp;", "&")
	text = strings.ReplaceAll(text, "&quot;", "\"")
	text = strings.ReplaceAll(text, "&#39;", "'")

	// Collapse runs of whitespace left behind by removed tags
	return strings.Join(strings.Fields(text), " ")
}

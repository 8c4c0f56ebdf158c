package gmail

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	gmailapi "google.golang.org/api/gmail/v1"
)

func TestParseFromHeader(t *testing.T) {
	cases := []struct {
		name      string
		from      string
		wantName  string
		wantEmail string
	}{
		{
			name:      "display name with address",
			from:      "Jane Doe <Jane@Acme.com>",
			wantName:  "Jane Doe",
			wantEmail: "jane@acme.com",
		},
		{
			name:      "quoted display name",
			from:      `"Doe, Jane" <jane@acme.com>`,
			wantName:  "Doe, Jane",
			wantEmail: "jane@acme.com",
		},
		{
			name:      "bare address falls back to mailbox part",
			from:      "jane@acme.com",
			wantName:  "jane",
			wantEmail: "jane@acme.com",
		},
		{
			name:      "address in brackets without name",
			from:      "<noreply@billing.com>",
			wantName:  "noreply",
			wantEmail: "noreply@billing.com",
		},
		{
			name:      "surrounding whitespace",
			from:      "  Bob <bob@initech.com>  ",
			wantName:  "Bob",
			wantEmail: "bob@initech.com",
		},
		{
			name:      "empty header",
			from:      "",
			wantName:  "",
			wantEmail: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			name, email := parseFromHeader(tc.from)
			assert.Equal(t, tc.wantName, name)
			assert.Equal(t, tc.wantEmail, email)
		})
	}
}

func encodePart(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func TestExtractBody(t *testing.T) {
	t.Run("single-part plain text", func(t *testing.T) {
		payload := &gmailapi.MessagePart{
			MimeType: "text/plain",
			Body:     &gmailapi.MessagePartBody{Data: encodePart("Hello there")},
		}
		assert.Equal(t, "Hello there", extractBody(payload))
	})

	t.Run("single-part html is stripped", func(t *testing.T) {
		payload := &gmailapi.MessagePart{
			MimeType: "text/html",
			Body:     &gmailapi.MessagePartBody{Data: encodePart("<p>Hello <b>there</b></p>")},
		}
		assert.Equal(t, "Hello there", extractBody(payload))
	})

	t.Run("multipart prefers plain text over html", func(t *testing.T) {
		payload := &gmailapi.MessagePart{
			MimeType: "multipart/alternative",
			Parts: []*gmailapi.MessagePart{
				{
					MimeType: "text/html",
					Body:     &gmailapi.MessagePartBody{Data: encodePart("<p>html version</p>")},
				},
				{
					MimeType: "text/plain",
					Body:     &gmailapi.MessagePartBody{Data: encodePart("plain version")},
				},
			},
		}
		assert.Equal(t, "plain version", extractBody(payload))
	})

	t.Run("html-only multipart falls back to stripped html", func(t *testing.T) {
		payload := &gmailapi.MessagePart{
			MimeType: "multipart/alternative",
			Parts: []*gmailapi.MessagePart{
				{
					MimeType: "text/html",
					Body:     &gmailapi.MessagePartBody{Data: encodePart("<div>Pricing &amp; terms</div>")},
				},
			},
		}
		assert.Equal(t, "Pricing & terms", extractBody(payload))
	})

	t.Run("nested multipart", func(t *testing.T) {
		payload := &gmailapi.MessagePart{
			MimeType: "multipart/mixed",
			Parts: []*gmailapi.MessagePart{
				{
					MimeType: "multipart/alternative",
					Parts: []*gmailapi.MessagePart{
						{
							MimeType: "text/plain",
							Body:     &gmailapi.MessagePartBody{Data: encodePart("nested plain")},
						},
					},
				},
			},
		}
		assert.Equal(t, "nested plain", extractBody(payload))
	})

	t.Run("no body", func(t *testing.T) {
		assert.Equal(t, "", extractBody(nil))
		assert.Equal(t, "", extractBody(&gmailapi.MessagePart{MimeType: "multipart/mixed"}))
	})
}

func TestStripHTML(t *testing.T) {
	cases := []struct {
		name string
		html string
		want string
	}{
		{
			name: "tags removed and whitespace collapsed",
			html: "<html><body>\n  <p>Hello</p>\n  <p>World</p>\n</body></html>",
			want: "Hello World",
		},
		{
			name: "entities decoded",
			html: "A&nbsp;&lt;tag&gt; &amp; &quot;quotes&quot; &#39;here&#39;",
			want: `A <tag> & "quotes" 'here'`,
		},
		{
			name: "plain text passes through",
			html: "no markup at all",
			want: "no markup at all",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, stripHTML(tc.html))
		})
	}
}

func TestGetHeader(t *testing.T) {
	headers := []*gmailapi.MessagePartHeader{
		{Name: "From", Value: "jane@acme.com"},
		{Name: "Subject", Value: "Pricing?"},
	}

	assert.Equal(t, "Pricing?", getHeader(headers, "subject"))
	assert.Equal(t, "jane@acme.com", getHeader(headers, "FROM"))
	assert.Equal(t, "", getHeader(headers, "Date"))
}

package providers

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
)

// EmailSubject is used for every campaign email.
const EmailSubject = "Exclusive Offer from AutoMarketer"

// EmailMessage is a campaign email to one recipient.
type EmailMessage struct {
	Content   string
	Recipient string
}

// Brevo sends transactional email through the Brevo SMTP API.
type Brevo struct {
	caller
	endpoint string
	apiKey   string
	sender   string
}

// NewBrevo creates a Brevo client sending from sender.
func NewBrevo(endpoint, apiKey, sender string, opts Options) *Brevo {
	return &Brevo{
		caller:   newCaller(opts.HTTPClient, opts.Limiter),
		endpoint: endpoint,
		apiKey:   apiKey,
		sender:   sender,
	}
}

type brevoContact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type brevoPayload struct {
	Sender      brevoContact   `json:"sender"`
	To          []brevoContact `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
}

var emailTemplate = template.Must(template.New("email").Parse(`<html>
  <body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: #f8f9fa; padding: 30px; border-radius: 12px;">
      <h1 style="color: #2c3e50; text-align: center;">{{.Subject}}</h1>
      <hr style="border: 1px solid #eee; margin: 30px 0;">
      <div style="font-size: 16px;">{{.Body}}</div>
      <p style="color: #7f8c8d; font-size: 14px; text-align: center; margin-top: 40px;">Sent via <strong>AutoMarketer</strong></p>
    </div>
  </body>
</html>`))

// RenderEmailHTML wraps plain-text content in the campaign layout. The
// content is escaped and its line breaks kept.
func RenderEmailHTML(content string) (string, error) {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = template.HTMLEscapeString(line)
	}

	var buf bytes.Buffer
	err := emailTemplate.Execute(&buf, map[string]any{
		"Subject": EmailSubject,
		"Body":    template.HTML(strings.Join(lines, "<br>")),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render email: %w", err)
	}
	return buf.String(), nil
}

// Send delivers m.
func (b *Brevo) Send(ctx context.Context, m EmailMessage) (*Result, error) {
	if b.apiKey == "" {
		return nil, ErrNotConfigured
	}

	html, err := RenderEmailHTML(m.Content)
	if err != nil {
		return nil, err
	}

	return b.postJSON(ctx, b.endpoint, map[string]string{"api-key": b.apiKey}, brevoPayload{
		Sender:      brevoContact{Name: "AutoMarketer", Email: b.sender},
		To:          []brevoContact{{Email: m.Recipient}},
		Subject:     EmailSubject,
		HTMLContent: html,
	})
}

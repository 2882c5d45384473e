// Package mail delivers transactional email through the SendGrid v3 REST API.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/taskhive/task-manager-api/internal/core/ports"
)

const defaultBaseURL = "https://api.sendgrid.com/v3/mail/send"

// SendGridMailer implements ports.Mailer against the SendGrid HTTP API.
type SendGridMailer struct {
	apiKey  string
	from    string
	baseURL string
	client  *http.Client
}

// NewSendGridMailer creates a mailer sending from the given address.
func NewSendGridMailer(apiKey, from string) *SendGridMailer {
	return &SendGridMailer{
		apiKey:  apiKey,
		from:    from,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type sgRecipient struct {
	Email string `json:"email"`
}

type sgPersonalization struct {
	To []sgRecipient `json:"to"`
}

type sgContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sgRequest struct {
	Personalizations []sgPersonalization `json:"personalizations"`
	From             sgRecipient         `json:"from"`
	Subject          string              `json:"subject"`
	Content          []sgContent         `json:"content"`
}

// Send submits a single plain-text email.
func (m *SendGridMailer) Send(ctx context.Context, msg ports.EmailMessage) error {
	payload := sgRequest{
		Personalizations: []sgPersonalization{{To: []sgRecipient{{Email: msg.To}}}},
		From:             sgRecipient{Email: m.from},
		Subject:          msg.Subject,
		Content:          []sgContent{{Type: "text/plain", Value: msg.Body}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("sendgrid: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("sendgrid: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("sendgrid: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid: unexpected status %d", resp.StatusCode)
	}
	return nil
}

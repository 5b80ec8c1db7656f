package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/nfrund/storefront/internal/domain"
)

const resendEndpoint = "https://api.resend.com/emails"

var (
	_ domain.EmailSender = (*LogSender)(nil)
	_ domain.EmailSender = (*ResendSender)(nil)
)

// --- LogSender (for development) ---

// LogSender prints emails to the log instead of sending them.
type LogSender struct {
	senderAddress string
}

// Send logs the email content.
func (s *LogSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	slog.InfoContext(ctx, "Email sent (logged)",
		"event", "email_logged",
		"from", s.senderAddress,
		"to", to,
		"subject", subject,
		"body", htmlBody,
	)
	return nil
}

// --- ResendSender (for production) ---

// ResendSender sends emails using the Resend API.
type ResendSender struct {
	apiKey        string
	senderAddress string
	endpoint      string
	client        *http.Client
}

// NewResendSender creates a sender for the Resend API.
func NewResendSender(apiKey, senderAddress string) *ResendSender {
	return &ResendSender{
		apiKey:        apiKey,
		senderAddress: senderAddress,
		endpoint:      resendEndpoint,
		client:        &http.Client{Timeout: 10 * time.Second},
	}
}

type resendPayload struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Send dispatches an email using the Resend API.
func (s *ResendSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	body, err := json.Marshal(resendPayload{
		From:    s.senderAddress,
		To:      to,
		Subject: subject,
		HTML:    htmlBody,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal resend payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create resend request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to resend: %w: %w", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("resend API returned status %d: %s: %w", resp.StatusCode, bytes.TrimSpace(detail), domain.ErrUpstream)
	}

	slog.InfoContext(ctx, "Successfully sent email via Resend", "event", "email_sent", "to", to, "subject", subject)
	return nil
}

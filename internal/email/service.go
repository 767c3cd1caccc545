// Package email delivers the composed strip to an attendee through the
// Resend API.
package email

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/carsonSgit/cusec-photobooth/internal/types"
	"github.com/carsonSgit/cusec-photobooth/shared/logger"
)

// ErrNotConfigured is returned before any network I/O when no API key
// is set; downloading remains available as the fallback path.
var ErrNotConfigured = errors.New("email service is not configured")

type Service struct {
	apiKey     string
	fromEmail  string
	httpClient *http.Client
	now        func() time.Time
}

type ResendRequest struct {
	From        string       `json:"from"`
	To          []string     `json:"to"`
	Subject     string       `json:"subject"`
	HTML        string       `json:"html"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

type Attachment struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

type ResendResponse struct {
	ID    string `json:"id"`
	Error string `json:"error,omitempty"`
}

func NewService(apiKey, fromEmail string) *Service {
	return &Service{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		now: time.Now,
	}
}

const bodyHTML = `<h1>CUSEC 2026 Photobooth</h1>
<p>Thanks for stopping by the photobooth! Your photo strip is attached.</p>
<p>Share it with <strong>#CUSEC2026</strong>.</p>`

// SendStrip emails the strip as a timestamped PNG attachment.
func (s *Service) SendStrip(ctx context.Context, toAddress string, strip *types.PhotoStrip) error {
	if s.apiKey == "" {
		return ErrNotConfigured
	}
	if toAddress == "" || strip == nil {
		return fmt.Errorf("email address and photo strip are required")
	}

	logger.Info(ctx, "sending photo strip email", logger.Fields{
		"to_address": toAddress,
	})

	filename := fmt.Sprintf("cusec-2026-photobooth-%d.png", s.now().UnixMilli())
	resendReq := ResendRequest{
		From:    s.fromEmail,
		To:      []string{toAddress},
		Subject: "Your CUSEC 2026 Photobooth Memories!",
		HTML:    bodyHTML,
		Attachments: []Attachment{{
			Filename: filename,
			Content:  base64.StdEncoding.EncodeToString(strip.Data),
		}},
	}

	reqBody, err := json.Marshal(resendReq)
	if err != nil {
		return fmt.Errorf("failed to marshal resend request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", "https://api.resend.com/emails", bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send HTTP request: %w", err)
	}
	defer resp.Body.Close()

	var resendResp ResendResponse
	if err := json.NewDecoder(resp.Body).Decode(&resendResp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode >= 400 {
		errMsg := fmt.Sprintf("resend API error (status %d)", resp.StatusCode)
		if resendResp.Error != "" {
			errMsg += ": " + resendResp.Error
		}
		return errors.New(errMsg)
	}

	logger.Info(ctx, "photo strip email sent", logger.Fields{
		"resend_id": resendResp.ID,
	})
	return nil
}

// ValidAddress is a light sanity check before attempting delivery.
func ValidAddress(addr string) bool {
	at := strings.Index(addr, "@")
	return at > 0 && at < len(addr)-1 && !strings.ContainsAny(addr, " \t\n")
}

package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/aayud22/ayushi.dev/internal/metrics"
)

// ResendEndpoint is the Resend send-mail API endpoint.
const ResendEndpoint = "https://api.resend.com/emails"

// notificationTemplate renders the contact notification mail. Fields are
// already escaped by Sanitized.
var notificationTemplate = template.Must(template.New("contact").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: sans-serif; color: #1a1a1a;">
    <h2>New Contact Form Submission</h2>
    <p><strong>From</strong><br>{{.Name}} &lt;{{.Email}}&gt;</p>
    <p><strong>Subject</strong><br>{{.Subject}}</p>
    <p><strong>Message</strong><br>{{.Message}}</p>
    <p><a href="mailto:{{.Email}}">Reply to {{.Name}}</a></p>
    <hr>
    <p style="color: #6b7280; font-size: 13px;">Sent via the contact form on Ayushi.dev</p>
  </body>
</html>`))

// Resend sends contact notifications through the Resend HTTP API. No
// retry, no queueing: a failed send is reported to the caller.
type Resend struct {
	apiKey  string
	from    string
	to      string
	client  *http.Client
	baseURL string
	metrics *metrics.Collector
}

// NewResend creates a mailer addressed to the portfolio owner.
func NewResend(apiKey, to string, mc *metrics.Collector) (*Resend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend API key required")
	}
	if to == "" {
		return nil, fmt.Errorf("contact recipient required")
	}
	return &Resend{
		apiKey:  apiKey,
		from:    "Ayushi.dev <onboarding@resend.dev>",
		to:      to,
		client:  &http.Client{},
		baseURL: ResendEndpoint,
		metrics: mc,
	}, nil
}

// WithBaseURL points the client at a different endpoint (for testing).
func (r *Resend) WithBaseURL(url string) *Resend {
	r.baseURL = url
	return r
}

// sendRequest is the Resend API payload.
type sendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	ReplyTo string `json:"reply_to,omitempty"`
}

// Send renders the notification template and posts it to Resend. The
// request must already be validated.
func (r *Resend) Send(ctx context.Context, req ContactRequest) error {
	clean := req.Sanitized()

	var body bytes.Buffer
	if err := notificationTemplate.Execute(&body, clean); err != nil {
		return fmt.Errorf("render notification: %w", err)
	}

	payload, err := json.Marshal(sendRequest{
		From:    r.from,
		To:      r.to,
		Subject: "New Contact: " + clean.Subject,
		HTML:    body.String(),
		ReplyTo: clean.Email,
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", r.baseURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+r.apiKey)

	start := time.Now()
	resp, err := r.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("resend error (status %d): %s", resp.StatusCode, string(detail))
	}

	if r.metrics != nil {
		r.metrics.RecordTiming(metrics.OpContactMail, time.Since(start))
	}
	return nil
}

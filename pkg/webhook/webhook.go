// Package webhook delivers scan reports to HTTP endpoints.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/ccollicutt/errtally/pkg/config"
	"github.com/ccollicutt/errtally/pkg/output"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 10 * time.Second

// EventScanCompleted is the event name carried by every payload.
const EventScanCompleted = "scan.completed"

// maxResponseBytes caps how much of a response body is kept.
const maxResponseBytes = 1024 * 1024

// Payload is the JSON document posted to an endpoint.
type Payload struct {
	Event  string         `json:"event"`
	SentAt time.Time      `json:"sent_at"`
	Report *output.Report `json:"report"`
}

// Client sends scan reports to webhook endpoints.
type Client struct {
	httpClient *http.Client
	now        func() time.Time
}

// NewClient creates a new webhook client.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{},
		now:        time.Now,
	}
}

// SendOptions configures a webhook request.
type SendOptions struct {
	URL     string
	Token   string        // Bearer token (optional)
	Timeout time.Duration // DefaultTimeout if zero
}

// Response contains the result of a webhook request.
type Response struct {
	StatusCode int
	Body       string
	Duration   time.Duration
	Error      error
}

// Success returns true if the webhook was delivered with a 2xx status.
func (r *Response) Success() bool {
	return r.Error == nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Send posts a report to one endpoint. Failures are described by the returned
// Response, never by a panic or an error return.
func (c *Client) Send(ctx context.Context, report *output.Report, opts SendOptions) *Response {
	start := c.now()
	resp := &Response{}
	fail := func(err error) *Response {
		resp.Error = err
		resp.Duration = c.now().Sub(start)
		return resp
	}

	// Marshal report to JSON
	body, err := json.Marshal(Payload{
		Event:  EventScanCompleted,
		SentAt: start.UTC(),
		Report: report,
	})
	if err != nil {
		return fail(fmt.Errorf("marshaling report: %w", err))
	}

	// Apply timeout
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, opts.URL, bytes.NewReader(body))
	if err != nil {
		return fail(fmt.Errorf("creating request: %w", err))
	}
	// Set headers
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "errtally-webhook")
	if opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.Token)
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(fmt.Errorf("request failed: %w", err))
	}
	defer httpResp.Body.Close()

	// Read response body
	data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return fail(fmt.Errorf("reading response: %w", err))
	}

	resp.StatusCode = httpResp.StatusCode
	resp.Body = string(data)
	resp.Duration = c.now().Sub(start)
	// Check for error status codes
	if resp.StatusCode >= 400 {
		resp.Error = fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return resp
}

// ShouldFire reports whether a webhook with the given trigger fires for report.
// An unknown trigger behaves like on_issues.
func ShouldFire(trigger config.WebhookTrigger, report *output.Report) bool {
	switch trigger {
	case config.WebhookTriggerAlways:
		return true
	case config.WebhookTriggerNever:
		return false
	default:
		return report.HasIssues()
	}
}

// Dispatch sends report to every webhook whose trigger fires, one after the
// other, and logs each outcome. It returns the number of successful deliveries.
func (c *Client) Dispatch(ctx context.Context, hooks []config.WebhookConfig, report *output.Report, log zerolog.Logger) int {
	sent := 0
	for _, wh := range hooks {
		if !ShouldFire(wh.Trigger, report) {
			log.Debug().Str("webhook", wh.DisplayName()).Str("trigger", string(wh.Trigger)).Msg("webhook skipped")
			continue
		}

		resp := c.Send(ctx, report, SendOptions{
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
		})
		if !resp.Success() {
			log.Warn().Str("webhook", wh.DisplayName()).Err(resp.Error).Msg("webhook failed")
			continue
		}

		sent++
		log.Info().
			Str("webhook", wh.DisplayName()).
			Int("status", resp.StatusCode).
			Dur("duration", resp.Duration).
			Msg("webhook sent")
	}
	return sent
}

// Package leadstore posts submissions to the lead store endpoint.
package leadstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/xavierca1/lead-intake/internal/entity"
	"github.com/xavierca1/lead-intake/internal/infra/logger"
)

// SecretHeader carries the shared secret on every write.
const SecretHeader = "X-Lead-Store-Secret"

// DefaultTimeout bounds one write, response body included.
const DefaultTimeout = 10 * time.Second

var ErrNotConfigured = errors.New("lead store url is not configured")

type Client struct {
	baseURL    string
	secret     string
	httpClient *http.Client
}

type Option func(*Client)

// WithTimeout replaces DefaultTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

func NewClient(baseURL, secret string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		secret:     secret,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Configured() bool { return c != nil && c.baseURL != "" }

// Record sends one submission. Anything but a 2xx with a confirming JSON body
// is an error; nothing is retried here.
func (c *Client) Record(ctx context.Context, sub entity.Submission) (*Response, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	payload, err := json.Marshal(sub)
	if err != nil {
		return nil, fmt.Errorf("encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.secret != "" {
		req.Header.Set(SecretHeader, c.secret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("lead store returned %d: %s", resp.StatusCode, truncate(body, 200))
	}

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("lead store sent malformed JSON: %w", err)
	}
	if !out.accepted() {
		return nil, fmt.Errorf("lead store rejected submission: %s", out.reason())
	}

	logger.C(ctx).Debug().
		Str("submission_id", sub.ID).
		Str("sheet", out.Sheet).
		Str("urgency", out.Urgency).
		Msg("lead stored")

	return &out, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

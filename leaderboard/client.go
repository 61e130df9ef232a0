package leaderboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client talks to a leaderboard Server.
type Client struct {
	base     string
	http     *http.Client
	attempts int
	delay    time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithRetry sets the attempt count and first backoff delay.
func WithRetry(attempts int, delay time.Duration) ClientOption {
	return func(c *Client) {
		c.attempts = attempts
		c.delay = delay
	}
}

// NewClient returns a client for the service rooted at baseURL, for example
// "http://localhost:8080/api".
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		base:     strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: 10 * time.Second},
		attempts: 3,
		delay:    500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type submitRequest struct {
	Nickname string `json:"nickname"`
	Score    int    `json:"score"`
}

// Submit posts a score and returns the stored record.
func (c *Client) Submit(ctx context.Context, nickname string, score int) (Record, error) {
	body, err := json.Marshal(submitRequest{Nickname: nickname, Score: score})
	if err != nil {
		return Record{}, err
	}

	var rec Record
	err = c.retry(ctx, func() error {
		return c.do(ctx, http.MethodPost, c.base+"/Tetris", body, &rec)
	})
	return rec, err
}

// Top fetches the n best records.
func (c *Client) Top(ctx context.Context, n int) ([]Record, error) {
	u := c.base + "/Tetris?" + url.Values{"limit": {strconv.Itoa(n)}}.Encode()

	var records []Record
	err := c.retry(ctx, func() error {
		records = nil
		return c.do(ctx, http.MethodGet, u, nil, &records)
	})
	return records, err
}

func (c *Client) do(ctx context.Context, method, u string, body []byte, v any) error {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &requestError{Err: err}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrNetwork, err)
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusBadRequest:
		var e errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &requestError{Status: code, Detail: e.Error}
	default:
		return &requestError{Status: code}
	}
}

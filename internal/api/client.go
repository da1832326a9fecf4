// Package api is the REST client for the CraftForge backend. All paths live
// under the "/api" prefix; the realtime endpoint is derived from the same
// base URL by scheme substitution.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	logx "craftforge/pkg/logx"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

type Config struct {
	// BaseURL is the backend origin, e.g. "https://craftforge.example.com".
	BaseURL string

	// Token is the bearer token, if already known. It can be set later via
	// SetToken (e.g. after Login).
	Token string

	// Timeout bounds each request end to end. Zero disables the bound.
	Timeout time.Duration

	// RatePerSec/Burst configure client-side rate limiting. Zero disables it.
	RatePerSec float64
	Burst      int

	Logger logx.Logger

	// HTTPClient overrides the transport (tests).
	HTTPClient *http.Client
}

type Client struct {
	base    *url.URL
	http    *http.Client
	limiter *rate.Limiter
	log     logx.Logger

	mu    sync.RWMutex
	token string
}

func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("api: base URL is required")
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("api: base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api: base URL: unsupported scheme %q", u.Scheme)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}

	var lim *rate.Limiter
	if cfg.RatePerSec > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		lim = rate.NewLimiter(rate.Limit(cfg.RatePerSec), burst)
	}

	log := cfg.Logger
	if !log.IsZero() {
		log = log.With(logx.String("component", "api"))
	}

	return &Client{
		base:    u,
		http:    hc,
		limiter: lim,
		log:     log,
		token:   strings.TrimSpace(cfg.Token),
	}, nil
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = strings.TrimSpace(token)
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// WSEndpoint returns the realtime endpoint for the current token:
// http becomes ws, https becomes wss, path is /ws/{token}.
func (c *Client) WSEndpoint() (string, error) {
	token := c.Token()
	if token == "" {
		return "", fmt.Errorf("api: no token for realtime endpoint")
	}
	scheme := "ws"
	if c.base.Scheme == "https" {
		scheme = "wss"
	}
	u := url.URL{Scheme: scheme, Host: c.base.Host, Path: "/ws/" + token}
	return u.String(), nil
}

// FileURL returns the download URL for an uploaded file.
func (c *Client) FileURL(fileID string) string {
	return c.base.String() + "/api/files/" + url.PathEscape(fileID)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, "", out)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := encodeJSON(in)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, nil, body, "application/json", out)
}

func (c *Client) put(ctx context.Context, path string, in, out any) error {
	body, err := encodeJSON(in)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, path, nil, body, "application/json", out)
}

func (c *Client) del(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, "", nil)
}

func encodeJSON(in any) (io.Reader, error) {
	if in == nil {
		return nil, nil
	}
	b, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("api: encode request: %w", err)
	}
	return bytes.NewReader(b), nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	u := c.base.String() + "/api" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
	}()

	if !c.log.IsZero() {
		c.log.Trace("request done",
			logx.String("method", method),
			logx.String("path", path),
			logx.Int("status", resp.StatusCode),
			logx.Duration("took", time.Since(started)),
			logx.String("request_id", reqID),
		)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode %s %s: %w", method, path, err)
	}
	return nil
}

// decodeError maps a non-2xx response into *Error. The backend reports
// {"detail": "..."} but validation failures may carry structured detail;
// anything unreadable falls back to the raw body.
func decodeError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
	apiErr := &Error{StatusCode: resp.StatusCode}

	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(b, &payload); err == nil && len(payload.Detail) > 0 {
		var s string
		if json.Unmarshal(payload.Detail, &s) == nil {
			apiErr.Detail = s
		} else {
			apiErr.Detail = string(payload.Detail)
		}
		return apiErr
	}
	apiErr.Detail = strings.TrimSpace(string(b))
	return apiErr
}

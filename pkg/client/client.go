// Package client is a typed client for the Alley API. Paginated endpoints
// accumulate fetched pages in a per-endpoint cache so callers can render an
// ever-growing list with a single "more available" flag.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Page sizes requested by the paginated endpoints.
const (
	GalleryPageSize = 60
	ArtistPageSize  = 4
)

// ErrParamRequired is returned by searches called without a term. No
// request is sent.
var ErrParamRequired = errors.New("param is required")

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("alley api: %d %s", e.Status, e.Message)
}

// Config holds client configuration.
type Config struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client talks to one Alley server.
type Client struct {
	baseURL    string
	httpClient *http.Client

	tokenMu sync.RWMutex
	token   string

	artworkPages *pageCache[ArtworkSummary]
	artistPages  *pageCache[User]
}

// New creates a client for cfg.BaseURL. A nil HTTPClient gets a default one
// with cfg.Timeout, or 30 seconds.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:   httpClient,
		token:        cfg.Token,
		artworkPages: newPageCache[ArtworkSummary](),
		artistPages:  newPageCache[User](),
	}
}

// SetToken replaces the bearer token. An empty token makes requests anonymous.
func (c *Client) SetToken(token string) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()
	c.token = token
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.tokenMu.RLock()
	defer c.tokenMu.RUnlock()
	return c.token
}

// ResetCache drops every accumulated page.
func (c *Client) ResetCache() {
	c.artworkPages.reset()
	c.artistPages.reset()
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

// decodeAPIError reads the message from either error body shape the server
// uses, falling back to the status text.
func decodeAPIError(status int, raw []byte) *APIError {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	_ = json.Unmarshal(raw, &body)

	msg := body.Message
	if msg == "" {
		msg = body.Error
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{Status: status, Message: msg}
}

func pageQuery(page, size int) url.Values {
	if page < 0 {
		page = 0
	}
	return url.Values{
		"offset": {fmt.Sprint(page * size)},
		"limit":  {fmt.Sprint(size)},
	}
}

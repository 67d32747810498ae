// Package client is a typed Go client for the DailyGlow HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/random0602/DailyGlow/services"
)

// ErrRateLimited is returned for 429 responses.
var ErrRateLimited = errors.New("too many requests")

// APIError carries a non-2xx response. It unwraps to the matching services
// sentinel so callers can use errors.Is(err, services.ErrTaskNotFound).
type APIError struct {
	StatusCode int
	Message    string
	kind       error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return e.kind
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Token() string {
	return c.token
}

func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp, path)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

func decodeError(resp *http.Response, path string) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, kind: kindFor(resp.StatusCode, path)}

	var body struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &body); err == nil {
		apiErr.Message = body.Error
	}
	return apiErr
}

// kindFor maps a status back onto the server's error taxonomy.
func kindFor(status int, path string) error {
	switch status {
	case http.StatusBadRequest:
		return services.ErrValidation
	case http.StatusUnauthorized:
		if strings.HasPrefix(path, "/auth/") {
			return services.ErrInvalidCredentials
		}
		return services.ErrInvalidToken
	case http.StatusForbidden:
		return services.ErrForbidden
	case http.StatusNotFound:
		switch {
		case strings.HasPrefix(path, "/tasks"):
			return services.ErrTaskNotFound
		case strings.HasPrefix(path, "/moods"):
			return services.ErrMoodNotFound
		case strings.HasPrefix(path, "/users"):
			return services.ErrUserNotFound
		}
		return services.ErrNotFound
	case http.StatusConflict:
		return services.ErrResourceExists
	case http.StatusTooManyRequests:
		return ErrRateLimited
	}
	return nil
}

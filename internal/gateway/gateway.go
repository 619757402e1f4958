// Package gateway is the single HTTP door to the remote persistence API.
// Every call is one attempt, no retry, no backoff; callers see exactly one
// failure kind regardless of whether the transport, the status code, or the
// response body was at fault.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Error is the uniform failure type for every remote call. It carries a
// message only; callers cannot distinguish a network fault from an
// application-level rejection except by text.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

// TokenSource supplies the current bearer credential. An empty string means
// the call goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// Client performs authenticated JSON calls against the remote store.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	log        *logrus.Logger
}

// New creates a Client rooted at baseURL. The token source may not be nil;
// pass a source that returns "" while anonymous.
func New(baseURL string, tokens TokenSource, log *logrus.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log,
	}
}

// SetHTTPClient swaps the underlying transport, mainly for tests.
func (c *Client) SetHTTPClient(hc *http.Client) { c.httpClient = hc }

type errorBody struct {
	Message string `json:"message"`
}

// Do performs one request. body, when non-nil, is JSON-encoded; out, when
// non-nil, receives the decoded JSON response. Any failure comes back as
// *Error.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &Error{Message: "encode request: " + err.Error()}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Message: "create request: " + err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WithFields(logrus.Fields{"method": method, "path": path}).
			WithError(err).Warn("gateway call failed")
		return &Error{Message: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Message: "read response: " + err.Error()}
	}

	c.log.WithFields(logrus.Fields{
		"method":   method,
		"path":     path,
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	}).Debug("gateway call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		if jsonErr := json.Unmarshal(data, &eb); jsonErr == nil && eb.Message != "" {
			return &Error{Message: eb.Message}
		}
		return &Error{Message: fmt.Sprintf("HTTP error! status: %d", resp.StatusCode)}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return &Error{Message: "decode response: " + err.Error()}
		}
	}
	return nil
}

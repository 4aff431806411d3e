// Package httpx provides the typed JSON-over-HTTPS client shared by the
// external API integrations. It performs no retries: retry policy, if any,
// belongs to the caller.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds a request when the caller does not supply one.
// Slow third parties (image generation, fulfillment uploads) pass their own
// longer budget per request.
const DefaultTimeout = 60 * time.Second

// truncateLimit caps response bodies carried inside errors.
const truncateLimit = 2000

// Client is a thin JSON request/response wrapper around net/http.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
}

// NewClient constructs a client with the given default per-request timeout.
// A non-positive timeout falls back to DefaultTimeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{httpClient: &http.Client{}, timeout: timeout}
}

// Request describes a single JSON call.
type Request struct {
	Method string
	URL    string
	Header map[string]string
	// Body is JSON-marshalled when non-nil; Content-Type is set automatically.
	Body any
	// RawBody is sent verbatim with ContentType when Body is nil. Used for
	// the odd non-JSON request body (OAuth form posts).
	RawBody     []byte
	ContentType string
	// Timeout overrides the client default when positive.
	Timeout time.Duration
}

// DoJSON performs the request and decodes a 2xx JSON response into out when
// out is non-nil. An empty 2xx body is success and leaves out untouched. The
// raw response body is returned for diagnostics alongside any decode result.
//
// Failures are classified: *StatusError for non-2xx responses, *ParseError
// for malformed JSON on success, *TimeoutError when the budget elapses (the
// in-flight request is aborted), *TransportError for network-level failures.
func (c *Client) DoJSON(ctx context.Context, req Request, out any) ([]byte, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var payload io.Reader
	contentType := ""
	switch {
	case req.Body != nil:
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("httpx: encode request body: %w", err)
		}
		payload = bytes.NewReader(raw)
		contentType = "application/json"
	case req.RawBody != nil:
		payload = bytes.NewReader(req.RawBody)
		contentType = req.ContentType
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, payload)
	if err != nil {
		return nil, fmt.Errorf("httpx: build request: %w", err)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	for k, v := range req.Header {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, classifyTransport(req.URL, timeout, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransport(req.URL, timeout, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return raw, &StatusError{URL: req.URL, Status: resp.StatusCode, Body: Truncate(string(raw))}
	}
	if len(raw) == 0 || out == nil {
		return raw, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return raw, &ParseError{URL: req.URL, Body: Truncate(string(raw)), Err: err}
	}
	return raw, nil
}

func classifyTransport(url string, timeout time.Duration, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{URL: url, After: timeout}
	}
	return &TransportError{URL: url, Err: err}
}

// Truncate caps s for inclusion in error messages.
func Truncate(s string) string {
	if len(s) > truncateLimit {
		return s[:truncateLimit]
	}
	return s
}

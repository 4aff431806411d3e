// Package paypal is the checkout glue: client-credentials auth, order
// creation priced from the storefront catalog, and payment capture.
package paypal

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"storefront/internal/httpx"
)

const (
	liveBase    = "https://api-m.paypal.com"
	sandboxBase = "https://api-m.sandbox.paypal.com"
)

// ErrNotConfigured indicates missing client credentials.
var ErrNotConfigured = errors.New("paypal: client credentials are required")

// Options configures the payments client.
type Options struct {
	ClientID     string
	ClientSecret string
	// Mode selects the API host: "live" or anything else for sandbox.
	Mode           string
	BaseURL        string
	HTTPClient     *httpx.Client
	RequestTimeout time.Duration
}

type Client struct {
	clientID     string
	clientSecret string
	baseURL      string
	httpClient   *httpx.Client
	timeout      time.Duration
}

func NewClient(opts Options) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		if opts.Mode == "live" {
			baseURL = liveBase
		} else {
			baseURL = sandboxBase
		}
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = httpx.NewClient(timeout)
	}
	return &Client{
		clientID:     opts.ClientID,
		clientSecret: opts.ClientSecret,
		baseURL:      baseURL,
		httpClient:   httpClient,
		timeout:      timeout,
	}
}

// Configured reports whether credentials are present.
func (c *Client) Configured() bool {
	return c.clientID != "" && c.clientSecret != ""
}

// PurchaseUnit is one priced line of a checkout order. CustomID carries the
// storefront's own order details through the capture round-trip.
type PurchaseUnit struct {
	Description string `json:"description,omitempty"`
	Amount      Amount `json:"amount"`
	CustomID    string `json:"custom_id,omitempty"`
}

type Amount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

// CaptureResult is the capture response subset the storefront acts on.
type CaptureResult struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	PurchaseUnits []PurchaseUnit `json:"purchase_units"`
	Raw           map[string]any `json:"-"`
}

// accessToken obtains a client-credentials token. Tokens are not cached;
// checkout traffic is low and the token round-trip keeps the client
// stateless.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	basic := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	raw, err := c.httpClient.DoJSON(ctx, httpx.Request{
		Method:      "POST",
		URL:         c.baseURL + "/v1/oauth2/token",
		Header:      map[string]string{"Authorization": "Basic " + basic},
		RawBody:     []byte("grant_type=client_credentials"),
		ContentType: "application/x-www-form-urlencoded",
		Timeout:     c.timeout,
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", &httpx.ShapeError{Source: "paypal token", Body: httpx.Truncate(string(raw))}
	}
	return resp.AccessToken, nil
}

// CreateOrder creates a CAPTURE-intent order and returns its id.
func (c *Client) CreateOrder(ctx context.Context, units []PurchaseUnit) (string, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return "", err
	}
	var resp struct {
		ID string `json:"id"`
	}
	raw, err := c.httpClient.DoJSON(ctx, httpx.Request{
		Method: "POST",
		URL:    c.baseURL + "/v2/checkout/orders",
		Header: map[string]string{"Authorization": "Bearer " + token},
		Body: map[string]any{
			"intent":         "CAPTURE",
			"purchase_units": units,
		},
		Timeout: c.timeout,
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", &httpx.ShapeError{Source: "paypal order", Body: httpx.Truncate(string(raw))}
	}
	return resp.ID, nil
}

// CaptureOrder captures an approved order and returns the capture outcome
// plus the raw response for downstream reporting.
func (c *Client) CaptureOrder(ctx context.Context, orderID string) (*CaptureResult, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}
	var generic map[string]any
	raw, err := c.httpClient.DoJSON(ctx, httpx.Request{
		Method:  "POST",
		URL:     c.baseURL + "/v2/checkout/orders/" + orderID + "/capture",
		Header:  map[string]string{"Authorization": "Bearer " + token},
		Body:    map[string]any{},
		Timeout: c.timeout,
	}, &generic)
	if err != nil {
		return nil, err
	}
	var result CaptureResult
	// raw already parsed once above; a decode failure here would have
	// surfaced as a ParseError.
	_ = json.Unmarshal(raw, &result)
	result.Raw = generic
	return &result, nil
}

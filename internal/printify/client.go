// Package printify is the client for the print-on-demand fulfillment
// platform: asset uploads, product create/publish, catalog reads, and
// manufacturing orders.
package printify

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"storefront/internal/httpx"
	"storefront/internal/infra"
)

// ErrNotConfigured indicates the client is missing its token or shop id.
var ErrNotConfigured = errors.New("printify: token and store id are required")

// Options configures the fulfillment client.
type Options struct {
	Token          string
	ShopID         string
	BaseURL        string
	HTTPClient     *httpx.Client
	RequestTimeout time.Duration
	Logger         *infra.Logger
}

// Client performs HTTP calls against the fulfillment API.
type Client struct {
	token      string
	shopID     string
	baseURL    string
	httpClient *httpx.Client
	timeout    time.Duration
	logger     *infra.Logger
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.printify.com/v1"
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = httpx.NewClient(timeout)
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		token:      strings.TrimSpace(opts.Token),
		shopID:     strings.TrimSpace(opts.ShopID),
		baseURL:    baseURL,
		httpClient: httpClient,
		timeout:    timeout,
		logger:     logger,
	}
}

// Configured reports whether the client can reach the shop-scoped endpoints.
func (c *Client) Configured() bool {
	return c.token != "" && c.shopID != ""
}

// TokenConfigured reports whether account-level endpoints such as the shop
// listing are reachable. Those need only the API token, not a shop id.
func (c *Client) TokenConfigured() bool {
	return c.token != ""
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) ([]byte, error) {
	if c.token == "" {
		return nil, ErrNotConfigured
	}
	return c.httpClient.DoJSON(ctx, httpx.Request{
		Method:  method,
		URL:     c.baseURL + path,
		Header:  map[string]string{"Authorization": "Bearer " + c.token},
		Body:    body,
		Timeout: c.timeout,
	}, out)
}

func (c *Client) shopPath(suffix string) (string, error) {
	if c.shopID == "" {
		return "", ErrNotConfigured
	}
	return "/shops/" + c.shopID + suffix, nil
}

// UploadImage registers an image with the platform by URL. The platform
// fetches the URL server-side, so it must be reachable from its network and
// unexpired for the duration of that fetch. The returned asset id is opaque.
func (c *Client) UploadImage(ctx context.Context, fileName, imageURL string) (string, error) {
	var resp map[string]any
	raw, err := c.do(ctx, "POST", "/uploads/images.json", map[string]string{
		"file_name": fileName,
		"url":       imageURL,
	}, &resp)
	if err != nil {
		return "", err
	}
	if id := assetID(resp); id != "" {
		return id, nil
	}
	return "", &httpx.ShapeError{Source: "printify upload", Body: httpx.Truncate(string(raw))}
}

// assetID reads the identifier from the top level or nested under "data".
func assetID(resp map[string]any) string {
	if id := idString(resp["id"]); id != "" {
		return id
	}
	if data, ok := resp["data"].(map[string]any); ok {
		return idString(data["id"])
	}
	return ""
}

func idString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return ""
	}
}

// CreateProduct submits the product definition and returns the raw creation
// response together with the created product id. The id is read leniently:
// a response without one yields an empty id, not an error, and the caller
// decides whether that matters.
func (c *Client) CreateProduct(ctx context.Context, def ProductDefinition) (map[string]any, string, error) {
	path, err := c.shopPath("/products.json")
	if err != nil {
		return nil, "", err
	}
	var resp map[string]any
	if _, err := c.do(ctx, "POST", path, def, &resp); err != nil {
		return nil, "", err
	}
	id := idString(resp["id"])
	c.logger.Info().Str("product_id", id).Msg("printify: product created")
	return resp, id, nil
}

// PublishProduct marks every product field as ready for the sales channel.
func (c *Client) PublishProduct(ctx context.Context, productID string) (map[string]any, error) {
	path, err := c.shopPath("/products/" + productID + "/publish.json")
	if err != nil {
		return nil, err
	}
	var resp map[string]any
	if _, err := c.do(ctx, "POST", path, publishFields{
		Title:            true,
		Description:      true,
		Images:           true,
		Variants:         true,
		Tags:             true,
		KeyFeatures:      true,
		ShippingTemplate: true,
	}, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ListProducts returns all products in the shop.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	path, err := c.shopPath("/products.json")
	if err != nil {
		return nil, err
	}
	var resp struct {
		Data []Product `json:"data"`
	}
	if _, err := c.do(ctx, "GET", path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// GetProduct fetches a single product by id.
func (c *Client) GetProduct(ctx context.Context, productID string) (*Product, error) {
	path, err := c.shopPath("/products/" + productID + ".json")
	if err != nil {
		return nil, err
	}
	var product Product
	if _, err := c.do(ctx, "GET", path, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateOrder places a manufacturing order.
func (c *Client) CreateOrder(ctx context.Context, order OrderRequest) (map[string]any, error) {
	path, err := c.shopPath("/orders.json")
	if err != nil {
		return nil, err
	}
	var resp map[string]any
	if _, err := c.do(ctx, "POST", path, order, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ListShops returns the shops visible to the token. Useful for operators
// discovering their store id.
func (c *Client) ListShops(ctx context.Context) ([]Shop, error) {
	var shops []Shop
	if _, err := c.do(ctx, "GET", "/shops.json", nil, &shops); err != nil {
		return nil, err
	}
	return shops, nil
}

// Package openai calls the image-generation endpoint and normalizes its
// base64 payload into raw bytes.
package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"storefront/internal/httpx"
	"storefront/internal/infra"
)

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = errors.New("openai: api key is required")

// Options configures the image-generation client.
type Options struct {
	APIKey         string
	BaseURL        string
	Model          string
	Size           string
	HTTPClient     *httpx.Client
	RequestTimeout time.Duration
	Logger         *infra.Logger
}

// Client performs HTTP calls to the OpenAI image-generation API.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	size       string
	httpClient *httpx.Client
	timeout    time.Duration
	logger     *infra.Logger
}

type generationRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	Size           string `json:"size"`
	ResponseFormat string `json:"response_format"`
}

type generationResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "gpt-image-1"
	}
	size := strings.TrimSpace(opts.Size)
	if size == "" {
		size = "1024x1024"
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
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		model:      model,
		size:       size,
		httpClient: httpClient,
		timeout:    timeout,
		logger:     logger,
	}
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// GenerateImage requests a single base64-encoded image for the prompt and
// returns the decoded bytes. Exactly one image is expected in the response;
// anything else is an unexpected-shape failure. The bytes are not validated
// as a well-formed image; a malformed payload surfaces downstream.
func (c *Client) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, errors.New("openai: prompt is required")
	}

	endpoint := c.baseURL + "/images/generations"
	var resp generationResponse
	raw, err := c.httpClient.DoJSON(ctx, httpx.Request{
		Method: "POST",
		URL:    endpoint,
		Header: map[string]string{"Authorization": "Bearer " + c.apiKey},
		Body: generationRequest{
			Model:          c.model,
			Prompt:         prompt,
			Size:           c.size,
			ResponseFormat: "b64_json",
		},
		Timeout: c.timeout,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, &httpx.ShapeError{Source: "openai image", Body: httpx.Truncate(string(raw))}
	}
	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("openai: decode image payload: %w", err)
	}
	c.logger.Debug().Int("bytes", len(data)).Str("model", c.model).Msg("openai: image generated")
	return data, nil
}

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"storefront/internal/httpx"
	"storefront/internal/infra"
	"storefront/internal/printify"
)

type fakeSecrets map[string]string

func (f fakeSecrets) Resolve(ctx context.Context, ref string) (string, error) {
	v, ok := f[ref]
	if !ok {
		return "", fmt.Errorf("no secret %q", ref)
	}
	return v, nil
}

type fakeGenerator struct {
	apiKey string
	prompt string
	image  []byte
	err    error
}

func (f *fakeGenerator) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	f.prompt = prompt
	return f.image, f.err
}

type fakeBlobs struct {
	putKey      string
	putData     []byte
	contentType string
	signedKey   string
	signedTTL   time.Duration
	url         string
}

func (f *fakeBlobs) Put(ctx context.Context, key string, data []byte, contentType string) error {
	f.putKey, f.putData, f.contentType = key, data, contentType
	return nil
}

func (f *fakeBlobs) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	f.signedKey, f.signedTTL = key, ttl
	return f.url, nil
}

func (f *fakeBlobs) Bucket() string { return "test-bucket" }

type fakeFulfillment struct {
	token       string
	uploadName  string
	uploadURL   string
	assetID     string
	def         printify.ProductDefinition
	created     map[string]any
	productID   string
	published   string
	publishResp map[string]any
	publishErr  error
}

func (f *fakeFulfillment) UploadImage(ctx context.Context, fileName, imageURL string) (string, error) {
	f.uploadName, f.uploadURL = fileName, imageURL
	return f.assetID, nil
}

func (f *fakeFulfillment) CreateProduct(ctx context.Context, def printify.ProductDefinition) (map[string]any, string, error) {
	f.def = def
	return f.created, f.productID, nil
}

func (f *fakeFulfillment) PublishProduct(ctx context.Context, productID string) (map[string]any, error) {
	f.published = productID
	return f.publishResp, f.publishErr
}

func testConfig() *infra.PublisherConfig {
	return &infra.PublisherConfig{
		OpenAIKeySecretRef:     "openai-ref",
		PrintifyTokenSecretRef: "printify-ref",
		StoreID:                "shop-1",
		BlueprintID:            77,
		PrintProviderID:        5,
		VariantID:              4321,
		PriceCents:             2500,
		Title:                  "Daily Drop",
		Description:            "Automated artwork",
		AssetsPrefix:           "printify-generated",
		PresignTTL:             time.Hour,
		Publish:                true,
		Visible:                true,
		PrintPosition:          "front",
		X:                      0.5,
		Y:                      0.5,
		Scale:                  1,
	}
}

func newTestPublisher(cfg *infra.PublisherConfig, gen *fakeGenerator, blobs *fakeBlobs, ful *fakeFulfillment) *Publisher {
	return NewPublisher(Options{
		Config:  cfg,
		Secrets: fakeSecrets{"openai-ref": "sk-key", "printify-ref": "pf-token"},
		Blobs:   blobs,
		Logger:  zerolog.Nop(),
		NewGenerator: func(apiKey string) ImageGenerator {
			gen.apiKey = apiKey
			return gen
		},
		NewFulfillment: func(token string) Fulfillment {
			ful.token = token
			return ful
		},
		Now: func() time.Time { return time.Unix(1700000000, 0) },
	})
}

func TestRun_EndToEnd(t *testing.T) {
	cfg := testConfig()
	gen := &fakeGenerator{image: []byte("png")}
	blobs := &fakeBlobs{url: "https://signed.example/art.png"}
	ful := &fakeFulfillment{
		assetID:     "asset-9",
		created:     map[string]any{"id": "prod-1"},
		productID:   "prod-1",
		publishResp: map[string]any{"status": "queued"},
	}

	result, err := newTestPublisher(cfg, gen, blobs, ful).Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if gen.apiKey != "sk-key" {
		t.Fatalf("generator got key %q", gen.apiKey)
	}
	if ful.token != "pf-token" {
		t.Fatalf("fulfillment got token %q", ful.token)
	}
	if !strings.Contains(gen.prompt, "Daily Drop") {
		t.Fatalf("prompt %q missing title", gen.prompt)
	}
	if !strings.HasPrefix(blobs.putKey, "printify-generated/1700000000-") {
		t.Fatalf("unexpected object key %q", blobs.putKey)
	}
	if blobs.contentType != "image/png" {
		t.Fatalf("unexpected content type %q", blobs.contentType)
	}
	if blobs.signedTTL != time.Hour {
		t.Fatalf("unexpected presign ttl %v", blobs.signedTTL)
	}
	if ful.uploadName != "1700000000.png" {
		t.Fatalf("unexpected upload name %q", ful.uploadName)
	}
	if ful.uploadURL != blobs.url {
		t.Fatalf("upload url %q is not the signed url", ful.uploadURL)
	}

	def := ful.def
	if def.BlueprintID != 77 || def.PrintProviderID != 5 {
		t.Fatalf("unexpected blueprint/provider %d/%d", def.BlueprintID, def.PrintProviderID)
	}
	if len(def.Variants) != 1 || def.Variants[0].ID != 4321 || def.Variants[0].Price != 2500 || !def.Variants[0].IsEnabled {
		t.Fatalf("unexpected variants %+v", def.Variants)
	}
	if len(def.PrintAreas) != 1 || len(def.PrintAreas[0].Placeholders) != 1 {
		t.Fatalf("unexpected print areas %+v", def.PrintAreas)
	}
	img := def.PrintAreas[0].Placeholders[0].Images[0]
	if img.ID != "asset-9" || img.X != 0.5 || img.Y != 0.5 || img.Scale != 1 || img.Angle != 0 {
		t.Fatalf("unexpected placement %+v", img)
	}

	if !result.OK {
		t.Fatal("expected ok result")
	}
	if result.S3.Bucket != "test-bucket" || result.S3.Key != blobs.putKey {
		t.Fatalf("unexpected storage result %+v", result.S3)
	}
	if result.Printify.ProductID != "prod-1" || !result.Printify.Published {
		t.Fatalf("unexpected printify result %+v", result.Printify)
	}
	if result.Printify.PublishResponse["status"] != "queued" {
		t.Fatalf("publish response not carried: %+v", result.Printify.PublishResponse)
	}
	if ful.published != "prod-1" {
		t.Fatalf("published wrong product %q", ful.published)
	}
}

func TestRun_PublishDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Publish = false
	gen := &fakeGenerator{image: []byte("png")}
	blobs := &fakeBlobs{url: "https://signed.example/a.png"}
	ful := &fakeFulfillment{assetID: "a", created: map[string]any{"id": "p"}, productID: "p"}

	result, err := newTestPublisher(cfg, gen, blobs, ful).Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if result.Printify.Published {
		t.Fatal("expected published=false")
	}
	if result.Printify.PublishResponse != nil {
		t.Fatalf("expected no publish response, got %v", result.Printify.PublishResponse)
	}
	if ful.published != "" {
		t.Fatal("publish should not have been called")
	}
}

func TestRun_MissingProductIDSkipsPublish(t *testing.T) {
	cfg := testConfig()
	gen := &fakeGenerator{image: []byte("png")}
	blobs := &fakeBlobs{url: "https://signed.example/a.png"}
	ful := &fakeFulfillment{assetID: "a", created: map[string]any{"detail": "no id"}, productID: ""}

	result, err := newTestPublisher(cfg, gen, blobs, ful).Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if result.Printify.Published {
		t.Fatal("expected publish skipped without product id")
	}
	if ful.published != "" {
		t.Fatal("publish should not have been called")
	}
	if result.Printify.Created["detail"] != "no id" {
		t.Fatalf("create response not carried: %v", result.Printify.Created)
	}
}

func TestRun_GenerationFailureAborts(t *testing.T) {
	cfg := testConfig()
	gen := &fakeGenerator{err: &httpx.ShapeError{Source: "openai image", Body: `{"data":[]}`}}
	blobs := &fakeBlobs{url: "https://signed.example/a.png"}
	ful := &fakeFulfillment{}

	_, err := newTestPublisher(cfg, gen, blobs, ful).Run(context.Background())
	var shape *httpx.ShapeError
	if !errors.As(err, &shape) {
		t.Fatalf("expected ShapeError, got %v", err)
	}
	if blobs.putKey != "" {
		t.Fatal("nothing should be stored after a failed generation")
	}
	if ful.uploadName != "" {
		t.Fatal("no upload should happen after a failed generation")
	}
}

func TestRun_MissingSecretAborts(t *testing.T) {
	cfg := testConfig()
	publisher := NewPublisher(Options{
		Config:  cfg,
		Secrets: fakeSecrets{},
		Blobs:   &fakeBlobs{},
		Logger:  zerolog.Nop(),
		NewGenerator: func(string) ImageGenerator {
			t.Fatal("generator should not be constructed")
			return nil
		},
		NewFulfillment: func(string) Fulfillment { return &fakeFulfillment{} },
	})
	if _, err := publisher.Run(context.Background()); err == nil {
		t.Fatal("expected error for missing secret")
	}
}

// Package pipeline implements the scheduled product-publishing job: generate
// artwork, store it, register it with the fulfillment platform, and create
// (optionally publish) the product.
//
// Control flow is strictly sequential; each stage's output feeds the next and
// the first failure aborts the run. There is no rollback of earlier side
// effects and no internal retry; the scheduler decides whether to re-trigger.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/infra"
	"storefront/internal/openai"
	"storefront/internal/printify"
	"storefront/internal/storage"
)

// SecretResolver resolves credential values by opaque reference.
type SecretResolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

// ImageGenerator produces raw image bytes for a prompt.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}

// Fulfillment is the slice of the fulfillment API the pipeline uses.
type Fulfillment interface {
	UploadImage(ctx context.Context, fileName, imageURL string) (string, error)
	CreateProduct(ctx context.Context, def printify.ProductDefinition) (map[string]any, string, error)
	PublishProduct(ctx context.Context, productID string) (map[string]any, error)
}

// Result is the structured outcome of a successful run. The field names
// mirror the contract consumed by the scheduler.
type Result struct {
	OK       bool           `json:"ok"`
	S3       StorageResult  `json:"s3"`
	Printify PrintifyResult `json:"printify"`
}

type StorageResult struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

type PrintifyResult struct {
	ProductID       string         `json:"product_id"`
	Created         map[string]any `json:"created"`
	Published       bool           `json:"published"`
	PublishResponse map[string]any `json:"publish_response"`
}

// Options wires the publisher's collaborators. NewGenerator and
// NewFulfillment exist because both clients are constructed only after their
// credentials have been resolved; tests substitute fakes here.
type Options struct {
	Config         *infra.PublisherConfig
	Secrets        SecretResolver
	Blobs          storage.BlobStore
	Logger         infra.Logger
	NewGenerator   func(apiKey string) ImageGenerator
	NewFulfillment func(token string) Fulfillment
	Now            func() time.Time
}

// Publisher runs the five-stage pipeline. One instance is safe for repeated
// sequential runs; concurrent runs are not coordinated against each other.
type Publisher struct {
	cfg            *infra.PublisherConfig
	secrets        SecretResolver
	blobs          storage.BlobStore
	logger         infra.Logger
	newGenerator   func(apiKey string) ImageGenerator
	newFulfillment func(token string) Fulfillment
	now            func() time.Time
}

func NewPublisher(opts Options) *Publisher {
	p := &Publisher{
		cfg:            opts.Config,
		secrets:        opts.Secrets,
		blobs:          opts.Blobs,
		logger:         opts.Logger,
		newGenerator:   opts.NewGenerator,
		newFulfillment: opts.NewFulfillment,
		now:            opts.Now,
	}
	if p.newGenerator == nil {
		p.newGenerator = func(apiKey string) ImageGenerator {
			return openai.NewClient(openai.Options{
				APIKey:         apiKey,
				BaseURL:        p.cfg.OpenAIBaseURL,
				Model:          p.cfg.OpenAIModel,
				Size:           p.cfg.OpenAISize,
				RequestTimeout: p.cfg.OpenAITimeout,
				Logger:         &p.logger,
			})
		}
	}
	if p.newFulfillment == nil {
		p.newFulfillment = func(token string) Fulfillment {
			return printify.NewClient(printify.Options{
				Token:          token,
				ShopID:         p.cfg.StoreID,
				BaseURL:        p.cfg.PrintifyBaseURL,
				RequestTimeout: p.cfg.PrintifyTimeout,
				Logger:         &p.logger,
			})
		}
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p
}

// Run executes one pipeline invocation. Any stage failure aborts the run and
// surfaces unmodified; no partial result is returned.
func (p *Publisher) Run(ctx context.Context) (*Result, error) {
	openaiKey, err := p.secrets.Resolve(ctx, p.cfg.OpenAIKeySecretRef)
	if err != nil {
		return nil, fmt.Errorf("resolve openai key: %w", err)
	}
	printifyToken, err := p.secrets.Resolve(ctx, p.cfg.PrintifyTokenSecretRef)
	if err != nil {
		return nil, fmt.Errorf("resolve printify token: %w", err)
	}
	p.logger.Info().Msg("publisher: secrets resolved")

	prompt := BuildPrompt(p.cfg.Prompt, p.cfg.Title)
	image, err := p.newGenerator(openaiKey).GenerateImage(ctx, prompt)
	if err != nil {
		return nil, err
	}
	p.logger.Info().Int("bytes", len(image)).Msg("publisher: image generated")

	ts := p.now()
	key, err := storage.NewObjectKey(p.cfg.AssetsPrefix, ts)
	if err != nil {
		return nil, err
	}
	if err := p.blobs.Put(ctx, key, image, "image/png"); err != nil {
		return nil, err
	}
	signedURL, err := p.blobs.SignedURL(ctx, key, p.cfg.PresignTTL)
	if err != nil {
		return nil, err
	}
	p.logger.Info().Str("key", key).Msg("publisher: artwork stored")

	fulfillment := p.newFulfillment(printifyToken)
	assetID, err := fulfillment.UploadImage(ctx, fmt.Sprintf("%d.png", ts.Unix()), signedURL)
	if err != nil {
		return nil, err
	}
	p.logger.Info().Str("asset_id", assetID).Msg("publisher: asset uploaded")

	created, productID, err := fulfillment.CreateProduct(ctx, p.productDefinition(assetID))
	if err != nil {
		return nil, err
	}

	// Publish only when requested and the create response carried an id.
	// A missing id silently skips publish rather than failing the run.
	var publishResponse map[string]any
	published := false
	if p.cfg.Publish && productID != "" {
		publishResponse, err = fulfillment.PublishProduct(ctx, productID)
		if err != nil {
			return nil, err
		}
		published = true
	}

	return &Result{
		OK: true,
		S3: StorageResult{Bucket: p.blobs.Bucket(), Key: key},
		Printify: PrintifyResult{
			ProductID:       productID,
			Created:         created,
			Published:       published,
			PublishResponse: publishResponse,
		},
	}, nil
}

// productDefinition builds the single-variant product referencing the
// uploaded asset in one print-area placement.
func (p *Publisher) productDefinition(assetID string) printify.ProductDefinition {
	return printify.ProductDefinition{
		Title:           p.cfg.Title,
		Description:     p.cfg.Description,
		BlueprintID:     p.cfg.BlueprintID,
		PrintProviderID: p.cfg.PrintProviderID,
		Variants: []printify.DefinitionVariant{{
			ID:        p.cfg.VariantID,
			Price:     p.cfg.PriceCents,
			IsEnabled: true,
		}},
		PrintAreas: []printify.PrintArea{{
			VariantIDs: []int{p.cfg.VariantID},
			Placeholders: []printify.Placeholder{{
				Position: p.cfg.PrintPosition,
				Images: []printify.PlacementImage{{
					ID:    assetID,
					X:     p.cfg.X,
					Y:     p.cfg.Y,
					Scale: p.cfg.Scale,
					Angle: p.cfg.Angle,
				}},
			}},
		}},
		Visible: p.cfg.Visible,
	}
}

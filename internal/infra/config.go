package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ConfigError reports a missing or unparseable configuration value. It is
// returned before any network call is made.
type ConfigError struct {
	Name   string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s %s", e.Name, e.Reason)
}

// Config represents the storefront API configuration loaded from environment
// variables.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	RedisURL           string
	AdminToken         string
	PrintifyAPIToken   string
	PrintifyStoreID    string
	PrintifyBaseURL    string
	PrintifyTimeout    time.Duration
	PayPalClientID     string
	PayPalClientSecret string
	PayPalMode         string
	GeoIPDBPath        string
	StoragePath        string
	StorageBaseURL     string
	LocalSigningSecret string
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	RateLimitPerMin    int
	CORSOrigins        []string
	DefaultLocale      string
}

// LoadConfig loads the API configuration and applies defaults where needed.
// Printify and PayPal credentials are optional: unconfigured collaborators
// degrade to empty listings or 500 responses rather than preventing startup.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           os.Getenv("REDIS_URL"),
		AdminToken:         os.Getenv("ADMIN_TOKEN"),
		PrintifyAPIToken:   os.Getenv("PRINTIFY_API_TOKEN"),
		PrintifyStoreID:    os.Getenv("PRINTIFY_STORE_ID"),
		PrintifyBaseURL:    getEnv("PRINTIFY_BASE_URL", "https://api.printify.com/v1"),
		PrintifyTimeout:    getEnvDurationMS("PRINTIFY_TIMEOUT_MS", 120_000),
		PayPalClientID:     os.Getenv("PAYPAL_CLIENT_ID"),
		PayPalClientSecret: os.Getenv("PAYPAL_CLIENT_SECRET"),
		PayPalMode:         getEnv("PAYPAL_MODE", "sandbox"),
		GeoIPDBPath:        os.Getenv("GEOIP_DB_PATH"),
		StoragePath:        getEnv("STORAGE_PATH", "./storage"),
		StorageBaseURL:     getEnv("STORAGE_BASE_URL", "http://localhost:8080/static"),
		LocalSigningSecret: getEnv("LOCAL_SIGNING_SECRET", "local-dev-secret"),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		CORSOrigins:        getEnvList("CORS_ALLOWED_ORIGINS"),
		DefaultLocale:      getEnv("DEFAULT_LOCALE", "en"),
	}

	if cfg.DatabaseURL == "" {
		return nil, &ConfigError{Name: "DATABASE_URL", Reason: "is required"}
	}

	return cfg, nil
}

// PublisherConfig holds everything the scheduled product-publishing pipeline
// needs. Required fields are validated up front so that a misconfigured run
// fails before resolving secrets or touching the network.
type PublisherConfig struct {
	AppEnv      string
	DatabaseURL string

	OpenAIKeySecretRef     string
	PrintifyTokenSecretRef string

	StoreID         string
	BlueprintID     int
	PrintProviderID int
	VariantID       int
	PriceCents      int

	Title       string
	Description string
	Prompt      string

	OpenAIBaseURL   string
	OpenAIModel     string
	OpenAISize      string
	OpenAITimeout   time.Duration
	PrintifyBaseURL string
	PrintifyTimeout time.Duration

	BlobDriver         string
	AssetsBucket       string
	AssetsPrefix       string
	PresignTTL         time.Duration
	StoragePath        string
	StorageBaseURL     string
	LocalSigningSecret string

	Publish       bool
	Visible       bool
	PrintPosition string
	X             float64
	Y             float64
	Scale         float64
	Angle         float64

	PublishCron string
}

// LoadPublisherConfig loads and validates the pipeline configuration.
func LoadPublisherConfig() (*PublisherConfig, error) {
	cfg := &PublisherConfig{
		AppEnv:             getEnv("APP_ENV", "development"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		StoreID:            os.Getenv("PRINTIFY_STORE_ID"),
		PriceCents:         getEnvInt("PRINTIFY_PRICE_CENTS", 1999),
		Title:              getEnv("PRODUCT_TITLE", "AI Generated Product"),
		Description:        getEnv("PRODUCT_DESCRIPTION", "Auto-created by the scheduled publisher"),
		Prompt:             os.Getenv("OPENAI_IMAGE_PROMPT"),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:        getEnv("OPENAI_IMAGE_MODEL", "gpt-image-1"),
		OpenAISize:         getEnv("OPENAI_IMAGE_SIZE", "1024x1024"),
		OpenAITimeout:      getEnvDurationMS("OPENAI_TIMEOUT_MS", 120_000),
		PrintifyBaseURL:    getEnv("PRINTIFY_BASE_URL", "https://api.printify.com/v1"),
		PrintifyTimeout:    getEnvDurationMS("PRINTIFY_TIMEOUT_MS", 120_000),
		BlobDriver:         getEnv("BLOB_DRIVER", "gcs"),
		AssetsPrefix:       getEnv("ASSETS_PREFIX", "printify-generated"),
		PresignTTL:         time.Second * time.Duration(getEnvInt("S3_PRESIGN_TTL_SECONDS", 3600)),
		StoragePath:        getEnv("STORAGE_PATH", "./storage"),
		StorageBaseURL:     getEnv("STORAGE_BASE_URL", "http://localhost:8080/static"),
		LocalSigningSecret: getEnv("LOCAL_SIGNING_SECRET", "local-dev-secret"),
		Publish:            getEnvBool("PRINTIFY_PUBLISH", false),
		Visible:            getEnvBool("PRINTIFY_VISIBLE", false),
		PrintPosition:      getEnv("PRINTIFY_PRINT_POSITION", "front"),
		PublishCron:        os.Getenv("PUBLISH_CRON"),
	}

	var err error
	if cfg.OpenAIKeySecretRef, err = requireEnv("OPENAI_API_KEY_SECRET_ARN"); err != nil {
		return nil, err
	}
	if cfg.PrintifyTokenSecretRef, err = requireEnv("PRINTIFY_API_TOKEN_SECRET_ARN"); err != nil {
		return nil, err
	}
	if cfg.StoreID == "" {
		return nil, &ConfigError{Name: "PRINTIFY_STORE_ID", Reason: "is required"}
	}
	if cfg.BlueprintID, err = requireEnvNumber("PRINTIFY_BLUEPRINT_ID"); err != nil {
		return nil, err
	}
	if cfg.PrintProviderID, err = requireEnvNumber("PRINTIFY_PRINT_PROVIDER_ID"); err != nil {
		return nil, err
	}
	if cfg.VariantID, err = requireEnvNumber("PRINTIFY_VARIANT_ID"); err != nil {
		return nil, err
	}
	if cfg.AssetsBucket, err = requireEnv("ASSETS_BUCKET"); err != nil {
		return nil, err
	}
	if cfg.X, err = getEnvFloat("PRINTIFY_X", 0.5); err != nil {
		return nil, err
	}
	if cfg.Y, err = getEnvFloat("PRINTIFY_Y", 0.5); err != nil {
		return nil, err
	}
	if cfg.Scale, err = getEnvFloat("PRINTIFY_SCALE", 1); err != nil {
		return nil, err
	}
	if cfg.Angle, err = getEnvFloat("PRINTIFY_ANGLE", 0); err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, &ConfigError{Name: "DATABASE_URL", Reason: "is required"}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return b
	}
	return fallback
}

func getEnvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvDurationMS(key string, fallbackMS int) time.Duration {
	return time.Millisecond * time.Duration(getEnvInt(key, fallbackMS))
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, &ConfigError{Name: key, Reason: fmt.Sprintf("is not a number: %q", v)}
	}
	return f, nil
}

func requireEnv(key string) (string, error) {
	v := os.Getenv(key)
	if v == "" {
		return "", &ConfigError{Name: key, Reason: "is required"}
	}
	return v, nil
}

func requireEnvNumber(key string) (int, error) {
	v, err := requireEnv(key)
	if err != nil {
		return 0, err
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, &ConfigError{Name: key, Reason: fmt.Sprintf("is not a number: %q", v)}
	}
	return i, nil
}

package config

import (
	"fmt"
	"github.com/joho/godotenv"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	// Environment
	RunMode string // Set via flag, not env

	// Remote API
	APIBaseURL        string
	RequestTimeout    time.Duration
	RequestsPerSecond float64
	RequestBurst      int

	// Server
	ApiPort           string
	ServiceApiPort    string
	ViewIdleTTL       time.Duration
	MaxViews          int
	CorsAllowedOrigin string
	ApiRateLimit      float64 // requests per second per client
	ApiRateBurst      int

	// Background worker
	WorkerConcurrency int

	// Redis (local preference slots, task queue)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Local store slots
	LocalStorePrefix string
	WishlistSlot     string
	TokenSlot        string
	ThemeSlot        string

	// Collections
	DefaultPageSize  int
	AdminPageSize    int
	CountConcurrency int // 0 means one goroutine per parent

	// Workflow
	SellerUpsertRetries int

	// Export
	ExportDir      string
	AwsAccessKeyID string
	AwsSecretKey   string
	AwsRegion      string
	AwsS3Bucket    string
	ExportLinkTTL  time.Duration
}

// Load configuration from environment variables.
// RunMode needs to be passed in as it comes from command-line flags.
func Load(runMode string) (*Config, error) {
	// Load .env file, ignoring errors if it doesn't exist
	godotenv.Load()

	cfg := &Config{
		RunMode: runMode,
	}

	var err error

	getEnv := func(key, defaultValue string) string {
		if value, exists := os.LookupEnv(key); exists {
			return value
		}
		return defaultValue
	}

	getRequiredEnv := func(key string) (string, error) {
		value, exists := os.LookupEnv(key)
		if !exists || value == "" {
			return "", fmt.Errorf("missing required environment variable: %s", key)
		}
		return value, nil
	}

	cfg.APIBaseURL, err = getRequiredEnv("API_BASE_URL")
	if err != nil {
		return nil, err
	}
	cfg.ApiPort = getEnv("API_PORT", "8090")
	cfg.ServiceApiPort = getEnv("SERVICE_API_PORT", "8091")
	cfg.CorsAllowedOrigin = getEnv("CORS_ALLOWED_ORIGIN", "*")
	cfg.RedisAddr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.LocalStorePrefix = getEnv("LOCAL_STORE_PREFIX", "hilton")
	cfg.WishlistSlot = getEnv("WISHLIST_SLOT", "wishlist")
	cfg.TokenSlot = getEnv("TOKEN_SLOT", "adminToken")
	cfg.ThemeSlot = getEnv("THEME_SLOT", "theme")
	cfg.ExportDir = getEnv("EXPORT_DIR", "exports")
	cfg.AwsAccessKeyID = getEnv("AWS_ACCESS_KEY_ID", "")
	cfg.AwsSecretKey = getEnv("AWS_SECRET_ACCESS_KEY", "")
	cfg.AwsRegion = getEnv("AWS_REGION", "")
	cfg.AwsS3Bucket = getEnv("AWS_S3_BUCKET", "")

	cfg.RedisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	timeoutSeconds, err := strconv.ParseInt(getEnv("REQUEST_TIMEOUT_SECONDS", "30"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT_SECONDS: %w", err)
	}
	cfg.RequestTimeout = time.Duration(timeoutSeconds) * time.Second

	cfg.RequestsPerSecond, err = strconv.ParseFloat(getEnv("REQUESTS_PER_SECOND", "10"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid REQUESTS_PER_SECOND: %w", err)
	}

	cfg.RequestBurst, err = strconv.Atoi(getEnv("REQUEST_BURST", "20"))
	if err != nil {
		return nil, fmt.Errorf("invalid REQUEST_BURST: %w", err)
	}

	viewTTLSeconds, err := strconv.ParseInt(getEnv("VIEW_IDLE_TTL_SECONDS", "900"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid VIEW_IDLE_TTL_SECONDS: %w", err)
	}
	cfg.ViewIdleTTL = time.Duration(viewTTLSeconds) * time.Second

	cfg.MaxViews, err = strconv.Atoi(getEnv("MAX_VIEWS", "1000"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_VIEWS: %w", err)
	}

	cfg.ApiRateLimit, err = strconv.ParseFloat(getEnv("API_RATE_LIMIT", "20"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid API_RATE_LIMIT: %w", err)
	}

	cfg.ApiRateBurst, err = strconv.Atoi(getEnv("API_RATE_BURST", "40"))
	if err != nil {
		return nil, fmt.Errorf("invalid API_RATE_BURST: %w", err)
	}

	cfg.WorkerConcurrency, err = strconv.Atoi(getEnv("WORKER_CONCURRENCY", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid WORKER_CONCURRENCY: %w", err)
	}

	cfg.DefaultPageSize, err = strconv.Atoi(getEnv("DEFAULT_PAGE_SIZE", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_PAGE_SIZE: %w", err)
	}

	cfg.AdminPageSize, err = strconv.Atoi(getEnv("ADMIN_PAGE_SIZE", "200"))
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_PAGE_SIZE: %w", err)
	}

	cfg.CountConcurrency, err = strconv.Atoi(getEnv("COUNT_CONCURRENCY", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid COUNT_CONCURRENCY: %w", err)
	}

	cfg.SellerUpsertRetries, err = strconv.Atoi(getEnv("SELLER_UPSERT_RETRIES", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid SELLER_UPSERT_RETRIES: %w", err)
	}

	exportLinkTTLMinutes, err := strconv.ParseInt(getEnv("EXPORT_LINK_TTL_MINUTES", "15"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid EXPORT_LINK_TTL_MINUTES: %w", err)
	}
	cfg.ExportLinkTTL = time.Duration(exportLinkTTLMinutes) * time.Minute

	return cfg, nil
}

package internal

import (
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DukeRupert/matrixkit/internal/middleware"
	"github.com/DukeRupert/matrixkit/internal/mosaic"
	"github.com/joho/godotenv"
)

// Default mosaic patterns, in row notation separated by ";".
const (
	DefaultMosaicPatterns         = "v|h,h,h,h;v|h,h,h,v;h|h,h,h,v"
	DefaultMosaicOverflowPatterns = "h,h,h,v;h,h,h,h;h,h"
)

type Config struct {
	Env      string
	Port     int
	LogLevel string

	// DatabaseUrl is optional; without it the news listing answers 503.
	DatabaseUrl string

	// Storage Configuration
	StorageProvider string // "local" or "r2"

	// Local Storage (development)
	LocalStoragePath string // Base directory for local file storage
	LocalStorageURL  string // Base URL for accessing local files

	// R2 Storage (production)
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicURL       string // Optional custom domain URL

	// Listing pagination
	ResultsPerPage  int
	PaginationRange int

	// Gallery mosaics
	MosaicPatterns         []mosaic.Pattern
	MosaicOverflowPatterns []mosaic.Pattern

	// Uploads and carousel syncs allowed per client per window
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Proxies whose X-Forwarded-For / X-Real-IP headers are believed.
	// Empty means client addresses come from the TCP peer only.
	TrustedProxies []netip.Prefix

	// Metrics endpoint authentication
	// If both are empty, the /metrics endpoint will be unprotected (not recommended)
	MetricsUsername string
	MetricsPassword string

	// Article ingest authentication, same rules as metrics
	IngestUsername string
	IngestPassword string
}

func NewConfig() (*Config, error) {
	// Load .env file if it exists (ignored in production)
	_ = godotenv.Load()

	cfg := &Config{
		Env:         getEnv("ENV", "development"),
		Port:        getEnvInt("PORT", 8080),
		LogLevel:    getEnv("LOG_LEVEL", "debug"),
		DatabaseUrl: getEnv("DATABASE_URL", ""),

		// Storage defaults to local filesystem for development
		StorageProvider:  getEnv("STORAGE_PROVIDER", "local"),
		LocalStoragePath: getEnv("LOCAL_STORAGE_PATH", "./storage"),
		LocalStorageURL:  getEnv("LOCAL_STORAGE_URL", "http://localhost:8080/files"),

		// R2 configuration (production only)
		R2AccountID:       getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
		R2SecretAccessKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2BucketName:      getEnv("R2_BUCKET_NAME", ""),
		R2PublicURL:       getEnv("R2_PUBLIC_URL", ""),

		ResultsPerPage:  getEnvInt("RESULTS_PER_PAGE", 10),
		PaginationRange: getEnvInt("PAGINATION_RANGE", 4),

		RateLimitRequests: getEnvInt("RATE_LIMIT_REQUESTS", 30),
		RateLimitWindow:   getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),

		MetricsUsername: getEnv("METRICS_USERNAME", ""),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),
		IngestUsername:  getEnv("INGEST_USERNAME", ""),
		IngestPassword:  getEnv("INGEST_PASSWORD", ""),
	}

	var err error
	if cfg.MosaicPatterns, err = parsePatternEnv("MOSAIC_PATTERNS", DefaultMosaicPatterns); err != nil {
		return nil, err
	}
	if cfg.MosaicOverflowPatterns, err = parsePatternEnv("MOSAIC_OVERFLOW_PATTERNS", DefaultMosaicOverflowPatterns); err != nil {
		return nil, err
	}

	if cfg.ResultsPerPage < 1 {
		return nil, fmt.Errorf("RESULTS_PER_PAGE must be at least 1, got: %d", cfg.ResultsPerPage)
	}
	if cfg.PaginationRange < 0 {
		return nil, fmt.Errorf("PAGINATION_RANGE must not be negative, got: %d", cfg.PaginationRange)
	}
	if cfg.RateLimitRequests < 1 {
		return nil, fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got: %d", cfg.RateLimitRequests)
	}
	if cfg.RateLimitWindow <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got: %s", cfg.RateLimitWindow)
	}
	if cfg.TrustedProxies, err = middleware.ParseTrustedProxies(getEnv("TRUSTED_PROXIES", "")); err != nil {
		return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}

	// Validate storage configuration
	if cfg.StorageProvider == "r2" {
		if cfg.R2AccountID == "" {
			return nil, fmt.Errorf("R2_ACCOUNT_ID is required when STORAGE_PROVIDER is 'r2'")
		}
		if cfg.R2AccessKeyID == "" {
			return nil, fmt.Errorf("R2_ACCESS_KEY_ID is required when STORAGE_PROVIDER is 'r2'")
		}
		if cfg.R2SecretAccessKey == "" {
			return nil, fmt.Errorf("R2_SECRET_ACCESS_KEY is required when STORAGE_PROVIDER is 'r2'")
		}
		if cfg.R2BucketName == "" {
			return nil, fmt.Errorf("R2_BUCKET_NAME is required when STORAGE_PROVIDER is 'r2'")
		}
	} else if cfg.StorageProvider != "local" {
		return nil, fmt.Errorf("STORAGE_PROVIDER must be either 'local' or 'r2', got: %s", cfg.StorageProvider)
	}

	return cfg, nil
}

// IsProduction reports whether the server runs behind TLS in production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// ImageOrigins returns the origins gallery images are served from, for the
// Content-Security-Policy.
func (c *Config) ImageOrigins() []string {
	if c.StorageProvider == "r2" {
		// presigned URLs are served from the account endpoint
		return []string{c.R2PublicURL, "https://" + c.R2AccountID + ".r2.cloudflarestorage.com"}
	}
	return []string{c.LocalStorageURL}
}

func parsePatternEnv(key, fallback string) ([]mosaic.Pattern, error) {
	patterns, err := mosaic.ParsePatterns(getEnv(key, fallback))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	if len(patterns) == 0 {
		return nil, fmt.Errorf("%s must list at least one pattern", key)
	}
	return patterns, nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

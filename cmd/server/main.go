package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DukeRupert/matrixkit/internal"
	"github.com/DukeRupert/matrixkit/internal/handler"
	"github.com/DukeRupert/matrixkit/internal/metrics"
	"github.com/DukeRupert/matrixkit/internal/middleware"
	"github.com/DukeRupert/matrixkit/internal/repository"
	"github.com/DukeRupert/matrixkit/internal/service"
	"github.com/DukeRupert/matrixkit/internal/storage"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// The news listing is the only database consumer; without a database it
	// answers 503 and the rest of the site keeps working.
	var queries service.ArticleQuerier
	if cfg.DatabaseUrl != "" {
		db, err := openDatabase(ctx, cfg.DatabaseUrl)
		if err != nil {
			return err
		}
		defer db.Close()
		queries = repository.New(db)
		logger.Info("Database ready")
	} else {
		logger.Warn("DATABASE_URL not set, news listing disabled")
	}

	store, err := newStorage(cfg, logger)
	if err != nil {
		return fmt.Errorf("storage initialization failed: %w", err)
	}

	// Initialize services
	articleService := service.NewArticleService(queries, cfg.ResultsPerPage, logger)
	galleryService := service.NewGalleryService(store, service.NewImagingProcessor(), service.GalleryLayout{
		Patterns:         cfg.MosaicPatterns,
		OverflowPatterns: cfg.MosaicOverflowPatterns,
	}, logger)

	// Initialize middleware
	metricsAuth := middleware.NewBasicAuthMiddleware("metrics", cfg.MetricsUsername, cfg.MetricsPassword)
	if !metricsAuth.Enabled() {
		logger.Warn("METRICS_USERNAME/METRICS_PASSWORD not set, /metrics is unprotected")
	}
	ingestAuth := middleware.NewBasicAuthMiddleware("ingest", cfg.IngestUsername, cfg.IngestPassword)
	if !ingestAuth.Enabled() {
		logger.Warn("INGEST_USERNAME/INGEST_PASSWORD not set, article ingest and gallery uploads are unprotected")
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	defer limiter.Stop()
	clientIP := middleware.NewClientIPResolver(cfg.TrustedProxies)
	rateLimit := middleware.NewRateLimitMiddleware(limiter, clientIP, logger)

	requestLogging := middleware.NewRequestLoggingMiddleware(clientIP, logger)
	securityHeaders := middleware.NewSecurityHeadersMiddleware(cfg.IsProduction(), cfg.ImageOrigins()...)

	// Initialize handlers
	newsHandler := handler.NewNewsHandler(articleService, cfg.PaginationRange, logger)
	galleryHandler := handler.NewGalleryHandler(galleryService, logger)
	layoutHandler := handler.NewLayoutAPIHandler(cfg.MosaicPatterns, cfg.MosaicOverflowPatterns, logger)

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	mux := http.NewServeMux()

	// Static files
	staticFS := http.FileServer(http.Dir("web/static"))
	mux.Handle("GET /static/", http.StripPrefix("/static/", staticFS))

	// Uploaded gallery files, when stored on the local filesystem
	if local, ok := store.(*storage.LocalStorage); ok {
		filesFS := http.FileServer(http.Dir(local.BasePath()))
		mux.Handle("GET /files/", http.StripPrefix("/files/", filesFS))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.Handle("GET /metrics", metricsAuth.Handler(promhttp.Handler()))

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/news", http.StatusFound)
	})

	newsHandler.RegisterRoutes(mux, ingestAuth.Handler)
	galleryHandler.RegisterRoutes(mux, ingestAuth.Handler, rateLimit.Limit)
	layoutHandler.RegisterRoutes(mux, rateLimit.Limit)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		handler.NotFoundResponse(w, r, logger)
	})

	// Outermost first: metrics see every request, including the ones the
	// logger skips.
	var root http.Handler = mux
	root = securityHeaders.Handler(root)
	root = requestLogging.Handler(root)
	root = metrics.Middleware(root)

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           root,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env, "storage", cfg.StorageProvider)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	<-sigChan
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Graceful shutdown complete")
	return nil
}

func openDatabase(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	if err := internal.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return db, nil
}

func newStorage(cfg *internal.Config, logger *slog.Logger) (storage.Storage, error) {
	if cfg.StorageProvider == storage.ProviderR2 {
		return storage.NewR2Storage(storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicURL:       cfg.R2PublicURL,
		}, logger)
	}
	return storage.NewLocalStorage(storage.LocalConfig{
		BasePath: cfg.LocalStoragePath,
		BaseURL:  cfg.LocalStorageURL,
	}, logger)
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

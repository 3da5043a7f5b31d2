package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/steward-ai/steward/internal/aggregate"
	"github.com/steward-ai/steward/internal/api"
	"github.com/steward-ai/steward/internal/dispatch"
	"github.com/steward-ai/steward/internal/intent"
	"github.com/steward-ai/steward/internal/memstore"
	"github.com/steward-ai/steward/internal/providers"
	"github.com/steward-ai/steward/internal/registry"
	"github.com/steward-ai/steward/internal/sandbox"
	"github.com/steward-ai/steward/internal/storage"
)

func main() {
	_ = godotenv.Load() // absent .env is fine

	// Logger
	logger := mustBuildLogger(envOrDefault("STEWARD_LOG_LEVEL", "info"))
	defer logger.Sync() //nolint:errcheck // best-effort flush

	// Config from env
	httpPort := envOrDefault("STEWARD_HTTP_PORT", "8085")
	sandboxRoots := splitList(os.Getenv("STEWARD_SANDBOX_ROOTS"))
	providersFile := os.Getenv("STEWARD_PROVIDERS_FILE")
	defaultListPath := os.Getenv("STEWARD_DEFAULT_LIST_PATH")
	apiKeyHash := os.Getenv("STEWARD_API_KEY_HASH")
	searchTimeoutS := envOrDefaultInt("STEWARD_SEARCH_TIMEOUT_S", 10)
	memoryDBPath := envOrDefault("STEWARD_MEMORY_DB", "steward-memory.db")
	postgresDSN := os.Getenv("POSTGRES_DSN")
	clickhouseDSN := os.Getenv("CLICKHOUSE_DSN")

	if len(sandboxRoots) == 0 {
		logger.Fatal("STEWARD_SANDBOX_ROOTS is required")
	}
	if defaultListPath == "" {
		defaultListPath = sandboxRoots[0]
	}

	logger.Info("starting steward server",
		zap.String("http_port", httpPort),
		zap.Strings("sandbox_roots", sandboxRoots),
		zap.String("default_list_path", defaultListPath),
		zap.Int("search_timeout_s", searchTimeoutS),
	)

	// Sandbox
	policy := sandbox.NewPolicy(sandboxRoots, logger)
	if len(policy.Roots()) == 0 {
		logger.Fatal("no usable sandbox roots")
	}

	// Registry — compiled-in defaults, optionally replaced by an overlay file
	var overlay *registry.OverlayDoc
	if providersFile != "" {
		doc, err := registry.LoadOverlayFile(providersFile, logger)
		if err != nil {
			logger.Fatal("failed to load providers file",
				zap.String("path", providersFile),
				zap.Error(err),
			)
		}
		overlay = doc
	}
	reg, err := registry.New(registry.Apply(overlay, logger))
	if err != nil {
		logger.Fatal("failed to build registry", zap.Error(err))
	}

	// Memory store — Postgres when configured, local SQLite otherwise
	ctx := context.Background()
	var store memstore.Store
	if postgresDSN != "" {
		store, err = memstore.OpenPostgres(ctx, postgresDSN)
		if err != nil {
			logger.Fatal("failed to open postgres memory store", zap.Error(err))
		}
		logger.Info("postgres memory store connected")
	} else {
		store, err = memstore.OpenSQLite(ctx, memoryDBPath)
		if err != nil {
			logger.Fatal("failed to open sqlite memory store",
				zap.String("path", memoryDBPath),
				zap.Error(err),
			)
		}
		logger.Info("sqlite memory store opened", zap.String("path", memoryDBPath))
	}
	defer func() { _ = store.Close() }()

	// Dispatch
	dispatcher := dispatch.New(reg, logger,
		providers.NewFilesystem(policy, logger),
		providers.NewMemory(store, logger),
		providers.NewWebSearch(time.Duration(searchTimeoutS)*time.Second, logger),
		providers.NewDeepWiki(),
		providers.NewWorkflow(),
	)
	mapper := intent.NewMapper(reg, defaultListPath, logger)
	aggregator := aggregate.New(mapper, dispatcher, logger)

	// Storage — ClickHouse or LogWriter fallback
	var writer storage.EventWriter
	if clickhouseDSN != "" {
		chWriter, err := storage.NewClickHouseWriter(clickhouseDSN, logger)
		if err != nil {
			logger.Warn("clickhouse connection failed, falling back to log writer",
				zap.Error(err),
			)
			writer = storage.NewLogWriter(logger)
		} else {
			writer = chWriter
			logger.Info("clickhouse writer connected")
		}
	} else {
		writer = storage.NewLogWriter(logger)
		logger.Info("no CLICKHOUSE_DSN set, using log writer")
	}
	defer writer.Close()

	deps := &api.Dependencies{
		Registry:        reg,
		Mapper:          mapper,
		Dispatcher:      dispatcher,
		Aggregator:      aggregator,
		Writer:          writer,
		Logger:          logger,
		APIKeyHash:      apiKeyHash,
		DefaultListPath: defaultListPath,
	}
	httpServer := &http.Server{
		Addr:         ":" + httpPort,
		Handler:      api.NewRouter(deps),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("http server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	// Block until shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received signal, shutting down", zap.String("signal", sig.String()))

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", zap.Error(err))
	}

	logger.Info("steward server stopped")
}

func mustBuildLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to build logger: %v", err))
	}
	return logger
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, string(os.PathListSeparator)) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

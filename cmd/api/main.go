package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"forum-summarizer/internal/config"
	"forum-summarizer/internal/domain/entity"
	"forum-summarizer/internal/infra/cache"
	"forum-summarizer/internal/infra/htmltext"
	"forum-summarizer/internal/infra/summarizer"
	grpcHealth "forum-summarizer/internal/interface/grpc"
	"forum-summarizer/internal/observability/logging"
	"forum-summarizer/internal/observability/tracing"
	summaryUC "forum-summarizer/internal/usecase/summary"

	hhttp "forum-summarizer/internal/handler/http"
	"forum-summarizer/internal/handler/http/middleware"
	"forum-summarizer/internal/handler/http/requestid"
	hsummary "forum-summarizer/internal/handler/http/summary"

	_ "forum-summarizer/docs" // swagger docs
)

// @title           Forum Summarizer API
// @version         1.0
// @description     Summarizes community forum posts and comments with an upstream model and an extractive fallback.

// @contact.name   API Support

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

func main() {
	cfg := loadConfig()
	logger := initLogger(cfg)

	shutdownTracing := initTracing(logger, cfg)
	defer shutdownTracing()

	components := setupServer(logger, cfg)
	runServer(logger, cfg, components)
}

// loadConfig loads and validates the configuration or exits.
func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	return cfg
}

// initLogger installs the process-wide structured logger.
func initLogger(cfg config.Config) *slog.Logger {
	logger := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)
	return logger
}

// initTracing installs the tracer provider when tracing is enabled and returns
// a function that flushes it.
func initTracing(logger *slog.Logger, cfg config.Config) func() {
	if !cfg.Tracing.Enabled {
		return func() {}
	}

	shutdown, err := tracing.Init(tracing.Config{
		ServiceName:    "forum-summarizer",
		ServiceVersion: cfg.Version,
		SampleRatio:    cfg.Tracing.SampleRatio,
		Exporter:       tracing.NewLogExporter(logger),
	})
	if err != nil {
		logger.Error("failed to initialize tracing", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("tracing enabled", slog.Float64("sample_ratio", cfg.Tracing.SampleRatio))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			logger.Error("tracer shutdown failed", slog.Any("error", err))
		}
	}
}

// ServerComponents holds components needed for server operation and cleanup.
type ServerComponents struct {
	Handler     http.Handler
	Ready       *hhttp.ReadyHandler
	RateLimiter *hhttp.RateLimiter
	Purger      *cache.Purger
	Health      *grpcHealth.HealthServer
}

// setupServer builds the summarizer chain, the summary service and the HTTP
// handler with all routes and middleware.
func setupServer(logger *slog.Logger, cfg config.Config) *ServerComponents {
	chain := buildChain(logger, cfg)

	var (
		resultCache summaryUC.ResultCache
		cacheStats  hhttp.CacheStats
		purger      *cache.Purger
	)
	if cfg.Cache.Size > 0 {
		lru := cache.New[string, entity.SummaryResult](cfg.Cache.Size, cfg.Cache.TTL)
		p, err := cache.NewPurger(lru, cfg.Cache.PurgeSchedule)
		if err != nil {
			logger.Error("failed to create cache purger", slog.Any("error", err))
			os.Exit(1)
		}
		resultCache, cacheStats, purger = lru, lru, p
		logger.Info("summary cache enabled",
			slog.Int("size", cfg.Cache.Size),
			slog.Duration("ttl", cfg.Cache.TTL),
			slog.String("purge_schedule", cfg.Cache.PurgeSchedule))
	} else {
		logger.Info("summary cache disabled")
	}

	svc := summaryUC.NewService(chain, resultCache, htmltext.Extract, summaryUC.Config{
		MaxInputRunes:         cfg.Summary.MaxInputChars,
		UpstreamTimeout:       cfg.Summary.UpstreamTimeout,
		MaxConcurrentUpstream: int64(cfg.Summary.MaxConcurrentUpstream),
	})

	var rateLimiter *hhttp.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = hhttp.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		logger.Info("rate limiting initialized",
			slog.Float64("rps", cfg.RateLimit.RPS),
			slog.Int("burst", cfg.RateLimit.Burst))
	} else {
		logger.Warn("rate limiting is DISABLED - not recommended for production")
	}

	ready := &hhttp.ReadyHandler{}
	mux := setupRoutes(cfg, svc, chain, cacheStats, rateLimiter, ready)

	return &ServerComponents{
		Handler:     applyMiddleware(logger, cfg, mux, rateLimiter),
		Ready:       ready,
		RateLimiter: rateLimiter,
		Purger:      purger,
		Health:      grpcHealth.NewHealthServer(chain, grpcHealth.DefaultRefreshInterval, logger),
	}
}

// buildChain creates the configured upstream providers in order. An empty
// chain makes every request use the extractive fallback.
func buildChain(logger *slog.Logger, cfg config.Config) *summarizer.Chain {
	metrics := summarizer.NewPrometheusSummaryMetrics()
	providers := make([]summarizer.Provider, 0, len(cfg.Providers))

	for _, name := range cfg.Providers {
		pcfg, err := cfg.ProviderConfig(name)
		if err != nil {
			logger.Error("invalid summarizer configuration", slog.Any("error", err))
			os.Exit(1)
		}

		var p summarizer.Provider
		switch name {
		case summarizer.ProviderClaude:
			p = summarizer.NewClaude(pcfg, metrics)
		case summarizer.ProviderOpenAI:
			p = summarizer.NewOpenAI(pcfg, metrics)
		case summarizer.ProviderGemini:
			g, err := summarizer.NewGemini(context.Background(), pcfg, metrics)
			if err != nil {
				logger.Error("failed to create gemini client", slog.Any("error", err))
				os.Exit(1)
			}
			p = g
		}
		providers = append(providers, p)
		logger.Info("upstream summarizer enabled",
			slog.String("provider", name),
			slog.String("model", pcfg.Models.Standard))
	}

	chain := summarizer.NewChain(providers...)
	if chain.Len() == 0 {
		logger.Info("no upstream summarizer configured, using extractive summaries only")
	}
	return chain
}

// setupRoutes registers all HTTP routes.
func setupRoutes(
	cfg config.Config,
	svc *summaryUC.Service,
	chain *summarizer.Chain,
	cacheStats hhttp.CacheStats,
	rateLimiter *hhttp.RateLimiter,
	ready *hhttp.ReadyHandler,
) *http.ServeMux {
	mux := http.NewServeMux()
	hsummary.Register(mux, svc)

	mux.Handle("GET /health", &hhttp.HealthHandler{
		Version:     cfg.Version,
		Upstream:    chain,
		Cache:       cacheStats,
		RateLimiter: rateLimiter,
	})
	mux.Handle("GET /ready", ready)
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	return mux
}

// applyMiddleware wraps the handler with the middleware chain.
// Order (outermost first): Recover → Request ID → Tracing → Logging → Metrics →
// CORS → Rate Limit → Input Validation → Timeout.
func applyMiddleware(logger *slog.Logger, cfg config.Config, handler http.Handler, rateLimiter *hhttp.RateLimiter) http.Handler {
	logger.Info("CORS configured",
		slog.Int("allowed_origins_count", len(cfg.CORS.AllowedOrigins)),
		slog.Any("allowed_origins", cfg.CORS.AllowedOrigins),
		slog.Int("max_age", cfg.CORS.MaxAge))

	chain := handler

	// Apply in reverse order (innermost to outermost)
	chain = hhttp.Timeout(cfg.Server.RequestTimeout)(chain)
	chain = hhttp.InputValidation(cfg.Server.MaxBodyBytes)(chain)
	if rateLimiter != nil {
		chain = rateLimiter.Limit(chain)
	}
	chain = middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		MaxAge:         cfg.CORS.MaxAge,
		Logger:         logger,
	})(chain)
	chain = hhttp.MetricsMiddleware(chain)
	chain = hhttp.Logging(logger)(chain)
	if cfg.Tracing.Enabled {
		chain = tracing.Middleware(chain)
	}
	chain = requestid.Middleware(chain)
	chain = hhttp.Recover(logger)(chain)

	return chain
}

// runServer starts the HTTP and gRPC health servers and handles graceful shutdown.
func runServer(logger *slog.Logger, cfg config.Config, components *ServerComponents) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if components.RateLimiter != nil {
		go hhttp.StartRateLimitCleanup(ctx, components.RateLimiter, cfg.RateLimit.CleanupInterval, cfg.RateLimit.IdleTimeout)
		logger.Info("rate limit cleanup started",
			slog.Duration("interval", cfg.RateLimit.CleanupInterval),
			slog.Duration("idle_timeout", cfg.RateLimit.IdleTimeout))
	}

	if components.Purger != nil {
		components.Purger.Start()
		defer components.Purger.Stop()
	}

	if cfg.Server.GRPCHealthAddr != "" {
		lis, err := net.Listen("tcp", cfg.Server.GRPCHealthAddr)
		if err != nil {
			logger.Error("failed to listen for gRPC health", slog.Any("error", err))
			os.Exit(1)
		}
		go components.Health.Run(ctx)
		go func() {
			logger.Info("gRPC health server starting", slog.String("addr", cfg.Server.GRPCHealthAddr))
			if err := components.Health.Serve(lis); err != nil {
				logger.Error("gRPC health server failed", slog.Any("error", err))
			}
		}()
		defer components.Health.Shutdown()
	}

	srv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           components.Handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", cfg.Server.HTTPAddr),
			slog.String("version", cfg.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()
	components.Ready.SetReady(true)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	components.Ready.SetReady(false)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}

	// Cancel background goroutines after in-flight requests have drained
	cancel()
	logger.Info("server stopped")
}

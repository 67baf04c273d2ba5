package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/pprof"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	validator "github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/choco-corner/internal/catalog"
	"github.com/noah-isme/choco-corner/internal/common"
	"github.com/noah-isme/choco-corner/internal/config"
	"github.com/noah-isme/choco-corner/internal/events"
	"github.com/noah-isme/choco-corner/internal/health"
	"github.com/noah-isme/choco-corner/internal/inventory"
	"github.com/noah-isme/choco-corner/internal/obs"
	"github.com/noah-isme/choco-corner/internal/order"
	"github.com/noah-isme/choco-corner/internal/payment"
	"github.com/noah-isme/choco-corner/internal/ratelimit"
	"github.com/noah-isme/choco-corner/internal/resilience"
	"github.com/noah-isme/choco-corner/internal/shop"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("env", cfg.AppEnv).Logger()

	metricsNamespace := envOrDefault("OBS_METRICS_NAMESPACE", "choco")
	metricsEnabled := envBool("OBS_ENABLE_PROMETHEUS", true)
	obs.MustRegisterDomainMetrics(metricsNamespace, nil)

	tracingEnabled := envBool("OBS_ENABLE_TRACING", false)
	if tracingEnabled {
		sampling := envFloat("OBS_TRACING_SAMPLING_RATIO", 1.0)
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName:   "choco-corner-api",
			Endpoint:      envOrDefault("OBS_OTLP_ENDPOINT", ""),
			SamplingRatio: sampling,
			Environment:   cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
			tracingEnabled = false
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	menu := catalog.Default()
	ledger := inventory.NewLedger()
	for _, entry := range menu.Entries() {
		if cfg.SeedStock > 0 {
			if err := ledger.AddStock(entry.ID, cfg.SeedStock); err != nil {
				logger.Fatal().Err(err).Str("entry", entry.ID).Msg("seed stock")
			}
		}
	}

	breaker := resilience.NewBreaker(
		envInt("PAYMENT_BREAKER_MIN_REQUESTS", 5),
		envFloat("PAYMENT_BREAKER_FAILURE_RATIO", 0.5),
		envDurationMillis("PAYMENT_BREAKER_OPEN_MS", 30000),
	).WithTarget("payment").WithLogger(logger)

	gateway := payment.Resilient{
		Next:    payment.Simulated{Delay: cfg.PaymentDelay, Logger: logger},
		Breaker: breaker,
		Timeout: cfg.PaymentTimeout,
	}

	orderLog := order.NewLog()
	bus := &events.Bus{Notifiers: []events.Notifier{
		events.LogNotifier{Logger: logger},
		events.MetricsNotifier{},
	}}

	shopSvc, err := shop.NewService(shop.ServiceConfig{
		Catalog:         menu,
		Ledger:          ledger,
		Gateway:         gateway,
		Orders:          orderLog,
		Events:          bus,
		Logger:          logger,
		DiscountPercent: cfg.DiscountPercent,
		TaxPercent:      cfg.TaxPercent,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise shop service")
	}

	catalogHandler := catalog.NewHandler(catalog.HandlerConfig{Catalog: menu})
	shopHandler := &shop.Handler{
		Svc:      shopSvc,
		Validate: validator.New(validator.WithRequiredStructEnabled()),
		PageSize: cfg.OrdersPageSize,
	}

	var httpMetrics *obs.HTTPMetrics
	if metricsEnabled {
		buckets := obs.ParseBucketsCSV(envOrDefault("OBS_METRICS_BUCKETS_MS", ""))
		httpMetrics = obs.NewHTTPMetrics(metricsNamespace, buckets, nil)
	}

	limiter := ratelimit.Handler{
		Limiter: ratelimit.NewMemory(),
		Config: ratelimit.Config{
			Key:    common.ClientIP,
			Window: cfg.RateLimitWindow,
			Max:    cfg.RateLimitMax,
		},
		OnError: func(err error) {
			logger.Error().Err(err).Msg("rate limiter")
		},
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if tracingEnabled {
		r.Use(obs.TracingMiddleware)
	}
	if metricsEnabled && httpMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins(cfg),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}
	if envBool("OBS_ENABLE_PPROF", false) {
		r.Mount("/debug/pprof", newPprofMux())
	}

	healthHandler := health.Handler{
		Checker:        readinessChecker{gateway: gateway, catalog: menu},
		GatewayTimeout: envDurationMillis("HEALTH_READY_GATEWAY_TIMEOUT_MS", 500),
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		v.Get("/catalog", catalogHandler.List)
		v.Get("/inventory", shopHandler.GetInventory)
		v.Get("/orders", shopHandler.GetOrders)
		v.Group(func(g chi.Router) {
			g.Use(limiter.Middleware)
			g.Post("/quotes", shopHandler.PostQuote)
			g.Post("/purchases", shopHandler.PostPurchase)
		})
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: r,
	}

	logger.Info().Str("addr", srv.Addr).Msg("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server exited unexpectedly")
	}
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

type readinessChecker struct {
	gateway payment.Gateway
	catalog *catalog.Catalog
}

// PingGateway probes the in-process gateway. There is no remote endpoint to
// reach, so the probe only confirms wiring and context health.
func (c readinessChecker) PingGateway(ctx context.Context, timeout time.Duration) error {
	if c.gateway == nil {
		return errors.New("gateway not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return ctx.Err()
}

func (c readinessChecker) CatalogSize() int {
	if c.catalog == nil {
		return 0
	}
	return c.catalog.Len()
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "1", "t", "true", "yes", "on":
			return true
		case "0", "f", "false", "no", "off":
			return false
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDurationMillis(key string, fallback int) time.Duration {
	return time.Duration(envInt(key, fallback)) * time.Millisecond
}

func newPprofMux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", pprof.Index)
	mux.HandleFunc("/cmdline", pprof.Cmdline)
	mux.HandleFunc("/profile", pprof.Profile)
	mux.HandleFunc("/symbol", pprof.Symbol)
	mux.HandleFunc("/trace", pprof.Trace)
	mux.Handle("/heap", pprof.Handler("heap"))
	mux.Handle("/goroutine", pprof.Handler("goroutine"))
	return mux
}

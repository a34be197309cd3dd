package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/coaching-intake/cmd/mainconfig"
	"github.com/wolfman30/coaching-intake/internal/api/router"
	"github.com/wolfman30/coaching-intake/internal/app/bootstrap"
	"github.com/wolfman30/coaching-intake/internal/archive"
	appconfig "github.com/wolfman30/coaching-intake/internal/config"
	httpmiddleware "github.com/wolfman30/coaching-intake/internal/http/middleware"
	"github.com/wolfman30/coaching-intake/internal/intake"
	"github.com/wolfman30/coaching-intake/internal/leads"
	"github.com/wolfman30/coaching-intake/internal/notify"
	"github.com/wolfman30/coaching-intake/internal/observability/metrics"
	"github.com/wolfman30/coaching-intake/internal/submission"
	"github.com/wolfman30/coaching-intake/pkg/logging"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting coaching-intake API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	fmt.Println("Server exited gracefully")
}

func run(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) error {
	metricsHandler, intakeMetrics, gatherer := setupIntakeMetrics()

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	if redisClient != nil {
		defer redisClient.Close()
	}
	storage, backend := bootstrap.BuildDraftStorage(redisClient, cfg)
	logger.Info("draft storage ready", "backend", backend)

	leadsRepo, closeLeads, err := bootstrap.BuildLeadsRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeLeads()

	var (
		sesClient notify.SESAPI
		s3Client  archive.S3API
	)
	if mainconfig.AWSNeeded(cfg) {
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			return fmt.Errorf("load AWS config: %w", err)
		}
		sesClient = mainconfig.NewSESClient(awsCfg)
		s3Client = mainconfig.NewS3Client(awsCfg, cfg)
	}

	emailSender, provider := bootstrap.BuildEmailSender(cfg, sesClient, logger)
	logger.Info("coach notifications ready", "provider", provider, "enabled", cfg.CoachNotifyEmail != "")

	submitter := submission.NewClient(submission.Config{
		URL:     cfg.AppsScriptURL,
		Timeout: cfg.SubmitTimeout,
		Logger:  logger,
	})
	if !submitter.Configured() {
		logger.Warn("GOOGLE_APPS_SCRIPT_URL not set; every submission will fail")
	}

	sessions := intake.NewSessions(intake.SessionOptions{
		Storage:   storage,
		KeyPrefix: cfg.DraftKeyPrefix,
		Submitter: submitter,
		Hooks: bootstrap.BuildSubmitHooks(bootstrap.SubmitHookDeps{
			Leads:    leadsRepo,
			Notifier: notify.NewService(emailSender, cfg.CoachNotifyEmail, logger),
			Archive:  archive.NewStore(s3Client, cfg.ArchiveBucket, logger),
			Logger:   logger,
		}),
		Metrics:       intakeMetrics,
		Logger:        logger,
		IdleTimeout:   cfg.SessionIdleTimeout,
		SubmitTimeout: cfg.SubmitTimeout,
		HookTimeout:   cfg.HookTimeout,
	})
	go sessions.Run(ctx, time.Minute)

	limiter := httpmiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.Run(ctx, 5*time.Minute)

	if cfg.AdminJWTSecret == "" {
		logger.Warn("ADMIN_JWT_SECRET not set; /admin routes are disabled")
	}

	srv := newServer(cfg, router.New(&router.Config{
		Logger:             logger,
		IntakeHandler:      intake.NewHandler(sessions, logger),
		LeadsHandler:       leads.NewHandler(leadsRepo, logger),
		MetricsHandler:     metricsHandler,
		Gatherer:           gatherer,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimiter:        limiter,
		AdminJWTSecret:     cfg.AdminJWTSecret,
	}))
	err = serve(ctx, srv, logger)
	// Running hooks still need the pools closed by the deferred calls.
	logger.Info("waiting for post-submit hooks")
	sessions.Wait()
	return err
}

func newServer(cfg *appconfig.Config, handler http.Handler) *http.Server {
	// Submission can take up to SubmitTimeout inside a request.
	writeTimeout := 15 * time.Second
	if cfg.SubmitTimeout+5*time.Second > writeTimeout {
		writeTimeout = cfg.SubmitTimeout + 5*time.Second
	}
	return &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}
}

// serve runs srv until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, srv *http.Server, logger *logging.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func setupIntakeMetrics() (http.Handler, *metrics.IntakeMetrics, prometheus.Gatherer) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), metrics.NewIntakeMetrics(reg), reg
}

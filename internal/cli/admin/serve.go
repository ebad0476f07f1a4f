package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cloo-solutions/folio/internal/api/handlers"
	"github.com/cloo-solutions/folio/internal/cli"
	"github.com/cloo-solutions/folio/internal/config"
	"github.com/cloo-solutions/folio/internal/jobs"
	"github.com/cloo-solutions/folio/internal/logger"
	"github.com/cloo-solutions/folio/internal/server"
	"github.com/cloo-solutions/folio/internal/service"
	"github.com/cloo-solutions/folio/internal/telemetry"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the folio API server. Analytics go to Postgres when FOLIO_DATABASE_URL is set, to SQLite when FOLIO_ANALYTICS_SQLITE_PATH is set, and nowhere otherwise.",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "", "Port to listen on (overrides FOLIO_PORT)")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")
	cmd.Flags().Bool("no-delegate", false, "Answer every query with the heuristic assembler")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Port = port
	}

	log, err := logger.New(cfg.LogJSON, cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	if cfg.HasSentry() {
		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			TracesSampleRate: cfg.TracesSampleRate(),
			Debug:            cfg.Debug,
		}, log)
		if err != nil {
			log.Warn("telemetry init failed, continuing without tracing", zap.Error(err))
		} else {
			defer shutdownTelemetry()
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	noDelegate, _ := cmd.Flags().GetBool("no-delegate")
	rt, err := cli.NewRuntime(ctx, cfg, log, !noDelegate)
	if err != nil {
		return err
	}
	log.Info("corpus loaded",
		zap.Int("experiences", len(rt.Corpus.Experiences())),
		zap.Int("projects", len(rt.Corpus.Projects())),
		zap.Int("education", len(rt.Corpus.Education())),
		zap.String("delegate", rt.DelegateName()),
	)

	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	backend, err := cli.OpenAnalytics(ctx, cfg, log, !noMigrate)
	if err != nil {
		return err
	}
	defer backend.Close()

	var (
		recorder   service.AnalyticsRecorder
		dispatcher *jobs.AnalyticsDispatcher
	)
	if backend.Sink != nil {
		dispatcher = jobs.NewAnalyticsDispatcher(backend.Sink, cfg.AnalyticsQueueSize, jobs.DefaultWriteTimeout, log)
		recorder = dispatcher
	}

	var locator handlers.ResumeLocator
	if cfg.HasS3() {
		store, err := cli.NewResumeStore(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to create resume store: %w", err)
		}
		locator = store
		log.Info("resume PDF served from bucket", zap.String("bucket", cfg.S3Bucket), zap.String("key", store.Key()))
	}

	router := server.NewRouter(server.RouterConfig{
		Logger:        log,
		MaxBodyBytes:  cfg.MaxBodyBytes,
		ChatHandler:   handlers.NewChatHandler(rt.ChatService(recorder)),
		CorpusHandler: handlers.NewCorpusHandler(rt.Corpus),
		ResumeHandler: handlers.NewResumeHandler(rt.ResumeService(), locator),
		HealthHandler: handlers.NewHealthHandler(handlers.HealthInfo{
			Delegate:  rt.DelegateName(),
			Analytics: backend.Name,
			Resume:    locator != nil,
		}),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)

	if dispatcher != nil {
		// Stopped explicitly after the server drains so late requests are still logged.
		g.Go(func() error {
			dispatcher.Start(context.WithoutCancel(gctx))
			return nil
		})
	}

	g.Go(func() error {
		log.Info("starting server", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
		defer cancel()

		shutdownErr := srv.Shutdown(shutdownCtx)
		if dispatcher != nil {
			dispatcher.Stop()
			written, dropped, failed := dispatcher.Stats()
			log.Info("analytics flushed",
				zap.Int64("written", written),
				zap.Int64("dropped", dropped),
				zap.Int64("failed", failed),
			)
		}
		if shutdownErr != nil {
			return fmt.Errorf("server forced to shutdown: %w", shutdownErr)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("server exited")
	return nil
}

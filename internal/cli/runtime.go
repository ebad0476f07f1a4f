package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cloo-solutions/folio/internal/config"
	"github.com/cloo-solutions/folio/internal/corpus"
	"github.com/cloo-solutions/folio/internal/database"
	"github.com/cloo-solutions/folio/internal/generative"
	"github.com/cloo-solutions/folio/internal/logger"
	"github.com/cloo-solutions/folio/internal/repository"
	"github.com/cloo-solutions/folio/internal/service"
	"github.com/cloo-solutions/folio/internal/storage"
)

// Analytics backend names reported by /health and the queries command.
const (
	AnalyticsPostgres = "postgres"
	AnalyticsSQLite   = "sqlite"
	AnalyticsNone     = "none"
)

// Runtime holds the components shared by the server and the local CLI.
type Runtime struct {
	Config   *config.Config
	Logger   *zap.Logger
	Corpus   *corpus.Store
	Builder  *service.ModalBuilder
	Delegate service.GenerativeDelegate
}

// NewRuntime loads the corpus and, when withDelegate is set, the configured
// generative delegate.
func NewRuntime(ctx context.Context, cfg *config.Config, log *zap.Logger, withDelegate bool) (*Runtime, error) {
	log = logger.OrNop(log)

	store, err := corpus.Load(cfg.CorpusPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus: %w", err)
	}

	rt := &Runtime{
		Config:  cfg,
		Logger:  log,
		Corpus:  store,
		Builder: service.NewModalBuilder(store, cfg.ResumeLink),
	}

	if withDelegate {
		rt.Delegate, err = NewDelegate(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
	}
	return rt, nil
}

// NewDelegate builds the delegate selected by cfg. It returns nil when no
// provider is configured.
func NewDelegate(ctx context.Context, cfg *config.Config, log *zap.Logger) (service.GenerativeDelegate, error) {
	switch cfg.ResolvedDelegateProvider() {
	case config.ProviderOpenRouter:
		d, err := generative.NewOpenRouterDelegate(generative.OpenRouterConfig{
			APIKey:    cfg.OpenRouterAPIKey,
			BaseURL:   cfg.OpenRouterBaseURL,
			Model:     cfg.OpenRouterModel,
			MaxModals: cfg.ResponseCap,
			Referer:   cfg.OpenRouterReferer,
			Title:     cfg.OpenRouterTitle,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create openrouter delegate: %w", err)
		}
		return d, nil
	case config.ProviderGemini:
		d, err := generative.NewGeminiDelegate(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.ResponseCap, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini delegate: %w", err)
		}
		return d, nil
	}
	return nil, nil
}

// DelegateName names the active delegate, or "none".
func (r *Runtime) DelegateName() string {
	if r.Delegate == nil {
		return config.ProviderNone
	}
	return r.Delegate.Provider()
}

// ChatService wires a chat service over the runtime. analytics may be nil.
func (r *Runtime) ChatService(analytics service.AnalyticsRecorder) *service.ChatService {
	return service.NewChatService(r.Corpus, r.Builder, r.Delegate, analytics, r.Logger, service.ChatServiceConfig{
		ResponseCap:     r.Config.ResponseCap,
		DelegateTimeout: r.Config.DelegateTimeout,
		Policy:          service.SelectionPolicy{PreferProjects: r.Config.PreferProjects},
	})
}

// ResumeService wires the structured resume generator. The delegate writes
// tailored resumes when it supports them.
func (r *Runtime) ResumeService() *service.ResumeService {
	var delegate service.ResumeDelegate
	if d, ok := r.Delegate.(service.ResumeDelegate); ok {
		delegate = d
	}
	return service.NewResumeService(r.Corpus, delegate, r.Logger, r.Config.ResumeTimeout)
}

// AnalyticsBackend is the query log store picked from configuration.
type AnalyticsBackend struct {
	Name   string
	Sink   service.AnalyticsSink
	Reader service.QueryLogReader
	close  func()
}

// Close releases the backend's connections.
func (b *AnalyticsBackend) Close() {
	if b.close != nil {
		b.close()
	}
}

// OpenAnalytics picks Postgres when DATABASE_URL is set, then the SQLite file,
// then nothing. Postgres migrations run when migrate is set.
func OpenAnalytics(ctx context.Context, cfg *config.Config, log *zap.Logger, migrate bool) (*AnalyticsBackend, error) {
	log = logger.OrNop(log)

	switch {
	case cfg.HasDatabase():
		pool, err := database.NewPool(ctx, database.Config{URL: cfg.DatabaseURL})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		log.Info("connected to database")

		if migrate {
			if err := database.Migrate(cfg.DatabaseURL, cfg.MigrationsDir, log); err != nil {
				pool.Close()
				return nil, fmt.Errorf("failed to run migrations: %w", err)
			}
		}

		repo := repository.NewQueryLogRepository(pool)
		return &AnalyticsBackend{Name: AnalyticsPostgres, Sink: repo, Reader: repo, close: pool.Close}, nil

	case cfg.HasSQLiteAnalytics():
		store, err := repository.OpenQueryLogStore(cfg.AnalyticsSQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info("opened sqlite analytics store", zap.String("path", cfg.AnalyticsSQLitePath))
		return &AnalyticsBackend{
			Name:   AnalyticsSQLite,
			Sink:   store,
			Reader: store,
			close: func() {
				if err := store.Close(); err != nil {
					log.Warn("failed to close analytics store", zap.Error(err))
				}
			},
		}, nil
	}

	return &AnalyticsBackend{Name: AnalyticsNone}, nil
}

// NewResumeStore connects to the bucket holding the resume PDF.
func NewResumeStore(ctx context.Context, cfg *config.Config) (*storage.ResumeStore, error) {
	return storage.NewResumeStore(ctx, storage.ResumeStoreConfig{
		Endpoint:        cfg.S3Endpoint,
		Region:          cfg.S3Region,
		AccessKeyID:     cfg.S3AccessKey,
		SecretAccessKey: cfg.S3SecretKey,
		Bucket:          cfg.S3Bucket,
		ObjectKey:       cfg.ResumeObjectKey,
		UsePathStyle:    cfg.S3Endpoint != "",
	})
}

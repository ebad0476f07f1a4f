package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "FOLIO"

// Delegate providers accepted by DELEGATE_PROVIDER.
const (
	ProviderAuto       = "auto"
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
	ProviderNone       = "none"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080" validate:"required,numeric"`
	Debug       bool   `envconfig:"DEBUG" default:"false"`
	LogJSON     bool   `envconfig:"LOG_JSON" default:"true"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`

	MaxBodyBytes    int64         `envconfig:"MAX_BODY_BYTES" default:"65536" validate:"gt=0"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s" validate:"gt=0"`

	CorpusPath     string `envconfig:"CORPUS_PATH"`
	ResumeLink     string `envconfig:"RESUME_LINK" default:"/resume.pdf" validate:"required"`
	ResponseCap    int    `envconfig:"RESPONSE_CAP" default:"4" validate:"min=2,max=8"`
	PreferProjects bool   `envconfig:"PREFER_PROJECTS" default:"true"`

	DelegateProvider string        `envconfig:"DELEGATE_PROVIDER" default:"auto" validate:"oneof=auto openrouter gemini none"`
	DelegateTimeout  time.Duration `envconfig:"DELEGATE_TIMEOUT" default:"8s" validate:"gt=0"`
	ResumeTimeout    time.Duration `envconfig:"RESUME_TIMEOUT" default:"20s" validate:"gt=0"`

	OpenRouterAPIKey  string `envconfig:"OPENROUTER_API_KEY"`
	OpenRouterBaseURL string `envconfig:"OPENROUTER_BASE_URL" default:"https://openrouter.ai/api/v1" validate:"omitempty,url"`
	OpenRouterModel   string `envconfig:"OPENROUTER_MODEL" default:"openai/gpt-4o-mini"`
	OpenRouterReferer string `envconfig:"OPENROUTER_REFERER"`
	OpenRouterTitle   string `envconfig:"OPENROUTER_TITLE" default:"folio"`

	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	GeminiModel  string `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`

	DatabaseURL         string `envconfig:"DATABASE_URL"`
	AnalyticsSQLitePath string `envconfig:"ANALYTICS_SQLITE_PATH"`
	AnalyticsQueueSize  int    `envconfig:"ANALYTICS_QUEUE_SIZE" default:"64" validate:"min=1"`
	MigrationsDir       string `envconfig:"MIGRATIONS_DIR" default:"migrations"`

	S3Endpoint      string `envconfig:"S3_ENDPOINT" validate:"omitempty,url"`
	S3AccessKey     string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey     string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket        string `envconfig:"S3_BUCKET"`
	S3Region        string `envconfig:"S3_REGION" default:"us-east-1"`
	ResumeObjectKey string `envconfig:"RESUME_OBJECT_KEY" default:"resume.pdf"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads .env (when present) and the FOLIO_* environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks field constraints and cross-field requirements.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}

	switch c.DelegateProvider {
	case ProviderOpenRouter:
		if !c.HasOpenRouter() {
			return errors.New("invalid config: DELEGATE_PROVIDER=openrouter requires OPENROUTER_API_KEY")
		}
	case ProviderGemini:
		if !c.HasGemini() {
			return errors.New("invalid config: DELEGATE_PROVIDER=gemini requires GEMINI_API_KEY")
		}
	}
	if (c.S3AccessKey == "") != (c.S3SecretKey == "") {
		return errors.New("invalid config: S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY must be set together")
	}
	return nil
}

func (c *Config) HasOpenRouter() bool {
	return c.OpenRouterAPIKey != ""
}

func (c *Config) HasGemini() bool {
	return c.GeminiAPIKey != ""
}

func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}

func (c *Config) HasSQLiteAnalytics() bool {
	return c.AnalyticsSQLitePath != ""
}

func (c *Config) HasS3() bool {
	return c.S3Bucket != ""
}

func (c *Config) HasSentry() bool {
	return c.SentryDSN != ""
}

// ResolvedDelegateProvider returns the provider to use. "auto" prefers
// OpenRouter, then Gemini, then none.
func (c *Config) ResolvedDelegateProvider() string {
	switch c.DelegateProvider {
	case ProviderOpenRouter, ProviderGemini, ProviderNone:
		return c.DelegateProvider
	}
	switch {
	case c.HasOpenRouter():
		return ProviderOpenRouter
	case c.HasGemini():
		return ProviderGemini
	}
	return ProviderNone
}

// TracesSampleRate samples everything in development and 10% elsewhere.
func (c *Config) TracesSampleRate() float64 {
	if c.Environment == "development" {
		return 1.0
	}
	return 0.1
}

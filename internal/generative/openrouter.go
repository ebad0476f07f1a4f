package generative

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/cloo-solutions/folio/internal/logger"
	"github.com/cloo-solutions/folio/internal/service"
)

const (
	// ProviderOpenRouter names the OpenRouter delegate in logs and analytics.
	ProviderOpenRouter = "openrouter"
	// DefaultOpenRouterBaseURL is the OpenAI-compatible OpenRouter endpoint.
	DefaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	// DefaultOpenRouterModel is used when no model is configured.
	DefaultOpenRouterModel = "openai/gpt-4o-mini"
)

// ErrNoAPIKey is returned when a delegate is built without credentials.
var ErrNoAPIKey = errors.New("api key is required")

// ChatAPI is the part of the go-openai client the delegate uses.
type ChatAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenRouterConfig configures the OpenRouter delegate.
type OpenRouterConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxModals int
	// Referer and Title identify the site to OpenRouter.
	Referer string
	Title   string
}

// OpenRouterDelegate asks an OpenRouter-hosted model for cards.
type OpenRouterDelegate struct {
	api       ChatAPI
	model     string
	maxModals int
	logger    *zap.Logger
}

// NewOpenRouterDelegate creates a delegate backed by the go-openai client
// pointed at OpenRouter.
func NewOpenRouterDelegate(cfg OpenRouterConfig, log *zap.Logger) (*OpenRouterDelegate, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNoAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultOpenRouterBaseURL
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	clientCfg.HTTPClient = &http.Client{
		Transport: &headerTransport{
			base: http.DefaultTransport,
			headers: map[string]string{
				"HTTP-Referer": cfg.Referer,
				"X-Title":      cfg.Title,
			},
		},
	}

	return NewOpenRouterDelegateWithAPI(openai.NewClientWithConfig(clientCfg), cfg.Model, cfg.MaxModals, log), nil
}

// NewOpenRouterDelegateWithAPI creates a delegate over an existing chat API.
func NewOpenRouterDelegateWithAPI(api ChatAPI, model string, maxModals int, log *zap.Logger) *OpenRouterDelegate {
	if model == "" {
		model = DefaultOpenRouterModel
	}
	if maxModals <= 0 {
		maxModals = service.DefaultResponseCap
	}
	return &OpenRouterDelegate{
		api:       api,
		model:     model,
		maxModals: maxModals,
		logger:    logger.WithProvider(log, ProviderOpenRouter, model),
	}
}

// Provider implements service.GenerativeDelegate.
func (d *OpenRouterDelegate) Provider() string { return ProviderOpenRouter }

// Model implements service.GenerativeDelegate.
func (d *OpenRouterDelegate) Model() string { return d.model }

// GenerateModals implements service.GenerativeDelegate.
func (d *OpenRouterDelegate) GenerateModals(ctx context.Context, req service.GenerationRequest) (*service.GenerationResult, error) {
	system, user, err := BuildPrompts(req, d.maxModals)
	if err != nil {
		return nil, err
	}

	content, model, err := d.complete(ctx, system, user)
	if err != nil {
		return nil, err
	}

	modals, err := ParseModals(content)
	if err != nil {
		d.logger.Debug("openrouter output rejected",
			zap.String("content", logger.Truncate(content, 500)),
			zap.Error(err))
		return nil, err
	}

	return &service.GenerationResult{Modals: modals, Model: model}, nil
}

// GenerateResume implements service.ResumeDelegate.
func (d *OpenRouterDelegate) GenerateResume(ctx context.Context, req service.ResumeGenerationRequest) (*service.ResumeData, error) {
	system, user, err := BuildResumePrompts(req)
	if err != nil {
		return nil, err
	}

	content, _, err := d.complete(ctx, system, user)
	if err != nil {
		return nil, err
	}

	resume, err := ParseResume(content)
	if err != nil {
		d.logger.Debug("openrouter resume rejected",
			zap.String("content", logger.Truncate(content, 500)),
			zap.Error(err))
		return nil, err
	}
	return resume, nil
}

// complete runs one JSON-mode chat completion and returns the reply text and
// the model that served it.
func (d *OpenRouterDelegate) complete(ctx context.Context, system, user string) (string, string, error) {
	resp, err := d.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: d.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", "", fmt.Errorf("openrouter chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", "", invalidOutput(errors.New("no choices returned"))
	}

	d.logger.Debug("openrouter response received",
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.String("finish_reason", string(resp.Choices[0].FinishReason)))

	return resp.Choices[0].Message.Content, resp.Model, nil
}

// headerTransport adds fixed headers to every request.
type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, v := range t.headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}
	return t.base.RoundTrip(req)
}

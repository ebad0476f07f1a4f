package generative

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/cloo-solutions/folio/internal/logger"
	"github.com/cloo-solutions/folio/internal/service"
)

const (
	// ProviderGemini names the Gemini delegate in logs and analytics.
	ProviderGemini = "gemini"
	// DefaultGeminiModel is used when no model is configured.
	DefaultGeminiModel = "gemini-2.5-flash"
)

// ContentGenerator is the part of the genai client the delegate uses.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiDelegate asks a Gemini model for cards.
type GeminiDelegate struct {
	models    ContentGenerator
	model     string
	maxModals int
	logger    *zap.Logger
}

// NewGeminiDelegate creates a delegate on the Gemini API backend.
func NewGeminiDelegate(ctx context.Context, apiKey, model string, maxModals int, log *zap.Logger) (*GeminiDelegate, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return NewGeminiDelegateWithGenerator(client.Models, model, maxModals, log), nil
}

// NewGeminiDelegateWithGenerator creates a delegate over an existing generator.
func NewGeminiDelegateWithGenerator(models ContentGenerator, model string, maxModals int, log *zap.Logger) *GeminiDelegate {
	if model = strings.TrimSpace(model); model == "" {
		model = DefaultGeminiModel
	}
	if maxModals <= 0 {
		maxModals = service.DefaultResponseCap
	}
	return &GeminiDelegate{
		models:    models,
		model:     model,
		maxModals: maxModals,
		logger:    logger.WithProvider(log, ProviderGemini, model),
	}
}

// Provider implements service.GenerativeDelegate.
func (d *GeminiDelegate) Provider() string { return ProviderGemini }

// Model implements service.GenerativeDelegate.
func (d *GeminiDelegate) Model() string { return d.model }

// GenerateModals implements service.GenerativeDelegate.
func (d *GeminiDelegate) GenerateModals(ctx context.Context, req service.GenerationRequest) (*service.GenerationResult, error) {
	system, user, err := BuildPrompts(req, d.maxModals)
	if err != nil {
		return nil, err
	}

	text, model, err := d.generate(ctx, system, user)
	if err != nil {
		return nil, err
	}

	modals, err := ParseModals(text)
	if err != nil {
		d.logger.Debug("gemini output rejected",
			zap.String("content", logger.Truncate(text, 500)),
			zap.Error(err))
		return nil, err
	}
	return &service.GenerationResult{Modals: modals, Model: model}, nil
}

// GenerateResume implements service.ResumeDelegate.
func (d *GeminiDelegate) GenerateResume(ctx context.Context, req service.ResumeGenerationRequest) (*service.ResumeData, error) {
	system, user, err := BuildResumePrompts(req)
	if err != nil {
		return nil, err
	}

	text, _, err := d.generate(ctx, system, user)
	if err != nil {
		return nil, err
	}

	resume, err := ParseResume(text)
	if err != nil {
		d.logger.Debug("gemini resume rejected",
			zap.String("content", logger.Truncate(text, 500)),
			zap.Error(err))
		return nil, err
	}
	return resume, nil
}

// generate runs one JSON-mode request and returns the reply text and the
// model version that served it.
func (d *GeminiDelegate) generate(ctx context.Context, system, user string) (string, string, error) {
	resp, err := d.models.GenerateContent(ctx, d.model, genai.Text(user), &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: system}}},
		ResponseMIMEType:  "application/json",
		Temperature:       genai.Ptr[float32](0.2),
	})
	if err != nil {
		return "", "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return "", "", invalidOutput(errors.New("gemini api returned empty response"))
	}

	model := d.model
	if resp.ModelVersion != "" {
		model = resp.ModelVersion
	}
	return text, model, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	// Only the first candidate with content is used.
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		var b strings.Builder
		for _, part := range candidate.Content.Parts {
			if part != nil {
				b.WriteString(part.Text)
			}
		}
		if text := strings.TrimSpace(b.String()); text != "" {
			return text
		}
	}
	return ""
}

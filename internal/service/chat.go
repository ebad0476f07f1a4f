package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/cloo-solutions/folio/internal/domain"
	"github.com/cloo-solutions/folio/internal/logger"
	"github.com/cloo-solutions/folio/internal/telemetry"
)

// DefaultDelegateTimeout bounds a single generative call.
const DefaultDelegateTimeout = 8 * time.Second

// Source records which path produced a response.
type Source string

const (
	SourceHeuristic  Source = "heuristic"
	SourceGenerative Source = "generative"
)

// Response is an answer to a Query. Only Modals go on the wire.
type Response struct {
	Modals   []domain.Modal
	Source   Source
	Provider string
	Model    string
}

// GenerationRequest is what a generative delegate receives. The corpus
// fields hold the serialized context blocks.
type GenerationRequest struct {
	// Message is the visitor message with the lens context prepended.
	Message     string
	RawMessage  string
	Lens        domain.Lens
	Experiences string
	Projects    string
	Education   string
	History     string
}

// GenerationResult is what a generative delegate returns.
type GenerationResult struct {
	Modals []domain.Modal
	// Model is the model that served the call, when the provider reports it.
	Model string
}

// GenerativeDelegate produces cards directly from the corpus context.
type GenerativeDelegate interface {
	GenerateModals(ctx context.Context, req GenerationRequest) (*GenerationResult, error)
	Provider() string
	Model() string
}

// Outcome classifies a delegate call.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeInvalid
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// ChatServiceConfig controls chat behavior.
type ChatServiceConfig struct {
	ResponseCap     int
	DelegateTimeout time.Duration
	Policy          SelectionPolicy
}

// DefaultChatServiceConfig returns the default service configuration.
func DefaultChatServiceConfig() ChatServiceConfig {
	return ChatServiceConfig{
		ResponseCap:     DefaultResponseCap,
		DelegateTimeout: DefaultDelegateTimeout,
		Policy:          DefaultSelectionPolicy(),
	}
}

// ChatService answers visitor queries. It tries the generative delegate when
// one is configured and falls back to the heuristic assembler otherwise.
type ChatService struct {
	corpus    CorpusReader
	assembler *Assembler
	delegate  GenerativeDelegate
	analytics AnalyticsRecorder
	logger    *zap.Logger
	cfg       ChatServiceConfig
	uuidGen   UUIDGenerator
	now       func() time.Time
}

// NewChatService creates a new ChatService. delegate may be nil, in which case
// every query takes the heuristic path. A nil analytics recorder disables
// query logging.
func NewChatService(
	corpus CorpusReader,
	builder *ModalBuilder,
	delegate GenerativeDelegate,
	analytics AnalyticsRecorder,
	log *zap.Logger,
	cfg ChatServiceConfig,
) *ChatService {
	if analytics == nil {
		analytics = NoOpAnalyticsRecorder{}
	}
	if cfg.DelegateTimeout <= 0 {
		cfg.DelegateTimeout = DefaultDelegateTimeout
	}
	assembler := NewAssembler(corpus, builder, cfg.ResponseCap, cfg.Policy)
	cfg.ResponseCap = assembler.Cap()

	return &ChatService{
		corpus:    corpus,
		assembler: assembler,
		delegate:  delegate,
		analytics: analytics,
		logger:    logger.OrNop(log),
		cfg:       cfg,
		uuidGen:   &DefaultUUIDGenerator{},
		now:       time.Now,
	}
}

// Assembler exposes the heuristic assembler, e.g. for ranking diagnostics.
func (s *ChatService) Assembler() *Assembler {
	return s.assembler
}

// Chat answers q. The only error it returns is a validation error for q;
// delegate failures fall back to the heuristic answer.
func (s *ChatService) Chat(ctx context.Context, q domain.Query) (*Response, error) {
	if err := domain.ValidateQuery(q); err != nil {
		return nil, err
	}
	if q.Lens == "" {
		q.Lens = domain.LensNone
	}

	start := s.now()
	var resp *Response

	if s.delegate != nil {
		result, outcome, err := s.generate(ctx, q)
		if outcome == OutcomeOK {
			model := result.Model
			if model == "" {
				model = s.delegate.Model()
			}
			resp = &Response{
				Modals:   result.Modals,
				Source:   SourceGenerative,
				Provider: s.delegate.Provider(),
				Model:    model,
			}
		} else {
			s.logger.Warn("generative delegate unavailable, using heuristic answer",
				append(logger.ProviderFields(s.delegate.Provider(), s.delegate.Model()),
					zap.Stringer("outcome", outcome),
					zap.Error(err))...)
			telemetry.AddBreadcrumb(ctx, "chat", "generative fallback: "+outcome.String())
			if outcome == OutcomeFailed && err != nil {
				telemetry.CaptureError(ctx, err)
			}
		}
	}

	if resp == nil {
		resp = s.heuristic(ctx, q)
	}

	s.record(q, resp, s.now().Sub(start))
	return resp, nil
}

func (s *ChatService) heuristic(ctx context.Context, q domain.Query) *Response {
	_, span := telemetry.StartSpan(ctx, "chat.assemble", telemetry.SpanAttributes{
		Lens:      string(q.Lens),
		Source:    string(SourceHeuristic),
		Operation: "assemble",
	})
	defer span.End()

	return &Response{
		Modals: s.assembler.Assemble(q.Message),
		Source: SourceHeuristic,
	}
}

type delegateReply struct {
	result *GenerationResult
	err    error
}

// generate calls the delegate under the configured timeout and classifies the
// reply. Panics inside the delegate are reported as OutcomeFailed.
func (s *ChatService) generate(ctx context.Context, q domain.Query) (*GenerationResult, Outcome, error) {
	ctx, span := telemetry.StartSpan(ctx, "chat.generate", telemetry.SpanAttributes{
		Lens:      string(q.Lens),
		Source:    string(SourceGenerative),
		Provider:  s.delegate.Provider(),
		Operation: "generate",
	})
	defer span.End()

	req := s.generationRequest(q)
	result, err := callBounded(ctx, s.cfg.DelegateTimeout, "generative delegate",
		func(ctx context.Context) (*GenerationResult, error) {
			return s.delegate.GenerateModals(ctx, req)
		})

	result, outcome, err := s.classify(delegateReply{result: result, err: err})
	markSpan(span, outcome, err)
	return result, outcome, err
}

// callBounded runs fn under timeout. A panic inside fn is returned as an
// error, and a call that outlives the timeout is abandoned.
func callBounded[T any](ctx context.Context, timeout time.Duration, name string, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type reply struct {
		value T
		err   error
	}
	replies := make(chan reply, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				replies <- reply{err: fmt.Errorf("%s panicked: %v", name, r)}
			}
		}()
		value, err := fn(ctx)
		replies <- reply{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("%s: %w", name, ctx.Err())
	case r := <-replies:
		return r.value, r.err
	}
}

// errorOutcome classifies a delegate error.
func errorOutcome(err error) Outcome {
	if errors.Is(err, domain.ErrDelegateInvalidOutput) {
		return OutcomeInvalid
	}
	return OutcomeFailed
}

func markSpan(span *telemetry.Span, outcome Outcome, err error) {
	span.SetTag("outcome", outcome.String())
	switch outcome {
	case OutcomeOK:
		span.SetStatus(sentry.SpanStatusOK)
	case OutcomeInvalid:
		span.SetStatus(sentry.SpanStatusInvalidArgument)
	case OutcomeFailed:
		span.SetError(err)
	}
}

func (s *ChatService) classify(reply delegateReply) (*GenerationResult, Outcome, error) {
	if reply.err != nil {
		return nil, errorOutcome(reply.err), reply.err
	}
	if reply.result == nil || len(reply.result.Modals) == 0 {
		return nil, OutcomeInvalid, domain.NewDomainErrorWithCause(domain.ErrCodeUnavailable,
			domain.ErrDelegateInvalidOutput.Message, errors.New("no modals returned"))
	}
	for i := range reply.result.Modals {
		if err := domain.ValidateModal(&reply.result.Modals[i]); err != nil {
			return nil, OutcomeInvalid, domain.NewDomainErrorWithCause(domain.ErrCodeUnavailable,
				domain.ErrDelegateInvalidOutput.Message, err)
		}
	}

	return &GenerationResult{
		Modals: normalizeModals(reply.result.Modals, s.cfg.ResponseCap),
		Model:  reply.result.Model,
	}, OutcomeOK, nil
}

// normalizeModals drops cards whose id was already seen and applies the cap.
func normalizeModals(modals []domain.Modal, limit int) []domain.Modal {
	seen := make(map[string]struct{}, len(modals))
	out := make([]domain.Modal, 0, min(len(modals), limit))
	for _, m := range modals {
		if len(out) == limit {
			break
		}
		if _, ok := seen[m.ID]; ok {
			continue
		}
		seen[m.ID] = struct{}{}
		out = append(out, m)
	}
	return out
}

func (s *ChatService) generationRequest(q domain.Query) GenerationRequest {
	return GenerationRequest{
		Message:     q.Lens.Apply(q.Message),
		RawMessage:  q.Message,
		Lens:        q.Lens,
		Experiences: ExperiencesContext(s.corpus.Experiences()),
		Projects:    ProjectsContext(s.corpus.Projects()),
		Education:   EducationContext(s.corpus.Education()),
		History:     FormatHistory(q.History),
	}
}

func (s *ChatService) record(q domain.Query, resp *Response, elapsed time.Duration) {
	s.analytics.Record(AnalyticsEntry{
		ID:            s.uuidGen.NewString(),
		Query:         q.Message,
		Lens:          q.Lens,
		Source:        resp.Source,
		Provider:      resp.Provider,
		Model:         resp.Model,
		DurationMs:    int(elapsed.Milliseconds()),
		HistoryLength: len(q.History),
		Modals:        SummarizeModals(resp.Modals),
		CreatedAt:     s.now().UTC(),
	})
}

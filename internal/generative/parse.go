package generative

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/cloo-solutions/folio/internal/domain"
	"github.com/cloo-solutions/folio/internal/service"
)

const (
	responseSchemaFile = "prompts/response.schema.json"
	resumeSchemaFile   = "prompts/resume.schema.json"
)

// embeddedSchema compiles an embedded JSON schema on first use.
type embeddedSchema struct {
	file   string
	once   sync.Once
	schema *gojsonschema.Schema
	err    error
}

func (s *embeddedSchema) load() (*gojsonschema.Schema, error) {
	s.once.Do(func() {
		data, err := promptFiles.ReadFile(s.file)
		if err != nil {
			s.err = fmt.Errorf("failed to read schema %s: %w", s.file, err)
			return
		}
		s.schema, s.err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	})
	return s.schema, s.err
}

var (
	responseSchema = &embeddedSchema{file: responseSchemaFile}
	resumeSchema   = &embeddedSchema{file: resumeSchemaFile}
)

// FieldError is a single schema violation.
type FieldError struct {
	Field   string
	Message string
}

// SchemaError lists every schema violation found in a delegate response.
type SchemaError struct {
	Errors []FieldError
}

func (e *SchemaError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return "response does not match schema: " + strings.Join(parts, "; ")
}

// CleanJSONBlock strips a markdown code fence around a JSON payload.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	if idx := strings.Index(text, "\n"); idx >= 0 {
		// Drop a language tag such as "json".
		first := text[:idx]
		if len(first) < 20 && !strings.ContainsAny(first, " {[") {
			text = text[idx+1:]
		}
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// ValidateResponse checks raw delegate output against the response schema.
func ValidateResponse(raw string) error {
	return validate(responseSchema, raw)
}

// ValidateResume checks raw delegate output against the resume schema.
func ValidateResume(raw string) error {
	return validate(resumeSchema, raw)
}

func validate(s *embeddedSchema, raw string) error {
	schema, err := s.load()
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(raw))
	if err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}

	schemaErr := &SchemaError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		schemaErr.Errors = append(schemaErr.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return schemaErr
}

type wireLink struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
	Link string `json:"link"`
}

type wireModal struct {
	ID           string      `json:"id"`
	Type         string      `json:"type"`
	Title        string      `json:"title"`
	Body         domain.Body `json:"body"`
	Reasoning    string      `json:"reasoning"`
	Images       []string    `json:"images"`
	LinkHref     string      `json:"linkHref"`
	LinkLabel    string      `json:"linkLabel"`
	SourceIDs    []string    `json:"sourceIds"`
	Technologies []string    `json:"technologies"`
	Client       string      `json:"client"`
	Industry     string      `json:"industry"`
	Date         string      `json:"date"`
	Role         string      `json:"role"`
	Company      string      `json:"company"`
	URLs         []wireLink  `json:"urls"`
}

type wireResponse struct {
	Modals []wireModal `json:"modals"`
}

// ParseModals turns raw delegate output into cards. Output that is not JSON,
// fails the schema, or carries an unknown card type is reported as
// domain.ErrDelegateInvalidOutput.
func ParseModals(raw string) ([]domain.Modal, error) {
	raw = CleanJSONBlock(raw)
	if raw == "" {
		return nil, invalidOutput(errors.New("empty response"))
	}
	if err := ValidateResponse(raw); err != nil {
		return nil, invalidOutput(err)
	}

	var resp wireResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, invalidOutput(err)
	}

	modals := make([]domain.Modal, 0, len(resp.Modals))
	for _, w := range resp.Modals {
		t, err := domain.ParseModalType(w.Type)
		if err != nil {
			return nil, invalidOutput(err)
		}

		m := domain.Modal{
			ID:           strings.TrimSpace(w.ID),
			Type:         t,
			Title:        w.Title,
			Body:         w.Body,
			Reasoning:    w.Reasoning,
			Images:       w.Images,
			LinkHref:     w.LinkHref,
			LinkLabel:    w.LinkLabel,
			SourceIDs:    w.SourceIDs,
			Technologies: w.Technologies,
			Client:       w.Client,
			Industry:     w.Industry,
			Date:         w.Date,
			Role:         w.Role,
			Company:      w.Company,
		}
		if t == domain.ModalTypeSummary {
			m.Reasoning = ""
		}
		for _, u := range w.URLs {
			m.URLs = append(m.URLs, domain.ModalLink{Name: u.Name, Icon: u.Icon, Link: u.Link})
		}
		modals = append(modals, m)
	}
	return modals, nil
}

type wireResume struct {
	Resume *service.ResumeData `json:"resume"`
}

// ParseResume turns raw delegate output into a resume. Failures are reported
// as domain.ErrDelegateInvalidOutput, like ParseModals.
func ParseResume(raw string) (*service.ResumeData, error) {
	raw = CleanJSONBlock(raw)
	if raw == "" {
		return nil, invalidOutput(errors.New("empty response"))
	}
	if err := ValidateResume(raw); err != nil {
		return nil, invalidOutput(err)
	}

	var resp wireResume
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, invalidOutput(err)
	}
	if resp.Resume == nil {
		return nil, invalidOutput(errors.New("no resume returned"))
	}
	return resp.Resume, nil
}

func invalidOutput(err error) error {
	return domain.NewDomainErrorWithCause(domain.ErrCodeUnavailable, domain.ErrDelegateInvalidOutput.Message, err)
}

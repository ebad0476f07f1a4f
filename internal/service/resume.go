package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cloo-solutions/folio/internal/domain"
	"github.com/cloo-solutions/folio/internal/logger"
	"github.com/cloo-solutions/folio/internal/telemetry"
)

// DefaultResumeTimeout bounds a single tailored resume call.
const DefaultResumeTimeout = 20 * time.Second

const (
	resumeExperienceLimit = 3
	resumeBulletLimit     = 4
	resumeProjectLimit    = 2
	resumeTechLimit       = 5
	resumeFocusLimit      = 100
)

// ResumeContact is the header block of a resume.
type ResumeContact struct {
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Website  string `json:"website,omitempty"`
	Location string `json:"location,omitempty"`
}

// ResumeEducationItem is one education line on a resume.
type ResumeEducationItem struct {
	Institution string   `json:"institution"`
	Location    string   `json:"location,omitempty"`
	Degree      string   `json:"degree"`
	Dates       string   `json:"dates"`
	GPA         string   `json:"gpa,omitempty"`
	Highlights  []string `json:"highlights,omitempty"`
}

// ResumeExperienceItem is one position on a resume.
type ResumeExperienceItem struct {
	Title        string   `json:"title"`
	Dates        string   `json:"dates"`
	Organization string   `json:"organization"`
	Location     string   `json:"location,omitempty"`
	Bullets      []string `json:"bullets"`
}

// ResumeProjectItem is one project on a resume.
type ResumeProjectItem struct {
	Title        string   `json:"title"`
	Dates        string   `json:"dates,omitempty"`
	Organization string   `json:"organization,omitempty"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies,omitempty"`
}

// ResumePublicationItem is one publication on a resume.
type ResumePublicationItem struct {
	Authors string `json:"authors"`
	Title   string `json:"title"`
	Venue   string `json:"venue"`
	Status  string `json:"status,omitempty"`
	Award   string `json:"award,omitempty"`
}

// ResumeSection is a titled resume section. Exactly one item list is set,
// matching Type.
type ResumeSection struct {
	Type         string                  `json:"type"`
	Title        string                  `json:"title"`
	Education    []ResumeEducationItem   `json:"-"`
	Experience   []ResumeExperienceItem  `json:"-"`
	Skills       []domain.SkillCategory  `json:"-"`
	Projects     []ResumeProjectItem     `json:"-"`
	Publications []ResumePublicationItem `json:"-"`
}

// Items returns the item list for the section type.
func (s ResumeSection) Items() any {
	switch s.Type {
	case "education":
		return s.Education
	case "experience":
		return s.Experience
	case "skills":
		return s.Skills
	case "projects":
		return s.Projects
	case "publications":
		return s.Publications
	}
	return []any{}
}

// MarshalJSON writes the section as {type, title, items}.
func (s ResumeSection) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"type"`
		Title string `json:"title"`
		Items any    `json:"items"`
	}{s.Type, s.Title, s.Items()})
}

// UnmarshalJSON reads {type, title, items}, decoding items by the section
// type. The type is matched case-insensitively.
func (s *ResumeSection) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type  string          `json:"type"`
		Title string          `json:"title"`
		Items json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = ResumeSection{Type: strings.ToLower(strings.TrimSpace(raw.Type)), Title: raw.Title}
	items := raw.Items
	if len(items) == 0 || string(items) == "null" {
		items = []byte("[]")
	}

	var err error
	switch s.Type {
	case "education":
		err = json.Unmarshal(items, &s.Education)
	case "experience":
		err = json.Unmarshal(items, &s.Experience)
	case "skills":
		err = json.Unmarshal(items, &s.Skills)
	case "projects":
		err = json.Unmarshal(items, &s.Projects)
	case "publications":
		err = json.Unmarshal(items, &s.Publications)
	default:
		return fmt.Errorf("unknown resume section type %q", raw.Type)
	}
	if err != nil {
		return fmt.Errorf("resume section %s: %w", s.Type, err)
	}
	return nil
}

// ResumeData is a generated resume.
type ResumeData struct {
	Contact  ResumeContact   `json:"contact"`
	Summary  string          `json:"summary,omitempty"`
	Sections []ResumeSection `json:"sections"`
}

// ResumeGenerationRequest is what a resume delegate receives. The corpus
// fields hold the same context blocks the chat delegate sees.
type ResumeGenerationRequest struct {
	// UserMessages is the visitor's messages joined by newlines.
	UserMessages string
	Experiences  string
	Projects     string
	Education    string
}

// ResumeDelegate writes a resume tailored to the visitor's messages.
type ResumeDelegate interface {
	GenerateResume(ctx context.Context, req ResumeGenerationRequest) (*ResumeData, error)
	Provider() string
	Model() string
}

// ResumeService builds resumes from the corpus. With a delegate it asks for a
// tailored resume first and falls back to the corpus-ordered one.
type ResumeService struct {
	corpus   CorpusReader
	delegate ResumeDelegate
	timeout  time.Duration
	logger   *zap.Logger
}

// NewResumeService creates a new ResumeService instance. delegate may be nil,
// in which case every resume is the corpus-ordered one.
func NewResumeService(corpus CorpusReader, delegate ResumeDelegate, log *zap.Logger, timeout time.Duration) *ResumeService {
	if timeout <= 0 {
		timeout = DefaultResumeTimeout
	}
	return &ResumeService{
		corpus:   corpus,
		delegate: delegate,
		timeout:  timeout,
		logger:   logger.OrNop(log),
	}
}

// Generate returns a resume for userMessages. A tailored resume needs a
// delegate and at least one message; any delegate failure yields the
// corpus-ordered resume instead.
func (s *ResumeService) Generate(ctx context.Context, userMessages []string) *ResumeData {
	if s.delegate != nil && len(userMessages) > 0 {
		data, outcome, err := s.tailored(ctx, userMessages)
		if outcome == OutcomeOK {
			return data
		}
		s.logger.Warn("resume delegate unavailable, using corpus resume",
			append(logger.ProviderFields(s.delegate.Provider(), s.delegate.Model()),
				zap.Stringer("outcome", outcome),
				zap.Error(err))...)
		telemetry.AddBreadcrumb(ctx, "resume", "generative fallback: "+outcome.String())
		if outcome == OutcomeFailed {
			telemetry.CaptureError(ctx, err)
		}
	}
	return s.Fallback(userMessages)
}

func (s *ResumeService) tailored(ctx context.Context, userMessages []string) (*ResumeData, Outcome, error) {
	ctx, span := telemetry.StartSpan(ctx, "resume.generate", telemetry.SpanAttributes{
		Source:    string(SourceGenerative),
		Provider:  s.delegate.Provider(),
		Operation: "resume",
	})
	defer span.End()

	req := ResumeGenerationRequest{
		UserMessages: strings.Join(userMessages, "\n"),
		Experiences:  ExperiencesContext(s.corpus.Experiences()),
		Projects:     ProjectsContext(s.corpus.Projects()),
		Education:    EducationContext(s.corpus.Education()),
	}
	data, err := callBounded(ctx, s.timeout, "resume delegate",
		func(ctx context.Context) (*ResumeData, error) {
			return s.delegate.GenerateResume(ctx, req)
		})
	if err == nil {
		err = checkResume(data)
	}

	outcome := OutcomeOK
	if err != nil {
		outcome = errorOutcome(err)
	}
	markSpan(span, outcome, err)
	if outcome != OutcomeOK {
		return nil, outcome, err
	}

	// Contact details are never taken from the model.
	data.Contact = s.contact()
	return data, OutcomeOK, nil
}

// checkResume rejects delegate output with no usable section.
func checkResume(data *ResumeData) error {
	if data == nil || len(data.Sections) == 0 {
		return domain.NewDomainErrorWithCause(domain.ErrCodeUnavailable,
			domain.ErrDelegateInvalidOutput.Message, errors.New("no resume sections returned"))
	}
	for i, section := range data.Sections {
		if section.Title == "" {
			return domain.NewDomainErrorWithCause(domain.ErrCodeUnavailable,
				domain.ErrDelegateInvalidOutput.Message, fmt.Errorf("section %d has no title", i))
		}
	}
	return nil
}

func (s *ResumeService) contact() ResumeContact {
	profile := s.corpus.Profile()
	return ResumeContact{
		Name:     profile.Name,
		Phone:    profile.Phone,
		Email:    profile.Email,
		LinkedIn: profile.LinkedIn,
		GitHub:   profile.GitHub,
		Website:  profile.Website,
		Location: profile.Location,
	}
}

// Fallback builds the corpus-ordered resume. When userMessages is not empty
// the summary line mentions the last message.
func (s *ResumeService) Fallback(userMessages []string) *ResumeData {
	profile := s.corpus.Profile()
	if profile.Skills == nil {
		profile.Skills = []domain.SkillCategory{}
	}

	data := &ResumeData{
		Contact: s.contact(),
		Sections: []ResumeSection{
			{Type: "education", Title: "Education", Education: s.education()},
			{Type: "experience", Title: "Experience", Experience: s.experience()},
			{Type: "skills", Title: "Technical Skills", Skills: profile.Skills},
			{Type: "projects", Title: "Selected Projects", Projects: s.projects()},
		},
	}

	if len(userMessages) > 0 {
		data.Summary = summaryLine(profile.Headline, userMessages[len(userMessages)-1])
	}
	return data
}

func summaryLine(headline, focus string) string {
	headline = strings.TrimSuffix(strings.TrimSpace(headline), ".")
	if headline == "" {
		headline = "Engineer"
	}
	runes := []rune(focus)
	if len(runes) > resumeFocusLimit {
		runes = runes[:resumeFocusLimit]
	}
	return headline + ". Seeking opportunities aligned with: " + string(runes) + "..."
}

func (s *ResumeService) education() []ResumeEducationItem {
	entries := s.corpus.Education()
	out := make([]ResumeEducationItem, 0, len(entries))
	for _, e := range entries {
		out = append(out, ResumeEducationItem{
			Institution: e.Institution,
			Location:    e.Location,
			Degree:      e.Degree,
			Dates:       e.DateRange(),
			GPA:         e.GPA,
			Highlights:  e.Description,
		})
	}
	return out
}

func (s *ResumeService) experience() []ResumeExperienceItem {
	exps := s.corpus.Experiences()
	if len(exps) > resumeExperienceLimit {
		exps = exps[:resumeExperienceLimit]
	}
	out := make([]ResumeExperienceItem, 0, len(exps))
	for _, e := range exps {
		bullets := e.Details.Description
		if len(bullets) > resumeBulletLimit {
			bullets = bullets[:resumeBulletLimit]
		}
		if bullets == nil {
			bullets = []string{}
		}
		out = append(out, ResumeExperienceItem{
			Title:        e.Role,
			Dates:        e.Period,
			Organization: e.Company,
			Location:     e.Details.Location,
			Bullets:      bullets,
		})
	}
	return out
}

func (s *ResumeService) projects() []ResumeProjectItem {
	projects := s.corpus.Projects()
	if len(projects) > resumeProjectLimit {
		projects = projects[:resumeProjectLimit]
	}
	out := make([]ResumeProjectItem, 0, len(projects))
	for _, p := range projects {
		tech := []string(p.Technologies)
		if len(tech) > resumeTechLimit {
			tech = tech[:resumeTechLimit]
		}
		out = append(out, ResumeProjectItem{
			Title:        p.Title,
			Dates:        p.Date,
			Organization: p.Client,
			Description:  p.Info.First(),
			Technologies: tech,
		})
	}
	return out
}

// Package corpus loads the portfolio records and serves read-only copies of them.
package corpus

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cloo-solutions/folio/internal/domain"
)

//go:embed data/corpus.yaml
var defaultCorpus []byte

// Document is the on-disk shape of a corpus file.
type Document struct {
	Profile     domain.Profile      `yaml:"profile"`
	Experiences []domain.Experience `yaml:"experiences"`
	Projects    []domain.Project    `yaml:"projects"`
	Education   []domain.Education  `yaml:"education"`
}

// Store is an immutable, validated corpus. Every accessor returns copies so
// callers cannot change what later requests see.
type Store struct {
	profile     domain.Profile
	experiences []domain.Experience
	projects    []domain.Project
	education   []domain.Education

	experienceIdx map[string]int
	projectIdx    map[string]int
	educationIdx  map[string]int
}

// Load reads a corpus file from path, or the built-in corpus when path is empty.
func Load(path string) (*Store, error) {
	if path == "" {
		return Parse(defaultCorpus)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus file: %w", err)
	}
	return Parse(data)
}

// Default returns the built-in corpus.
func Default() (*Store, error) {
	return Parse(defaultCorpus)
}

// Parse decodes a YAML corpus document and validates it.
func Parse(data []byte) (*Store, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, domain.ErrCorpusInvalid.Message, err)
	}
	return New(doc)
}

// New validates a document and builds a Store from it. Ids must be unique
// within each record kind.
func New(doc Document) (*Store, error) {
	if err := domain.ValidateProfile(&doc.Profile); err != nil {
		return nil, err
	}

	s := &Store{
		profile:       doc.Profile,
		experiences:   make([]domain.Experience, 0, len(doc.Experiences)),
		projects:      make([]domain.Project, 0, len(doc.Projects)),
		education:     make([]domain.Education, 0, len(doc.Education)),
		experienceIdx: make(map[string]int, len(doc.Experiences)),
		projectIdx:    make(map[string]int, len(doc.Projects)),
		educationIdx:  make(map[string]int, len(doc.Education)),
	}

	for i := range doc.Experiences {
		e := doc.Experiences[i]
		if err := domain.ValidateExperience(&e); err != nil {
			return nil, err
		}
		if err := addIndex(s.experienceIdx, "experience", e.ID, len(s.experiences)); err != nil {
			return nil, err
		}
		s.experiences = append(s.experiences, e)
	}

	for i := range doc.Projects {
		p := doc.Projects[i]
		if err := domain.ValidateProject(&p); err != nil {
			return nil, err
		}
		if err := addIndex(s.projectIdx, "project", p.ID, len(s.projects)); err != nil {
			return nil, err
		}
		s.projects = append(s.projects, p)
	}

	for i := range doc.Education {
		e := doc.Education[i]
		if err := domain.ValidateEducation(&e); err != nil {
			return nil, err
		}
		if err := addIndex(s.educationIdx, "education", e.ID, len(s.education)); err != nil {
			return nil, err
		}
		s.education = append(s.education, e)
	}

	return s, nil
}

func addIndex(idx map[string]int, kind, id string, pos int) error {
	if _, ok := idx[id]; ok {
		return domain.NewDomainErrorWithCause(domain.ErrCodeValidation, domain.ErrCorpusInvalid.Message,
			fmt.Errorf("duplicate %s id %q", kind, id))
	}
	idx[id] = pos
	return nil
}

// Profile returns the person-level data.
func (s *Store) Profile() domain.Profile {
	p := s.profile
	p.Skills = make([]domain.SkillCategory, len(s.profile.Skills))
	for i, c := range s.profile.Skills {
		p.Skills[i] = domain.SkillCategory{Category: c.Category, Skills: cloneStrings(c.Skills)}
	}
	return p
}

// Experiences returns all experiences in corpus order.
func (s *Store) Experiences() []domain.Experience {
	out := make([]domain.Experience, len(s.experiences))
	for i := range s.experiences {
		out[i] = cloneExperience(s.experiences[i])
	}
	return out
}

// Projects returns all projects in corpus order.
func (s *Store) Projects() []domain.Project {
	out := make([]domain.Project, len(s.projects))
	for i := range s.projects {
		out[i] = cloneProject(s.projects[i])
	}
	return out
}

// Education returns all education entries in corpus order.
func (s *Store) Education() []domain.Education {
	out := make([]domain.Education, len(s.education))
	for i := range s.education {
		out[i] = cloneEducation(s.education[i])
	}
	return out
}

// Experience looks up an experience by id.
func (s *Store) Experience(id string) (domain.Experience, bool) {
	i, ok := s.experienceIdx[id]
	if !ok {
		return domain.Experience{}, false
	}
	return cloneExperience(s.experiences[i]), true
}

// Project looks up a project by id.
func (s *Store) Project(id string) (domain.Project, bool) {
	i, ok := s.projectIdx[id]
	if !ok {
		return domain.Project{}, false
	}
	return cloneProject(s.projects[i]), true
}

// EducationByID looks up an education entry by id.
func (s *Store) EducationByID(id string) (domain.Education, bool) {
	i, ok := s.educationIdx[id]
	if !ok {
		return domain.Education{}, false
	}
	return cloneEducation(s.education[i]), true
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneLinks(in []domain.Link) []domain.Link {
	if in == nil {
		return nil
	}
	out := make([]domain.Link, len(in))
	copy(out, in)
	return out
}

func cloneExperience(e domain.Experience) domain.Experience {
	e.URLs = cloneLinks(e.URLs)
	e.Details.Description = cloneStrings(e.Details.Description)
	e.Details.Images = cloneStrings(e.Details.Images)
	e.Details.Skills = cloneStrings(e.Details.Skills)
	return e
}

func cloneProject(p domain.Project) domain.Project {
	p.URLs = cloneLinks(p.URLs)
	p.Technologies = domain.Technologies(cloneStrings(p.Technologies))
	p.Details.Images = cloneStrings(p.Details.Images)
	return p
}

func cloneEducation(e domain.Education) domain.Education {
	e.Images = cloneStrings(e.Images)
	e.Description = cloneStrings(e.Description)
	e.Coursework = cloneStrings(e.Coursework)
	return e
}

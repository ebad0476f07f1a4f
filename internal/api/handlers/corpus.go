package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cloo-solutions/folio/internal/api"
	"github.com/cloo-solutions/folio/internal/domain"
)

type CorpusReader interface {
	Experiences() []domain.Experience
	Projects() []domain.Project
	Education() []domain.Education
	Experience(id string) (domain.Experience, bool)
	Project(id string) (domain.Project, bool)
	EducationByID(id string) (domain.Education, bool)
}

// CorpusHandler serves the raw corpus records the site sections render.
type CorpusHandler struct {
	corpus CorpusReader
}

func NewCorpusHandler(corpus CorpusReader) *CorpusHandler {
	return &CorpusHandler{corpus: corpus}
}

type ExperiencesResponse struct {
	Experiences []domain.Experience `json:"experiences"`
}

type ProjectsResponse struct {
	Projects []domain.Project `json:"projects"`
}

type EducationResponse struct {
	Education []domain.Education `json:"education"`
}

func (h *CorpusHandler) ListExperiences(w http.ResponseWriter, r *http.Request) {
	api.JSON(w, http.StatusOK, ExperiencesResponse{Experiences: nonNil(h.corpus.Experiences())})
}

func (h *CorpusHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	api.JSON(w, http.StatusOK, ProjectsResponse{Projects: nonNil(h.corpus.Projects())})
}

func (h *CorpusHandler) ListEducation(w http.ResponseWriter, r *http.Request) {
	api.JSON(w, http.StatusOK, EducationResponse{Education: nonNil(h.corpus.Education())})
}

func (h *CorpusHandler) GetExperience(w http.ResponseWriter, r *http.Request) {
	e, ok := h.corpus.Experience(chi.URLParam(r, "id"))
	if !ok {
		api.HandleError(w, r, domain.ErrRecordNotFound)
		return
	}
	api.JSON(w, http.StatusOK, e)
}

func (h *CorpusHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	p, ok := h.corpus.Project(chi.URLParam(r, "id"))
	if !ok {
		api.HandleError(w, r, domain.ErrRecordNotFound)
		return
	}
	api.JSON(w, http.StatusOK, p)
}

func (h *CorpusHandler) GetEducation(w http.ResponseWriter, r *http.Request) {
	e, ok := h.corpus.EducationByID(chi.URLParam(r, "id"))
	if !ok {
		api.HandleError(w, r, domain.ErrRecordNotFound)
		return
	}
	api.JSON(w, http.StatusOK, e)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/cloo-solutions/folio/internal/api"
	"github.com/cloo-solutions/folio/internal/domain"
	"github.com/cloo-solutions/folio/internal/service"
)

type ResumeGenerator interface {
	Generate(ctx context.Context, userMessages []string) *service.ResumeData
}

// ResumeLocator resolves a download URL for the hosted resume PDF.
type ResumeLocator interface {
	DownloadURL(ctx context.Context) (string, error)
}

type ResumeHandler struct {
	generator ResumeGenerator
	locator   ResumeLocator
}

// NewResumeHandler creates a ResumeHandler. locator may be nil when no PDF is
// hosted; GET /resume.pdf then answers 404.
func NewResumeHandler(generator ResumeGenerator, locator ResumeLocator) *ResumeHandler {
	return &ResumeHandler{generator: generator, locator: locator}
}

type ResumeRequest struct {
	UserMessages []string `json:"userMessages"`
}

type ResumeResponse struct {
	Resume *service.ResumeData `json:"resume"`
}

// Generate answers POST /resume with a structured resume, tailored to the
// messages when a delegate is configured. An empty body is accepted and
// yields the corpus resume without a summary line.
func (h *ResumeHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req ResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		api.HandleError(w, r, domain.ErrInvalidRequest)
		return
	}

	api.JSON(w, http.StatusOK, ResumeResponse{Resume: h.generator.Generate(r.Context(), req.UserMessages)})
}

// Download redirects GET /resume.pdf to a short-lived URL for the PDF.
func (h *ResumeHandler) Download(w http.ResponseWriter, r *http.Request) {
	if h.locator == nil {
		api.HandleError(w, r, domain.ErrResumeUnavailable)
		return
	}

	url, err := h.locator.DownloadURL(r.Context())
	if err != nil {
		api.HandleError(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, url, http.StatusFound)
}

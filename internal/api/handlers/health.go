package handlers

import (
	"net/http"

	"github.com/cloo-solutions/folio/internal/api"
)

// HealthInfo describes the running configuration reported by /health.
type HealthInfo struct {
	Delegate  string `json:"delegate"`
	Analytics string `json:"analytics"`
	Resume    bool   `json:"resume_pdf"`
}

type HealthResponse struct {
	Status string `json:"status"`
	HealthInfo
}

type HealthHandler struct {
	info HealthInfo
}

func NewHealthHandler(info HealthInfo) *HealthHandler {
	return &HealthHandler{info: info}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	api.JSON(w, http.StatusOK, HealthResponse{Status: "ok", HealthInfo: h.info})
}

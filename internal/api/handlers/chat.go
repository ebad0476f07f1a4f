package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cloo-solutions/folio/internal/api"
	"github.com/cloo-solutions/folio/internal/domain"
	"github.com/cloo-solutions/folio/internal/service"
)

type ChatService interface {
	Chat(ctx context.Context, q domain.Query) (*service.Response, error)
}

type ChatHandler struct {
	svc ChatService
}

func NewChatHandler(svc ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type ChatRequest struct {
	Message string   `json:"message"`
	Lens    string   `json:"lens,omitempty"`
	History []string `json:"history,omitempty"`
}

type ChatResponse struct {
	Modals []domain.Modal `json:"modals"`
}

// Chat answers POST /chat. Any body that does not decode into ChatRequest, or
// carries a blank message, is a 400 {"error":"Invalid request"}.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, r, domain.ErrInvalidRequest)
		return
	}

	q, err := domain.NewQuery(req.Message, req.History, req.Lens)
	if err != nil {
		api.HandleError(w, r, err)
		return
	}

	resp, err := h.svc.Chat(r.Context(), q)
	if err != nil {
		api.HandleError(w, r, err)
		return
	}

	modals := resp.Modals
	if modals == nil {
		modals = []domain.Modal{}
	}
	api.JSON(w, http.StatusOK, ChatResponse{Modals: modals})
}

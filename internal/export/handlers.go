package export

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"openmusic-service/internal/apperr"
	"openmusic-service/internal/auth"
	"openmusic-service/internal/httpx"
)

type exportRequest struct {
	TargetEmail string `json:"targetEmail" validate:"required,email"`
}

type Handler struct {
	dispatcher *Dispatcher
}

func NewHandler(d *Dispatcher) *Handler {
	return &Handler{dispatcher: d}
}

func (h *Handler) Routes(r chi.Router, requireUser func(http.Handler) http.Handler) {
	r.With(requireUser).Post("/export/playlists/{playlistId}", h.handleExport)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		httpx.WriteError(w, r, apperr.Authentication("missing authentication"))
		return
	}

	var body exportRequest
	if err := httpx.DecodeJSON(w, r, &body); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	err := h.dispatcher.RequestExport(r.Context(), chi.URLParam(r, "playlistId"), body.TargetEmail, userID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.Message(w, http.StatusCreated, "your request is being processed")
}

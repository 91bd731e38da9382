package playlist

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"openmusic-service/internal/apperr"
	"openmusic-service/internal/auth"
	"openmusic-service/internal/httpx"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router, requireUser func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(requireUser)

		r.Post("/playlists", h.handleCreatePlaylist)
		r.Get("/playlists", h.handleListPlaylists)
		r.Delete("/playlists/{id}", h.handleDeletePlaylist)

		r.Post("/playlists/{id}/songs", h.handleAddSong)
		r.Get("/playlists/{id}/songs", h.handleGetSongs)
		r.Delete("/playlists/{id}/songs", h.handleDeleteSong)

		r.Get("/playlists/{id}/activities", h.handleActivities)

		r.Post("/collaborations", h.handleAddCollaboration)
		r.Delete("/collaborations", h.handleDeleteCollaboration)
	})
}

func currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		httpx.WriteError(w, r, apperr.Authentication("missing authentication"))
	}
	return userID, ok
}

func (h *Handler) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var body playlistRequest
	if err := httpx.DecodeJSON(w, r, &body); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	id, err := h.svc.AddPlaylist(r.Context(), body.Name, userID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.Data(w, http.StatusCreated, map[string]string{"playlistId": id})
}

func (h *Handler) handleListPlaylists(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	playlists, err := h.svc.GetPlaylists(r.Context(), userID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.Data(w, http.StatusOK, map[string]any{"playlists": playlists})
}

func (h *Handler) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeletePlaylist(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.Message(w, http.StatusOK, "playlist deleted")
}

func (h *Handler) handleAddSong(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var body playlistSongRequest
	if err := httpx.DecodeJSON(w, r, &body); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	if err := h.svc.AddSong(r.Context(), chi.URLParam(r, "id"), body.SongID, userID); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.Message(w, http.StatusCreated, "song added to playlist")
}

func (h *Handler) handleGetSongs(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	detail, err := h.svc.GetSongs(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.Data(w, http.StatusOK, map[string]any{"playlist": detail})
}

func (h *Handler) handleDeleteSong(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var body playlistSongRequest
	if err := httpx.DecodeJSON(w, r, &body); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	if err := h.svc.RemoveSong(r.Context(), chi.URLParam(r, "id"), body.SongID, userID); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.Message(w, http.StatusOK, "song removed from playlist")
}

func (h *Handler) handleActivities(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	playlistID := chi.URLParam(r, "id")
	activities, err := h.svc.Activities(r.Context(), playlistID, userID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.Data(w, http.StatusOK, map[string]any{
		"playlistId": playlistID,
		"activities": activities,
	})
}

func (h *Handler) handleAddCollaboration(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var body collaborationRequest
	if err := httpx.DecodeJSON(w, r, &body); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	id, err := h.svc.AddCollaborator(r.Context(), body.PlaylistID, body.UserID, userID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.Data(w, http.StatusCreated, map[string]string{"collaborationId": id})
}

func (h *Handler) handleDeleteCollaboration(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var body collaborationRequest
	if err := httpx.DecodeJSON(w, r, &body); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	if err := h.svc.RemoveCollaborator(r.Context(), body.PlaylistID, body.UserID, userID); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.Message(w, http.StatusOK, "collaboration deleted")
}

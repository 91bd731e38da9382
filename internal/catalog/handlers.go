package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"openmusic-service/internal/apperr"
	"openmusic-service/internal/auth"
	"openmusic-service/internal/httpx"
)

type Handler struct {
	svc *Service
	// coverFiles serves stored covers; nil disables the static route.
	coverFiles http.Handler
	baseURL    string
}

func NewHandler(svc *Service, coverFiles http.Handler, publicBaseURL string) *Handler {
	return &Handler{svc: svc, coverFiles: coverFiles, baseURL: publicBaseURL}
}

func (h *Handler) Routes(r chi.Router, requireUser func(http.Handler) http.Handler) {
	r.Post("/albums", h.handleAddAlbum)
	r.Get("/albums/{id}", h.handleGetAlbum)
	r.Put("/albums/{id}", h.handleEditAlbum)
	r.Delete("/albums/{id}", h.handleDeleteAlbum)
	r.Post("/albums/{id}/covers", h.handleUploadCover)
	if h.coverFiles != nil {
		r.Handle("/albums/covers/*", http.StripPrefix("/albums/covers/", h.coverFiles))
	}

	r.Get("/albums/{id}/likes", h.handleCountLikes)
	r.Group(func(r chi.Router) {
		r.Use(requireUser)
		r.Post("/albums/{id}/likes", h.handleLike)
		r.Delete("/albums/{id}/likes", h.handleUnlike)
	})

	r.Post("/songs", h.handleAddSong)
	r.Get("/songs", h.handleListSongs)
	r.Get("/songs/{id}", h.handleGetSong)
	r.Put("/songs/{id}", h.handleEditSong)
	r.Delete("/songs/{id}", h.handleDeleteSong)
}

func (h *Handler) handleAddAlbum(w http.ResponseWriter, r *http.Request) {
	var body AlbumInput
	if err := httpx.DecodeJSON(w, r, &body); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	id, err := h.svc.AddAlbum(r.Context(), body)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.Data(w, http.StatusCreated, map[string]string{"albumId": id})
}

func (h *Handler) handleGetAlbum(w http.ResponseWriter, r *http.Request) {
	album, err := h.svc.GetAlbum(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.Data(w, http.StatusOK, map[string]any{"album": album})
}

func (h *Handler) handleEditAlbum(w http.ResponseWriter, r *http.Request) {
	var body AlbumInput
	if err := httpx.DecodeJSON(w, r, &body); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	if err := h.svc.EditAlbum(r.Context(), chi.URLParam(r, "id"), body); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.Message(w, http.StatusOK, "album updated")
}

func (h *Handler) handleDeleteAlbum(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteAlbum(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.Message(w, http.StatusOK, "album deleted")
}

func (h *Handler) handleLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		httpx.WriteError(w, r, apperr.Authentication("missing authentication"))
		return
	}

	if err := h.svc.LikeAlbum(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.Message(w, http.StatusCreated, "album liked")
}

func (h *Handler) handleUnlike(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		httpx.WriteError(w, r, apperr.Authentication("missing authentication"))
		return
	}

	if err := h.svc.UnlikeAlbum(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.Message(w, http.StatusOK, "album unliked")
}

func (h *Handler) handleCountLikes(w http.ResponseWriter, r *http.Request) {
	n, src, err := h.svc.CountLikes(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	w.Header().Set(httpx.DataSourceHeader, string(src))
	httpx.Data(w, http.StatusOK, map[string]int{"likes": n})
}

func (h *Handler) handleAddSong(w http.ResponseWriter, r *http.Request) {
	var body SongInput
	if err := httpx.DecodeJSON(w, r, &body); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	id, err := h.svc.AddSong(r.Context(), body)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.Data(w, http.StatusCreated, map[string]string{"songId": id})
}

func (h *Handler) handleListSongs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	songs, err := h.svc.ListSongs(r.Context(), SongFilter{
		Title:     q.Get("title"),
		Performer: q.Get("performer"),
	})
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.Data(w, http.StatusOK, map[string]any{"songs": songs})
}

func (h *Handler) handleGetSong(w http.ResponseWriter, r *http.Request) {
	song, src, err := h.svc.GetSong(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	w.Header().Set(httpx.DataSourceHeader, string(src))
	httpx.Data(w, http.StatusOK, map[string]any{"song": song})
}

func (h *Handler) handleEditSong(w http.ResponseWriter, r *http.Request) {
	var body SongInput
	if err := httpx.DecodeJSON(w, r, &body); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	if err := h.svc.EditSong(r.Context(), chi.URLParam(r, "id"), body); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.Message(w, http.StatusOK, "song updated")
}

func (h *Handler) handleDeleteSong(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteSong(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.Message(w, http.StatusOK, "song deleted")
}

package catalog

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"openmusic-service/internal/apperr"
	"openmusic-service/internal/httpx"
)

const maxCoverBytes = 512000

var allowedCoverTypes = map[string]bool{
	"image/avif": true,
	"image/bmp":  true,
	"image/gif":  true,
	"image/jpeg": true,
	"image/png":  true,
	"image/tiff": true,
	"image/webp": true,
}

// POST /albums/{id}/covers
func (h *Handler) handleUploadCover(w http.ResponseWriter, r *http.Request) {
	albumID := chi.URLParam(r, "id")

	r.Body = http.MaxBytesReader(w, r.Body, maxCoverBytes)
	if err := r.ParseMultipartForm(maxCoverBytes); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			httpx.Fail(w, http.StatusRequestEntityTooLarge, "cover exceeds 512000 bytes")
			return
		}
		httpx.WriteError(w, r, apperr.Validation("invalid multipart form"))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("cover")
	if err != nil {
		httpx.WriteError(w, r, apperr.Validation(`"cover" is required`))
		return
	}
	defer file.Close()

	if !allowedCoverTypes[header.Header.Get("Content-Type")] {
		httpx.WriteError(w, r, apperr.Validation(`"cover" must be an image`))
		return
	}

	url, err := h.svc.ReplaceCover(r.Context(), albumID, file, header.Filename, h.baseURL)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	log.Info("catalog: cover uploaded", "albumId", albumID, "url", url)
	httpx.Message(w, http.StatusCreated, "cover uploaded")
}

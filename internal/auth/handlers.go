package auth

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"openmusic-service/internal/apperr"
	"openmusic-service/internal/httpx"
)

type Handler struct {
	users   UserStore
	refresh RefreshTokenStore
	tokens  *TokenManager
}

func NewHandler(users UserStore, refresh RefreshTokenStore, tokens *TokenManager) *Handler {
	return &Handler{users: users, refresh: refresh, tokens: tokens}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/users", h.handleRegister)

	r.Post("/authentications", h.handleLogin)
	r.Put("/authentications", h.handleRefresh)
	r.Delete("/authentications", h.handleLogout)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body registerRequest
	if err := httpx.DecodeJSON(w, r, &body); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	id, err := h.users.AddUser(r.Context(), body.Username, body.Password, body.Fullname)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	log.Info("auth: user registered", "userId", id)
	httpx.Data(w, http.StatusCreated, map[string]string{"userId": id})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := httpx.DecodeJSON(w, r, &body); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	userID, err := h.users.VerifyCredential(r.Context(), body.Username, body.Password)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	tokens, err := h.tokens.IssueTokens(userID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	if err := h.refresh.AddRefreshToken(r.Context(), tokens.RefreshToken); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	httpx.Data(w, http.StatusCreated, tokens)
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var body refreshRequest
	if err := httpx.DecodeJSON(w, r, &body); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	if err := h.refresh.VerifyRefreshToken(r.Context(), body.RefreshToken); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	claims, err := h.tokens.VerifyRefreshToken(body.RefreshToken)
	if err != nil {
		httpx.WriteError(w, r, apperr.Invariant("refresh token is invalid"))
		return
	}

	access, err := h.tokens.GenerateAccessToken(claims.UserID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	httpx.Data(w, http.StatusOK, map[string]string{"accessToken": access})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	var body refreshRequest
	if err := httpx.DecodeJSON(w, r, &body); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	if err := h.refresh.VerifyRefreshToken(r.Context(), body.RefreshToken); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	if err := h.refresh.DeleteRefreshToken(r.Context(), body.RefreshToken); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	httpx.Message(w, http.StatusOK, "refresh token deleted")
}

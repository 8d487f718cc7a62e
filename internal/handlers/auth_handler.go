package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/senyabanana/freelance-market/internal/models"
	"github.com/senyabanana/freelance-market/internal/services"
	"github.com/senyabanana/freelance-market/internal/utils"

	"github.com/rs/zerolog"
)

// AuthHandler - структура для обработки регистрации и входа.
type AuthHandler struct {
	Service    *services.AccountService
	Sessions   SessionStore
	Logger     zerolog.Logger
	Timeout    time.Duration
	SessionTTL time.Duration
}

// NewAuthHandler создает новый экземпляр AuthHandler.
func NewAuthHandler(service *services.AccountService, sessions SessionStore, logger zerolog.Logger, timeout, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		Service:    service,
		Sessions:   sessions,
		Logger:     logger,
		Timeout:    timeout,
		SessionTTL: sessionTTL,
	}
}

// Register обрабатывает регистрацию пользователя.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.RegisterRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	user, err := h.Service.Register(ctx, req)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	utils.SendJSON(w, http.StatusCreated, user)
}

// Login проверяет учетные данные и открывает сессию.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.LoginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	identity, err := h.Service.Login(ctx, req)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	token, err := h.Sessions.Create(ctx, *identity)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	utils.SendJSON(w, http.StatusOK, identity)
}

// Logout закрывает текущую сессию.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if err := h.Sessions.Delete(ctx, cookie.Value); err != nil {
			writeError(w, r, h.Logger, err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// Me возвращает пользователя текущей сессии.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, err := mustIdentity(r)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, identity)
}

package handlers

import (
	"net/http"
	"time"

	"github.com/senyabanana/freelance-market/internal/errs"
	"github.com/senyabanana/freelance-market/internal/utils"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// RequestLogger пишет в лог каждый обработанный запрос.
func RequestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startTime := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			event := logger.Debug()
			if status >= http.StatusInternalServerError {
				event = logger.Warn()
			}
			event.
				Int("status", status).
				Dur("latency", time.Since(startTime)).
				Str("ip", r.RemoteAddr).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("")
		})
	}
}

// RequireAuth пропускает только запросы с действующей сессией.
func RequireAuth(sessions SessionStore, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string
			if cookie, err := r.Cookie(SessionCookie); err == nil {
				token = cookie.Value
			}

			identity, err := sessions.Get(r.Context(), token)
			if err != nil {
				utils.WriteError(w, r, logger, err)
				return
			}
			if identity == nil {
				utils.WriteError(w, r, logger, errs.Unauthenticated("login required"))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), *identity)))
		})
	}
}

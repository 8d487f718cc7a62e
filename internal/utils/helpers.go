package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/senyabanana/freelance-market/internal/errs"
	"github.com/senyabanana/freelance-market/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const (
	DefaultLimit = 5
	MaxLimit     = 50
)

// SendErrorResponse отправляет ошибку в формате JSON
func SendErrorResponse(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	errorResponse := models.NewErrorResponse(statusCode, message)
	if r != nil {
		errorResponse.RequestID = middleware.GetReqID(r.Context())
	}
	SendJSON(w, statusCode, errorResponse)
}

// SendJSON отправляет тело ответа в формате JSON
func SendJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	// заголовки уже отправлены, сообщить клиенту об ошибке кодирования нельзя
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError переводит ошибку сервиса в HTTP-ответ. Внутренние ошибки пишутся в лог,
// клиент получает только общее сообщение.
func WriteError(w http.ResponseWriter, r *http.Request, logger zerolog.Logger, err error) {
	code := errs.StatusCode(err)
	if code == http.StatusInternalServerError {
		logger.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Str("path", r.URL.Path).Msg("request failed")
	}
	SendErrorResponse(w, r, code, errs.Message(err))
}

// ParseID читает положительный целочисленный параметр пути
func ParseID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.Validation(fmt.Sprintf("invalid %s parameter, must be a positive integer", name))
	}
	return id, nil
}

// ParseLimitOffset обрабатывает limit и offset
func ParseLimitOffset(limitStr, offsetStr string) (int, int, error) {
	limit, offset := DefaultLimit, 0
	var err error

	if limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit <= 0 || limit > MaxLimit {
			return 0, 0, errs.Validation("invalid limit parameter, must be a positive integer [1:50]")
		}
	}

	if offsetStr != "" {
		offset, err = strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			return 0, 0, errs.Validation("invalid offset parameter, must be a non-negative integer")
		}
	}

	return limit, offset, nil
}

var deadlineLayouts = []string{"2006-01-02T15:04", "2006-01-02 15:04"}

// ParseDeadline разбирает срок проекта. Время без пояса трактуется в поясе loc,
// дата без времени означает конец дня.
func ParseDeadline(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	for _, layout := range deadlineLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return &t, nil
		}
	}
	if d, err := time.ParseInLocation(time.DateOnly, s, loc); err == nil {
		t := time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, loc)
		return &t, nil
	}
	return nil, errs.Validation("invalid deadline, expected YYYY-MM-DD, YYYY-MM-DDTHH:MM or RFC3339")
}

// DecodeJSON читает тело запроса в dst, лишние поля запрещены
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errs.Validation("request body too large")
		}
		return errs.Validation("invalid request body")
	}
	return nil
}

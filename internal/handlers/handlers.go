package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/senyabanana/freelance-market/internal/errs"
	"github.com/senyabanana/freelance-market/internal/models"
	"github.com/senyabanana/freelance-market/internal/utils"

	"github.com/rs/zerolog"
)

// SessionCookie - имя cookie с токеном сессии.
const SessionCookie = "session_id"

// multipartMemory - часть формы, которая держится в памяти, остальное уходит во временные файлы.
const multipartMemory = 1 << 20

// SessionStore хранит сессии пользователей.
type SessionStore interface {
	Create(ctx context.Context, identity models.Identity) (string, error)
	Get(ctx context.Context, token string) (*models.Identity, error)
	Delete(ctx context.Context, token string) error
}

type identityKey struct{}

// WithIdentity кладет пользователя сессии в контекст запроса.
func WithIdentity(ctx context.Context, id models.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom достает пользователя сессии из контекста.
func IdentityFrom(ctx context.Context) (models.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(models.Identity)
	return id, ok
}

func mustIdentity(r *http.Request) (models.Identity, error) {
	id, ok := IdentityFrom(r.Context())
	if !ok {
		return models.Identity{}, errs.Unauthenticated("login required")
	}
	return id, nil
}

// parseMultipart ограничивает размер тела и разбирает форму.
func parseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errTooLarge
		}
		return errs.Validation("invalid multipart form")
	}
	return nil
}

var errTooLarge = errors.New("request body too large")

// writeError отвечает ошибкой; превышение размера тела дает 413.
func writeError(w http.ResponseWriter, r *http.Request, logger zerolog.Logger, err error) {
	if errors.Is(err, errTooLarge) {
		utils.SendErrorResponse(w, r, http.StatusRequestEntityTooLarge, errTooLarge.Error())
		return
	}
	utils.WriteError(w, r, logger, err)
}

// formFile открывает необязательный файл формы. Отсутствие файла не ошибка.
func formFile(r *http.Request, field string) (*models.Upload, func(), error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, nil, errs.Validation(fmt.Sprintf("invalid %s file", field))
	}
	if header.Size == 0 && header.Filename == "" {
		_ = file.Close()
		return nil, func() {}, nil
	}
	return &models.Upload{Name: header.Filename, Body: file}, func() { _ = file.Close() }, nil
}

func formInt(r *http.Request, field string) (int64, error) {
	raw := strings.TrimSpace(r.FormValue(field))
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errs.Validation(fmt.Sprintf("%s must be an integer", field))
	}
	return v, nil
}

// nonNil заменяет nil на пустой срез, чтобы в JSON был [] вместо null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

package errs

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrValidation      = errors.New("validation failed")
	ErrConflict        = errors.New("conflict")
	ErrUnauthenticated = errors.New("unauthenticated")
)

var ErrStatusMap = map[error]int{
	ErrNotFound:        http.StatusNotFound,
	ErrForbidden:       http.StatusForbidden,
	ErrValidation:      http.StatusBadRequest,
	ErrConflict:        http.StatusConflict,
	ErrUnauthenticated: http.StatusUnauthorized,
}

// Error - ошибка предметной области с сообщением для клиента.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// NotFound сообщает об отсутствии сущности либо о чужой сущности.
func NotFound(message string) error { return &Error{Kind: ErrNotFound, Message: message} }

// Forbidden сообщает о неподходящей роли пользователя.
func Forbidden(message string) error { return &Error{Kind: ErrForbidden, Message: message} }

// Validation сообщает о некорректных входных данных.
func Validation(message string) error { return &Error{Kind: ErrValidation, Message: message} }

// Conflict сообщает о конфликте с текущим состоянием.
func Conflict(message string) error { return &Error{Kind: ErrConflict, Message: message} }

// Unauthenticated сообщает об отсутствии сессии.
func Unauthenticated(message string) error {
	return &Error{Kind: ErrUnauthenticated, Message: message}
}

// StatusCode возвращает HTTP-статус для ошибки, по умолчанию 500.
func StatusCode(err error) int {
	for kind, code := range ErrStatusMap {
		if errors.Is(err, kind) {
			return code
		}
	}
	return http.StatusInternalServerError
}

// Message возвращает текст, который можно показать клиенту.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	if code := StatusCode(err); code != http.StatusInternalServerError {
		return err.Error()
	}
	return "internal server error"
}

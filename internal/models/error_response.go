package models

// ErrorResponse - тело ответа с описанием ошибки.
type ErrorResponse struct {
	StatusCode int    `json:"-"`
	Message    string `json:"reason"`
	RequestID  string `json:"requestId,omitempty"`
}

// NewErrorResponse создает ответ с кодом и сообщением.
func NewErrorResponse(statusCode int, message string) *ErrorResponse {
	return &ErrorResponse{
		StatusCode: statusCode,
		Message:    message,
	}
}

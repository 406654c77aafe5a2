package api

// Коды ошибок в ErrorResponse.Error
const (
	ErrCodeBadRequest  = "bad_request"
	ErrCodeNotFound    = "not_found"
	ErrCodeUnknownFile = "unknown_file"
	ErrCodeConflict    = "conflict"
	ErrCodeRateLimited = "rate_limited"
	ErrCodeInternal    = "internal"
)

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error     string `json:"error"`                // код ошибки
	Message   string `json:"message,omitempty"`    // дополнительное сообщение
	RequestID string `json:"request_id,omitempty"` // идентификатор запроса для логов
}

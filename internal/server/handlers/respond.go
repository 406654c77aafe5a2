package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/deltamirror/internal/ledger"
	"github.com/iudanet/deltamirror/internal/models"
	"github.com/iudanet/deltamirror/internal/server/middleware"
	"github.com/iudanet/deltamirror/internal/server/storage"
	"github.com/iudanet/deltamirror/internal/validation"
	"github.com/iudanet/deltamirror/internal/workspace"
	"github.com/iudanet/deltamirror/pkg/api"
)

// statusFor сопоставляет ошибку слоя репозитория HTTP статусу и коду ошибки
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, validation.ErrInvalidFileName),
		errors.Is(err, models.ErrInvalidVersion),
		errors.Is(err, workspace.ErrNotExist):
		return http.StatusBadRequest, api.ErrCodeBadRequest
	case errors.Is(err, ledger.ErrUnknownFile):
		return http.StatusNotFound, api.ErrCodeUnknownFile
	case errors.Is(err, storage.ErrPatchNotFound):
		return http.StatusNotFound, api.ErrCodeNotFound
	case errors.Is(err, ledger.ErrAlreadyRegistered),
		errors.Is(err, storage.ErrVersionConflict),
		errors.Is(err, models.ErrVersionOverflow):
		return http.StatusConflict, api.ErrCodeConflict
	default:
		return http.StatusInternalServerError, api.ErrCodeInternal
	}
}

// writeError пишет ErrorResponse; внутренние ошибки клиенту не раскрываются
func (h *FilesHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed",
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"error", err)
		msg = "internal server error"
	} else {
		h.logger.Debug("Request rejected", "path", r.URL.Path, "status", status, "error", err)
	}

	h.respondError(w, r, status, code, msg)
}

func (h *FilesHandler) respondError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	h.writeJSON(w, status, api.ErrorResponse{
		Error:     code,
		Message:   msg,
		RequestID: middleware.RequestIDFromContext(r.Context()),
	})
}

func (h *FilesHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", slog.Any("error", err))
	}
}

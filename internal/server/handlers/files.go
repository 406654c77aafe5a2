package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/deltamirror/internal/ledger"
	"github.com/iudanet/deltamirror/internal/models"
	"github.com/iudanet/deltamirror/internal/server/repository"
	"github.com/iudanet/deltamirror/pkg/api"
)

//go:generate moq -out repository_mock.go . Repository

// Repository операции репозитория, доступные через HTTP
type Repository interface {
	LedgerSnapshot(ctx context.Context) (*ledger.Ledger, error)
	GetPatch(ctx context.Context, name string, base models.Version) (*models.Patch, error)
	GetFullFile(ctx context.Context, name string) (*models.FullFile, error)
	RegisterFile(ctx context.Context, name string) (*models.FileRecord, error)
	UpdateFile(ctx context.Context, name string) (*models.FileRecord, error)
	History(ctx context.Context, name string) ([]models.PatchInfo, error)
	PendingDiff(ctx context.Context, name string) (string, error)
}

// FilesHandler обрабатывает запросы зеркал и администратора репозитория
type FilesHandler struct {
	logger *slog.Logger
	repo   Repository
}

// NewFilesHandler создает handler
func NewFilesHandler(logger *slog.Logger, repo Repository) *FilesHandler {
	return &FilesHandler{
		logger: logger,
		repo:   repo,
	}
}

// Ledger обрабатывает GET /api/v1/ledger
func (h *FilesHandler) Ledger(w http.ResponseWriter, r *http.Request) {
	snap, err := h.repo.LedgerSnapshot(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	records := snap.Records()
	resp := api.LedgerResponse{
		GeneratedAt: time.Now().UTC(),
		Files:       make([]api.FileRecord, 0, len(records)),
	}
	for _, rec := range records {
		resp.Files = append(resp.Files, toAPIRecord(rec))
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// Patch обрабатывает GET /api/v1/patch/{name...}?base=1.0.0
func (h *FilesHandler) Patch(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	base, err := models.ParseVersion(r.URL.Query().Get("base"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	patch, err := h.repo.GetPatch(r.Context(), name, base)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, api.PatchResponse{
		CreatedAt:     patch.CreatedAt,
		FileName:      patch.FileName,
		BaseVersion:   patch.BaseVersion.String(),
		TargetVersion: patch.TargetVersion.String(),
		TargetHash:    patch.TargetHash,
		Script:        patch.Script,
	})
}

// FullFile обрабатывает GET /api/v1/files/{name...}
func (h *FilesHandler) FullFile(w http.ResponseWriter, r *http.Request) {
	full, err := h.repo.GetFullFile(r.Context(), r.PathValue("name"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, api.FullFileResponse{
		Record:  toAPIRecord(full.Record),
		Content: full.Content,
	})
}

// Register обрабатывает POST /api/v1/files
func (h *FilesHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
		h.logger.Warn("Failed to decode register request", "error", err)
		h.respondError(w, r, http.StatusBadRequest, api.ErrCodeBadRequest, "invalid request body")
		return
	}

	rec, err := h.repo.RegisterFile(r.Context(), req.FileName)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, toAPIRecord(*rec))
}

// Update обрабатывает POST /api/v1/update/{name...}
func (h *FilesHandler) Update(w http.ResponseWriter, r *http.Request) {
	rec, err := h.repo.UpdateFile(r.Context(), r.PathValue("name"))
	changed := true
	if errors.Is(err, repository.ErrNoChange) {
		changed, err = false, nil
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, api.UpdateResponse{
		Record:  toAPIRecord(*rec),
		Changed: changed,
	})
}

// History обрабатывает GET /api/v1/history/{name...}
func (h *FilesHandler) History(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	infos, err := h.repo.History(r.Context(), name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := api.HistoryResponse{
		FileName: name,
		Patches:  make([]api.PatchInfo, 0, len(infos)),
	}
	for _, info := range infos {
		resp.Patches = append(resp.Patches, api.PatchInfo{
			CreatedAt:     info.CreatedAt,
			BaseVersion:   info.BaseVersion.String(),
			TargetVersion: info.TargetVersion.String(),
			TargetHash:    info.TargetHash,
			Size:          info.Size,
		})
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// Pending обрабатывает GET /api/v1/pending/{name...}: unified diff неопубликованных изменений
func (h *FilesHandler) Pending(w http.ResponseWriter, r *http.Request) {
	diff, err := h.repo.PendingDiff(r.Context(), r.PathValue("name"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if diff == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(diff))
}

func toAPIRecord(rec models.FileRecord) api.FileRecord {
	return api.FileRecord{
		FileName:    rec.Name,
		Version:     rec.Version.String(),
		ContentHash: rec.Hash,
	}
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/iudanet/deltamirror/internal/ledger"
	"github.com/iudanet/deltamirror/internal/models"
	"github.com/iudanet/deltamirror/internal/server/repository"
	"github.com/iudanet/deltamirror/internal/server/storage"
	"github.com/iudanet/deltamirror/internal/validation"
	"github.com/iudanet/deltamirror/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError, // Only show errors in tests
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func newTestMux(repo Repository, withAdmin bool) *http.ServeMux {
	logger := setupTestLogger()
	mux := http.NewServeMux()
	RegisterRoutes(mux, NewFilesHandler(logger, repo), NewHealthHandler(logger, nil, "test"), withAdmin)
	return mux
}

func serve(mux http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) api.ErrorResponse {
	t.Helper()
	var resp api.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

var v101 = models.Version{Major: 1, Minor: 0, Patch: 1}

func TestFilesHandler_Ledger(t *testing.T) {
	repo := &RepositoryMock{
		LedgerSnapshotFunc: func(ctx context.Context) (*ledger.Ledger, error) {
			return ledger.FromRecords([]models.FileRecord{
				{Name: "b.txt", Hash: "hb", Version: models.InitialVersion},
				{Name: "a.txt", Hash: "ha", Version: v101},
			})
		},
	}

	w := serve(newTestMux(repo, false), http.MethodGet, "/api/v1/ledger", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.LedgerResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, []api.FileRecord{
		{FileName: "a.txt", Version: "1.0.1", ContentHash: "ha"},
		{FileName: "b.txt", Version: "1.0.0", ContentHash: "hb"},
	}, resp.Files)
	assert.Len(t, repo.LedgerSnapshotCalls(), 1)
}

func TestFilesHandler_Patch(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		repoErr    error
		name       string
		target     string
		wantCode   string
		wantStatus int
	}{
		{
			name:       "found",
			target:     "/api/v1/patch/docs/notes.txt?base=1.0.0",
			wantStatus: http.StatusOK,
		},
		{
			name:       "superseded base",
			target:     "/api/v1/patch/docs/notes.txt?base=1.0.0",
			repoErr:    fmt.Errorf("%w: gone", storage.ErrPatchNotFound),
			wantStatus: http.StatusNotFound,
			wantCode:   api.ErrCodeNotFound,
		},
		{
			name:       "unknown file",
			target:     "/api/v1/patch/docs/notes.txt?base=1.0.0",
			repoErr:    fmt.Errorf("%w: docs/notes.txt", ledger.ErrUnknownFile),
			wantStatus: http.StatusNotFound,
			wantCode:   api.ErrCodeUnknownFile,
		},
		{
			name:       "bad base version",
			target:     "/api/v1/patch/docs/notes.txt?base=one",
			wantStatus: http.StatusBadRequest,
			wantCode:   api.ErrCodeBadRequest,
		},
		{
			name:       "storage failure is hidden",
			target:     "/api/v1/patch/docs/notes.txt?base=1.0.0",
			repoErr:    errors.New("disk I/O error"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   api.ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &RepositoryMock{
				GetPatchFunc: func(ctx context.Context, name string, base models.Version) (*models.Patch, error) {
					if tt.repoErr != nil {
						return nil, tt.repoErr
					}
					return &models.Patch{
						CreatedAt:     created,
						FileName:      name,
						BaseVersion:   base,
						TargetVersion: models.Version{Major: base.Major, Minor: base.Minor, Patch: base.Patch + 1},
						TargetHash:    "th",
						Script:        []byte{0x28, 0xb5, 0x2f, 0xfd},
					}, nil
				},
			}

			w := serve(newTestMux(repo, false), http.MethodGet, tt.target, nil)
			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStatus != http.StatusOK {
				resp := decodeError(t, w)
				assert.Equal(t, tt.wantCode, resp.Error)
				if tt.wantStatus == http.StatusInternalServerError {
					assert.NotContains(t, resp.Message, "disk")
				}
				return
			}

			var resp api.PatchResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, "docs/notes.txt", resp.FileName)
			assert.Equal(t, "1.0.0", resp.BaseVersion)
			assert.Equal(t, "1.0.1", resp.TargetVersion)
			assert.Equal(t, []byte{0x28, 0xb5, 0x2f, 0xfd}, resp.Script)

			calls := repo.GetPatchCalls()
			require.Len(t, calls, 1)
			assert.Equal(t, "docs/notes.txt", calls[0].Name)
			assert.Equal(t, models.InitialVersion, calls[0].Base)
		})
	}
}

func TestFilesHandler_FullFile(t *testing.T) {
	repo := &RepositoryMock{
		GetFullFileFunc: func(ctx context.Context, name string) (*models.FullFile, error) {
			if name != "notes.txt" {
				return nil, fmt.Errorf("%w: %s", ledger.ErrUnknownFile, name)
			}
			return &models.FullFile{
				Record:  models.FileRecord{Name: name, Hash: "h", Version: v101},
				Content: []byte("content\x00binary"),
			}, nil
		},
	}
	mux := newTestMux(repo, false)

	w := serve(mux, http.MethodGet, "/api/v1/files/notes.txt", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.FullFileResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, []byte("content\x00binary"), resp.Content)
	assert.Equal(t, api.FileRecord{FileName: "notes.txt", Version: "1.0.1", ContentHash: "h"}, resp.Record)

	w = serve(mux, http.MethodGet, "/api/v1/files/other.txt", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, api.ErrCodeUnknownFile, decodeError(t, w).Error)
}

func TestFilesHandler_Register(t *testing.T) {
	tests := []struct {
		repoErr    error
		name       string
		body       string
		wantStatus int
	}{
		{name: "created", body: `{"file_name":"notes.txt"}`, wantStatus: http.StatusCreated},
		{name: "already registered", body: `{"file_name":"notes.txt"}`, repoErr: ledger.ErrAlreadyRegistered, wantStatus: http.StatusConflict},
		{name: "invalid name", body: `{"file_name":"../x"}`, repoErr: validation.ErrInvalidFileName, wantStatus: http.StatusBadRequest},
		{name: "broken json", body: `{"file_name":`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &RepositoryMock{
				RegisterFileFunc: func(ctx context.Context, name string) (*models.FileRecord, error) {
					if tt.repoErr != nil {
						return nil, tt.repoErr
					}
					return &models.FileRecord{Name: name, Hash: "h", Version: models.InitialVersion}, nil
				},
			}

			w := serve(newTestMux(repo, true), http.MethodPost, "/api/v1/files", []byte(tt.body))
			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusCreated {
				var rec api.FileRecord
				require.NoError(t, json.NewDecoder(w.Body).Decode(&rec))
				assert.Equal(t, "1.0.0", rec.Version)
			}
		})
	}
}

func TestFilesHandler_Update(t *testing.T) {
	tests := []struct {
		repoErr     error
		name        string
		wantStatus  int
		wantChanged bool
	}{
		{name: "published", wantStatus: http.StatusOK, wantChanged: true},
		{name: "no change", repoErr: repository.ErrNoChange, wantStatus: http.StatusOK},
		{name: "conflict", repoErr: storage.ErrVersionConflict, wantStatus: http.StatusConflict},
		{name: "version overflow", repoErr: models.ErrVersionOverflow, wantStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &RepositoryMock{
				UpdateFileFunc: func(ctx context.Context, name string) (*models.FileRecord, error) {
					rec := &models.FileRecord{Name: name, Hash: "h", Version: v101}
					if tt.repoErr != nil {
						if errors.Is(tt.repoErr, repository.ErrNoChange) {
							return rec, tt.repoErr
						}
						return nil, tt.repoErr
					}
					return rec, nil
				},
			}

			w := serve(newTestMux(repo, true), http.MethodPost, "/api/v1/update/cfg/app.yaml", nil)
			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusOK {
				var resp api.UpdateResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(t, tt.wantChanged, resp.Changed)
				assert.Equal(t, "cfg/app.yaml", resp.Record.FileName)
			}
		})
	}
}

func TestFilesHandler_AdminRoutesDisabled(t *testing.T) {
	repo := &RepositoryMock{}
	mux := newTestMux(repo, false)

	tests := []struct {
		name   string
		method string
		target string
		body   []byte
	}{
		{name: "update", method: http.MethodPost, target: "/api/v1/update/notes.txt"},
		{name: "register shares path prefix with full file", method: http.MethodPost, target: "/api/v1/files", body: []byte(`{"file_name":"a"}`)},
		{name: "pending", method: http.MethodGet, target: "/api/v1/pending/notes.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(mux, tt.method, tt.target, tt.body)
			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.Equal(t, api.ErrCodeNotFound, decodeError(t, w).Error)
		})
	}

	assert.Empty(t, repo.UpdateFileCalls())
	assert.Empty(t, repo.RegisterFileCalls())
	assert.Empty(t, repo.PendingDiffCalls())
}

func TestFilesHandler_HistoryAndPending(t *testing.T) {
	repo := &RepositoryMock{
		HistoryFunc: func(ctx context.Context, name string) ([]models.PatchInfo, error) {
			return []models.PatchInfo{
				{FileName: name, BaseVersion: models.InitialVersion, TargetVersion: v101, TargetHash: "h", Size: 42},
			}, nil
		},
		PendingDiffFunc: func(ctx context.Context, name string) (string, error) {
			if name == "clean.txt" {
				return "", nil
			}
			return "--- a\n+++ b\n", nil
		},
	}
	mux := newTestMux(repo, true)

	w := serve(mux, http.MethodGet, "/api/v1/history/notes.txt", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var hist api.HistoryResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&hist))
	require.Len(t, hist.Patches, 1)
	assert.Equal(t, "1.0.1", hist.Patches[0].TargetVersion)
	assert.Equal(t, 42, hist.Patches[0].Size)

	w = serve(mux, http.MethodGet, "/api/v1/pending/notes.txt", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "--- a\n+++ b\n", w.Body.String())

	w = serve(mux, http.MethodGet, "/api/v1/pending/clean.txt", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iudanet/deltamirror/internal/config"
	"github.com/iudanet/deltamirror/internal/crypto"
	"github.com/iudanet/deltamirror/internal/delta"
	"github.com/iudanet/deltamirror/internal/models"
	"github.com/iudanet/deltamirror/internal/server/repository"
	"github.com/iudanet/deltamirror/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestServer(t *testing.T, admin bool) (*Server, string) {
	t.Helper()

	cfg := config.DefaultServerConfig()
	cfg.DatabasePath = ":memory:"
	cfg.LiveDir = t.TempDir()
	cfg.Admin = admin
	cfg.RateLimit = 0

	srv, err := NewServer(context.Background(), cfg, "test", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = srv.Close()
	})

	return srv, cfg.LiveDir
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func TestServer_PublishAndFetchPatch(t *testing.T) {
	srv, liveDir := setupTestServer(t, true)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	v1 := []byte(strings.Repeat("line of text\n", 100))
	v2 := append(append([]byte{}, v1[:500]...), []byte("inserted\n")...)
	v2 = append(v2, v1[500:]...)
	require.NoError(t, os.WriteFile(filepath.Join(liveDir, "notes.txt"), v1, 0o644))

	resp := postJSON(t, ts.URL+"/api/v1/files", api.RegisterRequest{FileName: "notes.txt"})
	_ = resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	require.NoError(t, os.WriteFile(filepath.Join(liveDir, "notes.txt"), v2, 0o644))

	resp, err := http.Post(ts.URL+"/api/v1/update/notes.txt", "application/json", nil)
	require.NoError(t, err)
	var upd api.UpdateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&upd))
	_ = resp.Body.Close()
	assert.True(t, upd.Changed)
	assert.Equal(t, "1.0.1", upd.Record.Version)
	assert.Equal(t, crypto.ContentHash(v2), upd.Record.ContentHash)

	resp, err = http.Get(ts.URL + "/api/v1/patch/notes.txt?base=1.0.0")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var patch api.PatchResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&patch))
	_ = resp.Body.Close()

	script, err := delta.Unmarshal(patch.Script)
	require.NoError(t, err)
	got, err := delta.Apply(v1, script)
	require.NoError(t, err)
	assert.Equal(t, v2, got)
	require.NoError(t, crypto.VerifyContent(got, patch.TargetHash))

	resp, err = http.Get(ts.URL + "/api/v1/ledger")
	require.NoError(t, err)
	var snap api.LedgerResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	_ = resp.Body.Close()
	require.Len(t, snap.Files, 1)
	assert.Equal(t, "1.0.1", snap.Files[0].Version)

	// Патча от текущей версии еще нет
	resp, err = http.Get(ts.URL + "/api/v1/patch/notes.txt?base=1.0.1")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_AdminDisabled(t *testing.T) {
	srv, _ := setupTestServer(t, false)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/v1/update/notes.txt", "application/json", nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Post(ts.URL+"/api/v1/files", "application/json", strings.NewReader(`{"file_name":"notes.txt"}`))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/api/v1/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand(BuildInfo{Version: "1.2.3", BuildDate: "today", GitCommit: "abc"})
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand_RegisterUpdateHistory(t *testing.T) {
	dir := t.TempDir()
	liveDir := filepath.Join(dir, "live")
	require.NoError(t, os.MkdirAll(liveDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(liveDir, "a.txt"), []byte("first version"), 0o644))

	common := []string{"--db", filepath.Join(dir, "repo.db"), "--live-dir", liveDir, "--log-level", "error"}

	out, err := runCommand(t, append([]string{"register", "a.txt"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "registered a.txt 1.0.0")

	out, err = runCommand(t, append([]string{"update"}, common...)...)
	require.NoError(t, err)
	assert.Equal(t, "a.txt: unchanged\n", out)

	require.NoError(t, os.WriteFile(filepath.Join(liveDir, "a.txt"), []byte("second version"), 0o644))

	out, err = runCommand(t, append([]string{"diff", "a.txt"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "-first version")
	assert.Contains(t, out, "+second version")

	out, err = runCommand(t, append([]string{"update", "a.txt"}, common...)...)
	require.NoError(t, err)
	assert.Equal(t, "a.txt: published 1.0.1\n", out)

	out, err = runCommand(t, append([]string{"history", "a.txt"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "1.0.0")
	assert.Contains(t, out, "1.0.1")

	_, err = runCommand(t, append([]string{"update", "missing.txt"}, common...)...)
	assert.ErrorContains(t, err, "1 of 1 files failed")
}

func TestRootCommand_Version(t *testing.T) {
	out, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version:    1.2.3")
	assert.Contains(t, out, "Git Commit: abc")
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	_, err := runCommand(t, "history", "a.txt", "--log-level", "loud")
	var verrs config.ValidationErrors
	assert.True(t, errors.As(err, &verrs))
}

func TestPrintUpdateResults(t *testing.T) {
	var out bytes.Buffer
	err := printUpdateResults(&out, []repository.UpdateResult{
		{Name: "a", Changed: true, Record: &models.FileRecord{Name: "a", Version: models.Version{Major: 1, Patch: 4}}},
		{Name: "b", Record: &models.FileRecord{Name: "b", Version: models.InitialVersion}},
		{Name: "c", Err: errors.New("boom")},
	})

	assert.EqualError(t, err, "1 of 3 files failed to update")
	assert.Equal(t, "a: published 1.0.4\nb: unchanged\nc: error: boom\n", out.String())
}

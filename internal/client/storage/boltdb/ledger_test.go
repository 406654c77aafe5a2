package boltdb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/iudanet/deltamirror/internal/client/storage"
	"github.com/iudanet/deltamirror/internal/models"
	"github.com/iudanet/deltamirror/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitFile_AndRead(t *testing.T) {
	store, _, cleanup := setupTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.GetRecord(ctx, "cfg/app.yaml")
	assert.ErrorIs(t, err, storage.ErrRecordNotFound)

	_, err = store.ReadContent(ctx, "cfg/app.yaml")
	assert.ErrorIs(t, err, storage.ErrContentMissing)

	rec := models.FileRecord{Name: "cfg/app.yaml", Hash: "h1", Version: models.InitialVersion}
	require.NoError(t, store.CommitFile(ctx, rec, []byte("v1")))

	got, err := store.GetRecord(ctx, "cfg/app.yaml")
	require.NoError(t, err)
	assert.Equal(t, rec, *got)

	content, err := store.ReadContent(ctx, "cfg/app.yaml")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), content)

	// Перезапись новой версией
	rec2 := models.FileRecord{Name: "cfg/app.yaml", Hash: "h2", Version: models.Version{Major: 1, Patch: 1}}
	require.NoError(t, store.CommitFile(ctx, rec2, []byte("v2")))

	got, err = store.GetRecord(ctx, "cfg/app.yaml")
	require.NoError(t, err)
	assert.Equal(t, rec2, *got)

	content, err = store.ReadContent(ctx, "cfg/app.yaml")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), content)
}

func TestCommitFile_LeavesNoServiceFiles(t *testing.T) {
	store, files, cleanup := setupTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	for i, data := range []string{"one", "two", "three"} {
		rec := models.FileRecord{Name: "a.txt", Hash: data, Version: models.Version{Major: 1, Patch: uint32(i)}}
		require.NoError(t, store.CommitFile(ctx, rec, []byte(data)))
	}

	entries, err := os.ReadDir(files.Root())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.txt", entries[0].Name())
}

func TestCommitFile_ClosedStorageKeepsPreviousState(t *testing.T) {
	store, files, _ := setupTestStorage(t)
	ctx := context.Background()

	rec := models.FileRecord{Name: "a.txt", Hash: "h1", Version: models.InitialVersion}
	require.NoError(t, store.CommitFile(ctx, rec, []byte("v1")))
	require.NoError(t, store.Close())

	err := store.CommitFile(ctx, models.FileRecord{Name: "a.txt", Hash: "h2", Version: models.Version{Major: 1, Patch: 1}}, []byte("v2"))
	assert.ErrorIs(t, err, storage.ErrStorageClosed)

	data, err := os.ReadFile(filepath.Join(files.Root(), "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), data)

	entries, err := os.ReadDir(files.Root())
	require.NoError(t, err)
	assert.Len(t, entries, 1, "staged temp file must be removed")
}

func TestCommitFile_InvalidName(t *testing.T) {
	store, _, cleanup := setupTestStorage(t)
	defer cleanup()

	err := store.CommitFile(context.Background(), models.FileRecord{Name: "../escape"}, []byte("x"))
	assert.ErrorIs(t, err, validation.ErrInvalidFileName)

	records, err := store.ListRecords(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestListRecords_Sorted(t *testing.T) {
	store, _, cleanup := setupTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	for _, name := range []string{"zeta.bin", "alpha.txt", "mid/file"} {
		require.NoError(t, store.CommitFile(ctx, models.FileRecord{Name: name, Hash: "h", Version: models.InitialVersion}, []byte(name)))
	}

	records, err := store.ListRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "alpha.txt", records[0].Name)
	assert.Equal(t, "mid/file", records[1].Name)
	assert.Equal(t, "zeta.bin", records[2].Name)
}

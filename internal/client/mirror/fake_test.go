package mirror

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/iudanet/deltamirror/internal/client/storage/boltdb"
	"github.com/iudanet/deltamirror/internal/crypto"
	"github.com/iudanet/deltamirror/internal/delta"
	"github.com/iudanet/deltamirror/internal/models"
	"github.com/iudanet/deltamirror/internal/workspace"
	"github.com/stretchr/testify/require"
)

type patchKey struct {
	name string
	base models.Version
}

// fakeRepo репозиторий в памяти: последняя версия каждого файла и история патчей
type fakeRepo struct {
	files   map[string]models.FullFile
	patches map[patchKey]*models.Patch
	mu      sync.Mutex
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		files:   make(map[string]models.FullFile),
		patches: make(map[patchKey]*models.Patch),
	}
}

func (f *fakeRepo) register(t *testing.T, name string, content []byte) models.FileRecord {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()

	rec := models.FileRecord{Name: name, Hash: crypto.ContentHash(content), Version: models.InitialVersion}
	f.files[name] = models.FullFile{Record: rec, Content: content}
	return rec
}

// publish публикует новую версию и сохраняет патч от предыдущей
func (f *fakeRepo) publish(t *testing.T, name string, content []byte) models.FileRecord {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()

	prev, ok := f.files[name]
	require.True(t, ok, "file %s is not registered", name)

	blob, err := delta.Marshal(delta.Encode(prev.Content, content))
	require.NoError(t, err)

	next, err := prev.Record.Version.Next()
	require.NoError(t, err)

	rec := models.FileRecord{Name: name, Hash: crypto.ContentHash(content), Version: next}
	f.patches[patchKey{name, prev.Record.Version}] = &models.Patch{
		FileName:      name,
		BaseVersion:   prev.Record.Version,
		TargetVersion: rec.Version,
		TargetHash:    rec.Hash,
		Script:        blob,
	}
	f.files[name] = models.FullFile{Record: rec, Content: content}
	return rec
}

// tamperPatch изменяет сохраненный патч
func (f *fakeRepo) tamperPatch(name string, base models.Version, fn func(p *models.Patch)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f.patches[patchKey{name, base}])
}

func (f *fakeRepo) dropPatch(name string, base models.Version) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.patches, patchKey{name, base})
}

func (f *fakeRepo) remote() *RemoteMock {
	return &RemoteMock{
		GetLedgerSnapshotFunc: func(ctx context.Context) ([]models.FileRecord, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			records := make([]models.FileRecord, 0, len(f.files))
			for _, ff := range f.files {
				records = append(records, ff.Record)
			}
			return records, nil
		},
		GetPatchFunc: func(ctx context.Context, name string, base models.Version) (*models.Patch, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			p, ok := f.patches[patchKey{name, base}]
			if !ok {
				return nil, fmt.Errorf("%w: %s@%s", ErrNotFound, name, base)
			}
			cp := *p
			return &cp, nil
		},
		GetFullFileFunc: func(ctx context.Context, name string) (*models.FullFile, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			ff, ok := f.files[name]
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
			}
			return &models.FullFile{Record: ff.Record, Content: append([]byte{}, ff.Content...)}, nil
		},
	}
}

// setupMirror создает зеркало на BoltDB во временном каталоге
func setupMirror(t *testing.T) (*boltdb.Storage, *workspace.Dir) {
	t.Helper()
	dir := t.TempDir()

	files, err := workspace.New(filepath.Join(dir, "files"))
	require.NoError(t, err)

	store, err := boltdb.New(context.Background(), filepath.Join(dir, "mirror.db"), files)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})

	return store, files
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

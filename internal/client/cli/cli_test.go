package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/iudanet/deltamirror/internal/client/iocli"
	"github.com/iudanet/deltamirror/internal/client/mirror"
	"github.com/iudanet/deltamirror/internal/client/storage/boltdb"
	"github.com/iudanet/deltamirror/internal/crypto"
	"github.com/iudanet/deltamirror/internal/models"
	"github.com/iudanet/deltamirror/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestIO собирает весь вывод в буфер; confirm отвечает на Confirm
func newTestIO(confirm func(prompt string) (bool, error)) (*iocli.IOMock, *bytes.Buffer) {
	var buf bytes.Buffer
	return &iocli.IOMock{
		PrintlnFunc: func(a ...any) {
			fmt.Fprintln(&buf, a...)
		},
		PrintfFunc: func(format string, a ...any) {
			fmt.Fprintf(&buf, format, a...)
		},
		WriteFunc: func(p []byte) (int, error) {
			return buf.Write(p)
		},
		ConfirmFunc: confirm,
	}, &buf
}

func setupTestStore(t *testing.T) *boltdb.Storage {
	t.Helper()
	dir := t.TempDir()

	files, err := workspace.New(filepath.Join(dir, "files"))
	require.NoError(t, err)
	store, err := boltdb.New(context.Background(), filepath.Join(dir, "mirror.db"), files)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

var (
	v100 = models.InitialVersion
	v103 = models.Version{Major: 1, Patch: 3}
)

func TestCli_runCheck(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	io, out := newTestIO(nil)

	m := &MirrorMock{
		CheckFunc: func(ctx context.Context) (*mirror.Report, error) {
			return &mirror.Report{Outcomes: []mirror.Outcome{
				{Name: "a.txt", From: mirror.StateSynced, To: mirror.StateSynced, LocalVersion: v103, RemoteVersion: v103},
				{Name: "b.txt", From: mirror.StateStale, To: mirror.StateStale, LocalVersion: v100, RemoteVersion: v103},
				{Name: "c.txt", From: mirror.StateUnknown, To: mirror.StateUnknown, RemoteVersion: v100},
			}}, nil
		},
	}

	c := New(io, m, store, "http://repo")
	require.NoError(t, c.runCheck(ctx))

	text := out.String()
	assert.Contains(t, text, "FILE")
	assert.Regexp(t, `b\.txt\s+stale\s+1\.0\.0\s+1\.0\.3`, text)
	assert.Regexp(t, `c\.txt\s+unknown\s+-\s+1\.0\.0`, text)
	assert.Contains(t, text, "3 files: 1 stale, 1 not mirrored, 0 with errors")
	assert.Contains(t, text, "deltamirror sync")

	last, err := store.GetLastCheck(ctx)
	require.NoError(t, err)
	assert.False(t, last.IsZero())
}

func TestCli_runCheck_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("ledger unavailable", func(t *testing.T) {
		store := setupTestStore(t)
		io, _ := newTestIO(nil)
		m := &MirrorMock{
			CheckFunc: func(ctx context.Context) (*mirror.Report, error) {
				return nil, errors.New("connection refused")
			},
		}

		err := New(io, m, store, "").runCheck(ctx)
		assert.ErrorContains(t, err, "connection refused")

		last, err := store.GetLastCheck(ctx)
		require.NoError(t, err)
		assert.True(t, last.IsZero(), "failed check must not be recorded")
	})

	t.Run("inconsistent file", func(t *testing.T) {
		store := setupTestStore(t)
		io, out := newTestIO(nil)
		m := &MirrorMock{
			CheckFunc: func(ctx context.Context) (*mirror.Report, error) {
				return &mirror.Report{Outcomes: []mirror.Outcome{{
					Name: "a.txt", From: mirror.StateSynced, To: mirror.StateSynced,
					LocalVersion: models.Version{Major: 2}, RemoteVersion: v100,
					Err: fmt.Errorf("%w: local is ahead", mirror.ErrInconsistentVersion),
				}}}, nil
			},
		}

		err := New(io, m, store, "").runCheck(ctx)
		assert.EqualError(t, err, "1 of 1 files failed")
		assert.Contains(t, out.String(), "inconsistent version: local is ahead")
	})
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name    string
		outcome mirror.Outcome
		want    string
	}{
		{
			name:    "patched",
			outcome: mirror.Outcome{Name: "a.txt", To: mirror.StateSynced, Action: mirror.ActionPatched, LocalVersion: v103, Patches: 3},
			want:    "a.txt: patched to 1.0.3 (3 patches)",
		},
		{
			name:    "fetched",
			outcome: mirror.Outcome{Name: "a.txt", To: mirror.StateSynced, Action: mirror.ActionFetched, LocalVersion: v100},
			want:    "a.txt: fetched 1.0.0",
		},
		{
			name: "fetched after rejected patch",
			outcome: mirror.Outcome{
				Name: "a.txt", To: mirror.StateSynced, Action: mirror.ActionFetched, LocalVersion: v103,
				Recovered: errors.New("malformed patch"),
			},
			want: "a.txt: fetched 1.0.3 after malformed patch",
		},
		{
			name:    "repaired",
			outcome: mirror.Outcome{Name: "a.txt", To: mirror.StateSynced, Action: mirror.ActionRepaired, LocalVersion: v100},
			want:    "a.txt: repaired at 1.0.0",
		},
		{
			name:    "up to date",
			outcome: mirror.Outcome{Name: "a.txt", To: mirror.StateSynced, LocalVersion: v103},
			want:    "a.txt: up to date 1.0.3",
		},
		{
			name:    "corrupt",
			outcome: mirror.Outcome{Name: "a.txt", To: mirror.StateCorrupt, Err: crypto.ErrHashMismatch},
			want:    "a.txt: CORRUPT: content hash mismatch",
		},
		{
			name:    "failed",
			outcome: mirror.Outcome{Name: "a.txt", To: mirror.StateStale, Err: errors.New("timeout")},
			want:    "a.txt: error: timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describe(tt.outcome))
		})
	}
}

func TestCli_runSync(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	io, out := newTestIO(nil)

	m := &MirrorMock{
		SyncFunc: func(ctx context.Context) (*mirror.Report, error) {
			return &mirror.Report{Outcomes: []mirror.Outcome{
				{Name: "a.txt", From: mirror.StateStale, To: mirror.StateSynced, Action: mirror.ActionPatched, LocalVersion: v103, Patches: 3},
				{Name: "b.txt", From: mirror.StateUnknown, To: mirror.StateSynced, Action: mirror.ActionFetched, LocalVersion: v100},
				{Name: "c.txt", From: mirror.StateSynced, To: mirror.StateSynced, LocalVersion: v100},
			}}, nil
		},
	}

	c := New(io, m, store, "http://repo")
	require.NoError(t, c.runSync(ctx))

	text := out.String()
	assert.Contains(t, text, "=== Synchronization ===")
	assert.Contains(t, text, "Server: http://repo")
	assert.Contains(t, text, "a.txt: patched to 1.0.3 (3 patches)")
	assert.Contains(t, text, "b.txt: fetched 1.0.0")
	assert.Contains(t, text, "c.txt: up to date 1.0.0")
	assert.Contains(t, text, "Updated:   2 files")
	assert.NotContains(t, text, "Corrupted")
	assert.Len(t, m.SyncCalls(), 1)
}

// Поврежденные файлы отчитываются отдельно от прочих ошибок
func TestCli_runSync_CorruptReportedSeparately(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	io, out := newTestIO(nil)

	m := &MirrorMock{
		SyncFunc: func(ctx context.Context) (*mirror.Report, error) {
			return &mirror.Report{Outcomes: []mirror.Outcome{
				{Name: "a.txt", From: mirror.StateStale, To: mirror.StateCorrupt, Err: crypto.ErrHashMismatch},
				{Name: "b.txt", From: mirror.StateStale, To: mirror.StateStale, Err: errors.New("timeout")},
				{Name: "c.txt", From: mirror.StateUnknown, To: mirror.StateSynced, Action: mirror.ActionFetched, LocalVersion: v100},
			}}, nil
		},
	}

	err := New(io, m, store, "").runSync(ctx)
	assert.EqualError(t, err, "2 of 3 files failed")

	text := out.String()
	assert.Contains(t, text, "a.txt: CORRUPT: content hash mismatch")
	assert.Contains(t, text, "b.txt: error: timeout")
	assert.Contains(t, text, "Updated:   1 files")
	assert.Contains(t, text, "Corrupted: 1 files")
	assert.Contains(t, text, "Failed:    1 files")
	assert.Contains(t, text, "deltamirror repair")
}

func TestCli_runSync_Fails(t *testing.T) {
	store := setupTestStore(t)
	io, _ := newTestIO(nil)
	m := &MirrorMock{
		SyncFunc: func(ctx context.Context) (*mirror.Report, error) {
			return nil, errors.New("sync failed")
		},
	}

	err := New(io, m, store, "").runSync(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sync failed")
}

func TestCli_runScan(t *testing.T) {
	store := setupTestStore(t)
	io, out := newTestIO(nil)
	m := &MirrorMock{
		ScanFunc: func(ctx context.Context) (*mirror.Report, error) {
			return &mirror.Report{Outcomes: []mirror.Outcome{
				{Name: "a.txt", From: mirror.StateSynced, To: mirror.StateSynced},
				{Name: "b.txt", From: mirror.StateSynced, To: mirror.StateCorrupt, Err: crypto.ErrHashMismatch},
			}}, nil
		},
	}

	err := New(io, m, store, "").runScan(context.Background())
	assert.EqualError(t, err, "1 of 2 files failed")
	assert.Contains(t, out.String(), "b.txt: CORRUPT")
	assert.Contains(t, out.String(), "Scanned 2 files, 1 corrupted")
	assert.NotContains(t, out.String(), "a.txt")
}

func TestCli_runRepair(t *testing.T) {
	corruptScan := func(ctx context.Context) (*mirror.Report, error) {
		return &mirror.Report{Outcomes: []mirror.Outcome{
			{Name: "a.txt", From: mirror.StateSynced, To: mirror.StateSynced},
			{Name: "b.txt", From: mirror.StateSynced, To: mirror.StateCorrupt, Err: crypto.ErrHashMismatch},
		}}, nil
	}
	repaired := func(ctx context.Context, names []string) (*mirror.Report, error) {
		report := &mirror.Report{}
		for _, name := range names {
			report.Outcomes = append(report.Outcomes, mirror.Outcome{
				Name: name, From: mirror.StateCorrupt, To: mirror.StateSynced, Action: mirror.ActionRepaired, LocalVersion: v103,
			})
		}
		return report, nil
	}

	tests := []struct {
		name        string
		args        []string
		yes         bool
		scan        func(ctx context.Context) (*mirror.Report, error)
		confirm     func(prompt string) (bool, error)
		wantErr     string
		wantRepair  []string
		wantOutput  string
		wantConfirm int
	}{
		{
			name:        "confirmed",
			scan:        corruptScan,
			confirm:     func(string) (bool, error) { return true, nil },
			wantRepair:  []string{"b.txt"},
			wantOutput:  "b.txt: repaired at 1.0.3",
			wantConfirm: 1,
		},
		{
			name:        "declined",
			scan:        corruptScan,
			confirm:     func(string) (bool, error) { return false, nil },
			wantOutput:  "Repair cancelled.",
			wantConfirm: 1,
		},
		{
			name:        "not interactive",
			scan:        corruptScan,
			confirm:     func(string) (bool, error) { return false, iocli.ErrNotInteractive },
			wantErr:     "use --yes",
			wantConfirm: 1,
		},
		{
			name:       "yes skips confirmation",
			yes:        true,
			scan:       corruptScan,
			wantRepair: []string{"b.txt"},
		},
		{
			name: "nothing to repair",
			scan: func(ctx context.Context) (*mirror.Report, error) {
				return &mirror.Report{Outcomes: []mirror.Outcome{{Name: "a.txt", To: mirror.StateSynced}}}, nil
			},
			wantOutput: "No corrupted files found.",
		},
		{
			name:       "named files are not scanned",
			args:       []string{"x.txt", "y.txt"},
			yes:        true,
			wantRepair: []string{"x.txt", "y.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := setupTestStore(t)
			io, out := newTestIO(tt.confirm)
			m := &MirrorMock{ScanFunc: tt.scan, RepairFunc: repaired}

			err := New(io, m, store, "").runRepair(context.Background(), tt.args, tt.yes)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			assert.Len(t, io.ConfirmCalls(), tt.wantConfirm)
			if tt.wantRepair == nil {
				assert.Empty(t, m.RepairCalls())
			} else {
				require.Len(t, m.RepairCalls(), 1)
				assert.Equal(t, tt.wantRepair, m.RepairCalls()[0].Names)
			}
			if tt.args != nil {
				assert.Empty(t, m.ScanCalls())
			}
			if tt.wantOutput != "" {
				assert.Contains(t, out.String(), tt.wantOutput)
			}
		})
	}
}

func TestCli_runStatus(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	io, out := newTestIO(nil)
	c := New(io, &MirrorMock{}, store, "http://repo")

	require.NoError(t, c.runStatus(ctx))
	assert.Contains(t, out.String(), "Server:     http://repo")
	assert.Contains(t, out.String(), "Last check: never")
	assert.Contains(t, out.String(), "Files:      0")

	nodeID, err := store.NodeID(ctx)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Node ID:    "+nodeID)

	content := []byte("alpha")
	rec := models.FileRecord{Name: "a.txt", Hash: crypto.ContentHash(content), Version: v103}
	require.NoError(t, store.CommitFile(ctx, rec, content))
	checked := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	require.NoError(t, store.SaveLastCheck(ctx, checked))

	out.Reset()
	require.NoError(t, c.runStatus(ctx))
	assert.Contains(t, out.String(), "Last check: 2026-03-01 12:30:00")
	assert.Contains(t, out.String(), "Files:      1")
	assert.Contains(t, out.String(), "a.txt  1.0.3  "+rec.Hash[:12])
}

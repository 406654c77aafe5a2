// Package mirror реализует протокол согласования зеркала с репозиторием:
// проверку версий, загрузку и применение патчей, проверку целостности и ремонт.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/iudanet/deltamirror/internal/client/storage"
	"github.com/iudanet/deltamirror/internal/crypto"
	"github.com/iudanet/deltamirror/internal/delta"
	"github.com/iudanet/deltamirror/internal/ledger"
	"github.com/iudanet/deltamirror/internal/models"
)

// DefaultMaxPatchChain сколько патчей подряд применяется до перехода к полной загрузке
const DefaultMaxPatchChain = 64

//go:generate moq -out remote_mock.go . Remote

// Remote операции репозитория, которые использует зеркало
type Remote interface {
	GetLedgerSnapshot(ctx context.Context) ([]models.FileRecord, error)
	// GetPatch возвращает ErrNotFound, если патч с такой базой не хранится
	GetPatch(ctx context.Context, name string, base models.Version) (*models.Patch, error)
	GetFullFile(ctx context.Context, name string) (*models.FullFile, error)
}

// Options параметры согласования
type Options struct {
	// Codec разбирает патчи (nil - кодек с пределом по умолчанию)
	Codec *delta.Codec
	// MaxPatchChain предел цепочки патчей за одну сессию
	MaxPatchChain int
	// FallbackToFull восстанавливать файл полной загрузкой при ошибке патча
	FallbackToFull bool
	// AutoRepair сразу чинить файлы, оказавшиеся в StateCorrupt
	AutoRepair bool
}

// DefaultOptions параметры по умолчанию
func DefaultOptions() Options {
	return Options{
		MaxPatchChain:  DefaultMaxPatchChain,
		FallbackToFull: true,
	}
}

// Reconciler согласует локальный ledger зеркала с ledger репозитория
type Reconciler struct {
	remote Remote
	store  storage.LedgerStorage
	codec  *delta.Codec
	logger *slog.Logger
	opts   Options
	mu     sync.Mutex // одна сессия за раз
}

// NewReconciler создает Reconciler
func NewReconciler(remote Remote, store storage.LedgerStorage, opts Options, logger *slog.Logger) *Reconciler {
	if opts.MaxPatchChain <= 0 {
		opts.MaxPatchChain = DefaultMaxPatchChain
	}
	codec := opts.Codec
	if codec == nil {
		codec = delta.NewCodec(0)
	}
	return &Reconciler{
		remote: remote,
		store:  store,
		codec:  codec,
		logger: logger,
		opts:   opts,
	}
}

// plan состояние файла после проверки версий
type plan struct {
	local  *models.FileRecord
	remote models.FileRecord
	out    Outcome
}

// Check сравнивает локальный ledger со снимком репозитория, ничего не меняя
func (r *Reconciler) Check(ctx context.Context) (*Report, error) {
	plans, err := r.check(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{Outcomes: make([]Outcome, 0, len(plans))}
	for _, p := range plans {
		report.Outcomes = append(report.Outcomes, p.out)
	}
	return report, nil
}

func (r *Reconciler) check(ctx context.Context) ([]plan, error) {
	remoteRecs, err := r.remote.GetLedgerSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger snapshot: %w", err)
	}

	localRecs, err := r.store.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list local records: %w", err)
	}

	remote, err := ledger.FromRecords(remoteRecs)
	if err != nil {
		return nil, fmt.Errorf("invalid ledger snapshot: %w", err)
	}
	local, err := ledger.FromRecords(localRecs)
	if err != nil {
		return nil, fmt.Errorf("invalid local ledger: %w", err)
	}

	drift := local.Diff(remote)
	drifted := make(map[string]struct{}, len(drift))
	plans := make([]plan, 0, len(remoteRecs)+len(localRecs))

	for _, d := range drift {
		drifted[d.Name] = struct{}{}
		plans = append(plans, planFor(d))
	}

	// Совпадающие записи в Diff не попадают
	for _, rec := range remote.Records() {
		if _, ok := drifted[rec.Name]; ok {
			continue
		}
		loc := rec
		plans = append(plans, plan{
			local:  &loc,
			remote: rec,
			out: Outcome{
				Name:          rec.Name,
				LocalVersion:  rec.Version,
				RemoteVersion: rec.Version,
				From:          StateSynced,
				To:            StateSynced,
			},
		})
	}

	sort.Slice(plans, func(i, j int) bool { return plans[i].out.Name < plans[j].out.Name })
	return plans, nil
}

// planFor классифицирует расхождение локальной записи с записью репозитория
func planFor(d ledger.Drift) plan {
	if d.Remote == nil {
		return plan{
			local: d.Local,
			out: Outcome{
				Name:         d.Name,
				LocalVersion: d.Local.Version,
				From:         StateSynced,
				To:           StateSynced,
				Err:          fmt.Errorf("%w: %s is not in the repository ledger", ErrNotFound, d.Name),
			},
		}
	}

	p := plan{local: d.Local, remote: *d.Remote, out: Outcome{Name: d.Name, RemoteVersion: d.Remote.Version}}
	if d.Local == nil {
		p.out.From, p.out.To = StateUnknown, StateUnknown
		return p
	}

	p.out.LocalVersion = d.Local.Version
	switch c := d.Local.Version.Compare(d.Remote.Version); {
	case c < 0:
		p.out.From, p.out.To = StateStale, StateStale
	case c == 0:
		p.out.From, p.out.To = StateSynced, StateSynced
		p.out.Err = fmt.Errorf("%w: %s at %s has a different hash than the repository",
			ErrInconsistentVersion, d.Name, d.Remote.Version)
	default:
		p.out.From, p.out.To = StateSynced, StateSynced
		p.out.Err = fmt.Errorf("%w: local %s is ahead of repository %s",
			ErrInconsistentVersion, d.Local.Version, d.Remote.Version)
	}
	return p
}

// Sync приводит каждый файл зеркала к версии репозитория.
// Файлы обрабатываются независимо; ошибка одного не мешает остальным.
func (r *Reconciler) Sync(ctx context.Context) (*Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	plans, err := r.check(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{Outcomes: make([]Outcome, 0, len(plans))}
	for _, p := range plans {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		out := p.out
		switch {
		case out.Err != nil:
			// диагностика проверки, действий нет
		case out.From == StateUnknown:
			out = r.fetchFull(ctx, out, ActionFetched)
		case out.From == StateStale:
			out = r.syncStale(ctx, p)
		}

		if out.To == StateCorrupt && r.opts.AutoRepair {
			r.logger.Warn("Repairing corrupt file", "file", out.Name, "error", out.Err)
			repaired := r.fetchFull(ctx, Outcome{Name: out.Name, From: StateCorrupt, LocalVersion: out.LocalVersion, RemoteVersion: out.RemoteVersion}, ActionRepaired)
			repaired.Recovered = out.Err
			out = repaired
		}

		r.logOutcome("Sync", out)
		report.Outcomes = append(report.Outcomes, out)
	}

	return report, nil
}

// syncStale применяет цепочку патчей от локальной версии к версии репозитория
func (r *Reconciler) syncStale(ctx context.Context, p plan) Outcome {
	out := p.out
	cur := *p.local

	content, err := r.store.ReadContent(ctx, cur.Name)
	if err != nil {
		if errors.Is(err, storage.ErrContentMissing) {
			out.To, out.Err = StateCorrupt, err
			return out
		}
		out.Err = fmt.Errorf("failed to read local content: %w", err)
		return out
	}
	// Патч накладывается только на проверенную базу
	if err := crypto.VerifyContent(content, cur.Hash); err != nil {
		out.To, out.Err = StateCorrupt, err
		return out
	}

	for cur.Version.Less(p.remote.Version) {
		if out.Patches >= r.opts.MaxPatchChain {
			r.logger.Info("Patch chain too long, fetching full file", "file", cur.Name, "patches", out.Patches)
			return r.fetchFull(ctx, out, ActionFetched)
		}

		out.To = StatePatching
		patch, err := r.remote.GetPatch(ctx, cur.Name, cur.Version)
		if errors.Is(err, ErrNotFound) {
			// База вытеснена из истории: STALE -> SYNCED полной загрузкой
			return r.fetchFull(ctx, out, ActionFetched)
		}
		if err != nil {
			out.To, out.Err = StateStale, fmt.Errorf("failed to get patch: %w", err)
			return out
		}

		if patch.FileName != cur.Name {
			out.To = StateStale
			out.Err = fmt.Errorf("%w: requested patch for %s, got patch for %s",
				ErrInconsistentVersion, cur.Name, patch.FileName)
			return out
		}
		if patch.BaseVersion != cur.Version || !cur.Version.Less(patch.TargetVersion) {
			out.To = StateStale
			out.Err = fmt.Errorf("%w: patch %s -> %s requested for base %s",
				ErrInconsistentVersion, patch.BaseVersion, patch.TargetVersion, cur.Version)
			return out
		}

		next, err := r.applyPatch(content, patch)
		if err != nil {
			if r.opts.FallbackToFull {
				r.logger.Warn("Patch rejected, fetching full file", "file", cur.Name, "base", cur.Version.String(), "error", err)
				out.Recovered = err
				return r.fetchFull(ctx, out, ActionFetched)
			}
			out.To, out.Err = StateStale, err
			return out
		}

		if err := crypto.VerifyContent(next, patch.TargetHash); err != nil {
			out.To, out.Err = StateCorrupt, err
			return out
		}

		rec := models.FileRecord{Name: cur.Name, Hash: patch.TargetHash, Version: patch.TargetVersion}
		if err := r.store.CommitFile(ctx, rec, next); err != nil {
			out.To, out.Err = StateStale, fmt.Errorf("failed to commit patched file: %w", err)
			return out
		}

		cur, content = rec, next
		out.Patches++
		out.Action = ActionPatched
		out.LocalVersion = cur.Version
	}

	out.To = StateSynced
	if cur.Version != p.remote.Version || cur.Hash != p.remote.Hash {
		out.Err = fmt.Errorf("%w: patched to %s, repository ledger has %s",
			ErrInconsistentVersion, cur.Version, p.remote.Version)
	}
	return out
}

// applyPatch разбирает и применяет патч в памяти
func (r *Reconciler) applyPatch(base []byte, patch *models.Patch) ([]byte, error) {
	script, err := r.codec.Unmarshal(patch.Script)
	if err != nil {
		return nil, err
	}
	return delta.Apply(base, script)
}

// fetchFull загружает файл целиком, проверяет hash и фиксирует его.
// При ошибке файл остается в исходном состоянии out.From.
func (r *Reconciler) fetchFull(ctx context.Context, out Outcome, action Action) Outcome {
	full, err := r.remote.GetFullFile(ctx, out.Name)
	if err != nil {
		out.To, out.Err = out.From, fmt.Errorf("failed to get full file: %w", err)
		return out
	}

	if full.Record.Name != out.Name {
		out.To, out.Err = out.From, fmt.Errorf("%w: requested %s, got record for %s",
			ErrInconsistentVersion, out.Name, full.Record.Name)
		return out
	}
	if err := crypto.VerifyContent(full.Content, full.Record.Hash); err != nil {
		out.To, out.Err = out.From, err
		return out
	}

	if err := r.store.CommitFile(ctx, full.Record, full.Content); err != nil {
		out.To, out.Err = out.From, fmt.Errorf("failed to commit file: %w", err)
		return out
	}

	out.To = StateSynced
	out.Action = action
	out.LocalVersion = full.Record.Version
	if out.RemoteVersion.Less(full.Record.Version) {
		out.RemoteVersion = full.Record.Version
	}
	return out
}

// Scan проверяет, что содержимое каждого локального файла совпадает с hash из ledger.
// Сеть не используется.
func (r *Reconciler) Scan(ctx context.Context) (*Report, error) {
	records, err := r.store.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list local records: %w", err)
	}

	report := &Report{Outcomes: make([]Outcome, 0, len(records))}
	for _, rec := range records {
		out := r.scanOne(ctx, rec)
		r.logOutcome("Scan", out)
		report.Outcomes = append(report.Outcomes, out)
	}
	return report, nil
}

func (r *Reconciler) scanOne(ctx context.Context, rec models.FileRecord) Outcome {
	out := Outcome{Name: rec.Name, LocalVersion: rec.Version, From: StateSynced, To: StateSynced}

	content, err := r.store.ReadContent(ctx, rec.Name)
	switch {
	case errors.Is(err, storage.ErrContentMissing):
		out.To, out.Err = StateCorrupt, err
	case err != nil:
		out.Err = fmt.Errorf("failed to read local content: %w", err)
	default:
		if err := crypto.VerifyContent(content, rec.Hash); err != nil {
			out.To, out.Err = StateCorrupt, err
		}
	}
	return out
}

// Repair перезаписывает файлы авторитетным содержимым репозитория.
// Без имен чинит все файлы, которые Scan признал поврежденными.
func (r *Reconciler) Repair(ctx context.Context, names []string) (*Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(names) == 0 {
		scan, err := r.Scan(ctx)
		if err != nil {
			return nil, err
		}
		for _, o := range scan.Corrupted() {
			names = append(names, o.Name)
		}
	}

	report := &Report{Outcomes: make([]Outcome, 0, len(names))}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		out := Outcome{Name: name, From: StateUnknown}
		rec, err := r.store.GetRecord(ctx, name)
		switch {
		case err == nil:
			out.From = r.scanOne(ctx, *rec).To
			out.LocalVersion = rec.Version
		case !errors.Is(err, storage.ErrRecordNotFound):
			out.Err = err
			report.Outcomes = append(report.Outcomes, out)
			continue
		}

		out = r.fetchFull(ctx, out, ActionRepaired)
		r.logOutcome("Repair", out)
		report.Outcomes = append(report.Outcomes, out)
	}

	return report, nil
}

func (r *Reconciler) logOutcome(op string, out Outcome) {
	attrs := []any{
		"file", out.Name,
		"from", out.From.String(),
		"to", out.To.String(),
		"action", out.Action.String(),
		"version", out.LocalVersion.String(),
	}
	switch {
	case out.To == StateCorrupt:
		r.logger.Warn(op+": file corrupt", append(attrs, "error", out.Err)...)
	case out.Err != nil:
		r.logger.Error(op+": file failed", append(attrs, "error", out.Err)...)
	case out.Recovered != nil:
		r.logger.Warn(op+": file recovered", append(attrs, "recovered", out.Recovered)...)
	default:
		r.logger.Debug(op+": file done", attrs...)
	}
}

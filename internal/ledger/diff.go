package ledger

import (
	"sort"

	"github.com/iudanet/deltamirror/internal/models"
)

// Drift расхождение записи локального ledger с удаленным
type Drift struct {
	Name   string
	Local  *models.FileRecord // Local nil, если файла нет локально
	Remote *models.FileRecord // Remote nil, если файла нет в удаленном ledger
}

// Diff сравнивает ledger (локальный) с remote и возвращает записи,
// у которых отличается версия или хеш, либо которые есть только с одной стороны.
// Результат отсортирован по имени.
func (l *Ledger) Diff(remote *Ledger) []Drift {
	var out []Drift

	for _, r := range remote.Records() {
		r := r
		local, ok := l.records[r.Name]
		switch {
		case !ok:
			out = append(out, Drift{Name: r.Name, Remote: &r})
		case local != r:
			out = append(out, Drift{Name: r.Name, Local: &local, Remote: &r})
		}
	}

	for _, loc := range l.Records() {
		loc := loc
		if !remote.Has(loc.Name) {
			out = append(out, Drift{Name: loc.Name, Local: &loc})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

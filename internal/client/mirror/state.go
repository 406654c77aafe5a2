package mirror

import (
	"errors"

	"github.com/iudanet/deltamirror/internal/models"
)

var (
	// ErrNotFound репозиторий не хранит запрошенный патч или файл
	ErrNotFound = errors.New("not found")

	// ErrInconsistentVersion версии зеркала и репозитория противоречат друг другу
	ErrInconsistentVersion = errors.New("inconsistent version")
)

// State состояние файла на зеркале
type State int

const (
	StateUnknown State = iota
	StateSynced
	StateStale
	StatePatching
	StateCorrupt
)

func (s State) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateSynced:
		return "synced"
	case StateStale:
		return "stale"
	case StatePatching:
		return "patching"
	case StateCorrupt:
		return "corrupt"
	default:
		return "invalid"
	}
}

// Action что было сделано с файлом за сессию
type Action int

const (
	ActionNone Action = iota
	ActionFetched
	ActionPatched
	ActionRepaired
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionFetched:
		return "fetched"
	case ActionPatched:
		return "patched"
	case ActionRepaired:
		return "repaired"
	default:
		return "invalid"
	}
}

// Outcome результат сессии для одного файла
type Outcome struct {
	// Err ошибка, из-за которой файл не достиг целевого состояния
	Err error
	// Recovered ошибка патча, после которой файл восстановлен полной загрузкой
	Recovered error

	Name          string
	LocalVersion  models.Version
	RemoteVersion models.Version
	From          State
	To            State
	Action        Action
	Patches       int // сколько патчей применено
}

// Report итог сессии по всем файлам
type Report struct {
	Outcomes []Outcome
}

// Failed файлы, завершившиеся ошибкой
func (r *Report) Failed() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

// Corrupted файлы в состоянии StateCorrupt
func (r *Report) Corrupted() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.To == StateCorrupt {
			out = append(out, o)
		}
	}
	return out
}

// Updated файлы, содержимое которых изменилось
func (r *Report) Updated() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Err == nil && o.Action != ActionNone {
			out = append(out, o)
		}
	}
	return out
}

// OK все файлы без ошибок
func (r *Report) OK() bool {
	for _, o := range r.Outcomes {
		if o.Err != nil {
			return false
		}
	}
	return true
}

// Find ищет результат по имени файла
func (r *Report) Find(name string) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Name == name {
			return o, true
		}
	}
	return Outcome{}, false
}

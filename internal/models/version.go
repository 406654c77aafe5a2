package models

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrInvalidVersion строка не является версией вида major.minor.patch
	ErrInvalidVersion = errors.New("invalid version")
	// ErrVersionOverflow patch-компонент достиг максимума
	ErrVersionOverflow = errors.New("version overflow")
)

// InitialVersion версия, которую получает файл при регистрации
var InitialVersion = Version{Major: 1, Minor: 0, Patch: 0}

// Version тройка (major, minor, patch) с лексикографическим порядком.
// Автоматически увеличивается только Patch, политика для Major/Minor внешняя.
type Version struct {
	Major uint32
	Minor uint32
	Patch uint32
}

// Compare возвращает -1, 0 или 1
func (v Version) Compare(o Version) int {
	if c := cmp.Compare(v.Major, o.Major); c != 0 {
		return c
	}
	if c := cmp.Compare(v.Minor, o.Minor); c != 0 {
		return c
	}
	return cmp.Compare(v.Patch, o.Patch)
}

// Less сообщает, что v строго меньше o
func (v Version) Less(o Version) bool {
	return v.Compare(o) < 0
}

// Next возвращает версию с увеличенным patch-компонентом.
// Переполнение patch - ErrVersionOverflow, версия не переходит через ноль.
func (v Version) Next() (Version, error) {
	if v.Patch == math.MaxUint32 {
		return v, fmt.Errorf("%w: %s", ErrVersionOverflow, v)
	}
	v.Patch++
	return v, nil
}

// IsZero сообщает, что версия не задана
func (v Version) IsZero() bool {
	return v == Version{}
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// ParseVersion разбирает строку вида "1.0.3"
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}

	var nums [3]uint32
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
		}
		nums[i] = uint32(n)
	}

	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// MarshalText реализует encoding.TextMarshaler (JSON как строка "1.0.3")
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText реализует encoding.TextUnmarshaler
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/iudanet/deltamirror/internal/crypto"
	"github.com/iudanet/deltamirror/internal/validation"
	"github.com/pmezard/go-difflib/difflib"
)

const (
	// maxDiffBytes предел суммарного размера baseline и live для текстового diff
	maxDiffBytes = 4 << 20
	diffContext  = 3
)

// PendingDiff возвращает unified diff между опубликованным baseline и текущим
// содержимым файла. Пустая строка означает, что изменений нет.
func (s *Service) PendingDiff(ctx context.Context, name string) (string, error) {
	if err := validation.ValidateFileName(name); err != nil {
		return "", err
	}

	full, err := s.store.GetFullFile(ctx, name)
	if err != nil {
		return "", err
	}

	content, err := s.live.Read(name)
	if err != nil {
		return "", fmt.Errorf("failed to read live file: %w", err)
	}

	if crypto.ContentHash(content) == full.Record.Hash {
		return "", nil
	}

	from := fmt.Sprintf("%s@%s", name, full.Record.Version)
	to := name + "@live"

	if len(full.Content)+len(content) > maxDiffBytes {
		return fmt.Sprintf("--- %s\n+++ %s\n@@\n# diff omitted (oversize)\n", from, to), nil
	}

	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(full.Content),
		B:        splitLines(content),
		FromFile: from,
		ToFile:   to,
		Context:  diffContext,
	})
}

// splitLines режет текст на строки, сохраняя "\n"
func splitLines(b []byte) []string {
	if len(b) == 0 {
		return []string{}
	}
	return strings.SplitAfter(string(b), "\n")
}

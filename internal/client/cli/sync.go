package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/deltamirror/internal/client/mirror"
)

func (c *Cli) runSync(ctx context.Context) error {
	c.io.Println("=== Synchronization ===")
	c.io.Printf("Server: %s\n\n", c.serverURL)

	report, err := c.mirror.Sync(ctx)
	if err != nil {
		if report != nil {
			c.printOutcomes(report)
		}
		return fmt.Errorf("synchronization failed: %w", err)
	}
	c.saveLastCheck(ctx)

	c.printOutcomes(report)
	c.printSummary(report)

	return failures(report)
}

func (c *Cli) printOutcomes(report *mirror.Report) {
	for _, o := range report.Outcomes {
		c.io.Println(describe(o))
	}
}

// describe строка результата для одного файла
func describe(o mirror.Outcome) string {
	switch {
	case o.To == mirror.StateCorrupt:
		return fmt.Sprintf("%s: CORRUPT: %v", o.Name, o.Err)
	case o.Err != nil:
		return fmt.Sprintf("%s: error: %v", o.Name, o.Err)
	}

	var line string
	switch o.Action {
	case mirror.ActionPatched:
		line = fmt.Sprintf("%s: patched to %s (%d patches)", o.Name, o.LocalVersion, o.Patches)
	case mirror.ActionFetched:
		line = fmt.Sprintf("%s: fetched %s", o.Name, o.LocalVersion)
	case mirror.ActionRepaired:
		line = fmt.Sprintf("%s: repaired at %s", o.Name, o.LocalVersion)
	default:
		return fmt.Sprintf("%s: up to date %s", o.Name, o.LocalVersion)
	}
	if o.Recovered != nil {
		line += fmt.Sprintf(" after %v", o.Recovered)
	}
	return line
}

func (c *Cli) printSummary(report *mirror.Report) {
	updated := report.Updated()
	corrupted := report.Corrupted()
	failed := len(report.Failed()) - len(corrupted)

	c.io.Println()
	c.io.Printf("Updated:   %d files\n", len(updated))
	if len(corrupted) > 0 {
		c.io.Printf("Corrupted: %d files\n", len(corrupted))
	}
	if failed > 0 {
		c.io.Printf("Failed:    %d files\n", failed)
	}
	if len(corrupted) > 0 {
		c.io.Println("Run 'deltamirror repair' to restore corrupted files.")
	}
}

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/deltamirror/internal/client/iocli"
)

func (c *Cli) runScan(ctx context.Context) error {
	report, err := c.mirror.Scan(ctx)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	corrupted := report.Corrupted()
	for _, o := range corrupted {
		c.io.Println(describe(o))
	}
	c.io.Printf("Scanned %d files, %d corrupted\n", len(report.Outcomes), len(corrupted))

	return failures(report)
}

// runRepair без имен чинит файлы, найденные сканированием, после подтверждения
func (c *Cli) runRepair(ctx context.Context, names []string, yes bool) error {
	if len(names) == 0 {
		scan, err := c.mirror.Scan(ctx)
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
		for _, o := range scan.Corrupted() {
			names = append(names, o.Name)
			c.io.Println(describe(o))
		}
		if len(names) == 0 {
			c.io.Println("No corrupted files found.")
			return nil
		}
	}

	if !yes {
		ok, err := c.io.Confirm(fmt.Sprintf("Overwrite %d files with repository content?", len(names)))
		if errors.Is(err, iocli.ErrNotInteractive) {
			return fmt.Errorf("refusing to repair without confirmation, use --yes")
		}
		if err != nil {
			return err
		}
		if !ok {
			c.io.Println("Repair cancelled.")
			return nil
		}
	}

	report, err := c.mirror.Repair(ctx, names)
	if err != nil {
		if report != nil {
			c.printOutcomes(report)
		}
		return fmt.Errorf("repair failed: %w", err)
	}

	c.printOutcomes(report)
	return failures(report)
}

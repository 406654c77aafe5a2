package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/iudanet/deltamirror/internal/client/mirror"
)

func (c *Cli) runCheck(ctx context.Context) error {
	report, err := c.mirror.Check(ctx)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}
	c.saveLastCheck(ctx)

	tw := tabwriter.NewWriter(c.io, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "FILE\tSTATE\tLOCAL\tREMOTE\tNOTE")
	var stale, unknown int
	for _, o := range report.Outcomes {
		switch o.From {
		case mirror.StateStale:
			stale++
		case mirror.StateUnknown:
			unknown++
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			o.Name, o.From, localVersion(o), remoteVersion(o), errNote(o.Err))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	c.io.Println()
	c.io.Printf("%d files: %d stale, %d not mirrored, %d with errors\n",
		len(report.Outcomes), stale, unknown, len(report.Failed()))
	if stale+unknown > 0 {
		c.io.Println("Run 'deltamirror sync' to update the mirror.")
	}

	return failures(report)
}

// saveLastCheck ошибка сохранения времени не прерывает команду
func (c *Cli) saveLastCheck(ctx context.Context) {
	if err := c.store.SaveLastCheck(ctx, time.Now()); err != nil {
		c.io.Printf("Warning: failed to save last check time: %v\n", err)
	}
}

func localVersion(o mirror.Outcome) string {
	if o.From == mirror.StateUnknown && o.LocalVersion.IsZero() {
		return "-"
	}
	return o.LocalVersion.String()
}

func remoteVersion(o mirror.Outcome) string {
	if o.RemoteVersion.IsZero() {
		return "-"
	}
	return o.RemoteVersion.String()
}

func errNote(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// failures ошибка с числом файлов, завершившихся ошибкой
func failures(report *mirror.Report) error {
	if failed := len(report.Failed()); failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(report.Outcomes))
	}
	return nil
}

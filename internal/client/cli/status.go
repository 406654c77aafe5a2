package cli

import (
	"context"
	"fmt"
	"text/template"
	"time"

	"github.com/iudanet/deltamirror/internal/models"
)

const statusTemplate = `=== Mirror Status ===

Server:     {{.ServerURL}}
Node ID:    {{.NodeID}}
Last check: {{if .LastCheck.IsZero}}never{{else}}{{.LastCheck.Format "2006-01-02 15:04:05"}}{{end}}
Files:      {{len .Records}}
{{- range .Records}}
  {{.Name}}  {{.Version}}  {{short .Hash}}
{{- end}}
`

var statusTmpl = template.Must(template.New("status").Funcs(template.FuncMap{
	"short": func(h string) string {
		if len(h) > 12 {
			return h[:12]
		}
		return h
	},
}).Parse(statusTemplate))

type statusView struct {
	LastCheck time.Time
	ServerURL string
	NodeID    string
	Records   []models.FileRecord
}

func (c *Cli) runStatus(ctx context.Context) error {
	nodeID, err := c.store.NodeID(ctx)
	if err != nil {
		return fmt.Errorf("failed to get node id: %w", err)
	}

	lastCheck, err := c.store.GetLastCheck(ctx)
	if err != nil {
		return fmt.Errorf("failed to get last check time: %w", err)
	}

	records, err := c.store.ListRecords(ctx)
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}

	return statusTmpl.Execute(c.io, statusView{
		LastCheck: lastCheck,
		ServerURL: c.serverURL,
		NodeID:    nodeID,
		Records:   records,
	})
}

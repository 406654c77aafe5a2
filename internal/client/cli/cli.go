// Package cli команды зеркала: проверка, синхронизация, проверка целостности и ремонт
package cli

import (
	"context"

	"github.com/iudanet/deltamirror/internal/client/iocli"
	"github.com/iudanet/deltamirror/internal/client/mirror"
	"github.com/iudanet/deltamirror/internal/client/storage"
)

//go:generate moq -out mirror_mock.go . Mirror

// Mirror операции согласования, которые вызывают команды
type Mirror interface {
	Check(ctx context.Context) (*mirror.Report, error)
	Sync(ctx context.Context) (*mirror.Report, error)
	Scan(ctx context.Context) (*mirror.Report, error)
	Repair(ctx context.Context, names []string) (*mirror.Report, error)
}

type Cli struct {
	io        iocli.IO
	mirror    Mirror
	store     storage.Storage
	serverURL string
}

func New(io iocli.IO, m Mirror, store storage.Storage, serverURL string) *Cli {
	return &Cli{
		io:        io,
		mirror:    m,
		store:     store,
		serverURL: serverURL,
	}
}

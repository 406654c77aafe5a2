package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iudanet/deltamirror/internal/client/api"
	"github.com/iudanet/deltamirror/internal/client/iocli"
	"github.com/iudanet/deltamirror/internal/client/mirror"
	"github.com/iudanet/deltamirror/internal/client/storage/boltdb"
	"github.com/iudanet/deltamirror/internal/config"
	"github.com/iudanet/deltamirror/internal/delta"
	"github.com/iudanet/deltamirror/internal/logging"
	"github.com/iudanet/deltamirror/internal/workspace"
	"github.com/spf13/cobra"
)

// BuildInfo сведения о сборке, задаются через ldflags
type BuildInfo struct {
	Version   string
	BuildDate string
	GitCommit string
}

type rootOptions struct {
	io         iocli.IO
	configPath string
	serverURL  string
	dbPath     string
	dir        string
	logLevel   string
	autoRepair bool
	noFallback bool
}

// NewRootCommand создает команду deltamirror
func NewRootCommand(info BuildInfo, io iocli.IO) *cobra.Command {
	opts := &rootOptions{io: io}

	root := &cobra.Command{
		Use:           "deltamirror",
		Short:         "Keep a local mirror of repository files up to date with binary patches",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to config file (toml, yaml or json)")
	flags.StringVar(&opts.serverURL, "server", "", "repository URL")
	flags.StringVar(&opts.dbPath, "db", "", "path to mirror database")
	flags.StringVar(&opts.dir, "dir", "", "mirror directory")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.BoolVar(&opts.autoRepair, "auto-repair", false, "repair corrupted files during sync")
	flags.BoolVar(&opts.noFallback, "no-fallback", false, "do not fetch full files when a patch is rejected")

	root.AddCommand(
		newCheckCommand(opts),
		newSyncCommand(opts),
		newScanCommand(opts),
		newRepairCommand(opts),
		newStatusCommand(opts),
		newVersionCommand(info),
	)

	return root
}

// loadConfig применяет флаги поверх файла и окружения
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*config.MirrorConfig, error) {
	cfg, err := config.LoadMirror(o.configPath)
	if err != nil {
		return nil, err
	}

	if o.serverURL != "" {
		cfg.ServerURL = o.serverURL
	}
	if o.dbPath != "" {
		cfg.DatabasePath = o.dbPath
	}
	if o.dir != "" {
		cfg.Dir = o.dir
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if cmd.Flags().Changed("auto-repair") {
		cfg.AutoRepair = o.autoRepair
	}
	if o.noFallback {
		cfg.FallbackToFull = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// run открывает зеркало, выполняет fn и закрывает хранилище
func (o *rootOptions) run(cmd *cobra.Command, fn func(ctx context.Context, c *Cli) error) error {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	files, err := workspace.New(cfg.Dir)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := boltdb.New(ctx, cfg.DatabasePath, files)
	if err != nil {
		return fmt.Errorf("failed to open mirror database: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close database", "error", err)
		}
	}()

	client := api.NewClient(cfg.ServerURL, time.Duration(cfg.RequestTimeoutSec)*time.Second)
	reconciler := mirror.NewReconciler(client, store, mirror.Options{
		Codec:          delta.NewCodec(cfg.MaxPatchSize),
		MaxPatchChain:  cfg.MaxPatchChain,
		FallbackToFull: cfg.FallbackToFull,
		AutoRepair:     cfg.AutoRepair,
	}, logger)

	return fn(ctx, New(o.io, reconciler, store, cfg.ServerURL))
}

func newCheckCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Compare mirror versions with the repository ledger without changing files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(ctx context.Context, c *Cli) error {
				return c.runCheck(ctx)
			})
		},
	}
}

func newSyncCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Bring every mirrored file to the repository version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(ctx context.Context, c *Cli) error {
				return c.runSync(ctx)
			})
		},
	}
}

func newScanCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Verify mirrored files against their ledger hashes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(ctx context.Context, c *Cli) error {
				return c.runScan(ctx)
			})
		},
	}
}

func newRepairCommand(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "repair [NAME...]",
		Short: "Overwrite files with repository content (corrupted files when no names given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, c *Cli) error {
				return c.runRepair(ctx, args, yes)
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	return cmd
}

func newStatusCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show mirror identity, last check time and mirrored files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(ctx context.Context, c *Cli) error {
				return c.runStatus(ctx)
			})
		},
	}
}

func newVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "DeltaMirror Client\n")
			fmt.Fprintf(out, "Version:    %s\n", info.Version)
			fmt.Fprintf(out, "Build Date: %s\n", info.BuildDate)
			fmt.Fprintf(out, "Git Commit: %s\n", info.GitCommit)
		},
	}
}

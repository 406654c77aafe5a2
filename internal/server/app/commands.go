package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/iudanet/deltamirror/internal/config"
	"github.com/iudanet/deltamirror/internal/logging"
	"github.com/iudanet/deltamirror/internal/server/repository"
	"github.com/spf13/cobra"
)

// BuildInfo сведения о сборке, задаются через ldflags
type BuildInfo struct {
	Version   string
	BuildDate string
	GitCommit string
}

type rootOptions struct {
	configPath string
	address    string
	dbPath     string
	liveDir    string
	logLevel   string
	admin      bool
}

// NewRootCommand создает команду deltamirror-server
func NewRootCommand(info BuildInfo) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "deltamirror-server",
		Short:         "Repository of versioned files distributed as binary patches",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to config file (toml, yaml or json)")
	flags.StringVar(&opts.address, "addr", "", "listen address")
	flags.StringVar(&opts.dbPath, "db", "", "path to repository database")
	flags.StringVar(&opts.liveDir, "live-dir", "", "directory with live files")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.BoolVar(&opts.admin, "admin", false, "enable register/update/pending endpoints")

	root.AddCommand(
		newServeCommand(opts, info),
		newRegisterCommand(opts),
		newUpdateCommand(opts),
		newWatchCommand(opts),
		newDiffCommand(opts),
		newHistoryCommand(opts),
		newVersionCommand(info),
	)

	return root
}

// loadConfig применяет флаги поверх файла и окружения
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*config.ServerConfig, error) {
	cfg, err := config.LoadServer(o.configPath)
	if err != nil {
		return nil, err
	}

	if o.address != "" {
		cfg.Address = o.address
	}
	if o.dbPath != "" {
		cfg.DatabasePath = o.dbPath
	}
	if o.liveDir != "" {
		cfg.LiveDir = o.liveDir
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if cmd.Flags().Changed("admin") {
		cfg.Admin = o.admin
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// open загружает конфигурацию и открывает репозиторий
func (o *rootOptions) open(cmd *cobra.Command, version string) (*Server, error) {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	return NewServer(cmd.Context(), cfg, version, logger)
}

func newServeCommand(opts *rootOptions, info BuildInfo) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve ledger, patches and full files over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv, err := opts.open(cmd, info.Version)
			if err != nil {
				return err
			}
			defer func() {
				_ = srv.Close()
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return srv.Run(ctx, watch)
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "publish live file changes automatically")

	return cmd
}

func newRegisterCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "register NAME...",
		Short: "Start tracking live files at version 1.0.0",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := opts.open(cmd, "")
			if err != nil {
				return err
			}
			defer func() {
				_ = srv.Close()
			}()

			for _, name := range args {
				rec, err := srv.Service().RegisterFile(cmd.Context(), name)
				if err != nil {
					return fmt.Errorf("register %s: %w", name, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "registered %s %s %s\n", rec.Name, rec.Version, rec.Hash)
			}
			return nil
		},
	}
}

func newUpdateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "update [NAME...]",
		Short: "Publish new versions of changed files (all tracked files when no names given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := opts.open(cmd, "")
			if err != nil {
				return err
			}
			defer func() {
				_ = srv.Close()
			}()

			results, err := updateFiles(cmd.Context(), srv.Service(), args)
			if err != nil {
				return err
			}
			return printUpdateResults(cmd.OutOrStdout(), results)
		},
	}
}

func updateFiles(ctx context.Context, service *repository.Service, names []string) ([]repository.UpdateResult, error) {
	if len(names) == 0 {
		return service.UpdateAll(ctx)
	}

	results := make([]repository.UpdateResult, 0, len(names))
	for _, name := range names {
		rec, err := service.UpdateFile(ctx, name)
		res := repository.UpdateResult{Name: name, Record: rec}
		switch {
		case errors.Is(err, repository.ErrNoChange):
		case err != nil:
			res.Err = err
		default:
			res.Changed = true
		}
		results = append(results, res)
	}
	return results, nil
}

// printUpdateResults печатает итог и возвращает ошибку, если хотя бы один файл не обновлен
func printUpdateResults(out io.Writer, results []repository.UpdateResult) error {
	failed := 0
	for _, res := range results {
		switch {
		case res.Err != nil:
			failed++
			fmt.Fprintf(out, "%s: error: %v\n", res.Name, res.Err)
		case res.Changed:
			fmt.Fprintf(out, "%s: published %s\n", res.Name, res.Record.Version)
		default:
			fmt.Fprintf(out, "%s: unchanged\n", res.Name)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to update", failed, len(results))
	}
	return nil
}

func newWatchCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Serve and publish live file changes automatically",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv, err := opts.open(cmd, "")
			if err != nil {
				return err
			}
			defer func() {
				_ = srv.Close()
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return srv.Run(ctx, true)
		},
	}
}

func newDiffCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "diff NAME",
		Short: "Show unpublished changes of a live file as a unified diff",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := opts.open(cmd, "")
			if err != nil {
				return err
			}
			defer func() {
				_ = srv.Close()
			}()

			diff, err := srv.Service().PendingDiff(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if diff == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: no pending changes\n", args[0])
				return nil
			}
			_, err = io.WriteString(cmd.OutOrStdout(), diff)
			return err
		},
	}
}

func newHistoryCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history NAME",
		Short: "List stored patches of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := opts.open(cmd, "")
			if err != nil {
				return err
			}
			defer func() {
				_ = srv.Close()
			}()

			infos, err := srv.Service().History(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "BASE\tTARGET\tSIZE\tCREATED")
			for _, info := range infos {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n",
					info.BaseVersion, info.TargetVersion, info.Size, info.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			return tw.Flush()
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
			fmt.Fprintf(out, "DeltaMirror Server\n")
			fmt.Fprintf(out, "Version:    %s\n", info.Version)
			fmt.Fprintf(out, "Build Date: %s\n", info.BuildDate)
			fmt.Fprintf(out, "Git Commit: %s\n", info.GitCommit)
		},
	}
}

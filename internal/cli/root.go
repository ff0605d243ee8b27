// Package cli implements the fiostat command.
package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/brickingsoft/errors"
	"github.com/brickingsoft/fio"
	"github.com/brickingsoft/fio/pkg/config"
	"github.com/brickingsoft/fio/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

type flags struct {
	backend     string
	configPath  string
	envFiles    []string
	watch       bool
	metricsAddr string
	json        bool
	noColor     bool
}

// NewRootCommand builds the fiostat command tree.
func NewRootCommand() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:           "fiostat [flags] FILE...",
		Short:         "Print file attributes queried through io_uring or epoll",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f, args)
		},
	}
	cmd.Flags().StringVarP(&f.backend, "backend", "b", "", "backend: auto, uring or legacy (overrides config)")
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "config file")
	cmd.Flags().StringSliceVar(&f.envFiles, "env-file", nil, "load FIO_* variables from .env files")
	cmd.Flags().BoolVarP(&f.watch, "watch", "w", false, "print again whenever a file changes")
	cmd.Flags().StringVar(&f.metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")
	cmd.Flags().BoolVar(&f.json, "json", false, "print JSON lines")
	cmd.Flags().BoolVar(&f.noColor, "no-color", false, "disable colored logs")

	cmd.AddCommand(newVersionCommand())
	return cmd
}

// Execute runs the command with SIGINT/SIGTERM canceling its context.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cmd := NewRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		slog.Error("fiostat failed", "err", err)
		return 1
	}
	return 0
}

func run(cmd *cobra.Command, f *flags, files []string) error {
	cfg, err := config.Load(f.configPath, f.envFiles...)
	if err != nil {
		return err
	}
	if f.backend != "" {
		cfg.Driver.Backend = f.backend
	}
	if f.metricsAddr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Addr = f.metricsAddr
	}
	if err = config.Validate(cfg); err != nil {
		return err
	}

	logger, err := logging.Setup(cmd.ErrOrStderr(), cfg.Logging.Level, f.noColor)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	var reg *prometheus.Registry
	if cfg.Metrics.Enabled {
		reg = prometheus.NewRegistry()
		srv := newMetricsServer(cfg.Metrics.Addr, reg, logger)
		srv.start()
		defer srv.stop()
	}

	options, err := cfg.Options(logger, registerer(reg))
	if err != nil {
		return err
	}
	if err = fio.Startup(options...); err != nil {
		return err
	}
	defer func() {
		if shutdownErr := fio.Shutdown(); shutdownErr != nil {
			logger.Warn("shutdown failed", "err", shutdownErr)
		}
	}()

	p := newPrinter(cmd.OutOrStdout(), f.json)
	var failed error
	for _, name := range files {
		if statErr := statFile(ctx, p, name); statErr != nil {
			logger.Error("stat failed", "file", name, "err", statErr)
			failed = errors.Join(failed, statErr)
		}
	}
	if !f.watch {
		return failed
	}
	return watch(ctx, p, files, logger)
}

// registerer keeps a nil *Registry from becoming a non-nil interface.
func registerer(reg *prometheus.Registry) prometheus.Registerer {
	if reg == nil {
		return nil
	}
	return reg
}

func statFile(ctx context.Context, p *printer, name string) error {
	f, err := fio.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	m, err := f.Metadata(ctx)
	if err != nil {
		return err
	}
	return p.print(name, f.Driver().Kind().String(), m)
}

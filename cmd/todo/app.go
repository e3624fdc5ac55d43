package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sandeepkv93/todo/internal/config"
	"github.com/sandeepkv93/todo/internal/logging"
	"github.com/sandeepkv93/todo/internal/model"
	"github.com/sandeepkv93/todo/internal/persistence"
	"github.com/sandeepkv93/todo/internal/storage"
	"github.com/sandeepkv93/todo/internal/update"
)

type options struct {
	dbPath    string
	logFile   string
	ephemeral bool
}

type app struct {
	cfg     config.RuntimeConfig
	logger  *zap.Logger
	kv      storage.KV
	adapter *persistence.Adapter
}

func setup(cmd *cobra.Command, opts *options) (*app, error) {
	cfg := config.Load()
	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.DBPath = opts.dbPath
	}
	if flags.Changed("log-file") {
		cfg.LogFile = opts.logFile
	}
	if flags.Changed("ephemeral") {
		cfg.Ephemeral = opts.ephemeral
	}

	logger, err := logging.New(cfg)
	if err != nil {
		return nil, err
	}

	var kv storage.KV
	if cfg.Ephemeral {
		kv = storage.NewMemoryKV()
	} else {
		db, err := storage.OpenSQLite(cfg.DBPath)
		if err != nil {
			_ = logger.Sync()
			return nil, fmt.Errorf("open task database: %w", err)
		}
		kv = db
	}
	logger.Info("storage ready", zap.String("path", cfg.DBPath), zap.Bool("ephemeral", cfg.Ephemeral))

	return &app{cfg: cfg, logger: logger, kv: kv, adapter: persistence.NewAdapter(kv, logger)}, nil
}

func (a *app) Close() {
	if err := a.kv.Close(); err != nil {
		a.logger.Warn("close storage", zap.Error(err))
	}
	_ = a.logger.Sync()
}

func runTUI(cmd *cobra.Command, opts *options) error {
	a, err := setup(cmd, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	m := update.New(a.adapter, a.cfg, a.logger)
	defer m.Shutdown()

	program := tea.NewProgram(m, tea.WithContext(contextOf(cmd)))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("todo failed: %w", err)
	}
	return nil
}

func seedCmd(opts *options) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace the stored tasks with generated demo tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 || count > model.MaxFakeTasks {
				return fmt.Errorf("--count must be between 1 and %d", model.MaxFakeTasks)
			}
			a, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			tasks, err := a.adapter.Seed(contextOf(cmd), count, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d task(s) into %s\n", len(tasks), a.location())
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", model.DefaultFakeTasks, "Number of demo tasks to generate")
	return cmd
}

func listCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the stored tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			tasks := a.adapter.Load(contextOf(cmd))
			if len(tasks) == 0 {
				fmt.Fprintln(out, "no tasks")
				return nil
			}
			for i, t := range tasks {
				box := "[ ]"
				if t.Completed {
					box = "[x]"
				}
				fmt.Fprintf(out, "%2d. %s %s\n", i+1, box, t.Text)
			}
			return nil
		},
	}
}

func (a *app) location() string {
	if a.cfg.Ephemeral {
		return "memory"
	}
	return a.cfg.DBPath
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

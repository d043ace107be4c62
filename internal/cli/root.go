// Package cli is the tasklist command tree.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"tasklist/internal/config"
	"tasklist/internal/jsonlog"
	"tasklist/internal/storage"
	"tasklist/internal/task"
	"tasklist/internal/telemetry"
	"tasklist/internal/view"
)

func Execute() error {
	return NewRoot().Execute()
}

type rootOptions struct {
	configPath string
	dataDir    string
	driver     string
}

func NewRoot() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:          "tasklist",
		Short:        "Local task list with a web page and a terminal UI",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "tasklist.yml", "config file (.yml or .toml)")
	root.PersistentFlags().StringVar(&opts.dataDir, "data", "", "data directory override")
	root.PersistentFlags().StringVar(&opts.driver, "driver", "", "storage driver override (file, sqlite, memory)")

	root.AddCommand(
		serveCmd(opts),
		tuiCmd(opts),
		listCmd(opts),
		addCmd(opts),
		toggleCmd(opts),
		editCmd(opts),
		rmCmd(opts),
		backupCmd(opts),
		restoreCmd(opts),
		drillCmd(opts),
	)
	return root
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(o.driver) == "" && strings.TrimSpace(o.dataDir) == "" {
		return cfg, nil
	}

	// Re-derive the slot path unless the config file pinned one.
	derived := config.StorageConfig{Driver: cfg.Storage.Driver, DataDir: cfg.Storage.DataDir, Key: cfg.Storage.Key}
	derived.ApplyDefaults()
	if cfg.Storage.Path == derived.Path {
		cfg.Storage.Path = ""
	}
	if d := strings.TrimSpace(o.driver); d != "" {
		cfg.Storage.Driver = d
	}
	if d := strings.TrimSpace(o.dataDir); d != "" {
		cfg.Storage.DataDir = d
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// app is everything one command needs, opened from the resolved config.
type app struct {
	cfg    *config.Config
	logger *jsonlog.Logger
	slot   storage.Slot
	store  *task.Store
	events *telemetry.MemoryRepository
}

func (o *rootOptions) open(ctx context.Context, logOut io.Writer) (*app, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	logger := jsonlog.New(logOut)

	slot, err := storage.Open(cfg.Storage.Driver, cfg.Storage.Path)
	if err != nil {
		return nil, err
	}
	store := task.NewStore(storage.NewAdapter(slot, cfg.Storage.Key, logger), logger)
	store.Load(ctx)

	return &app{
		cfg:    cfg,
		logger: logger,
		slot:   slot,
		store:  store,
		events: telemetry.NewMemoryRepository(telemetry.DefaultCapacity, nil),
	}, nil
}

func (a *app) controller() *view.Controller {
	return view.NewController(a.store, view.Options{
		DiscardOnBlur: a.cfg.UI.DiscardOnBlur,
		NoticeTTL:     a.cfg.NoticeTTLDuration(),
		Recorder:      a.events,
	})
}

func (a *app) Close() error {
	return a.slot.Close()
}

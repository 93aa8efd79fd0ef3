package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mmcdole/waypoint/internal/adapter"
	"github.com/mmcdole/waypoint/internal/progress"
	"github.com/mmcdole/waypoint/internal/roadmap"
	"github.com/mmcdole/waypoint/internal/service"
	"github.com/mmcdole/waypoint/internal/store"
	"github.com/mmcdole/waypoint/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// flags shared by every command
type rootFlags struct {
	configDir string
	dataDir   string
	catalog   string
	memory    bool
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:           "waypoint",
		Short:         "Track progress through learning roadmaps",
		Long:          "Browse learning paths, tick off topics and resources, and see how far along you are.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(cmd.OutOrStdout()) {
				return withApp(flags, func(a *app) error {
					return writeStats(cmd.OutOrStdout(), a.tracker, "")
				})
			}
			return runTUI(flags)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configDir, "config", "", "directory containing config.yaml")
	pf.StringVar(&flags.dataDir, "data", "", "progress data directory (overrides storage.dir)")
	pf.StringVar(&flags.catalog, "catalog", "", "roadmap YAML file (overrides content.file)")
	pf.BoolVar(&flags.memory, "memory", false, "keep progress in memory only")

	cmd.AddCommand(
		newPathsCmd(&flags),
		newStatsCmd(&flags),
		newToggleCmd(&flags),
		newCompleteCmd(&flags),
		newFindCmd(&flags),
		newResetCmd(&flags),
	)
	return cmd
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// app is everything a command needs, wired from config
type app struct {
	cfg     *adapter.Config
	logger  *slog.Logger
	tracker *service.Tracker
	backing *store.BoltBacking
	logFile io.Closer
}

// Close stops persistence, then releases the database and log file.
func (a *app) Close() {
	a.tracker.Close()
	if err := a.backing.Close(); err != nil {
		a.logger.Warn("failed to close database", "error", err)
	}
	a.logger.Info("shutting down")
	a.logFile.Close()
}

func loadConfig(flags rootFlags) (*adapter.Config, error) {
	var cfg *adapter.Config
	var err error
	if flags.configDir != "" {
		cfg, err = adapter.LoadConfigFrom(flags.configDir)
	} else {
		cfg, err = adapter.LoadConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if flags.dataDir != "" {
		cfg.Storage.Dir = adapter.ExpandHome(flags.dataDir)
	}
	if flags.memory {
		cfg.Storage.Dir = ""
	}
	if flags.catalog != "" {
		cfg.Content.File = adapter.ExpandHome(flags.catalog)
	}
	return cfg, nil
}

// openApp wires config, logging, content and storage. loaded selects whether
// saved progress is read now or left to the caller.
func openApp(flags rootFlags, loaded bool) (*app, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}

	logger, logFile, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger, logFile = adapter.NullLogger(), io.NopCloser(nil)
	}
	slog.SetDefault(logger)
	logger.Info("starting waypoint", "version", Version)

	var catalog *roadmap.Catalog
	if cfg.Content.File != "" {
		catalog, err = roadmap.LoadFile(cfg.Content.File)
	} else {
		catalog, err = roadmap.Default()
	}
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("failed to load roadmap: %w", err)
	}

	backing, err := store.Open(cfg.Storage.Dir)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("failed to open progress store: %w", err)
	}
	logger.Info("progress store opened", "path", backing.Path(), "persistent", backing.Persistent())

	opts := []progress.Option{
		progress.WithSaveDelay(cfg.Progress.SaveDelay),
		progress.WithLogger(logger),
	}
	var s *progress.Store
	if loaded {
		s = progress.Open(backing, opts...)
	} else {
		s = progress.New(backing, opts...)
	}

	launcher := adapter.NewLauncher(cfg.UI.OpenCommand, cfg.UI.OpenArgs, logger)

	return &app{
		cfg:     cfg,
		logger:  logger,
		tracker: service.NewTracker(catalog, s, launcher, logger),
		backing: backing,
		logFile: logFile,
	}, nil
}

// withApp runs fn against a loaded app and closes it afterwards.
func withApp(flags rootFlags, fn func(a *app) error) error {
	a, err := openApp(flags, true)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func runTUI(flags rootFlags) error {
	a, err := openApp(flags, false)
	if err != nil {
		return err
	}
	defer a.Close()

	model := tui.NewModel(a.tracker, tui.Options{
		ShowInspector: a.cfg.UI.ShowInspector,
		Logger:        a.logger,
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	a.logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		a.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

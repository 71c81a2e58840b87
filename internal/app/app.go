package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/slatview/slat/heights"
	"github.com/slatview/slat/internal/config"
	"github.com/slatview/slat/internal/prefs"
	"github.com/slatview/slat/internal/ui"
	"github.com/slatview/slat/rescache"
	"github.com/slatview/slat/store"
)

// Options configures an application run.
type Options struct {
	ConfigPath string
	PrefsPath  string
	StartDir   string

	// LogFile overrides the config file's log destination when set.
	LogFile string
}

// Run assembles the engine, wires it into the Bubble Tea loop, and
// blocks until the program exits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.LogFile != "" {
		cfg.LogFile = opts.LogFile
	}

	logger, closeLog, err := newLogger(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs := prefs.Load(prefsPath)

	startDir, err := resolveStartDir(opts.StartDir)
	if err != nil {
		return err
	}

	hm, err := heights.New(heights.Config{
		Default:   cfg.DefaultRowHeight,
		Retention: cfg.HeightRetention,
		Tolerance: cfg.HeightTolerance,
	}, heights.WithLogger(logger))
	if err != nil {
		return err
	}

	// The program pointer closes over the scheduler and the cache
	// notify hook. Both fire only after Run has started the loop, so
	// the late assignment is safe.
	var program *tea.Program

	cache, err := rescache.New(rescache.Config{
		Budget:   cfg.CacheBudgetBytes,
		Cooldown: cfg.LoadCooldown,
	},
		rescache.WithLogger(logger),
		rescache.WithNotify(func(key string) {
			program.Send(ui.PreviewSettled(key))
		}),
	)
	if err != nil {
		return err
	}
	defer cache.Close()

	st := store.New(store.SchedulerFunc(func(flush func()) {
		program.Send(ui.PostMsg{Fn: flush})
	}))

	model := ui.New(ui.Options{
		Config:    cfg,
		Prefs:     userPrefs,
		PrefsPath: prefsPath,
		StartDir:  startDir,
		Heights:   hm,
		Cache:     cache,
		Store:     st,
		Logger:    logger,
	})

	program = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	logger.Info().Str("dir", startDir).Msg("starting slat")
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

// newLogger opens the structured log sink. Logs cannot go to stdout
// while the terminal is in the alternate screen, so an empty path
// disables logging entirely.
func newLogger(path string) (zerolog.Logger, func(), error) {
	if path == "" {
		return zerolog.Nop(), func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("open log file: %w", err)
	}

	logger := zerolog.New(f).With().Timestamp().Logger()
	return logger, func() { f.Close() }, nil
}

func resolveStartDir(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve working directory: %w", err)
		}
		return wd, nil
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve start directory: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("start directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("start directory %s is not a directory", abs)
	}
	return abs, nil
}

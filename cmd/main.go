package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"pomodoro/internal/core/model"
	"pomodoro/internal/core/pomodoro"
	"pomodoro/internal/core/ticker"
	"pomodoro/internal/platform"
	"pomodoro/internal/storage"
	"pomodoro/internal/ui/preferences"
	"pomodoro/internal/ui/tray"
	"pomodoro/internal/ui/window"
	"pomodoro/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/alecthomas/kong"
)

const (
	appName = "Pomodoro"
	appID   = "com.pomodoro.app"
)

type cli struct {
	ConfigDir string `name:"config-dir" help:"Directory holding settings.yaml (defaults to the user config directory)." type:"path"`
	Verbose   bool   `short:"v" help:"Enable debug logging."`
	Start     bool   `help:"Start the first pomodoro immediately."`
}

func main() {
	var args cli
	kong.Parse(&args,
		kong.Name("pomodoro"),
		kong.Description("A desktop pomodoro timer."),
		kong.UsageOnError(),
	)

	setupLogging(args.Verbose)

	if err := run(args); err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			slog.Info("Another instance is already running")
			return
		}
		slog.Error("Pomodoro failed", "error", err)
		os.Exit(1)
	}
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func run(args cli) error {
	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		return err
	}
	defer func() {
		if err := guard.Release(); err != nil {
			slog.Warn("Failed to release instance lock", "error", err)
		}
	}()

	configDir, err := resolveConfigDir(args.ConfigDir)
	if err != nil {
		return err
	}
	store := storage.NewStore(configDir)
	config := store.LoadConfiguration()
	slog.Info("Settings loaded",
		"path", store.Path(),
		storage.KeyCountPomodoros, config.PomosBeforeLongBreak,
		storage.KeyPomoLength, config.WorkSeconds,
		storage.KeySmallPauseLength, config.ShortBreakSeconds,
		storage.KeyBigPauseLength, config.LongBreakSeconds,
	)

	timer := pomodoro.New(config)
	timer.Subscribe(logTransitions)

	fyneApp := app.NewWithID(appID)
	fyneApp.SetIcon(resources.MustIcon(resources.IconApp))

	revealSettings := func() {
		folder, err := platform.FolderURL(store.Dir())
		if err != nil {
			slog.Warn("Cannot reveal settings folder", "error", err)
			return
		}
		if err := fyneApp.OpenURL(folder); err != nil {
			slog.Warn("Cannot open settings folder", "url", folder.String(), "error", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var watcher *storage.Watcher
	prefsWindow := preferences.New(fyneApp, config, func(updated model.Configuration) {
		if err := store.Save(updated); err != nil {
			slog.Error("Failed to save settings", "error", err)
			return
		}
		if watcher != nil {
			watcher.Remember(updated)
		}
		timer.Reconfigure(updated)
	})

	mainWindow := window.New(fyneApp, appName, timer, window.Callbacks{
		OnPreferences:    prefsWindow.Show,
		OnSettingsFolder: revealSettings,
	})

	clock := ticker.New(time.Second, fyne.Do, func() { timer.Tick() })

	// Ticker.Stop waits for the loop, which may be parked in fyne.Do; cancel instead.
	quit := func() {
		cancel()
		fyneApp.Quit()
	}

	if desktopApp, ok := fyneApp.(desktop.App); ok {
		trayManager := tray.New(desktopApp, tray.Icons{
			Work:   resources.MustIcon(resources.IconApp),
			Break:  resources.MustIcon(resources.IconBreak),
			Paused: resources.MustIcon(resources.IconPaused),
		}, tray.Callbacks{
			OnShow: mainWindow.Show,
			OnToggleRunning: func() {
				if timer.Running() {
					timer.Pause()
				} else {
					timer.Start()
				}
			},
			OnStop:           func() { timer.Stop() },
			OnPreferences:    prefsWindow.Show,
			OnSettingsFolder: revealSettings,
			OnQuit:           quit,
		})
		trayManager.Sync(timer.Snapshot())
		timer.Subscribe(trayManager.Observe)

		// Closing the window keeps the timer alive in the tray.
		mainWindow.Window().SetCloseIntercept(mainWindow.Window().Hide)
	} else {
		slog.Debug("System tray unsupported on this platform")
		mainWindow.Window().SetMaster()
	}

	watcher, err = storage.NewWatcher(store, config, 0, func(updated model.Configuration) {
		fyne.Do(func() {
			prefsWindow.UpdateConfiguration(updated)
			timer.Reconfigure(updated)
		})
	})
	if err != nil {
		slog.Warn("Settings file will not be watched", "error", err)
	} else if err := watcher.Start(ctx); err != nil {
		slog.Warn("Settings file will not be watched", "error", err)
	} else {
		defer func() {
			if err := watcher.Stop(); err != nil {
				slog.Warn("Failed to stop settings watcher", "error", err)
			}
		}()
	}

	clock.Start(ctx)

	if args.Start {
		timer.Start()
	}

	mainWindow.Show()
	fyneApp.Run()
	return nil
}

func resolveConfigDir(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	dir, err := platform.NewService().AppConfigDir(appName)
	if err != nil {
		return "", fmt.Errorf("resolve settings directory: %w", err)
	}
	return dir, nil
}

func logTransitions(event pomodoro.Event) {
	switch event.Type {
	case pomodoro.EventPhaseChanged:
		slog.Info("Phase changed",
			"phase", event.Snapshot.Phase.Label(),
			"remaining", pomodoro.FormatSeconds(event.Snapshot.Remaining),
			"cycle", event.Snapshot.CycleIndex,
		)
	case pomodoro.EventRunningChanged:
		slog.Debug("Running changed", "running", event.Snapshot.Running)
	case pomodoro.EventSettingsChanged:
		slog.Debug("Timer reconfigured", "config", fmt.Sprintf("%+v", event.Snapshot.Config))
	}
}

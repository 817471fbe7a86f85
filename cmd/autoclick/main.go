// Command autoclick sends repeated left clicks while toggled on by a global
// hotkey.
//
// Usage:
//
//	autoclick [--key scrolllock] [--cps 15] [--pin]
//	autoclick keys
//	autoclick init
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/chaz8081/autoclick/internal/autoclick"
	"github.com/chaz8081/autoclick/internal/config"
	"github.com/chaz8081/autoclick/internal/hotkey"
	"github.com/chaz8081/autoclick/internal/singleinstance"
	"github.com/chaz8081/autoclick/internal/toggle"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "autoclick:", err)
		stop()
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "autoclick",
		Usage:     "click repeatedly while a global hotkey is toggled on",
		UsageText: "autoclick [options]\nautoclick keys\nautoclick init",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file (default: ~/.config/autoclick/config.yaml)",
			},
			&cli.StringFlag{
				Name:    "key",
				Aliases: []string{"k"},
				Usage:   "toggle key name or code, e.g. scrolllock, rctrl, f8, 0x91",
			},
			&cli.IntFlag{
				Name:    "cps",
				Aliases: []string{"r"},
				Usage:   "clicks per second (1-1000)",
			},
			&cli.BoolFlag{
				Name:    "pin",
				Aliases: []string{"p"},
				Usage:   "click where the cursor was when clicking was switched on",
			},
			&cli.StringFlag{
				Name:  "backend",
				Usage: "keyboard hook backend: auto, gohook, winhook",
			},
			&cli.StringFlag{
				Name:  "method",
				Usage: "click injection method: auto, robotgo, sendinput",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn, error",
			},
		},
		Action: run,
		Commands: []*cli.Command{
			{
				Name:   "keys",
				Usage:  "print the code and name of every key pressed, to pick a hotkey",
				Action: printKeys,
			},
			{
				Name:   "init",
				Usage:  "write the default config file if none exists",
				Action: writeDefaultConfig,
			},
		},
	}
}

// loadConfig reads the config file named by --config, or the default path
// if it exists, then applies command-line overrides.
func loadConfig(c *cli.Context) (*config.Config, string, error) {
	path := c.String("config")
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		path = config.DefaultConfigPath()
		cfg, err = config.LoadOrDefault(path)
	}
	if err != nil {
		return nil, "", fmt.Errorf("config: %w", err)
	}

	applyFlags(c, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("config validation: %w", err)
	}
	return cfg, path, nil
}

// applyFlags overrides cfg with every flag set on the command line. It runs
// on the initial load and again on each hot reload.
func applyFlags(c *cli.Context, cfg *config.Config) {
	if c.IsSet("key") {
		cfg.Hotkey.Key = c.String("key")
	}
	if c.IsSet("cps") {
		cfg.Clicker.CPS = c.Int("cps")
	}
	if c.IsSet("pin") {
		cfg.Clicker.PinCursor = c.Bool("pin")
	}
	if c.IsSet("backend") {
		cfg.Hotkey.Backend = c.String("backend")
	}
	if c.IsSet("method") {
		cfg.Inject.Method = c.String("method")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
}

func newLogger(level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: config.ParseLogLevel(level),
	}))
}

func run(c *cli.Context) error {
	cfg, cfgPath, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	lock, err := singleinstance.TryLock(singleinstance.DefaultMutexName())
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("instance lock release failed", "err", err)
		}
	}()

	src, err := newSource(cfg.Hotkey.Backend, hostOS())
	if err != nil {
		return err
	}
	inj, err := newInjector(cfg.Inject.Method, hostOS())
	if err != nil {
		return err
	}

	engine, err := autoclick.New(autoclick.Options{
		Source:   src,
		Injector: inj,
		Cursor:   inj,
		Settings: settingsFrom(cfg),
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := engine.Stop(); err != nil {
			logger.Warn("shutdown incomplete", "err", err)
		}
		st := engine.Stats()
		logger.Info("stopped", "clicks", st.Clicks, "failed", st.Failures)
	}()

	engine.OnToggle(func(s toggle.Status) {
		switch {
		case !s.Active:
			logger.Info("clicking stopped")
		case engine.PinCursor() && s.HasPin:
			logger.Info("clicking started", "cps", engine.Rate(), "pinned", s.Pinned.String())
		default:
			logger.Info("clicking started", "cps", engine.Rate())
		}
	})

	ctx := c.Context
	if err := engine.Start(ctx); err != nil {
		var hookErr *hotkey.HookInstallError
		if !errors.As(err, &hookErr) {
			return err
		}
		logger.Warn("running without a global hotkey", "backend", src.Name(), "err", err)
	}

	logger.Info("autoclick ready",
		"key", engine.HotKeyName(),
		"cps", engine.Rate(),
		"pin_cursor", engine.PinCursor(),
		"backend", src.Name(),
	)
	if engine.HotkeyAvailable() {
		logger.Info(fmt.Sprintf("press %s to start or stop clicking, Ctrl+C to quit", engine.HotKeyName()))
	}

	if cfg.Watch && fileExists(cfgPath) {
		go func() {
			err := config.Watch(ctx, cfgPath, logger.With("component", "config"), func(next *config.Config) {
				applyFlags(c, next)
				if err := engine.Apply(settingsFrom(next)); err != nil {
					logger.Warn("config change not fully applied", "err", err)
				}
			})
			if err != nil {
				logger.Warn("config hot reload disabled", "err", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")
	return nil
}

func settingsFrom(cfg *config.Config) autoclick.Settings {
	return autoclick.Settings{
		Key:       cfg.Hotkey.Key,
		CPS:       cfg.Clicker.CPS,
		PinCursor: cfg.Clicker.PinCursor,
	}
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func printKeys(c *cli.Context) error {
	cfg, _, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.LogLevel)

	src, err := newSource(cfg.Hotkey.Backend, hostOS())
	if err != nil {
		return err
	}

	mon := hotkey.NewMonitor(src, logger)
	mon.Subscribe(func(n hotkey.Notification) {
		fmt.Printf("%-8s %s\n", n.Code, src.FormatKey(n.Code))
	})
	if err := mon.Start(); err != nil {
		return err
	}
	defer mon.Stop()

	fmt.Printf("Listening with %s. Press keys to see their codes, Ctrl+C to exit.\n", src.Name())
	<-c.Context.Done()
	return nil
}

func writeDefaultConfig(c *cli.Context) error {
	path, err := config.WriteDefault()
	if err != nil {
		return err
	}
	if path == "" {
		fmt.Printf("Config already exists at %s\n", config.DefaultConfigPath())
		return nil
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

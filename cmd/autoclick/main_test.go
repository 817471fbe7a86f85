package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/chaz8081/autoclick/internal/config"
)

// runWithArgs parses args with the real flag set and hands the context to fn.
func runWithArgs(t *testing.T, args []string, fn func(c *cli.Context) error) {
	t.Helper()
	app := newApp()
	app.Action = fn
	if err := app.Run(append([]string{"autoclick"}, args...)); err != nil {
		t.Fatalf("Run(%v) error = %v", args, err)
	}
}

func TestApplyFlagsSurvivesReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("hotkey:\n  key: pause\nclicker:\n  cps: 10\n"), 0644); err != nil {
		t.Fatal(err)
	}

	runWithArgs(t, []string{"--config", path, "--cps", "40", "--pin"}, func(c *cli.Context) error {
		cfg, gotPath, err := loadConfig(c)
		if err != nil {
			t.Fatalf("loadConfig() error = %v", err)
		}
		if gotPath != path {
			t.Errorf("loadConfig() path = %q, want %q", gotPath, path)
		}
		if cfg.Clicker.CPS != 40 || !cfg.Clicker.PinCursor {
			t.Errorf("initial load: cps %d pin %v, want 40 true", cfg.Clicker.CPS, cfg.Clicker.PinCursor)
		}

		// A saved file that changes key and cps and turns pin off.
		next := config.Default()
		next.Hotkey.Key = "f8"
		next.Clicker.CPS = 25
		next.Clicker.PinCursor = false
		applyFlags(c, next)

		s := settingsFrom(next)
		if s.CPS != 40 {
			t.Errorf("reload reverted --cps: got %d, want 40", s.CPS)
		}
		if !s.PinCursor {
			t.Error("reload reverted --pin")
		}
		if s.Key != "f8" {
			t.Errorf("reload key = %q, want the file's %q", s.Key, "f8")
		}
		return nil
	})
}

func TestApplyFlagsLeavesUnsetFields(t *testing.T) {
	runWithArgs(t, []string{"--key", "rctrl"}, func(c *cli.Context) error {
		cfg := config.Default()
		cfg.Clicker.CPS = 33
		cfg.Inject.Method = "robotgo"
		applyFlags(c, cfg)

		if cfg.Hotkey.Key != "rctrl" {
			t.Errorf("Hotkey.Key = %q, want %q", cfg.Hotkey.Key, "rctrl")
		}
		if cfg.Clicker.CPS != 33 || cfg.Inject.Method != "robotgo" || cfg.Clicker.PinCursor {
			t.Errorf("unset flags changed config: %+v", cfg)
		}
		return nil
	})
}

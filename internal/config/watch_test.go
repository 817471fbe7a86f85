package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchReloadsValidChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("clicker:\n  cps: 10\n"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *Config, 8)
	done := make(chan error, 1)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	go func() {
		done <- Watch(ctx, path, logger, func(c *Config) { changes <- c })
	}()

	// The watcher may not be registered yet; keep writing, with gaps longer
	// than the debounce window, until a reload lands.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(3 * reloadDelay)
	defer tick.Stop()
	for {
		select {
		case cfg := <-changes:
			if cfg.Clicker.CPS != 42 {
				t.Fatalf("reloaded CPS = %d, want 42", cfg.Clicker.CPS)
			}
			cancel()
			if err := <-done; err != nil {
				t.Errorf("Watch() error = %v", err)
			}
			return
		case <-tick.C:
			if err := os.WriteFile(path, []byte("clicker:\n  cps: 42\n"), 0644); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			t.Fatal("no reload within 5s")
		}
	}
}

func TestWatchIgnoresInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("clicker:\n  cps: 10\n"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan *Config, 8)
	done := make(chan error, 1)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	go func() {
		done <- Watch(ctx, path, logger, func(c *Config) { changes <- c })
	}()

	for i := 0; i < 5; i++ {
		time.Sleep(100 * time.Millisecond)
		if err := os.WriteFile(path, []byte("clicker:\n  cps: 0\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	time.Sleep(2 * reloadDelay)
	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch() error = %v", err)
	}

	select {
	case cfg := <-changes:
		t.Errorf("invalid config delivered: %+v", cfg)
	default:
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "config.yaml"), nil, func(*Config) {})
	if err == nil {
		t.Error("Watch() on a missing directory should fail")
	}
}

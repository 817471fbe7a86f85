// Command test-hotkey is a manual test for the global hotkey toggle.
// Run it, then press the toggle key to see ON/OFF transitions with the
// cursor position captured on each activation. No clicks are sent.
// Press Ctrl+C to exit.
//
// Usage:
//
//	go run ./cmd/test-hotkey [--key scrolllock] [--backend gohook|winhook]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/chaz8081/autoclick/internal/hotkey"
	"github.com/chaz8081/autoclick/internal/hotkey/portable"
	"github.com/chaz8081/autoclick/internal/hotkey/winhook"
	"github.com/chaz8081/autoclick/internal/inject/robot"
	"github.com/chaz8081/autoclick/internal/toggle"
)

func main() {
	key := flag.String("key", "scrolllock", "toggle key")
	backend := flag.String("backend", "gohook", "hook backend: gohook or winhook")
	flag.Parse()

	var src hotkey.Source = portable.New()
	if *backend == "winhook" {
		src = winhook.New()
	}

	code, err := src.ParseKey(*key)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	machine := toggle.New(code, robot.New(), logger)
	machine.OnToggle(func(s toggle.Status) {
		if s.Active {
			fmt.Printf(">>> ON  (pinned %s)\n", s.Pinned)
			return
		}
		fmt.Println("<<< OFF")
	})

	mon := hotkey.NewMonitor(src, logger)
	mon.Subscribe(machine.OnNotification)
	if err := mon.Start(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("Listening for %s (code %s) with %s...\n", src.FormatKey(code), code, src.Name())
	fmt.Println("Press Ctrl+C to exit.")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	fmt.Println("\nShutting down...")
	if err := mon.Stop(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	fmt.Println("Done.")
}

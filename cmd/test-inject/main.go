// Command test-inject is a manual test for click injection.
// It waits 3 seconds, then sends a few left clicks at the cursor or at a
// fixed position. Hover over something harmless before the countdown ends.
//
// Usage:
//
//	go run ./cmd/test-inject [--method robotgo|sendinput] [--count 5] [--x 400 --y 300]
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/chaz8081/autoclick/internal/inject"
	"github.com/chaz8081/autoclick/internal/inject/robot"
	"github.com/chaz8081/autoclick/internal/inject/sendinput"
)

func main() {
	method := flag.String("method", "robotgo", "inject method: robotgo or sendinput")
	count := flag.Int("count", 5, "number of clicks")
	x := flag.Int("x", -1, "click at this x (with -y) instead of the cursor")
	y := flag.Int("y", -1, "click at this y (with -x) instead of the cursor")
	flag.Parse()

	var inj interface {
		inject.Injector
		inject.Cursor
	}
	switch *method {
	case "robotgo":
		inj = robot.New()
	case "sendinput":
		inj = sendinput.New()
	default:
		fmt.Fprintf(os.Stderr, "unknown method %q\n", *method)
		os.Exit(2)
	}

	pinned := *x >= 0 && *y >= 0
	target := "the cursor"
	if pinned {
		target = inject.Point{X: *x, Y: *y}.String()
	}
	fmt.Printf("Will send %d clicks at %s using %q in 3 seconds...\n", *count, target, *method)

	for i := 3; i > 0; i-- {
		fmt.Printf("%d...\n", i)
		time.Sleep(time.Second)
	}

	if pos, err := inj.Position(); err == nil {
		fmt.Printf("Cursor at %s\n", pos)
	}

	failed := 0
	for i := 0; i < *count; i++ {
		var err error
		if pinned {
			err = inj.ClickAt(inject.Point{X: *x, Y: *y})
		} else {
			err = inj.ClickAtCursor()
		}
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			failed++
		}
		time.Sleep(200 * time.Millisecond)
	}

	fmt.Printf("\nDone! %d sent, %d failed\n", *count-failed, failed)
}

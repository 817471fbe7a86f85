package main

import (
	"fmt"
	"runtime"

	"github.com/chaz8081/autoclick/internal/hotkey"
	"github.com/chaz8081/autoclick/internal/hotkey/portable"
	"github.com/chaz8081/autoclick/internal/hotkey/winhook"
	"github.com/chaz8081/autoclick/internal/inject"
	"github.com/chaz8081/autoclick/internal/inject/robot"
	"github.com/chaz8081/autoclick/internal/inject/sendinput"
)

// injectBackend is an injector that can also locate the cursor.
type injectBackend interface {
	inject.Injector
	inject.Cursor
}

// newSource picks the keyboard hook backend. "auto" prefers the native
// hook on Windows.
func newSource(name, goos string) (hotkey.Source, error) {
	switch name {
	case "auto", "":
		if goos == "windows" {
			return winhook.New(), nil
		}
		return portable.New(), nil
	case "gohook":
		return portable.New(), nil
	case "winhook":
		if goos != "windows" {
			return nil, fmt.Errorf("hotkey backend %q requires Windows", name)
		}
		return winhook.New(), nil
	default:
		return nil, fmt.Errorf("unknown hotkey backend %q", name)
	}
}

// newInjector picks the click backend. "auto" prefers SendInput on Windows.
func newInjector(method, goos string) (injectBackend, error) {
	switch method {
	case "auto", "":
		if goos == "windows" {
			return sendinput.New(), nil
		}
		return robot.New(), nil
	case "robotgo":
		return robot.New(), nil
	case "sendinput":
		if goos != "windows" {
			return nil, fmt.Errorf("inject method %q requires Windows", method)
		}
		return sendinput.New(), nil
	default:
		return nil, fmt.Errorf("unknown inject method %q", method)
	}
}

func hostOS() string {
	return runtime.GOOS
}

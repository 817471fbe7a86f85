// Package portable installs the global keyboard hook through gohook
// (libuiohook), which works on Windows, macOS and X11.
package portable

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	hook "github.com/robotn/gohook"

	"github.com/chaz8081/autoclick/internal/hotkey"
)

const stopTimeout = 2 * time.Second

// startupTimeout is how long Install waits for libuiohook to report the
// hook as enabled. A failed hook_run is only logged by gohook and the event
// channel stays open, so silence is the failure signal.
var startupTimeout = time.Second

// Seams over gohook's process-global session.
var (
	startHook = hook.Start
	endHook   = hook.End
)

// gohook keeps a single global event channel per process.
var installed atomic.Bool

// ErrBusy is returned when another gohook session is already running in
// this process.
var ErrBusy = errors.New("portable: gohook session already active")

// Source is a hotkey.Source backed by gohook.
type Source struct{}

var _ hotkey.Source = Source{}

// New returns the gohook source.
func New() Source {
	return Source{}
}

func (Source) Name() string { return "gohook" }

// Install starts the gohook session and waits for the hook-enabled event
// before forwarding key presses to sink.
func (Source) Install(sink hotkey.Sink) (hotkey.Handle, error) {
	if !installed.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}

	events := startHook()
	timer := time.NewTimer(startupTimeout)
	defer timer.Stop()

	for ready := false; !ready; {
		select {
		case ev, ok := <-events:
			if !ok {
				installed.Store(false)
				return nil, errors.New("portable: event channel closed during startup")
			}
			if ev.Kind == hook.HookEnabled {
				ready = true
				continue
			}
			forward(sink, ev)
		case <-timer.C:
			endHook()
			installed.Store(false)
			return nil, fmt.Errorf("portable: hook not enabled within %s", startupTimeout)
		}
	}

	h := &handle{
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	go h.pump(events, sink)
	return h, nil
}

// ParseKey resolves names through gohook's key table; numeric codes are
// passed through.
func (Source) ParseKey(name string) (hotkey.KeyCode, error) {
	norm := hotkey.NormalizeKeyName(name)
	if code, ok := hook.Keycode[norm]; ok {
		return hotkey.KeyCode(code), nil
	}
	if alias, ok := keyAliases[norm]; ok {
		if code, ok := hook.Keycode[alias]; ok {
			return hotkey.KeyCode(code), nil
		}
	}
	if code, ok := hotkey.ParseNumericKey(norm); ok && code > 0 && code <= 0xFFFF {
		return code, nil
	}
	return 0, fmt.Errorf("%w: %q", hotkey.ErrUnknownKey, name)
}

func (Source) FormatKey(code hotkey.KeyCode) string {
	if name, ok := keyNames()[code]; ok {
		return name
	}
	return code.String()
}

// keyAliases maps the normalized names used in config files to gohook's
// spelling.
var keyAliases = map[string]string{
	"scrolllock": "scroll",
	"rctrl":      "rcontrol",
	"rightctrl":  "rcontrol",
	"lctrl":      "lcontrol",
	"leftctrl":   "lcontrol",
	"escape":     "esc",
	"return":     "enter",
}

var (
	keyNamesOnce sync.Once
	keyNamesMap  map[hotkey.KeyCode]string
)

func keyNames() map[hotkey.KeyCode]string {
	keyNamesOnce.Do(func() {
		names := make([]string, 0, len(hook.Keycode))
		for name := range hook.Keycode {
			names = append(names, name)
		}
		// shortest name wins so "f1" is preferred over longer synonyms
		sort.Slice(names, func(i, j int) bool {
			if len(names[i]) != len(names[j]) {
				return len(names[i]) < len(names[j])
			}
			return names[i] < names[j]
		})
		keyNamesMap = make(map[hotkey.KeyCode]string, len(names))
		for _, name := range names {
			code := hotkey.KeyCode(hook.Keycode[name])
			if _, ok := keyNamesMap[code]; !ok {
				keyNamesMap[code] = name
			}
		}
	})
	return keyNamesMap
}

// forward delivers key-pressed events. gohook's Kind is libuiohook's event
// type: KeyDown is EVENT_KEY_PRESSED (auto-repeat included), KeyHold is
// EVENT_KEY_TYPED, which carries no keycode and never fires for keys like
// Scroll Lock.
func forward(sink hotkey.Sink, ev hook.Event) {
	if ev.Kind == hook.KeyDown && ev.Keycode != 0 {
		sink.KeyDown(hotkey.KeyCode(ev.Keycode))
	}
}

type handle struct {
	quit chan struct{}
	done chan struct{}
	once sync.Once
}

func (h *handle) pump(events chan hook.Event, sink hotkey.Sink) {
	defer close(h.done)
	for {
		select {
		case <-h.quit:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			forward(sink, ev)
		}
	}
}

func (h *handle) Release() error {
	var err error
	h.once.Do(func() {
		close(h.quit)
		endHook()

		select {
		case <-h.done:
		case <-time.After(stopTimeout):
			err = errors.New("portable: event pump did not stop")
		}
		installed.Store(false)
	})
	return err
}

// Package hotkey provides a process-wide low-level keyboard monitor.
// A Source installs the OS observation point (a gohook session or a native
// WH_KEYBOARD_LL hook); the Monitor owns that registration, turns raw
// key-down events into Notifications and fans them out to subscribers
// in OS delivery order.
package hotkey

import "strconv"

// KeyCode identifies a physical key. Its meaning depends on the Source that
// produced it (a Windows virtual-key code, a libuiohook key code, ...).
type KeyCode uint32

// String returns the decimal form of the code.
func (c KeyCode) String() string {
	return strconv.FormatUint(uint64(c), 10)
}

// Notification is emitted once per qualifying key-down event.
type Notification struct {
	Code KeyCode
}

// Sink receives raw key-down events from a Source.
// KeyDown is called on whatever thread the OS uses for hook dispatch and
// must return promptly.
type Sink interface {
	KeyDown(code KeyCode)
}

// Handle is one live hook registration. Release unregisters it; calls
// after the first are no-ops that return nil.
type Handle interface {
	Release() error
}

// Source is a system-wide keyboard observation point.
type Source interface {
	// Name identifies the backend in logs and config ("gohook", "winhook").
	Name() string
	// Install registers the observation point and starts delivering
	// key-down events to sink until the returned Handle is released.
	Install(sink Sink) (Handle, error)
	// ParseKey resolves a configured key name or numeric code.
	ParseKey(name string) (KeyCode, error)
	// FormatKey returns a human-readable name for code.
	FormatKey(code KeyCode) string
}

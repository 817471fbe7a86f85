package hotkey

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyStarted is returned by Start on a running monitor.
	ErrAlreadyStarted = errors.New("hotkey: monitor already started")
	// ErrClosed is returned by Start after Stop.
	ErrClosed = errors.New("hotkey: monitor closed")
	// ErrUnknownKey is returned by ParseKey for names a backend cannot map.
	ErrUnknownKey = errors.New("hotkey: unknown key")
)

// HookInstallError reports that the OS refused the keyboard observation point.
// Hotkey toggling is unavailable, the rest of the application keeps running.
type HookInstallError struct {
	Backend string
	Err     error
}

func (e *HookInstallError) Error() string {
	return fmt.Sprintf("hotkey: install %s hook: %v", e.Backend, e.Err)
}

func (e *HookInstallError) Unwrap() error { return e.Err }

// TeardownError reports that the OS refused to unregister the hook.
type TeardownError struct {
	Backend string
	Err     error
}

func (e *TeardownError) Error() string {
	return fmt.Sprintf("hotkey: release %s hook: %v", e.Backend, e.Err)
}

func (e *TeardownError) Unwrap() error { return e.Err }

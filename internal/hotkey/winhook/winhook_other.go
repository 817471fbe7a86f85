//go:build !windows

package winhook

import (
	"errors"

	"github.com/chaz8081/autoclick/internal/hotkey"
)

// ErrUnsupported is returned by Install on non-Windows platforms.
var ErrUnsupported = errors.New("winhook: low-level keyboard hooks are only available on Windows")

func (Source) Install(hotkey.Sink) (hotkey.Handle, error) {
	return nil, ErrUnsupported
}

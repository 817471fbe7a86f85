//go:build !windows

package sendinput

import (
	"errors"

	"github.com/chaz8081/autoclick/internal/inject"
)

// ErrUnsupported is returned by every call on non-Windows platforms.
var ErrUnsupported = errors.New("sendinput: only available on Windows")

func (Injector) ClickAt(inject.Point) error {
	return &inject.InjectionError{Op: "SendInput", Err: ErrUnsupported}
}

func (Injector) ClickAtCursor() error {
	return &inject.InjectionError{Op: "SendInput", Err: ErrUnsupported}
}

func (Injector) Position() (inject.Point, error) {
	return inject.Point{}, ErrUnsupported
}

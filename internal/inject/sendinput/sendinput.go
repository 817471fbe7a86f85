// Package sendinput injects clicks with user32 SendInput and positions the
// cursor with SetCursorPos. It is only functional on Windows.
package sendinput

import "github.com/chaz8081/autoclick/internal/inject"

// Injector sends native mouse input. It also reports the cursor position.
type Injector struct{}

var (
	_ inject.Injector = Injector{}
	_ inject.Cursor   = Injector{}
)

// New returns the native Windows injector.
func New() Injector {
	return Injector{}
}

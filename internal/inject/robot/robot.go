// Package robot injects clicks with robotgo.
package robot

import (
	"github.com/go-vgo/robotgo"

	"github.com/chaz8081/autoclick/internal/inject"
)

// Injector clicks through robotgo. It also reports the cursor position.
type Injector struct{}

// Compile-time interface satisfaction checks.
var (
	_ inject.Injector = Injector{}
	_ inject.Cursor   = Injector{}
)

// New returns a robotgo-backed injector.
func New() Injector {
	return Injector{}
}

// ClickAt moves the cursor to p, then clicks.
func (i Injector) ClickAt(p inject.Point) error {
	robotgo.Move(p.X, p.Y)
	return i.click()
}

// ClickAtCursor clicks without moving the cursor.
func (i Injector) ClickAtCursor() error {
	return i.click()
}

func (Injector) click() error {
	if err := robotgo.Toggle("left"); err != nil {
		return &inject.InjectionError{Op: "left down", Err: err}
	}
	if err := robotgo.Toggle("left", "up"); err != nil {
		return &inject.InjectionError{Op: "left up", Err: err}
	}
	return nil
}

// Position returns the live cursor position.
func (Injector) Position() (inject.Point, error) {
	x, y := robotgo.Location()
	return inject.Point{X: x, Y: y}, nil
}

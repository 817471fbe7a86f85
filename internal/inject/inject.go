// Package inject defines how synthetic left clicks reach the OS.
// Backends live in subpackages: robot (robotgo) and sendinput (user32).
package inject

import "fmt"

// Point is an absolute screen coordinate.
type Point struct {
	X int
	Y int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Injector synthesizes left-button clicks.
type Injector interface {
	// ClickAt moves the cursor to p, then sends left down and left up.
	ClickAt(p Point) error
	// ClickAtCursor sends left down and left up where the cursor is.
	ClickAtCursor() error
}

// Cursor reports the live cursor position.
type Cursor interface {
	Position() (Point, error)
}

// InjectionError reports that the OS rejected a synthetic input event.
// A failed click is skipped; the next tick tries again.
type InjectionError struct {
	Op  string
	Err error
}

func (e *InjectionError) Error() string {
	return fmt.Sprintf("inject: %s: %v", e.Op, e.Err)
}

func (e *InjectionError) Unwrap() error { return e.Err }

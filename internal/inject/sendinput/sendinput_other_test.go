//go:build !windows

package sendinput

import (
	"errors"
	"testing"

	"github.com/chaz8081/autoclick/internal/inject"
)

func TestInjectorReportsInjectionErrorOffWindows(t *testing.T) {
	inj := New()

	err := inj.ClickAtCursor()
	var injErr *inject.InjectionError
	if !errors.As(err, &injErr) {
		t.Fatalf("ClickAtCursor() error = %v, want *inject.InjectionError", err)
	}
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("ClickAtCursor() error = %v, want ErrUnsupported", err)
	}

	if err := inj.ClickAt(inject.Point{X: 1, Y: 2}); !errors.As(err, &injErr) {
		t.Errorf("ClickAt() error = %v, want *inject.InjectionError", err)
	}
	if _, err := inj.Position(); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Position() error = %v, want ErrUnsupported", err)
	}
}

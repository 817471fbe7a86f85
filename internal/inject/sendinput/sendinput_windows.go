//go:build windows

package sendinput

import (
	"errors"
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/chaz8081/autoclick/internal/inject"
)

const (
	inputMouse          = 0
	mouseeventfLeftDown = 0x0002
	mouseeventfLeftUp   = 0x0004
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procSendInput    = user32.NewProc("SendInput")
	procSetCursorPos = user32.NewProc("SetCursorPos")
	procGetCursorPos = user32.NewProc("GetCursorPos")
)

type point struct {
	X int32
	Y int32
}

// mouseInput mirrors MOUSEINPUT.
type mouseInput struct {
	Dx          int32
	Dy          int32
	MouseData   uint32
	DwFlags     uint32
	Time        uint32
	DwExtraInfo uintptr
}

// input mirrors INPUT with the mouse member of the union.
type input struct {
	Type uint32
	Mi   mouseInput
}

// ClickAt moves the cursor to p, then clicks.
func (i Injector) ClickAt(p inject.Point) error {
	ret, _, err := procSetCursorPos.Call(uintptr(int32(p.X)), uintptr(int32(p.Y)))
	if ret == 0 {
		return &inject.InjectionError{Op: "move cursor", Err: lastError(err)}
	}
	return i.click()
}

// ClickAtCursor clicks without moving the cursor.
func (i Injector) ClickAtCursor() error {
	return i.click()
}

// click sends down and up in one SendInput call so nothing can be
// interleaved between them.
func (Injector) click() error {
	inputs := [2]input{
		{Type: inputMouse, Mi: mouseInput{DwFlags: mouseeventfLeftDown}},
		{Type: inputMouse, Mi: mouseInput{DwFlags: mouseeventfLeftUp}},
	}
	sent, _, err := procSendInput.Call(
		uintptr(len(inputs)),
		uintptr(unsafe.Pointer(&inputs[0])),
		unsafe.Sizeof(inputs[0]),
	)
	if sent != uintptr(len(inputs)) {
		if err != nil && err != syscall.Errno(0) {
			return &inject.InjectionError{Op: "SendInput", Err: err}
		}
		return &inject.InjectionError{Op: "SendInput", Err: fmt.Errorf("sent %d of %d inputs", sent, len(inputs))}
	}
	return nil
}

// Position returns the live cursor position.
func (Injector) Position() (inject.Point, error) {
	var pt point
	ret, _, err := procGetCursorPos.Call(uintptr(unsafe.Pointer(&pt)))
	if ret == 0 {
		return inject.Point{}, fmt.Errorf("GetCursorPos: %w", lastError(err))
	}
	return inject.Point{X: int(pt.X), Y: int(pt.Y)}, nil
}

func lastError(err error) error {
	if err == nil || err == syscall.Errno(0) {
		return errors.New("call failed")
	}
	return err
}

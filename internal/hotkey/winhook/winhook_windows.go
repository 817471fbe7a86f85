//go:build windows

package winhook

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"syscall"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/chaz8081/autoclick/internal/hotkey"
)

const (
	whKeyboardLL = 13
	wmKeyDown    = 0x0100
	wmQuit       = 0x0012
	pmNoRemove   = 0x0000

	stopTimeout = 2 * time.Second
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procSetWindowsHookExW   = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procGetMessageW         = user32.NewProc("GetMessageW")
	procPeekMessageW        = user32.NewProc("PeekMessageW")
	procTranslateMessage    = user32.NewProc("TranslateMessage")
	procDispatchMessageW    = user32.NewProc("DispatchMessageW")
	procPostThreadMessageW  = user32.NewProc("PostThreadMessageW")

	// One trampoline for every hook: NewCallback slots are never freed.
	keyboardCallback = windows.NewCallback(keyboardProc)
)

// sinks holds the sink of every live hook, keyed by the thread that
// installed it. A low-level hook is called on its installing thread, so the
// entry outlives the registration and the callback never sees a freed sink.
var sinks = struct {
	sync.RWMutex
	byThread map[uint32]hotkey.Sink
}{byThread: make(map[uint32]hotkey.Sink)}

// kbdLLHookStruct mirrors KBDLLHOOKSTRUCT.
type kbdLLHookStruct struct {
	VkCode      uint32
	ScanCode    uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

type point struct {
	X int32
	Y int32
}

// winMsg mirrors MSG; the layout must match winuser.h.
type winMsg struct {
	Hwnd     uintptr
	Message  uint32
	WParam   uintptr
	LParam   uintptr
	Time     uint32
	Pt       point
	LPrivate uint32
}

type loopReady struct {
	threadID uint32
	err      error
}

// Install runs a message loop on a locked OS thread and registers a
// WH_KEYBOARD_LL hook on it for the whole desktop session.
func (Source) Install(sink hotkey.Sink) (hotkey.Handle, error) {
	if err := user32.Load(); err != nil {
		return nil, fmt.Errorf("user32.dll is unavailable: %w", err)
	}

	h := &handle{done: make(chan struct{})}
	ready := make(chan loopReady, 1)
	go h.loop(sink, ready)

	r := <-ready
	if r.err != nil {
		<-h.done
		return nil, r.err
	}
	h.threadID = r.threadID
	return h, nil
}

type handle struct {
	threadID  uint32
	done      chan struct{}
	unhookErr error // written by loop before done is closed
	once      sync.Once
}

func (h *handle) loop(sink hotkey.Sink, ready chan<- loopReady) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(h.done)

	threadID := windows.GetCurrentThreadId()

	// Creates the thread message queue so WM_QUIT can be posted to it.
	var qmsg winMsg
	_, _, _ = procPeekMessageW.Call(uintptr(unsafe.Pointer(&qmsg)), 0, 0, 0, pmNoRemove)

	var module windows.Handle
	if err := windows.GetModuleHandleEx(0, nil, &module); err != nil {
		ready <- loopReady{err: fmt.Errorf("GetModuleHandleEx: %w", err)}
		return
	}

	sinks.Lock()
	sinks.byThread[threadID] = sink
	sinks.Unlock()
	defer func() {
		sinks.Lock()
		delete(sinks.byThread, threadID)
		sinks.Unlock()
	}()

	hhk, _, callErr := procSetWindowsHookExW.Call(
		uintptr(whKeyboardLL),
		keyboardCallback,
		uintptr(module),
		0,
	)
	if hhk == 0 {
		ready <- loopReady{err: fmt.Errorf("SetWindowsHookExW: %w", lastError(callErr))}
		return
	}
	defer func() {
		ret, _, err := procUnhookWindowsHookEx.Call(hhk)
		if ret == 0 {
			h.unhookErr = fmt.Errorf("UnhookWindowsHookEx: %w", lastError(err))
		}
	}()

	ready <- loopReady{threadID: threadID}

	var msg winMsg
	for {
		ret, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
		switch int32(ret) {
		case -1, 0:
			return
		}
		_, _, _ = procTranslateMessage.Call(uintptr(unsafe.Pointer(&msg)))
		_, _, _ = procDispatchMessageW.Call(uintptr(unsafe.Pointer(&msg)))
	}
}

// Release stops the message loop, which unhooks on its way out.
func (h *handle) Release() error {
	var err error
	h.once.Do(func() {
		ret, _, postErr := procPostThreadMessageW.Call(uintptr(h.threadID), wmQuit, 0, 0)
		if ret == 0 {
			err = fmt.Errorf("PostThreadMessageW: %w", lastError(postErr))
			return
		}

		timer := time.NewTimer(stopTimeout)
		defer timer.Stop()
		select {
		case <-h.done:
			err = h.unhookErr
		case <-timer.C:
			err = errors.New("hook message loop did not stop")
		}
	})
	return err
}

func keyboardProc(nCode int, wParam uintptr, lParam uintptr) uintptr {
	if nCode >= 0 && wParam == wmKeyDown && lParam != 0 {
		sinks.RLock()
		sink := sinks.byThread[windows.GetCurrentThreadId()]
		sinks.RUnlock()
		if sink != nil {
			event := (*kbdLLHookStruct)(unsafe.Pointer(lParam))
			sink.KeyDown(hotkey.KeyCode(event.VkCode))
		}
	}
	ret, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
	return ret
}

func lastError(err error) error {
	if err == nil || err == syscall.Errno(0) {
		return errors.New("call failed")
	}
	return err
}

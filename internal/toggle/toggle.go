// Package toggle holds the on/off state of the clicker and the cursor
// position captured when it was switched on.
package toggle

import (
	"log/slog"
	"sync"

	"github.com/chaz8081/autoclick/internal/hotkey"
	"github.com/chaz8081/autoclick/internal/inject"
)

// State is the guarded unit. Active and Pinned are always read and written
// together.
type State struct {
	Active bool
	// Pinned is the cursor position captured by the latest activation. It is
	// kept after deactivation.
	Pinned inject.Point
	// HasPin is false until an activation captured a position.
	HasPin bool
	// Activation counts activations; it identifies which one captured Pinned.
	Activation uint64
}

// Status is published to toggle listeners.
type Status struct {
	Active bool
	Pinned inject.Point
	HasPin bool
}

type listener struct {
	id int
	fn func(Status)
}

// Machine flips State each time the configured hotkey is pressed.
type Machine struct {
	cursor inject.Cursor
	logger *slog.Logger

	mu     sync.Mutex
	hotKey hotkey.KeyCode
	state  State

	lmu       sync.Mutex
	listeners []listener
	nextID    int
}

// New returns an inactive machine bound to hotKey. cursor is sampled on
// every activation.
func New(hotKey hotkey.KeyCode, cursor inject.Cursor, logger *slog.Logger) *Machine {
	if cursor == nil {
		panic("toggle: nil cursor")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{
		cursor: cursor,
		logger: logger,
		hotKey: hotKey,
	}
}

// OnNotification is a hotkey.Monitor subscriber. Codes other than the
// hotkey are ignored; the hotkey flips Active.
func (m *Machine) OnNotification(n hotkey.Notification) {
	m.mu.Lock()
	if n.Code != m.hotKey {
		m.mu.Unlock()
		return
	}
	st := m.flipLocked(!m.state.Active)
	m.mu.Unlock()

	m.publish(st)
}

// SetActive forces the state, as a tray or status UI would. Activating an
// already active machine does not recapture the cursor.
func (m *Machine) SetActive(active bool) {
	m.mu.Lock()
	if m.state.Active == active {
		m.mu.Unlock()
		return
	}
	st := m.flipLocked(active)
	m.mu.Unlock()

	m.publish(st)
}

// flipLocked must be called with m.mu held.
func (m *Machine) flipLocked(active bool) Status {
	if active {
		m.state.Activation++
		pos, err := m.cursor.Position()
		if err != nil {
			m.logger.Warn("cursor capture failed, clicking without a pin", "err", err)
			m.state.HasPin = false
		} else {
			m.state.Pinned = pos
			m.state.HasPin = true
		}
	}
	m.state.Active = active
	return Status{Active: m.state.Active, Pinned: m.state.Pinned, HasPin: m.state.HasPin}
}

// SetHotKey changes the toggle key. It applies from the next notification
// and does not change Active.
func (m *Machine) SetHotKey(code hotkey.KeyCode) {
	m.mu.Lock()
	m.hotKey = code
	m.mu.Unlock()
}

// HotKey returns the current toggle key.
func (m *Machine) HotKey() hotkey.KeyCode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hotKey
}

// Snapshot returns a consistent copy of the state.
func (m *Machine) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// OnToggle registers fn to be called after every change of Active. fn runs
// on the goroutine that caused the change, outside the state lock.
func (m *Machine) OnToggle(fn func(Status)) (remove func()) {
	m.lmu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners = append(m.listeners, listener{id: id, fn: fn})
	m.lmu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.lmu.Lock()
			defer m.lmu.Unlock()
			for i, l := range m.listeners {
				if l.id == id {
					m.listeners = append(m.listeners[:i:i], m.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

func (m *Machine) publish(st Status) {
	m.lmu.Lock()
	ls := make([]listener, len(m.listeners))
	copy(ls, m.listeners)
	m.lmu.Unlock()

	for _, l := range ls {
		l.fn(st)
	}
}

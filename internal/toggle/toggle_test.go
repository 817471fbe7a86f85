package toggle

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/chaz8081/autoclick/internal/hotkey"
	"github.com/chaz8081/autoclick/internal/inject"
)

const (
	keyScroll hotkey.KeyCode = 0x91
	keyOther  hotkey.KeyCode = 0x41
)

// countingCursor reports (n, n) on its n-th call.
type countingCursor struct {
	calls atomic.Int64
}

func (c *countingCursor) Position() (inject.Point, error) {
	n := int(c.calls.Add(1))
	return inject.Point{X: n, Y: n}, nil
}

type failingCursor struct{}

func (failingCursor) Position() (inject.Point, error) {
	return inject.Point{}, errors.New("no display")
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func press(m *Machine, code hotkey.KeyCode) {
	m.OnNotification(hotkey.Notification{Code: code})
}

func TestHotkeyFlipsExactlyOnce(t *testing.T) {
	m := New(keyScroll, &countingCursor{}, quietLogger())

	for i := 1; i <= 6; i++ {
		press(m, keyScroll)
		want := i%2 == 1
		if got := m.Snapshot().Active; got != want {
			t.Fatalf("after %d presses Active = %v, want %v", i, got, want)
		}
	}
}

func TestOtherKeysAreIgnored(t *testing.T) {
	cur := &countingCursor{}
	m := New(keyScroll, cur, quietLogger())

	for _, code := range []hotkey.KeyCode{0, keyOther, keyScroll + 1, 0xFFFF} {
		press(m, code)
	}
	if got := m.Snapshot(); got != (State{}) {
		t.Errorf("Snapshot() = %+v, want zero state", got)
	}
	if n := cur.calls.Load(); n != 0 {
		t.Errorf("cursor sampled %d times, want 0", n)
	}

	press(m, keyScroll)
	press(m, keyOther)
	if !m.Snapshot().Active {
		t.Error("other key deactivated the machine")
	}
}

func TestActivationCapturesCursorAndKeepsPin(t *testing.T) {
	m := New(keyScroll, &countingCursor{}, quietLogger())

	press(m, keyScroll)
	st := m.Snapshot()
	if !st.Active || !st.HasPin || st.Pinned != (inject.Point{X: 1, Y: 1}) {
		t.Fatalf("after activation Snapshot() = %+v", st)
	}

	press(m, keyScroll)
	st = m.Snapshot()
	if st.Active {
		t.Fatal("still active after second press")
	}
	if !st.HasPin || st.Pinned != (inject.Point{X: 1, Y: 1}) {
		t.Errorf("pin not retained after deactivation: %+v", st)
	}

	press(m, keyScroll)
	if st = m.Snapshot(); st.Pinned != (inject.Point{X: 2, Y: 2}) || st.Activation != 2 {
		t.Errorf("second activation Snapshot() = %+v, want pin (2,2) activation 2", st)
	}
}

func TestCursorFailureActivatesWithoutPin(t *testing.T) {
	m := New(keyScroll, failingCursor{}, quietLogger())

	press(m, keyScroll)
	st := m.Snapshot()
	if !st.Active {
		t.Fatal("Active = false, want true")
	}
	if st.HasPin {
		t.Errorf("HasPin = true after failed capture")
	}
}

func TestSetHotKeyAppliesToNextNotification(t *testing.T) {
	m := New(keyScroll, &countingCursor{}, quietLogger())

	press(m, keyScroll)
	m.SetHotKey(keyOther)
	if m.HotKey() != keyOther {
		t.Fatalf("HotKey() = %v, want %v", m.HotKey(), keyOther)
	}
	if !m.Snapshot().Active {
		t.Fatal("SetHotKey changed Active")
	}

	press(m, keyScroll)
	if !m.Snapshot().Active {
		t.Error("old hotkey still toggles")
	}
	press(m, keyOther)
	if m.Snapshot().Active {
		t.Error("new hotkey did not toggle")
	}
}

func TestSetActive(t *testing.T) {
	cur := &countingCursor{}
	m := New(keyScroll, cur, quietLogger())

	var events []Status
	m.OnToggle(func(s Status) { events = append(events, s) })

	m.SetActive(true)
	m.SetActive(true)
	m.SetActive(false)
	m.SetActive(false)

	if len(events) != 2 {
		t.Fatalf("got %d toggle events, want 2", len(events))
	}
	if !events[0].Active || events[1].Active {
		t.Errorf("events = %+v, want on then off", events)
	}
	if n := cur.calls.Load(); n != 1 {
		t.Errorf("cursor sampled %d times, want 1", n)
	}
}

func TestOnToggleRemove(t *testing.T) {
	m := New(keyScroll, &countingCursor{}, quietLogger())

	var calls int
	remove := m.OnToggle(func(Status) { calls++ })

	press(m, keyScroll)
	remove()
	remove()
	press(m, keyScroll)

	if calls != 1 {
		t.Errorf("listener called %d times, want 1", calls)
	}
}

func TestListenerMayReadState(t *testing.T) {
	m := New(keyScroll, &countingCursor{}, quietLogger())

	var got State
	m.OnToggle(func(Status) { got = m.Snapshot() })

	press(m, keyScroll)
	if !got.Active {
		t.Errorf("listener saw %+v, want active", got)
	}
}

// Every activation pins the cursor's n-th reading, so an active snapshot
// whose pin does not match its activation count was torn.
func TestSnapshotIsNeverTorn(t *testing.T) {
	m := New(keyScroll, &countingCursor{}, quietLogger())

	const (
		presses = 2000
		readers = 4
	)

	var (
		wg   sync.WaitGroup
		stop atomic.Bool
		torn atomic.Int64
	)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for !stop.Load() {
				st := m.Snapshot()
				if st.Active && (!st.HasPin || uint64(st.Pinned.X) != st.Activation || st.Pinned.X != st.Pinned.Y) {
					torn.Add(1)
				}
			}
		}()
	}

	var pw sync.WaitGroup
	for i := 0; i < 2; i++ {
		pw.Add(1)
		go func() {
			defer pw.Done()
			for j := 0; j < presses; j++ {
				press(m, keyScroll)
				press(m, keyOther)
			}
		}()
	}
	pw.Wait()
	stop.Store(true)
	wg.Wait()

	if n := torn.Load(); n != 0 {
		t.Fatalf("%d torn snapshots", n)
	}
	st := m.Snapshot()
	if st.Active {
		t.Errorf("even number of presses left Active = true")
	}
	if st.Activation != presses {
		t.Errorf("Activation = %d, want %d", st.Activation, presses)
	}
}

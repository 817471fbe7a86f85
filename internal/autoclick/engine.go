// Package autoclick wires the global key monitor, the toggle state machine
// and the click scheduler into one engine with a small control surface.
package autoclick

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/chaz8081/autoclick/internal/clicker"
	"github.com/chaz8081/autoclick/internal/hotkey"
	"github.com/chaz8081/autoclick/internal/inject"
	"github.com/chaz8081/autoclick/internal/toggle"
)

// Settings are the user-adjustable knobs.
type Settings struct {
	Key       string
	CPS       int
	PinCursor bool
}

// Options configures New.
type Options struct {
	Source   hotkey.Source
	Injector inject.Injector
	Cursor   inject.Cursor
	Settings Settings
	Logger   *slog.Logger
	// QueueSize bounds the hook notification queue; zero uses the default.
	QueueSize int
}

// Engine owns the hook registration and the click loop.
type Engine struct {
	logger  *slog.Logger
	monitor *hotkey.Monitor
	machine *toggle.Machine
	sched   *clicker.Scheduler

	unsubscribe func()
	removeWake  func()

	hotkeyOK atomic.Bool

	mu      sync.Mutex
	started bool
	stopped bool
	cancel  context.CancelFunc
	runDone chan struct{}

	stopOnce sync.Once
	stopErr  error
}

// New builds an idle engine. Nothing touches the OS until Start.
func New(opts Options) (*Engine, error) {
	if opts.Source == nil {
		return nil, errors.New("autoclick: hotkey source is required")
	}
	if opts.Injector == nil || opts.Cursor == nil {
		return nil, errors.New("autoclick: injector and cursor are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	code, err := opts.Source.ParseKey(opts.Settings.Key)
	if err != nil {
		return nil, fmt.Errorf("autoclick: hotkey: %w", err)
	}

	machine := toggle.New(code, opts.Cursor, logger.With("component", "toggle"))
	sched, err := clicker.New(clicker.Config{
		CPS:       opts.Settings.CPS,
		PinCursor: opts.Settings.PinCursor,
	}, machine, opts.Injector, logger.With("component", "clicker"))
	if err != nil {
		return nil, fmt.Errorf("autoclick: %w", err)
	}

	var monOpts []hotkey.Option
	if opts.QueueSize > 0 {
		monOpts = append(monOpts, hotkey.WithQueueSize(opts.QueueSize))
	}
	monitor := hotkey.NewMonitor(opts.Source, logger.With("component", "hotkey"), monOpts...)

	e := &Engine{
		logger:  logger,
		monitor: monitor,
		machine: machine,
		sched:   sched,
	}
	e.unsubscribe = monitor.Subscribe(machine.OnNotification)
	e.removeWake = machine.OnToggle(func(s toggle.Status) {
		if s.Active {
			sched.Wake()
		}
	})
	return e, nil
}

// Start launches the click loop and then installs the keyboard hook. If the
// hook cannot be installed the error is returned as a *hotkey.HookInstallError,
// but the engine keeps running: setters, SetActive and Stop still work.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return hotkey.ErrClosed
	}
	if e.started {
		e.mu.Unlock()
		return hotkey.ErrAlreadyStarted
	}
	e.started = true
	runCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.runDone = make(chan struct{})
	e.mu.Unlock()

	go func() {
		defer close(e.runDone)
		_ = e.sched.Run(runCtx)
	}()

	if err := e.monitor.Start(); err != nil {
		e.logger.Error("global hotkey unavailable, clicking can only be toggled from the app", "err", err)
		return err
	}
	e.hotkeyOK.Store(true)
	return nil
}

// Stop releases the hook and stops the click loop. It is safe to call more
// than once and before Start; only the first call does anything, and Start
// fails with hotkey.ErrClosed afterwards. A teardown failure is logged and
// returned but shutdown always completes.
func (e *Engine) Stop() error {
	e.stopOnce.Do(func() {
		e.mu.Lock()
		e.stopped = true
		e.mu.Unlock()

		e.removeWake()
		e.unsubscribe()

		if err := e.monitor.Stop(); err != nil {
			e.stopErr = err
		}
		e.hotkeyOK.Store(false)

		e.mu.Lock()
		cancel, done := e.cancel, e.runDone
		e.mu.Unlock()
		if cancel != nil {
			cancel()
			<-done
		}
	})
	return e.stopErr
}

// HotkeyAvailable reports whether the global hook is installed.
func (e *Engine) HotkeyAvailable() bool {
	return e.hotkeyOK.Load()
}

// SetHotKey changes the toggle key from the next key press.
func (e *Engine) SetHotKey(code hotkey.KeyCode) {
	e.machine.SetHotKey(code)
	e.logger.Info("hotkey changed", "key", e.monitor.Source().FormatKey(code))
}

// SetHotKeyName resolves name with the hook backend and applies it.
func (e *Engine) SetHotKeyName(name string) error {
	code, err := e.monitor.Source().ParseKey(name)
	if err != nil {
		return fmt.Errorf("autoclick: hotkey: %w", err)
	}
	e.SetHotKey(code)
	return nil
}

// HotKey returns the current toggle key.
func (e *Engine) HotKey() hotkey.KeyCode {
	return e.machine.HotKey()
}

// HotKeyName returns the current toggle key as the backend names it.
func (e *Engine) HotKeyName() string {
	return e.monitor.Source().FormatKey(e.machine.HotKey())
}

// SetRate changes clicks per second from the next scheduled tick.
func (e *Engine) SetRate(cps int) error {
	if err := e.sched.SetRate(cps); err != nil {
		return err
	}
	e.logger.Info("click rate changed", "cps", cps)
	return nil
}

// Rate returns the configured clicks per second.
func (e *Engine) Rate() int {
	return e.sched.Rate()
}

// SetPinCursor turns pin mode on or off.
func (e *Engine) SetPinCursor(pin bool) {
	e.sched.SetPinCursor(pin)
	e.logger.Info("pin mode changed", "pin_cursor", pin)
}

// PinCursor reports whether pin mode is on.
func (e *Engine) PinCursor() bool {
	return e.sched.PinCursor()
}

// Apply changes every setting that differs from the current one. A bad key
// or rate leaves the other settings applied and is returned.
func (e *Engine) Apply(s Settings) error {
	var errs []error
	if s.Key != "" {
		code, err := e.monitor.Source().ParseKey(s.Key)
		if err != nil {
			errs = append(errs, fmt.Errorf("autoclick: hotkey: %w", err))
		} else if code != e.machine.HotKey() {
			e.SetHotKey(code)
		}
	}
	if s.CPS != e.sched.Rate() {
		if err := e.SetRate(s.CPS); err != nil {
			errs = append(errs, err)
		}
	}
	if s.PinCursor != e.sched.PinCursor() {
		e.SetPinCursor(s.PinCursor)
	}
	return errors.Join(errs...)
}

// SetActive switches clicking on or off without the hotkey.
func (e *Engine) SetActive(active bool) {
	e.machine.SetActive(active)
}

// OnToggle registers a listener for the outward "toggled" event.
func (e *Engine) OnToggle(fn func(toggle.Status)) (remove func()) {
	return e.machine.OnToggle(fn)
}

// Snapshot returns the current toggle state.
func (e *Engine) Snapshot() toggle.State {
	return e.machine.Snapshot()
}

// Stats returns scheduler counters.
func (e *Engine) Stats() clicker.Stats {
	return e.sched.Stats()
}

// DroppedNotifications returns how many key-downs were dropped because the
// notification queue was full.
func (e *Engine) DroppedNotifications() uint64 {
	return e.monitor.Dropped()
}

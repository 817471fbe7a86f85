package hotkey

import (
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

const defaultQueueSize = 64

// Option configures a Monitor.
type Option func(*Monitor)

// WithQueueSize sets how many notifications may wait for the dispatcher
// before new key-downs are dropped.
func WithQueueSize(n int) Option {
	return func(m *Monitor) {
		if n > 0 {
			m.queue = make(chan Notification, n)
		}
	}
}

type subscriber struct {
	id uint64
	fn func(Notification)
}

// Monitor owns one Source registration and delivers its key-downs to
// subscribers. The hook callback only enqueues; a dispatcher goroutine
// calls subscribers, so a slow subscriber never stalls the OS hook chain.
type Monitor struct {
	src    Source
	logger *slog.Logger
	queue  chan Notification

	mu      sync.Mutex
	handle  Handle
	started bool
	closed  bool
	subs    []subscriber
	nextID  uint64

	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}

	dropped atomic.Uint64
}

var _ Sink = (*Monitor)(nil)

// NewMonitor creates a Monitor for src. Nothing is registered with the OS
// until Start.
func NewMonitor(src Source, logger *slog.Logger, opts ...Option) *Monitor {
	if src == nil {
		panic("hotkey: NewMonitor called with nil source")
	}
	if logger == nil {
		logger = slog.Default()
	}
	m := &Monitor{
		src:    src,
		logger: logger.With("backend", src.Name()),
		queue:  make(chan Notification, defaultQueueSize),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Source returns the backend this monitor installs.
func (m *Monitor) Source() Source {
	return m.src
}

// Start installs the observation point. Any OS failure is returned as a
// *HookInstallError; the monitor may be started again after one.
func (m *Monitor) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if m.started {
		return ErrAlreadyStarted
	}

	handle, err := m.src.Install(m)
	if err != nil {
		var installErr *HookInstallError
		if errors.As(err, &installErr) {
			return installErr
		}
		return &HookInstallError{Backend: m.src.Name(), Err: err}
	}

	m.handle = handle
	m.started = true
	go m.dispatch()

	m.logger.Debug("keyboard hook installed")
	return nil
}

// Stop releases the hook and stops delivery. Only the first call does
// anything; a release failure is logged and returned as a *TeardownError.
func (m *Monitor) Stop() error {
	var err error
	m.stopOnce.Do(func() {
		err = m.stop()
	})
	return err
}

// Close is Stop, for use with defer and io.Closer-shaped owners.
func (m *Monitor) Close() error {
	return m.Stop()
}

func (m *Monitor) stop() error {
	m.mu.Lock()
	m.closed = true
	handle := m.handle
	m.handle = nil
	started := m.started
	m.mu.Unlock()

	var stopErr error
	if handle != nil {
		if err := handle.Release(); err != nil {
			stopErr = &TeardownError{Backend: m.src.Name(), Err: err}
			m.logger.Warn("keyboard hook release failed", "err", err)
		}
	}

	close(m.stopCh)
	if started {
		<-m.done
	}

	if n := m.dropped.Load(); n > 0 {
		m.logger.Debug("keyboard monitor stopped", "dropped", n)
	}
	return stopErr
}

// Subscribe registers fn for every notification. fn runs on the monitor's
// dispatcher goroutine. The returned func removes the subscription.
func (m *Monitor) Subscribe(fn func(Notification)) (unsubscribe func()) {
	m.mu.Lock()
	m.nextID++
	id := m.nextID
	m.subs = append(m.subs, subscriber{id: id, fn: fn})
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			for i, s := range m.subs {
				if s.id == id {
					m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// KeyDown implements Sink. It never blocks: when the queue is full the
// event is counted as dropped.
func (m *Monitor) KeyDown(code KeyCode) {
	select {
	case m.queue <- Notification{Code: code}:
	default:
		m.dropped.Add(1)
	}
}

// Dropped returns the number of key-downs discarded on a full queue.
func (m *Monitor) Dropped() uint64 {
	return m.dropped.Load()
}

func (m *Monitor) dispatch() {
	defer close(m.done)

	var reported uint64
	for {
		select {
		case <-m.stopCh:
			return
		case n := <-m.queue:
			m.deliver(n)
		}

		if d := m.dropped.Load(); d != reported {
			m.logger.Warn("keyboard notifications dropped", "total", d)
			reported = d
		}
	}
}

func (m *Monitor) deliver(n Notification) {
	m.mu.Lock()
	subs := make([]subscriber, len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	for _, s := range subs {
		m.call(s, n)
	}
}

func (m *Monitor) call(s subscriber, n Notification) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("hotkey subscriber panicked",
				"code", n.Code,
				"panic", r,
				"stack", string(debug.Stack()),
			)
		}
	}()
	s.fn(n)
}

// Package clicker drives the periodic click loop. Each tick reads the
// toggle state once and, if active, injects one left click.
package clicker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chaz8081/autoclick/internal/inject"
	"github.com/chaz8081/autoclick/internal/toggle"
)

// Rate bounds in clicks per second.
const (
	MinRate = 1
	MaxRate = 1000
)

// ErrInvalidRate is returned for rates outside MinRate..MaxRate.
var ErrInvalidRate = errors.New("clicker: invalid click rate")

// Interval returns the tick period for cps clicks per second:
// 1000/cps milliseconds with integer division, so 60 cps ticks every 16ms.
func Interval(cps int) (time.Duration, error) {
	if cps < MinRate || cps > MaxRate {
		return 0, fmt.Errorf("%w: %d (want %d..%d)", ErrInvalidRate, cps, MinRate, MaxRate)
	}
	return time.Duration(1000/cps) * time.Millisecond, nil
}

// StateReader is satisfied by *toggle.Machine.
type StateReader interface {
	Snapshot() toggle.State
}

// Config is the initial scheduler configuration.
type Config struct {
	CPS       int
	PinCursor bool
}

// Stats counts what the scheduler has done since it was created.
type Stats struct {
	Clicks   uint64
	Failures uint64
}

// Scheduler ticks on its own goroutine. Ticks are serialized: the next one
// is armed only after the current click returns, and a late tick is never
// followed by a burst of catch-up clicks.
type Scheduler struct {
	state  StateReader
	inj    inject.Injector
	logger *slog.Logger

	mu        sync.Mutex
	interval  time.Duration
	cps       int
	pinCursor bool

	wakeCh chan struct{}

	clicks   atomic.Uint64
	failures atomic.Uint64
}

// New validates cfg and returns an idle scheduler. Call Run to start it.
func New(cfg Config, state StateReader, inj inject.Injector, logger *slog.Logger) (*Scheduler, error) {
	if state == nil || inj == nil {
		return nil, errors.New("clicker: state and injector are required")
	}
	interval, err := Interval(cfg.CPS)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		state:     state,
		inj:       inj,
		logger:    logger,
		interval:  interval,
		cps:       cfg.CPS,
		pinCursor: cfg.PinCursor,
		wakeCh:    make(chan struct{}, 1),
	}, nil
}

// SetRate changes the click rate. The current period finishes at the old
// rate; the new interval is used from the next scheduled tick.
func (s *Scheduler) SetRate(cps int) error {
	interval, err := Interval(cps)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.cps = cps
	s.interval = interval
	s.mu.Unlock()
	s.logger.Debug("click rate changed", "cps", cps, "interval", interval)
	return nil
}

// Rate returns the configured clicks per second.
func (s *Scheduler) Rate() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cps
}

// SetPinCursor selects between clicking at the pinned position and at the
// live cursor. It applies from the next tick.
func (s *Scheduler) SetPinCursor(pin bool) {
	s.mu.Lock()
	s.pinCursor = pin
	s.mu.Unlock()
}

// PinCursor reports whether pin mode is on.
func (s *Scheduler) PinCursor() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pinCursor
}

// Stats returns click and failure counters.
func (s *Scheduler) Stats() Stats {
	return Stats{Clicks: s.clicks.Load(), Failures: s.failures.Load()}
}

// Wake restarts the current period so the first click after an activation
// lands one full interval later instead of at an arbitrary phase.
func (s *Scheduler) Wake() {
	select {
	case s.wakeCh <- struct{}{}:
	default:
	}
}

// Tick performs one scheduling step and reports whether a click was
// attempted. Injection failures are logged and counted, never returned.
func (s *Scheduler) Tick() bool {
	st := s.state.Snapshot()
	if !st.Active {
		return false
	}

	s.mu.Lock()
	pin := s.pinCursor
	s.mu.Unlock()

	var err error
	if pin && st.HasPin {
		err = s.inj.ClickAt(st.Pinned)
	} else {
		err = s.inj.ClickAtCursor()
	}
	if err != nil {
		s.failures.Add(1)
		s.logger.Warn("click skipped", "err", err)
		return true
	}
	s.clicks.Add(1)
	return true
}

func (s *Scheduler) currentInterval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// Run ticks until ctx is cancelled and returns ctx.Err().
func (s *Scheduler) Run(ctx context.Context) error {
	timer := time.NewTimer(s.currentInterval())
	defer timer.Stop()

	s.logger.Debug("scheduler started", "cps", s.Rate())
	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("scheduler stopped", "clicks", s.clicks.Load(), "failures", s.failures.Load())
			return ctx.Err()
		case <-s.wakeCh:
			timer.Reset(s.currentInterval())
		case <-timer.C:
			s.Tick()
			timer.Reset(s.currentInterval())
		}
	}
}

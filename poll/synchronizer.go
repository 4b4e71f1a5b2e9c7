// Package poll keeps mutable server-side state (cart badge, order status,
// notification feed) in sync without a push channel. Each resource gets its
// own synchronizer: a small state machine that re-fetches on a fixed
// interval, guarantees at most one outstanding fetch at a time, and stops
// cleanly on session end, consumer teardown, or a terminal resource state.
package poll

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// State is the synchronizer's lifecycle state.
type State int

const (
	// StateIdle — the gate is closed (typically: no active session); ticks
	// elapse without fetching.
	StateIdle State = iota
	// StatePolling — fixed-interval re-fetching is active.
	StatePolling
	// StateStopped — terminal. Entered on Stop, context cancellation, or a
	// terminal fetch result; never left.
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePolling:
		return "polling"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// FetchFunc performs one poll tick. Returning terminal=true stops the
// synchronizer permanently. An error is logged and the loop keeps going —
// a stale last-known value beats an empty one.
type FetchFunc func(ctx context.Context) (terminal bool, err error)

// Synchronizer drives one resource's polling loop.
type Synchronizer struct {
	name     string
	interval time.Duration
	gate     func() bool
	fetch    FetchFunc
	log      zerolog.Logger

	lock     sync.Mutex
	state    State
	inFlight bool

	stopOnce sync.Once
	stop     chan struct{}
}

// SynchronizerOption defines a function type to modify the Synchronizer.
type SynchronizerOption func(*Synchronizer)

// WithLogger sets the synchronizer logger.
func WithLogger(log zerolog.Logger) SynchronizerOption {
	return func(s *Synchronizer) {
		s.log = log
	}
}

// WithGate sets the activity gate. While the gate returns false the
// synchronizer sits in StateIdle and skips fetching.
func WithGate(gate func() bool) SynchronizerOption {
	return func(s *Synchronizer) {
		s.gate = gate
	}
}

// NewSynchronizer creates a synchronizer for one resource.
func NewSynchronizer(name string, interval time.Duration, fetch FetchFunc, options ...SynchronizerOption) *Synchronizer {
	s := &Synchronizer{
		name:     name,
		interval: interval,
		fetch:    fetch,
		log:      zerolog.Nop(),
		stop:     make(chan struct{}),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Run drives the loop until the context is cancelled, Stop is called, or a
// fetch reports a terminal state. The first tick fires immediately so a
// freshly mounted consumer is not a full interval behind.
func (s *Synchronizer) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer s.enterStopped()

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
			s.tick(ctx)
			if s.State() == StateStopped {
				return
			}
		}
	}
}

// Stop ends polling permanently. Idempotent; must be called on consumer
// teardown so no background timer outlives its view.
func (s *Synchronizer) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// State returns the current lifecycle state.
func (s *Synchronizer) State() State {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.state
}

// tick runs one interval's worth of work. The fetch itself runs in its own
// goroutine guarded by the in-flight flag: a tick that elapses while the
// previous fetch is still outstanding is skipped, never queued.
func (s *Synchronizer) tick(ctx context.Context) {
	if s.gate != nil && !s.gate() {
		s.transition(StateIdle)
		return
	}
	if !s.transition(StatePolling) {
		return
	}

	s.lock.Lock()
	if s.inFlight {
		s.lock.Unlock()
		s.log.Debug().Str("resource", s.name).Msg("previous fetch still outstanding, skipping tick")
		return
	}
	s.inFlight = true
	s.lock.Unlock()

	go func() {
		defer func() {
			s.lock.Lock()
			s.inFlight = false
			s.lock.Unlock()
		}()

		terminal, err := s.fetch(ctx)
		if err != nil {
			// Keep the last known value; the next tick tries again.
			s.log.Warn().Str("resource", s.name).Err(err).Msg("poll tick failed")
			return
		}
		if terminal {
			s.log.Debug().Str("resource", s.name).Msg("terminal state observed, stopping")
			s.Stop()
		}
	}()
}

// transition moves to the requested state unless already stopped. Reports
// whether the synchronizer is still live.
func (s *Synchronizer) transition(to State) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.state == StateStopped {
		return false
	}
	s.state = to
	return true
}

func (s *Synchronizer) enterStopped() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.state = StateStopped
}

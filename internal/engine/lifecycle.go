package engine

import (
	"context"
	"sync"

	"github.com/xzdarcy/rete/internal/ctxlog"
)

// State is the lifecycle state of an Engine.
type State int32

const (
	// StateIdle accepts a new run.
	StateIdle State = iota
	// StateRunning has a run in flight.
	StateRunning
	// StateAborting has a run in flight that must not dispatch new nodes.
	StateAborting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateAborting:
		return "aborting"
	default:
		return "unknown"
	}
}

// lifecycle is the Idle -> Running -> {Idle, Aborting -> Idle} state machine
// guarding an engine's single run slot.
type lifecycle struct {
	mu    sync.Mutex
	state State
	// gen identifies the admitted run so stale abort requests are ignored.
	gen uint64
	// settled is closed when the current run finishes. Every Abort caller
	// waits on it.
	settled chan struct{}
}

func newLifecycle() *lifecycle {
	return &lifecycle{state: StateIdle}
}

// start admits a run. It only succeeds from Idle.
func (l *lifecycle) start(ctx context.Context) (uint64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case StateIdle:
		l.state = StateRunning
		l.gen++
		l.settled = make(chan struct{})
		return l.gen, true
	case StateRunning:
		ctxlog.FromContext(ctx).Warn("Engine is busy, call Abort before starting a new run.")
		return 0, false
	default:
		ctxlog.FromContext(ctx).Debug("Engine is aborting, run rejected.")
		return 0, false
	}
}

// finish ends the current run and reports whether it completed without an
// abort. Every pending Abort caller is released.
func (l *lifecycle) finish() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	success := l.state != StateAborting
	l.state = StateIdle
	if l.settled != nil {
		close(l.settled)
		l.settled = nil
	}
	return success
}

// requestAbort moves run gen from Running to Aborting without waiting. It
// reports whether this call made the transition.
func (l *lifecycle) requestAbort(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.gen != gen || l.state != StateRunning {
		return false
	}
	l.state = StateAborting
	return true
}

// abort aborts whatever run is in flight and waits until it has settled or
// ctx is done. It returns immediately when the engine is idle.
func (l *lifecycle) abort(ctx context.Context) error {
	l.mu.Lock()
	switch l.state {
	case StateIdle:
		l.mu.Unlock()
		return nil
	case StateRunning:
		l.state = StateAborting
	}
	settled := l.settled
	l.mu.Unlock()

	select {
	case <-settled:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *lifecycle) current() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *lifecycle) aborting() bool {
	return l.current() == StateAborting
}

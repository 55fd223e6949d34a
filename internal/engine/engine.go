package engine

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/xzdarcy/rete/internal/ctxlog"
	"github.com/xzdarcy/rete/internal/eventbus"
	"github.com/xzdarcy/rete/internal/registry"
	"github.com/xzdarcy/rete/internal/validate"
)

const tracerName = "github.com/xzdarcy/rete/internal/engine"

// Engine runs graphs for one scope. An Engine admits a single run at a time;
// use Clone for independent concurrent runs.
type Engine struct {
	scopeID   string
	registry  *registry.Registry
	validator validate.Validator
	emitter   eventbus.Emitter
	policy    InputPolicy
	tracer    trace.Tracer

	lc *lifecycle
}

// Option configures an Engine.
type Option func(*Engine)

// WithValidator replaces the default schema validator.
func WithValidator(v validate.Validator) Option {
	return func(e *Engine) {
		if v != nil {
			e.validator = v
		}
	}
}

// WithEmitter sets where error and warn events are delivered.
func WithEmitter(em eventbus.Emitter) Option {
	return func(e *Engine) {
		if em != nil {
			e.emitter = em
		}
	}
}

// WithInputPolicy sets how nodes with unresolved upstream values are handled.
func WithInputPolicy(p InputPolicy) Option {
	return func(e *Engine) { e.policy = p }
}

// WithTracer sets the tracer used for run and component spans.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) {
		if t != nil {
			e.tracer = t
		}
	}
}

// New creates an Engine for scopeID resolving components from reg.
//
// By default graphs are checked with validate.Schema against reg, events are
// written to the context logger, and the BestEffort input policy applies.
func New(scopeID string, reg *registry.Registry, opts ...Option) *Engine {
	if reg == nil {
		reg = registry.New()
	}
	e := &Engine{
		scopeID:   scopeID,
		registry:  reg,
		validator: validate.Schema{Registry: reg},
		emitter:   eventbus.LogEmitter{},
		policy:    BestEffort,
		tracer:    otel.Tracer(tracerName),
		lc:        newLifecycle(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Clone returns an Engine sharing the scope, registry and options of e with
// its own idle lifecycle.
func (e *Engine) Clone() *Engine {
	cp := *e
	cp.lc = newLifecycle()
	return &cp
}

// ScopeID returns the scope id graphs must carry.
func (e *Engine) ScopeID() string { return e.scopeID }

// Registry returns the component registry.
func (e *Engine) Registry() *registry.Registry { return e.registry }

// State returns the current lifecycle state.
func (e *Engine) State() State { return e.lc.current() }

// Abort stops the run in flight from dispatching new nodes and waits until it
// has finished, or until ctx is done. It returns nil at once when the engine
// is idle. Concurrent callers are all released when the run finishes.
func (e *Engine) Abort(ctx context.Context) error {
	return e.lc.abort(ctx)
}

// emit forwards an event to the emitter. A panicking emitter is logged and
// otherwise ignored.
func (e *Engine) emit(ctx context.Context, name string, payload any) {
	defer func() {
		if p := recover(); p != nil {
			ctxlog.FromContext(ctx).Error("Event emitter panicked.", "event", name, "panic", p)
		}
	}()
	e.emitter.Emit(ctx, name, payload)
}

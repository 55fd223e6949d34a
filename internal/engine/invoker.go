package engine

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/xzdarcy/rete/internal/ctxlog"
	"github.com/xzdarcy/rete/internal/eventbus"
	"github.com/xzdarcy/rete/internal/graph"
	"github.com/xzdarcy/rete/internal/registry"
)

// resolveNode returns the settled slot of n, computing it if no other
// goroutine has claimed it. It returns nil when n is nil or the run is
// aborting.
func (r *run) resolveNode(ctx context.Context, n *graph.Node) *slot {
	if n == nil || r.aborting() {
		return nil
	}
	s, claimed := r.gate.claim(n.ID)
	if claimed {
		outputs, err := r.runWorker(ctx, n)
		s.settle(outputs, err)
	}
	return s
}

// runWorker gathers the inputs of n and invokes its component. The outputs
// container is returned as the component left it, even on failure.
func (r *run) runWorker(ctx context.Context, n *graph.Node) (registry.Outputs, error) {
	logger := ctxlog.FromContext(ctx).With("nodeID", n.ID, "component", n.Name)

	inputs, missing := r.resolveInputs(ctx, n)
	outputs := registry.Outputs{}

	if missing && r.engine.policy == Strict {
		logger.Debug("Skipping node with unresolved inputs.")
		return outputs, fmt.Errorf("node '%s': %w", n.ID, ErrMissingInput)
	}

	logger.Debug("Executing node.")
	if err := r.invoke(ctx, n, inputs, outputs); err != nil {
		r.fail(ctx, n, err)
		return outputs, err
	}
	logger.Debug("Node finished.")
	return outputs, nil
}

// invoke calls the component of n inside a span. Panics are recovered into a
// *PanicError.
func (r *run) invoke(ctx context.Context, n *graph.Node, inputs registry.Inputs, outputs registry.Outputs) (err error) {
	c, ok := r.engine.registry.Lookup(n.Name)
	if !ok {
		return fmt.Errorf("node '%s': %w '%s'", n.ID, ErrUnknownComponent, n.Name)
	}

	ctx, span := r.engine.tracer.Start(ctx, "compute "+n.Name, trace.WithAttributes(
		attribute.String("rete.run_id", r.id),
		attribute.String("rete.node_id", n.ID),
		attribute.String("rete.component", n.Name),
	))
	defer func() {
		if p := recover(); p != nil {
			err = &PanicError{NodeID: n.ID, Value: p, Stack: debug.Stack()}
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	return c.Compute(ctx, n, inputs, outputs, r.args...)
}

// fail aborts the run and emits a warn event carrying the raw error. The
// event carries the node attributes in its context logger.
func (r *run) fail(ctx context.Context, n *graph.Node, err error) {
	r.lc.requestAbort(r.gen)
	ctx, _ = ctxlog.With(ctx, "nodeID", n.ID, "component", n.Name)
	r.engine.emit(ctx, eventbus.EventWarn, err)
}

// resolveInputs pulls every upstream value of n concurrently. Values keep
// connection order within each input socket. missing reports whether any
// upstream node could not be resolved or settled with an error. A failed
// upstream still contributes whatever outputs it left behind.
func (r *run) resolveInputs(ctx context.Context, n *graph.Node) (inputs registry.Inputs, missing bool) {
	inputs = make(registry.Inputs, len(n.Inputs))

	var (
		g      errgroup.Group
		absent atomic.Bool
	)
	for _, key := range graph.SortedKeys(n.Inputs) {
		in := n.Inputs[key]
		if in == nil {
			inputs[key] = []any{}
			continue
		}
		values := make([]any, len(in.Connections))
		inputs[key] = values
		for i, conn := range in.Connections {
			g.Go(func() error {
				up, _ := r.graph.Node(conn.Node)
				s := r.resolveNode(ctx, up)
				if s == nil {
					absent.Store(true)
					r.lc.requestAbort(r.gen)
					return nil
				}
				out, err := s.wait()
				if err != nil {
					absent.Store(true)
				}
				values[i] = out[conn.Output]
				return nil
			})
		}
	}
	_ = g.Wait()

	return inputs, absent.Load()
}

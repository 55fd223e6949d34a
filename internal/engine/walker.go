package engine

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/xzdarcy/rete/internal/ctxlog"
	"github.com/xzdarcy/rete/internal/eventbus"
	"github.com/xzdarcy/rete/internal/graph"
	"github.com/xzdarcy/rete/internal/registry"
)

// run holds the state of one admitted run.
type run struct {
	id     string
	gen    uint64
	engine *Engine
	lc     *lifecycle
	graph  *graph.Graph
	args   []any
	gate   *gate

	// forwarded marks nodes whose downstream connections were already walked.
	forwarded sync.Map
}

func (r *run) aborting() bool {
	return r.lc.aborting()
}

// Run executes g starting from startID and then every node not reached from
// it. An empty startID skips straight to the sweep. extra args are passed to
// every component.
//
// Run returns nil when the engine is busy or aborting. Otherwise the report
// outcome is "error" when the graph was rejected, "aborted" when the run was
// aborted, and "success" otherwise. Cancelling ctx aborts the run. A panic
// raised while walking is recovered, ends the run and yields "error".
func (e *Engine) Run(ctx context.Context, g *graph.Graph, startID string, args ...any) (report *Report) {
	gen, ok := e.lc.start(ctx)
	if !ok {
		return nil
	}

	runID := uuid.NewString()
	ctx, logger := ctxlog.With(ctx, "runID", runID)
	ctx, span := e.tracer.Start(ctx, "run", trace.WithAttributes(
		attribute.String("rete.run_id", runID),
		attribute.String("rete.scope", e.scopeID),
		attribute.String("rete.start_node", startID),
	))
	defer span.End()

	report = &Report{
		RunID:    runID,
		Results:  map[string]registry.Outputs{},
		Failures: map[string]error{},
	}

	var r *run
	defer func() {
		if p := recover(); p != nil {
			logger.Error("Run panicked.", "panic", p, "stack", string(debug.Stack()))
			span.SetStatus(codes.Error, fmt.Sprint(p))
			report.Outcome = OutcomeError
		}
		if r != nil {
			r.collect(report)
		}
		completed := e.lc.finish()
		if report.Outcome == "" {
			report.Outcome = OutcomeAborted
			if completed {
				report.Outcome = OutcomeSuccess
			}
		}
		span.SetAttributes(attribute.String("rete.outcome", string(report.Outcome)))
		logger.Info("Run finished.", "outcome", report.Outcome, "executed", len(report.Results), "failed", len(report.Failures))
	}()

	stop := context.AfterFunc(ctx, func() {
		if e.lc.requestAbort(gen) {
			logger.Warn("Context done, aborting run.")
		}
	})
	defer stop()
	if ctx.Err() != nil {
		e.lc.requestAbort(gen)
	}

	if payload, ok := e.check(g); !ok {
		e.emit(ctx, eventbus.EventError, payload)
		report.Outcome = OutcomeError
		return report
	}

	r = &run{
		id:     runID,
		gen:    gen,
		engine: e,
		lc:     e.lc,
		graph:  g.Copy(),
		args:   args,
		gate:   newGate(),
	}

	logger.Info("Run started.", "nodes", len(r.graph.Nodes), "startNode", startID)

	if !r.runFromStart(ctx, startID) {
		report.Outcome = OutcomeError
		return report
	}
	r.sweepUnreached(ctx)
	return report
}

// check validates g and rejects nil and cyclic graphs.
func (e *Engine) check(g *graph.Graph) (eventbus.ErrorPayload, bool) {
	if g == nil {
		return eventbus.ErrorPayload{Message: MsgNotSuitable}, false
	}
	if res := e.validator.Validate(e.scopeID, g); !res.Success {
		return eventbus.ErrorPayload{Message: res.Message}, false
	}
	var cycleErr *graph.CycleError
	if err := g.DetectCycles(); errors.As(err, &cycleErr) {
		return eventbus.ErrorPayload{Message: MsgRecursion, Data: cycleErr.NodeID}, false
	}
	return eventbus.ErrorPayload{}, true
}

// runFromStart resolves the start node and propagates forward from it. It
// returns false when the start node does not exist.
func (r *run) runFromStart(ctx context.Context, startID string) bool {
	if startID == "" {
		return true
	}
	n, ok := r.graph.Node(startID)
	if !ok {
		r.lc.requestAbort(r.gen)
		r.engine.emit(ctx, eventbus.EventError, eventbus.ErrorPayload{Message: MsgNodeNotFound, Data: startID})
		return false
	}
	r.resolveAndForward(ctx, n)
	return true
}

// sweepUnreached runs every node without a slot, in ascending id order.
func (r *run) sweepUnreached(ctx context.Context) {
	for _, id := range r.graph.SortedIDs() {
		if r.aborting() {
			return
		}
		if r.gate.peek(id) {
			continue
		}
		n, _ := r.graph.Node(id)
		ctxlog.FromContext(ctx).Debug("Sweeping unreached node.", "nodeID", id)
		r.resolveAndForward(ctx, n)
	}
}

func (r *run) resolveAndForward(ctx context.Context, n *graph.Node) {
	s := r.resolveNode(ctx, n)
	if s == nil {
		return
	}
	s.wait()
	r.forwardPropagate(ctx, n)
}

// forwardPropagate resolves every downstream node of n concurrently and
// recurses forward from each. Each node is walked forward at most once per
// run.
func (r *run) forwardPropagate(ctx context.Context, n *graph.Node) {
	if n == nil || r.aborting() {
		return
	}
	if _, walked := r.forwarded.LoadOrStore(n.ID, struct{}{}); walked {
		return
	}

	var g errgroup.Group
	for _, key := range graph.SortedKeys(n.Outputs) {
		out := n.Outputs[key]
		if out == nil {
			continue
		}
		for _, conn := range out.Connections {
			g.Go(func() error {
				down, _ := r.graph.Node(conn.Node)
				r.resolveAndForward(ctx, down)
				return nil
			})
		}
	}
	_ = g.Wait()
}

// collect copies every settled slot into report.
func (r *run) collect(report *Report) {
	for id, s := range r.gate.snapshot() {
		if !s.isSettled() {
			continue
		}
		report.Results[id] = s.outputs
		if s.err != nil {
			report.Failures[id] = s.err
		}
	}
}

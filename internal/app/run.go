package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/xzdarcy/rete/internal/ctxlog"
	"github.com/xzdarcy/rete/internal/engine"
	"github.com/xzdarcy/rete/internal/eventbus"
	"github.com/xzdarcy/rete/internal/graph"
)

var (
	// ErrRunRejected is returned when validation, cycle detection or the
	// start node lookup rejected the graph.
	ErrRunRejected = errors.New("graph was rejected")
	// ErrRunAborted is returned when the run was aborted.
	ErrRunAborted = errors.New("run was aborted")
	// ErrEngineBusy is returned when the engine did not admit the run.
	ErrEngineBusy = errors.New("engine is busy")
)

// Run executes the loaded graph once. Cancelling ctx aborts the run.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")
	defer a.close()

	emitters := eventbus.Multi{eventbus.LogEmitter{}, a.bus}
	if a.config.EventsURL != "" {
		sio, err := eventbus.DialSocketIO(ctx, eventbus.SocketIOConfig{URL: a.config.EventsURL})
		if err != nil {
			return fmt.Errorf("failed to connect to events server: %w", err)
		}
		a.closers = append(a.closers, sio.Close)
		emitters = append(emitters, sio)
	}

	eng := engine.New(a.scopeID(), a.registry,
		engine.WithEmitter(emitters),
		engine.WithInputPolicy(a.policy),
	)
	a.mu.Lock()
	a.engine = eng
	a.mu.Unlock()

	if a.config.HealthcheckPort > 0 {
		a.startHealthcheckServer(a.config.HealthcheckPort)
	}

	args := make([]any, len(a.config.Args))
	for i, v := range a.config.Args {
		args[i] = v
	}

	a.logger.Info("🚀 Starting run.", "scope", eng.ScopeID(), "startNode", a.config.StartNode, "nodes", len(a.graph.Nodes), "inputPolicy", a.policy)
	report := eng.Run(ctx, a.graph, a.config.StartNode, args...)
	if report == nil {
		return ErrEngineBusy
	}

	a.mu.Lock()
	a.lastReport = report
	a.mu.Unlock()

	switch report.Outcome {
	case engine.OutcomeSuccess:
		a.logger.Info("🏁 Execution finished.", "runID", report.RunID, "executed", len(report.Results))
		return nil
	case engine.OutcomeAborted:
		return fmt.Errorf("%w (run %s)%s", ErrRunAborted, report.RunID, failureSummary(report))
	default:
		return fmt.Errorf("%w (run %s)", ErrRunRejected, report.RunID)
	}
}

// failureSummary lists node failures in id order.
func failureSummary(r *engine.Report) string {
	if len(r.Failures) == 0 {
		return ""
	}
	s := ":"
	for _, id := range graph.SortedKeys(r.Failures) {
		s += fmt.Sprintf("\n- node '%s': %v", id, r.Failures[id])
	}
	return s
}

// close shuts down the healthcheck server and every registered closer.
func (a *App) close() {
	if err := a.closeHealthCheckServer(); err != nil {
		a.logger.Error("Failed to close health check server.", "error", err)
	}
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Warn("Failed to release resource.", "error", err)
		}
	}
	a.closers = nil
	a.logger.Debug("App.Run method finished.")
}

package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/xzdarcy/rete/internal/engine"
	"github.com/xzdarcy/rete/internal/graph"
)

// stateResponse is the body of GET /state.
type stateResponse struct {
	State   string         `json:"state"`
	Scope   string         `json:"scope"`
	Nodes   int            `json:"nodes"`
	Events  map[string]int `json:"events"`
	LastRun *lastRun       `json:"last_run,omitempty"`
}

type lastRun struct {
	ID       string   `json:"id"`
	Outcome  string   `json:"outcome"`
	Executed int      `json:"executed"`
	Failed   []string `json:"failed,omitempty"`
}

// healthHandler answers liveness probes.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// stateHandler reports the engine lifecycle state and the last run.
func (a *App) stateHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("State endpoint hit.", "remote_addr", r.RemoteAddr)

	a.mu.Lock()
	resp := stateResponse{
		State:  engine.StateIdle.String(),
		Scope:  a.scopeID(),
		Nodes:  len(a.graph.Nodes),
		Events: make(map[string]int, len(a.events)),
	}
	for k, v := range a.events {
		resp.Events[k] = v
	}
	if a.engine != nil {
		resp.State = a.engine.State().String()
	}
	if rep := a.lastReport; rep != nil {
		lr := &lastRun{ID: rep.RunID, Outcome: string(rep.Outcome), Executed: len(rep.Results)}
		lr.Failed = graph.SortedKeys(rep.Failures)
		resp.LastRun = lr
	}
	a.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		a.logger.Warn("Failed to write state response.", "error", err)
	}
}

func (a *App) healthMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", a.healthHandler)
	mux.HandleFunc("GET /state", a.stateHandler)
	return mux
}

// startHealthcheckServer runs the health check HTTP server in the background.
func (a *App) startHealthcheckServer(port int) {
	a.logger.Debug("Configuring health check server.")

	addr := fmt.Sprintf(":%d", port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		a.logger.Error("Health check server failed to listen.", "address", addr, "error", err)
		return
	}

	a.httpServer = &http.Server{
		Handler:           a.healthMux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		a.logger.Info("🩺 Health check server starting.", "address", fmt.Sprintf("http://localhost%s/health", addr))
		if err := a.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("Health check server failed unexpectedly.", "error", err)
		}
	}()
}

func (a *App) closeHealthCheckServer() error {
	if a.httpServer == nil {
		a.logger.Debug("Health check server was not running.")
		return nil
	}

	ctx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()

	a.logger.Info("🩺 Shutting down health check server.")
	err := a.httpServer.Shutdown(ctx)
	a.httpServer = nil
	return err
}

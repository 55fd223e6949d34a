package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/xzdarcy/rete/internal/ctxlog"
	"github.com/xzdarcy/rete/internal/engine"
	"github.com/xzdarcy/rete/internal/eventbus"
	"github.com/xzdarcy/rete/internal/graph"
	"github.com/xzdarcy/rete/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	ctx      context.Context
	config   *Config
	registry *registry.Registry
	graph    *graph.Graph
	bus      *eventbus.Bus
	policy   engine.InputPolicy

	engine     *engine.Engine
	httpServer *http.Server
	closers    []func() error

	mu         sync.Mutex
	lastReport *engine.Report
	events     map[string]int
}

// NewApp is the constructor for the main application. It loads the graph and
// builds the registry. It panics on startup errors; the entrypoint recovers
// them into a clean error.
func NewApp(outW io.Writer, cfg *Config, modules ...registry.Module) *App {
	logger := cfg.logger(outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	g, err := LoadGraph(ctx, cfg.GraphPaths...)
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Graph loaded.", "graph_id", g.ID, "nodes", len(g.Nodes))

	if len(modules) == 0 {
		modules = coreModules()
	}
	reg := registry.New(modules...)
	logger.Debug("All Go modules registered.", "count", len(modules), "components", reg.Names())

	if err := reg.ValidateGraph(ctx, g); err != nil {
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	policy, err := engine.ParseInputPolicy(cfg.InputPolicy)
	if err != nil {
		panic(err)
	}

	a := &App{
		outW:     outW,
		logger:   logger,
		ctx:      ctx,
		config:   cfg,
		registry: reg,
		graph:    g,
		bus:      eventbus.NewBus(),
		policy:   policy,
		events:   make(map[string]int),
	}
	for _, name := range []string{eventbus.EventError, eventbus.EventWarn} {
		a.bus.Subscribe(name, func(context.Context, any) {
			a.mu.Lock()
			defer a.mu.Unlock()
			a.events[name]++
		})
	}
	return a
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Bus returns the in-process event bus every engine event is published on.
func (a *App) Bus() *eventbus.Bus {
	return a.bus
}

// LastReport returns the report of the most recent run, or nil.
func (a *App) LastReport() *engine.Report {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastReport
}

// scopeID is the configured scope, or the graph's own id.
func (a *App) scopeID() string {
	if a.config.ScopeID != "" {
		return a.config.ScopeID
	}
	return a.graph.ID
}

// Package env_vars provides the "env_vars" component, which exposes the
// process environment.
package env_vars

import (
	"context"
	"os"
	"strings"

	"github.com/xzdarcy/rete/internal/graph"
	"github.com/xzdarcy/rete/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	// Environ returns "KEY=value" pairs. Defaults to os.Environ.
	Environ func() []string
}

// Config is read from the node's data.
type Config struct {
	// Names, when set, also emits each listed variable as its own output.
	Names []string `rete:"names"`
}

// Compute writes the whole environment to output "all" and every listed name
// to an output of that name.
func (m *Module) Compute(_ context.Context, node *graph.Node, _ registry.Inputs, outputs registry.Outputs, _ ...any) error {
	var cfg Config
	if err := registry.DecodeData(node, &cfg); err != nil {
		return err
	}

	environ := m.Environ
	if environ == nil {
		environ = os.Environ
	}
	envMap := make(map[string]any)
	for _, e := range environ() {
		if k, v, ok := strings.Cut(e, "="); ok {
			envMap[k] = v
		}
	}

	outputs["all"] = envMap
	for _, name := range cfg.Names {
		outputs[name] = envMap[name]
	}
	return nil
}

// Register registers the component with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register("env_vars", m)
}

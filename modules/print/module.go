// Package print provides the "print" component, which writes its inputs to
// an output stream.
package print

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/xzdarcy/rete/internal/ctxlog"
	"github.com/xzdarcy/rete/internal/graph"
	"github.com/xzdarcy/rete/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	// Out receives the printed lines. Defaults to os.Stdout.
	Out io.Writer

	mu sync.Mutex
}

// Config is read from the node's data.
type Config struct {
	Label string `rete:"label"`
}

// Compute prints every input value as "label.input[i] = value" and passes the
// first value of input "value" through to output "value".
func (m *Module) Compute(ctx context.Context, node *graph.Node, inputs registry.Inputs, outputs registry.Outputs, _ ...any) error {
	var cfg Config
	if err := registry.DecodeData(node, &cfg); err != nil {
		return err
	}
	if cfg.Label == "" {
		cfg.Label = node.ID
	}
	ctxlog.FromContext(ctx).Info("Printing input.", "nodeID", node.ID, "inputs", len(inputs))

	out := m.Out
	if out == nil {
		out = os.Stdout
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(inputs) == 0 {
		fmt.Fprintf(out, "%s: (no inputs)\n", cfg.Label)
	}
	for _, key := range graph.SortedKeys(inputs) {
		for i, v := range inputs[key] {
			if v == nil {
				fmt.Fprintf(out, "%s.%s[%d] = (null)\n", cfg.Label, key, i)
				continue
			}
			fmt.Fprintf(out, "%s.%s[%d] = %v\n", cfg.Label, key, i, v)
		}
	}

	outputs["value"] = inputs.First("value")
	return nil
}

// Register registers the component with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register("print", m)
}

// Package value provides the "value" component, a source node that emits its
// static data.
package value

import (
	"context"
	"maps"

	"github.com/xzdarcy/rete/internal/graph"
	"github.com/xzdarcy/rete/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Compute copies every data entry of the node to the output of the same name.
// Inputs named like a data entry override it.
func (Module) Compute(_ context.Context, node *graph.Node, inputs registry.Inputs, outputs registry.Outputs, _ ...any) error {
	maps.Copy(outputs, node.Data)
	for key, vals := range inputs {
		if len(vals) > 0 && vals[0] != nil {
			outputs[key] = vals[0]
		}
	}
	return nil
}

// Register registers the component with the registry.
func (m Module) Register(r *registry.Registry) {
	r.Register("value", m)
}

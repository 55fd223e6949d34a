package registry

import (
	"context"

	"github.com/xzdarcy/rete/internal/graph"
)

// Inputs holds the resolved values of a node's input sockets. Each socket maps
// to one value per connection, in connection order. A value is nil when its
// upstream could not be resolved.
type Inputs map[string][]any

// First returns the first value of the given socket, or nil.
func (in Inputs) First(key string) any {
	if vals := in[key]; len(vals) > 0 {
		return vals[0]
	}
	return nil
}

// Outputs is the container a component fills with its output socket values.
type Outputs map[string]any

// Component is the computation a node's name resolves to. Compute populates
// outputs from the node, its resolved inputs and the run's extra arguments.
// Values written to outputs before a failure are kept.
type Component interface {
	Compute(ctx context.Context, node *graph.Node, inputs Inputs, outputs Outputs, args ...any) error
}

// Func adapts an ordinary function to the Component interface.
type Func func(ctx context.Context, node *graph.Node, inputs Inputs, outputs Outputs, args ...any) error

// Compute calls f.
func (f Func) Compute(ctx context.Context, node *graph.Node, inputs Inputs, outputs Outputs, args ...any) error {
	return f(ctx, node, inputs, outputs, args...)
}

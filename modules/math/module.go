// Package math provides the arithmetic components "add" and "multiply".
//
// Both fold every value of every input socket, in socket-name order and then
// connection order, into a single "result" output. A nil value, left behind
// by an upstream that never ran, is an error.
package math

import (
	"context"
	"fmt"

	"github.com/xzdarcy/rete/internal/ctxlog"
	"github.com/xzdarcy/rete/internal/graph"
	"github.com/xzdarcy/rete/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Config is read from the node's data.
type Config struct {
	// Initial seeds the fold. Defaults to the identity of the operation.
	Initial *float64 `rete:"initial"`
}

type operation struct {
	name     string
	identity float64
	apply    func(acc, v float64) float64
}

var (
	add      = operation{name: "add", identity: 0, apply: func(acc, v float64) float64 { return acc + v }}
	multiply = operation{name: "multiply", identity: 1, apply: func(acc, v float64) float64 { return acc * v }}
)

func (op operation) Compute(ctx context.Context, node *graph.Node, inputs registry.Inputs, outputs registry.Outputs, _ ...any) error {
	var cfg Config
	if err := registry.DecodeData(node, &cfg); err != nil {
		return err
	}

	acc := op.identity
	if cfg.Initial != nil {
		acc = *cfg.Initial
	}
	for _, key := range graph.SortedKeys(inputs) {
		for i, v := range inputs[key] {
			f, err := registry.Number(v)
			if err != nil {
				return fmt.Errorf("%s: input '%s'[%d]: %w", op.name, key, i, err)
			}
			acc = op.apply(acc, f)
		}
	}

	ctxlog.FromContext(ctx).Debug("Computed result.", "nodeID", node.ID, "operation", op.name, "result", acc)
	outputs["result"] = acc
	return nil
}

// Register registers "add" and "multiply".
func (Module) Register(r *registry.Registry) {
	r.Register(add.name, add)
	r.Register(multiply.name, multiply)
}

package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/xzdarcy/rete/internal/ctxlog"
	"github.com/xzdarcy/rete/internal/graph"
)

// ValidateGraph performs a parity check between a graph and the registry: every
// node must reference a registered component.
func (r *Registry) ValidateGraph(ctx context.Context, g *graph.Graph) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, id := range g.SortedIDs() {
		n, ok := g.Node(id)
		if !ok {
			continue
		}
		if n.Name == "" {
			errs = append(errs, fmt.Sprintf("node '%s': no component name", id))
			continue
		}
		if _, ok := r.Lookup(n.Name); !ok {
			errs = append(errs, fmt.Sprintf("node '%s': component '%s' is not registered", id, n.Name))
		}
	}

	if len(errs) > 0 {
		logger.Debug("Registry validation failed.", "problems", len(errs))
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

package graph

import "fmt"

// CycleError reports a node that participates in a dependency cycle.
type CycleError struct {
	NodeID string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected involving node '%s'", e.NodeID)
}

// DetectCycle walks the graph depth-first along input connections, starting
// from every node in ascending id order. It returns the first node revisited
// while still on the active path. Connections to unknown nodes are ignored;
// reporting them is the validator's job.
func DetectCycle(g *Graph) (string, bool) {
	if g == nil {
		return "", false
	}

	// explored: fully visited, known not to lead back onto the path.
	// onPath: nodes in the current recursion stack.
	explored := make(map[string]bool, len(g.Nodes))
	onPath := make(map[string]bool)

	var visit func(id string) (string, bool)
	visit = func(id string) (string, bool) {
		if explored[id] {
			return "", false
		}
		if onPath[id] {
			return id, true
		}
		n, ok := g.Node(id)
		if !ok {
			explored[id] = true
			return "", false
		}

		onPath[id] = true
		for _, up := range n.Upstream() {
			if found, ok := visit(up); ok {
				return found, true
			}
		}
		delete(onPath, id)
		explored[id] = true
		return "", false
	}

	for _, id := range g.SortedIDs() {
		if found, ok := visit(id); ok {
			return found, true
		}
	}
	return "", false
}

// DetectCycles returns a *CycleError if the graph contains a cycle.
func (g *Graph) DetectCycles() error {
	if id, ok := DetectCycle(g); ok {
		return &CycleError{NodeID: id}
	}
	return nil
}

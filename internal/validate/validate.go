// Package validate checks a graph against the scope of the engine that is
// about to run it. The engine consults a Validator once per run, before any
// node executes.
package validate

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/xzdarcy/rete/internal/graph"
	"github.com/xzdarcy/rete/internal/registry"
)

// Result is the outcome of a validation. Message is empty on success.
type Result struct {
	Success bool
	Message string
}

// Validator is a pure predicate over a graph.
type Validator interface {
	Validate(scopeID string, g *graph.Graph) Result
}

// Func adapts an ordinary function to the Validator interface.
type Func func(scopeID string, g *graph.Graph) Result

// Validate calls f.
func (f Func) Validate(scopeID string, g *graph.Graph) Result {
	return f(scopeID, g)
}

// Pass is a Validator that accepts everything.
var Pass = Func(func(string, *graph.Graph) Result { return Result{Success: true} })

var scopeIDPattern = regexp.MustCompile(`^[\w-]{3,}@[0-9]+\.[0-9]+\.[0-9]+$`)

// ValidScopeID reports whether id has the form name@major.minor.patch.
func ValidScopeID(id string) bool {
	return scopeIDPattern.MatchString(id)
}

// Schema is the default Validator. It checks the graph id against the scope,
// node keys against node ids, and that every connection points at an existing
// node whose mirror connection is present. When Registry is set, component
// names are checked as well.
type Schema struct {
	Registry *registry.Registry
}

// Validate implements Validator.
func (s Schema) Validate(scopeID string, g *graph.Graph) Result {
	if g == nil {
		return Result{Message: "Data is not suitable."}
	}

	var msgs []string
	if !ValidScopeID(g.ID) || g.Nodes == nil {
		msgs = append(msgs, "Data is not suitable.")
	}
	if scopeID != g.ID {
		msgs = append(msgs, "IDs not equal.")
	}
	wantName, wantVersion, _ := strings.Cut(scopeID, "@")
	gotName, gotVersion, _ := strings.Cut(g.ID, "@")
	if wantName != gotName {
		msgs = append(msgs, "Names don't match.")
	}
	if wantVersion != gotVersion {
		msgs = append(msgs, "Versions don't match.")
	}

	msgs = append(msgs, structure(g)...)

	if s.Registry != nil {
		if err := s.Registry.ValidateGraph(context.Background(), g); err != nil {
			msgs = append(msgs, err.Error())
		}
	}

	if len(msgs) > 0 {
		return Result{Message: strings.Join(msgs, " ")}
	}
	return Result{Success: true}
}

// structure checks node keys and the symmetry of connections.
func structure(g *graph.Graph) []string {
	var msgs []string
	for _, key := range g.SortedIDs() {
		n := g.Nodes[key]
		if n == nil {
			msgs = append(msgs, fmt.Sprintf("Node '%s' is empty.", key))
			continue
		}
		if n.ID != key {
			msgs = append(msgs, fmt.Sprintf("Node key '%s' does not match node id '%s'.", key, n.ID))
		}

		for _, socket := range graph.SortedKeys(n.Inputs) {
			in := n.Inputs[socket]
			if in == nil {
				continue
			}
			for _, c := range in.Connections {
				up, ok := g.Node(c.Node)
				if !ok {
					msgs = append(msgs, fmt.Sprintf("Input '%s.%s' references unknown node '%s'.", key, socket, c.Node))
					continue
				}
				if !hasOutputConnection(up, c.Output, key, socket) {
					msgs = append(msgs, fmt.Sprintf("Input '%s.%s' has no matching output '%s.%s'.", key, socket, c.Node, c.Output))
				}
			}
		}

		for _, socket := range graph.SortedKeys(n.Outputs) {
			out := n.Outputs[socket]
			if out == nil {
				continue
			}
			for _, c := range out.Connections {
				down, ok := g.Node(c.Node)
				if !ok {
					msgs = append(msgs, fmt.Sprintf("Output '%s.%s' references unknown node '%s'.", key, socket, c.Node))
					continue
				}
				if !hasInputConnection(down, c.Input, key, socket) {
					msgs = append(msgs, fmt.Sprintf("Output '%s.%s' has no matching input '%s.%s'.", key, socket, c.Node, c.Input))
				}
			}
		}
	}
	return msgs
}

func hasOutputConnection(n *graph.Node, output, toNode, toInput string) bool {
	out := n.Outputs[output]
	if out == nil {
		return false
	}
	for _, c := range out.Connections {
		if c.Node == toNode && c.Input == toInput {
			return true
		}
	}
	return false
}

func hasInputConnection(n *graph.Node, input, fromNode, fromOutput string) bool {
	in := n.Inputs[input]
	if in == nil {
		return false
	}
	for _, c := range in.Connections {
		if c.Node == fromNode && c.Output == fromOutput {
			return true
		}
	}
	return false
}

package graph

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNodeExists is returned by AddNode when the id is already taken.
var ErrNodeExists = errors.New("node already exists")

// Graph is a collection of nodes keyed by their id. ID identifies the
// editor scope the graph was produced for, e.g. "demo@0.1.0".
type Graph struct {
	ID    string
	Nodes map[string]*Node
}

// Node is a single vertex of the graph. Name references the registered
// component that computes the node's outputs.
type Node struct {
	ID      string
	Name    string
	Data    map[string]any
	Inputs  map[string]*Input
	Outputs map[string]*Output
}

// Input is an input socket. A socket may be fed by several connections;
// their order is the order values are handed to the component.
type Input struct {
	Connections []InputConnection
}

// InputConnection names an upstream node and one of its output keys.
type InputConnection struct {
	Node   string
	Output string
}

// Output is an output socket with its downstream connections.
type Output struct {
	Connections []OutputConnection
}

// OutputConnection names a downstream node and one of its input keys.
type OutputConnection struct {
	Node  string
	Input string
}

// New creates and returns an initialized, empty Graph.
func New(id string) *Graph {
	return &Graph{
		ID:    id,
		Nodes: make(map[string]*Node),
	}
}

// NewNode returns a node with empty socket maps.
func NewNode(id, name string) *Node {
	return &Node{
		ID:      id,
		Name:    name,
		Data:    make(map[string]any),
		Inputs:  make(map[string]*Input),
		Outputs: make(map[string]*Output),
	}
}

// AddNode adds n to the graph. Nil socket maps are initialized.
func (g *Graph) AddNode(n *Node) error {
	if n == nil {
		return errors.New("node is nil")
	}
	if g.Nodes == nil {
		g.Nodes = make(map[string]*Node)
	}
	if _, ok := g.Nodes[n.ID]; ok {
		return fmt.Errorf("%w: %s", ErrNodeExists, n.ID)
	}
	if n.Inputs == nil {
		n.Inputs = make(map[string]*Input)
	}
	if n.Outputs == nil {
		n.Outputs = make(map[string]*Output)
	}
	g.Nodes[n.ID] = n
	return nil
}

// Node looks up a node by id.
func (g *Graph) Node(id string) (*Node, bool) {
	if g == nil {
		return nil, false
	}
	n, ok := g.Nodes[id]
	return n, ok && n != nil
}

// Connect wires output socket `output` of node `fromID` to input socket
// `input` of node `toID`, recording the connection on both nodes. Sockets are
// created on first use.
func (g *Graph) Connect(fromID, output, toID, input string) error {
	from, ok := g.Node(fromID)
	if !ok {
		return fmt.Errorf("source node not found: %s", fromID)
	}
	to, ok := g.Node(toID)
	if !ok {
		return fmt.Errorf("destination node not found: %s", toID)
	}

	out := from.Outputs[output]
	if out == nil {
		out = &Output{}
		from.Outputs[output] = out
	}
	in := to.Inputs[input]
	if in == nil {
		in = &Input{}
		to.Inputs[input] = in
	}

	out.Connections = append(out.Connections, OutputConnection{Node: toID, Input: input})
	in.Connections = append(in.Connections, InputConnection{Node: fromID, Output: output})
	return nil
}

// SortedIDs returns all node ids in ascending order.
func (g *Graph) SortedIDs() []string {
	if g == nil {
		return nil
	}
	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Copy returns a per-run copy of the graph. The node container and the
// node structs are new; Data, sockets and connections are shared with g.
func (g *Graph) Copy() *Graph {
	if g == nil {
		return nil
	}
	cp := &Graph{
		ID:    g.ID,
		Nodes: make(map[string]*Node, len(g.Nodes)),
	}
	for id, n := range g.Nodes {
		if n == nil {
			cp.Nodes[id] = nil
			continue
		}
		c := *n
		cp.Nodes[id] = &c
	}
	return cp
}

// SortedKeys returns the keys of a socket map in ascending order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Upstream returns the ids of the nodes feeding n, in socket-key order and
// then connection order. Duplicates are kept.
func (n *Node) Upstream() []string {
	var ids []string
	for _, key := range SortedKeys(n.Inputs) {
		in := n.Inputs[key]
		if in == nil {
			continue
		}
		for _, c := range in.Connections {
			ids = append(ids, c.Node)
		}
	}
	return ids
}

// Downstream returns the ids of the nodes fed by n, in socket-key order and
// then connection order. Duplicates are kept.
func (n *Node) Downstream() []string {
	var ids []string
	for _, key := range SortedKeys(n.Outputs) {
		out := n.Outputs[key]
		if out == nil {
			continue
		}
		for _, c := range out.Connections {
			ids = append(ids, c.Node)
		}
	}
	return ids
}

package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// wire types mirror the node editor export format. Node ids may be encoded
// either as JSON strings or numbers, so they are kept raw until converted.
type (
	wireGraph struct {
		ID    string              `json:"id"`
		Nodes map[string]wireNode `json:"nodes"`
	}

	wireNode struct {
		ID      json.RawMessage            `json:"id"`
		Name    string                     `json:"name"`
		Data    map[string]any             `json:"data"`
		Inputs  map[string]wireInputSocket `json:"inputs"`
		Outputs map[string]wireOutSocket   `json:"outputs"`
	}

	wireInputSocket struct {
		Connections []struct {
			Node   json.RawMessage `json:"node"`
			Output string          `json:"output"`
		} `json:"connections"`
	}

	wireOutSocket struct {
		Connections []struct {
			Node  json.RawMessage `json:"node"`
			Input string          `json:"input"`
		} `json:"connections"`
	}
)

// Decode reads a graph in the node editor's JSON export format.
func Decode(r io.Reader) (*Graph, error) {
	var w wireGraph
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&w); err != nil {
		return nil, fmt.Errorf("failed to decode graph: %w", err)
	}

	g := New(w.ID)
	for key, wn := range w.Nodes {
		id := key
		if len(wn.ID) > 0 {
			parsed, err := rawID(wn.ID)
			if err != nil {
				return nil, fmt.Errorf("node '%s': %w", key, err)
			}
			id = parsed
		}

		n := NewNode(id, wn.Name)
		if wn.Data != nil {
			n.Data = wn.Data
		}
		for socket, in := range wn.Inputs {
			conns := make([]InputConnection, 0, len(in.Connections))
			for _, c := range in.Connections {
				up, err := rawID(c.Node)
				if err != nil {
					return nil, fmt.Errorf("node '%s', input '%s': %w", key, socket, err)
				}
				conns = append(conns, InputConnection{Node: up, Output: c.Output})
			}
			n.Inputs[socket] = &Input{Connections: conns}
		}
		for socket, out := range wn.Outputs {
			conns := make([]OutputConnection, 0, len(out.Connections))
			for _, c := range out.Connections {
				down, err := rawID(c.Node)
				if err != nil {
					return nil, fmt.Errorf("node '%s', output '%s': %w", key, socket, err)
				}
				conns = append(conns, OutputConnection{Node: down, Input: c.Input})
			}
			n.Outputs[socket] = &Output{Connections: conns}
		}

		// Keyed by the map key so that validation can detect mismatched ids.
		g.Nodes[key] = n
	}
	return g, nil
}

// DecodeString is a convenience wrapper around Decode.
func DecodeString(s string) (*Graph, error) {
	return Decode(strings.NewReader(s))
}

// rawID accepts a JSON string or number and returns it as a string id.
func rawID(raw json.RawMessage) (string, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return "", fmt.Errorf("missing node id")
	}
	if s[0] == '"' {
		var id string
		if err := json.Unmarshal(raw, &id); err != nil {
			return "", fmt.Errorf("invalid node id %s: %w", s, err)
		}
		return id, nil
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return "", fmt.Errorf("invalid node id %s", s)
	}
	return s, nil
}

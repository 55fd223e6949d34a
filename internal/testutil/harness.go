package testutil

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xzdarcy/rete/internal/graph"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// NewLogger returns a debug-level text logger writing to a fresh SafeBuffer.
func NewLogger() (*slog.Logger, *SafeBuffer) {
	buf := &SafeBuffer{}
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

// Link describes one connection between two nodes.
type Link struct {
	From, Output, To, Input string
}

// L is shorthand for a Link.
func L(from, output, to, input string) Link {
	return Link{From: from, Output: output, To: to, Input: input}
}

// NewGraph builds a graph with the given id where every node uses component.
func NewGraph(t testing.TB, id, component string, nodes []string, links ...Link) *graph.Graph {
	t.Helper()

	g := graph.New(id)
	for _, nid := range nodes {
		require.NoError(t, g.AddNode(graph.NewNode(nid, component)))
	}
	for _, l := range links {
		require.NoError(t, g.Connect(l.From, l.Output, l.To, l.Input))
	}
	return g
}

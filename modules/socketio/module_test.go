package socketio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	server "github.com/zishang520/socket.io/v2/socket"

	"github.com/xzdarcy/rete/internal/graph"
	"github.com/xzdarcy/rete/internal/registry"
)

func TestCompute_InvalidConfig(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		data    map[string]any
		wantErr string
	}{
		{name: "missing on_event", data: map[string]any{"url": "http://localhost:1"}, wantErr: "on_event is required"},
		{name: "bad url", data: map[string]any{"url": "not a url", "on_event": "reply"}, wantErr: "invalid url"},
		{name: "bad timeout", data: map[string]any{"on_event": "reply", "timeout": "soon"}, wantErr: "invalid data"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			n := graph.NewNode("s", "socketio")
			n.Data = tc.data

			err := Module{}.Compute(context.Background(), n, registry.Inputs{}, registry.Outputs{})

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestRegister(t *testing.T) {
	t.Parallel()

	r := registry.New(Module{})

	_, ok := r.Lookup("socketio")
	assert.True(t, ok)
}

// newEchoServer starts a socket.io server that answers every "ping" event
// with a "pong" event carrying the same arguments.
func newEchoServer(t *testing.T) string {
	t.Helper()

	io := server.NewServer(nil, nil)
	io.On("connection", func(clients ...any) {
		client := clients[0].(*server.Socket)
		client.On("ping", func(args ...any) {
			client.Emit("pong", args...)
		})
	})

	mux := http.NewServeMux()
	mux.Handle("/socket.io/", io.ServeHandler(nil))
	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		io.Close(nil)
		srv.Close()
	})
	return srv.URL
}

func TestCompute_EmitAndReply(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	n := graph.NewNode("s", "socketio")
	n.Data = map[string]any{
		"url":        newEchoServer(t),
		"emit_event": "ping",
		"emit_data":  "from data",
		"on_event":   "pong",
		"timeout":    "5s",
	}
	outputs := registry.Outputs{}

	// --- Act ---
	err := Module{}.Compute(context.Background(), n, registry.Inputs{"emit_data": {"hello"}}, outputs)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, registry.Outputs{"response_data": "hello"}, outputs)
}

func TestCompute_TimesOutWithoutReply(t *testing.T) {
	t.Parallel()

	n := graph.NewNode("s", "socketio")
	n.Data = map[string]any{
		"url":      newEchoServer(t),
		"on_event": "never",
		"timeout":  "300ms",
	}

	err := Module{}.Compute(context.Background(), n, registry.Inputs{}, registry.Outputs{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

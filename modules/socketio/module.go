// Package socketio provides the "socketio" component. It connects to a
// socket.io server, optionally emits an event and waits for a reply event.
package socketio

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/xzdarcy/rete/internal/ctxlog"
	"github.com/xzdarcy/rete/internal/graph"
	"github.com/xzdarcy/rete/internal/registry"
)

// DefaultTimeout bounds a call when the node sets no timeout.
const DefaultTimeout = 10 * time.Second

// Module implements the registry.Module interface for this package.
type Module struct{}

// Config is read from the node's data. Input "emit_data" overrides EmitData.
type Config struct {
	URL                string        `rete:"url"`
	Namespace          string        `rete:"namespace"`
	OnEvent            string        `rete:"on_event"`
	EmitEvent          string        `rete:"emit_event"`
	EmitData           any           `rete:"emit_data"`
	Timeout            time.Duration `rete:"timeout"`
	InsecureSkipVerify bool          `rete:"insecure_skip_verify"`
}

type opResult struct {
	value any
	err   error
}

// Compute writes the first argument of the reply event to "response_data".
func (Module) Compute(ctx context.Context, node *graph.Node, inputs registry.Inputs, outputs registry.Outputs, _ ...any) error {
	var cfg Config
	if err := registry.DecodeData(node, &cfg); err != nil {
		return err
	}
	if v := inputs.First("emit_data"); v != nil {
		cfg.EmitData = v
	}
	if cfg.OnEvent == "" {
		return fmt.Errorf("node '%s': on_event is required", node.ID)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "/"
	}

	logger := ctxlog.FromContext(ctx).With("nodeID", node.ID, "url", cfg.URL, "onEvent", cfg.OnEvent, "emitEvent", cfg.EmitEvent)
	logger.Debug("Component started.")
	defer logger.Debug("Component finished.")

	parsedURL, err := url.Parse(cfg.URL)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return fmt.Errorf("node '%s': invalid url '%s'", node.ID, cfg.URL)
	}

	opCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	opts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		opts.SetPath(parsedURL.Path)
	}
	if cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification.")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host), opts)
	io := manager.Socket(cfg.Namespace, opts)
	defer func() {
		logger.Debug("Disconnecting socket client.")
		io.Disconnect()
	}()

	var connected atomic.Bool
	done := make(chan opResult, 1)
	deliver := func(r opResult) {
		select {
		case done <- r:
		default:
		}
	}

	io.On(types.EventName("connect"), func(...any) {
		connected.Store(true)
		logger.Info("Successfully connected.", "namespace", cfg.Namespace, "sid", io.Id())
		if cfg.EmitEvent != "" {
			logger.Info("Emitting event.", "event", cfg.EmitEvent)
			io.Emit(cfg.EmitEvent, cfg.EmitData)
		}
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		err := fmt.Errorf("connection failed")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = fmt.Errorf("connection failed: %w", e)
			}
		}
		deliver(opResult{err: err})
	})
	io.On(types.EventName(cfg.OnEvent), func(data ...any) {
		var v any
		if len(data) > 0 {
			v = data[0]
		}
		deliver(opResult{value: v})
	})

	io.Connect()

	select {
	case <-opCtx.Done():
		if connected.Load() {
			return fmt.Errorf("timed out after connecting while waiting for event '%s'", cfg.OnEvent)
		}
		return fmt.Errorf("timed out while waiting for initial connection")
	case res := <-done:
		if res.err != nil {
			return res.err
		}
		outputs["response_data"] = res.value
		return nil
	}
}

// Register registers the component with the registry.
func (m Module) Register(r *registry.Registry) {
	r.Register("socketio", m)
}

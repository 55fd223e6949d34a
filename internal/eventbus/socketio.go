package eventbus

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/xzdarcy/rete/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// SocketIOConfig describes the remote socket.io endpoint events are
// forwarded to.
type SocketIOConfig struct {
	URL                string
	Namespace          string
	ConnectTimeout     time.Duration
	InsecureSkipVerify bool
}

// SocketIO forwards engine events to a socket.io server. Each engine event is
// emitted under its own name with a JSON-friendly payload.
type SocketIO struct {
	io        *socket.Socket
	connected atomic.Bool
}

// DialSocketIO connects to the configured server and waits until the
// connection is established, the timeout elapses, or ctx is done.
func DialSocketIO(ctx context.Context, cfg SocketIOConfig) (*SocketIO, error) {
	logger := ctxlog.FromContext(ctx).With("url", cfg.URL, "namespace", cfg.Namespace)

	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("invalid events URL '%s'", cfg.URL)
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "/"
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		opts.SetPath(parsedURL.Path)
	}
	if cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(namespace, opts)
	s := &SocketIO{io: io}

	ready := make(chan error, 1)
	io.On(types.EventName("connect"), func(...any) {
		s.connected.Store(true)
		logger.Info("Event forwarder connected", "sid", io.Id())
		select {
		case ready <- nil:
		default:
		}
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		select {
		case ready <- err:
		default:
		}
	})
	io.On(types.EventName("disconnect"), func(...any) {
		s.connected.Store(false)
		logger.Debug("Event forwarder disconnected")
	})

	io.Connect()

	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	select {
	case err := <-ready:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("failed to connect to events server: %w", err)
		}
		return s, nil
	case <-dialCtx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("timed out while waiting for events server connection: %w", dialCtx.Err())
	}
}

// Emit implements Emitter. Events emitted while disconnected are dropped.
func (s *SocketIO) Emit(ctx context.Context, name string, payload any) {
	if !s.connected.Load() {
		ctxlog.FromContext(ctx).Debug("Event forwarder not connected, dropping event.", "event", name)
		return
	}
	s.io.Emit(name, wirePayload(payload))
}

// Close disconnects from the server.
func (s *SocketIO) Close() error {
	s.io.Disconnect()
	return nil
}

// wirePayload turns engine payloads into values that serialize cleanly.
func wirePayload(payload any) any {
	switch p := payload.(type) {
	case ErrorPayload:
		return map[string]any{"message": p.Message, "data": p.Data}
	case error:
		return map[string]any{"message": p.Error()}
	default:
		return p
	}
}

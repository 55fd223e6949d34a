// Package http_request provides the "http_request" component, which performs
// one HTTP request per run.
package http_request

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/xzdarcy/rete/internal/ctxlog"
	"github.com/xzdarcy/rete/internal/graph"
	"github.com/xzdarcy/rete/internal/registry"
)

// Module implements the registry.Module interface for this package. The
// client is shared by every node using the component.
type Module struct {
	Client *http.Client
}

// NewModule returns a Module with a pooled client.
func NewModule() *Module {
	return &Module{
		Client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Config is read from the node's data. Input sockets "url" and "body"
// override the matching fields.
type Config struct {
	URL     string            `rete:"url"`
	Method  string            `rete:"method"`
	Body    string            `rete:"body"`
	Headers map[string]string `rete:"headers"`
	Timeout time.Duration     `rete:"timeout"`
}

// Compute performs the request and writes "status_code" and "body".
func (m *Module) Compute(ctx context.Context, node *graph.Node, inputs registry.Inputs, outputs registry.Outputs, _ ...any) error {
	var cfg Config
	if err := registry.DecodeData(node, &cfg); err != nil {
		return err
	}
	if v, ok := inputs.First("url").(string); ok && v != "" {
		cfg.URL = v
	}
	if v, ok := inputs.First("body").(string); ok {
		cfg.Body = v
	}
	if cfg.URL == "" {
		return fmt.Errorf("node '%s': url is required", node.ID)
	}
	if cfg.Method == "" {
		cfg.Method = http.MethodGet
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	logger := ctxlog.FromContext(ctx).With("nodeID", node.ID, "method", cfg.Method, "url", cfg.URL)
	logger.Info("Making HTTP request.")

	var body io.Reader
	if cfg.Body != "" {
		body = strings.NewReader(cfg.Body)
	}
	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(cfg.Method), cfg.URL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range cfg.Headers {
		req.Header.Set(k, v)
	}

	client := m.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	logger.Info("Received HTTP response.", "status", resp.Status)

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	outputs["status_code"] = resp.StatusCode
	outputs["body"] = string(bodyBytes)
	return nil
}

// Register registers the component with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register("http_request", m)
}

// Close releases idle connections.
func (m *Module) Close() {
	if m.Client != nil {
		m.Client.CloseIdleConnections()
	}
}

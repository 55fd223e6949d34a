// Package integration_tests holds end-to-end tests that load graph files
// through the app and run them on the engine. Scenarios live in
// subpackages grouped by feature.
package integration_tests

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xzdarcy/rete/internal/app"
	"github.com/xzdarcy/rete/internal/registry"
	"github.com/xzdarcy/rete/internal/testutil"
)

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	Err       error
	App       *app.App
}

// Options tweak the configuration the harness runs with.
type Options struct {
	StartNode   string
	ScopeID     string
	InputPolicy string
	Args        []string
}

// Run writes files into a temporary directory, builds an App over it with
// the given modules and runs it once with ctx.
func Run(ctx context.Context, t *testing.T, files map[string]string, opts Options, modules ...registry.Module) *HarnessResult {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}

	cfg, err := app.NewConfig(app.Config{
		GraphPaths:  []string{dir},
		StartNode:   opts.StartNode,
		ScopeID:     opts.ScopeID,
		InputPolicy: opts.InputPolicy,
		Args:        opts.Args,
		LogLevel:    "debug",
		LogFormat:   "text",
	})
	require.NoError(t, err)

	logs := &testutil.SafeBuffer{}
	t.Cleanup(func() {
		if os.Getenv("RETE_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})

	var a *app.App
	var panicErr any
	func() {
		defer func() { panicErr = recover() }()
		a = app.NewApp(logs, cfg, modules...)
	}()
	if panicErr != nil {
		return &HarnessResult{
			LogOutput: logs.String(),
			Err:       fmt.Errorf("application startup panicked | %v", panicErr),
		}
	}

	runErr := a.Run(ctx)
	return &HarnessResult{LogOutput: logs.String(), Err: runErr, App: a}
}

package cli_behavior

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xzdarcy/rete/internal/cli"
)

// Test for: running without a graph prints usage and exits cleanly.
func TestCLI_DisplaysHelp(t *testing.T) {
	t.Parallel()

	for _, args := range [][]string{{}, {"-h"}, {"--help"}} {
		out := &bytes.Buffer{}

		cfg, shouldExit, err := cli.Parse(args, out)

		require.NoError(t, err)
		assert.True(t, shouldExit)
		assert.Nil(t, cfg)
		assert.Contains(t, out.String(), "Usage:")
		assert.Contains(t, out.String(), "-input-policy")
	}
}

package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xzdarcy/rete/internal/app"
)

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		args       []string
		want       *app.Config
		wantExit   bool
		wantCode   int
		wantErrMsg string
	}{
		{
			name: "positional path with defaults",
			args: []string{"graph.hcl"},
			want: &app.Config{GraphPaths: []string{"graph.hcl"}, InputPolicy: "best-effort", LogFormat: "text", LogLevel: "info"},
		},
		{
			name: "all flags",
			args: []string{
				"-g", "graphs", "--start", "a", "--scope", "demo@1.0.0",
				"--log-format", "JSON", "--log-level", "debug", "--healthcheck-port", "8080",
				"--events-url", "http://localhost:3000", "--input-policy", "strict",
				"--arg", "one", "--arg", "two", "extra.hcl",
			},
			want: &app.Config{
				GraphPaths:      []string{"graphs", "extra.hcl"},
				StartNode:       "a",
				ScopeID:         "demo@1.0.0",
				Args:            []string{"one", "two"},
				InputPolicy:     "strict",
				LogFormat:       "json",
				LogLevel:        "debug",
				HealthcheckPort: 8080,
				EventsURL:       "http://localhost:3000",
			},
		},
		{
			name:     "help",
			args:     []string{"-h"},
			wantExit: true,
		},
		{
			name:     "no path prints usage",
			args:     []string{},
			wantExit: true,
		},
		{
			name:       "unknown flag",
			args:       []string{"--nope"},
			wantCode:   2,
			wantErrMsg: "flag provided but not defined",
		},
		{
			name:       "invalid log format",
			args:       []string{"--log-format", "xml", "g.hcl"},
			wantCode:   2,
			wantErrMsg: "invalid log format",
		},
		{
			name:       "invalid input policy",
			args:       []string{"--input-policy", "maybe", "g.hcl"},
			wantCode:   2,
			wantErrMsg: "invalid input policy",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			out := &bytes.Buffer{}

			cfg, shouldExit, err := Parse(tc.args, out)

			if tc.wantErrMsg != "" {
				var exitErr *ExitError
				require.True(t, errors.As(err, &exitErr))
				assert.Equal(t, tc.wantCode, exitErr.Code)
				assert.Contains(t, exitErr.Message, tc.wantErrMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantExit, shouldExit)
			if tc.wantExit {
				assert.Contains(t, out.String(), "Usage:")
				return
			}
			assert.Equal(t, tc.want, cfg)
		})
	}
}

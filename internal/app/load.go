package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xzdarcy/rete/internal/ctxlog"
	"github.com/xzdarcy/rete/internal/fsutil"
	"github.com/xzdarcy/rete/internal/graph"
	"github.com/xzdarcy/rete/internal/hcl"
)

// JSONExtension marks node-editor exports.
const JSONExtension = ".json"

// LoadGraph loads a graph from the given paths. A single .json file is read
// as a node-editor export; anything else is loaded as HCL and merged.
func LoadGraph(ctx context.Context, paths ...string) (*graph.Graph, error) {
	logger := ctxlog.FromContext(ctx)

	expanded, err := fsutil.ExpandPaths(paths...)
	if err != nil {
		return nil, err
	}
	logger.Debug("Loading graph.", "paths", expanded)

	var jsonFiles []string
	for _, p := range expanded {
		if strings.EqualFold(filepath.Ext(p), JSONExtension) {
			jsonFiles = append(jsonFiles, p)
		}
	}

	switch {
	case len(jsonFiles) == 0:
		g, err := hcl.NewLoader().Load(ctx, expanded...)
		if err != nil {
			return nil, fmt.Errorf("failed to load graph: %w", err)
		}
		return g, nil
	case len(jsonFiles) == 1 && len(expanded) == 1:
		return loadJSON(jsonFiles[0])
	default:
		return nil, fmt.Errorf("a JSON graph must be loaded on its own, got %d paths", len(expanded))
	}
}

func loadJSON(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open graph file: %w", err)
	}
	defer f.Close()

	g, err := graph.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode graph file %s: %w", path, err)
	}
	return g, nil
}

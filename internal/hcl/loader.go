package hcl

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/xzdarcy/rete/internal/ctxlog"
	"github.com/xzdarcy/rete/internal/fsutil"
	"github.com/xzdarcy/rete/internal/graph"
)

// Extension is the file extension of HCL graph files.
const Extension = ".hcl"

// fileRoot is the shape of one HCL graph file.
type fileRoot struct {
	ID    *string      `hcl:"id,optional"`
	Nodes []*nodeBlock `hcl:"node,block"`
}

type nodeBlock struct {
	ID        string         `hcl:"id,label"`
	Component string         `hcl:"component"`
	Data      hcl.Expression `hcl:"data,optional"`
	Inputs    []*inputBlock  `hcl:"input,block"`
	DeclRange hcl.Range      `hcl:",def_range"`
}

type inputBlock struct {
	Name string   `hcl:"name,label"`
	From []string `hcl:"from"`
}

// Loader parses HCL graph files into a graph.Graph.
type Loader struct {
	// Env is exposed to data expressions as the "env" object.
	Env map[string]string
}

// NewLoader returns a Loader whose "env" object is the process environment.
func NewLoader() *Loader {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return &Loader{Env: env}
}

// parsed collects blocks from every file before they are linked.
type parsed struct {
	id     string
	idFile string
	nodes  []*nodeBlock
	seen   map[string]hcl.Range
}

// Load reads every .hcl file found under the given paths and merges them into
// one graph.
func (l *Loader) Load(ctx context.Context, paths ...string) (*graph.Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	parser := hclparse.NewParser()
	p := &parsed{seen: make(map[string]hcl.Range)}

	for _, path := range paths {
		files, err := fsutil.FindFilesByExtension(path, Extension)
		if err != nil {
			return nil, err
		}
		logger.Debug("Discovered HCL files.", "path", path, "count", len(files))

		for _, file := range files {
			f, diags := parser.ParseHCLFile(file)
			if diags.HasErrors() {
				return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
			}
			if err := p.add(file, f.Body); err != nil {
				return nil, err
			}
		}
	}
	return l.build(ctx, p)
}

// LoadBytes parses a single HCL document. filename is used in diagnostics.
func (l *Loader) LoadBytes(ctx context.Context, filename string, src []byte) (*graph.Graph, error) {
	f, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	p := &parsed{seen: make(map[string]hcl.Range)}
	if err := p.add(filename, f.Body); err != nil {
		return nil, err
	}
	return l.build(ctx, p)
}

func (p *parsed) add(file string, body hcl.Body) error {
	var root fileRoot
	if diags := gohcl.DecodeBody(body, nil, &root); diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
	}

	if root.ID != nil {
		if p.id != "" && p.id != *root.ID {
			return fmt.Errorf("conflicting graph id in %s: '%s' already declared as '%s' in %s", file, *root.ID, p.id, p.idFile)
		}
		p.id, p.idFile = *root.ID, file
	}

	for _, n := range root.Nodes {
		if prev, ok := p.seen[n.ID]; ok {
			return fmt.Errorf("%s: node '%s' already declared at %s", n.DeclRange, n.ID, prev)
		}
		p.seen[n.ID] = n.DeclRange
		p.nodes = append(p.nodes, n)
	}
	return nil
}

func (l *Loader) build(ctx context.Context, p *parsed) (*graph.Graph, error) {
	logger := ctxlog.FromContext(ctx)
	evalCtx := l.evalContext()

	g := graph.New(p.id)
	for _, nb := range p.nodes {
		n := graph.NewNode(nb.ID, nb.Component)
		data, err := decodeData(nb, evalCtx)
		if err != nil {
			return nil, err
		}
		n.Data = data
		if err := g.AddNode(n); err != nil {
			return nil, err
		}
	}

	for _, nb := range p.nodes {
		for _, in := range nb.Inputs {
			if _, exists := g.Nodes[nb.ID].Inputs[in.Name]; exists {
				return nil, fmt.Errorf("%s: node '%s' declares input '%s' twice", nb.DeclRange, nb.ID, in.Name)
			}
			// Inputs without connections still exist as sockets.
			g.Nodes[nb.ID].Inputs[in.Name] = &graph.Input{}
			for _, ref := range in.From {
				from, output, err := splitRef(ref)
				if err != nil {
					return nil, fmt.Errorf("%s: node '%s' input '%s': %w", nb.DeclRange, nb.ID, in.Name, err)
				}
				if err := g.Connect(from, output, nb.ID, in.Name); err != nil {
					return nil, fmt.Errorf("%s: node '%s' input '%s': %w", nb.DeclRange, nb.ID, in.Name, err)
				}
			}
		}
	}

	logger.Debug("HCL loading complete.", "graph_id", g.ID, "nodes", len(g.Nodes))
	return g, nil
}

// splitRef splits "<node>.<output>".
func splitRef(ref string) (node, output string, err error) {
	i := strings.LastIndex(ref, ".")
	if i <= 0 || i == len(ref)-1 {
		return "", "", fmt.Errorf("invalid reference '%s': expected '<node>.<output>'", ref)
	}
	return ref[:i], ref[i+1:], nil
}

func (l *Loader) evalContext() *hcl.EvalContext {
	env := make(map[string]cty.Value, len(l.Env))
	for k, v := range l.Env {
		env[k] = cty.StringVal(v)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": cty.ObjectVal(env)},
		Functions: map[string]function.Function{
			"upper":      stdlib.UpperFunc,
			"lower":      stdlib.LowerFunc,
			"format":     stdlib.FormatFunc,
			"concat":     stdlib.ConcatFunc,
			"jsonencode": stdlib.JSONEncodeFunc,
			"max":        stdlib.MaxFunc,
			"min":        stdlib.MinFunc,
		},
	}
}

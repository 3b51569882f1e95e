// Package render provides the "emit artifacts without executing" Dispatcher
// variant (spec.md §4.3/§1: "the third-party renderer that emits shell
// scripts for external orchestrators"). It writes one script per dispatched
// node instead of running anything, so a pipeline can be handed to an
// external scheduler that only understands shell scripts.
package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/dagrunner/dagrunner/internal/graph"
	"github.com/dagrunner/dagrunner/internal/pipeline"
)

// Dispatcher renders one shell script per task/as-is node into Dir instead
// of executing it. IsParallelExecution is false: scripts are written in
// deterministic traversal order so a reviewer can read them front to back.
type Dispatcher struct {
	Dir string
}

// New returns a Dispatcher that writes scripts under dir.
func New(dir string) *Dispatcher {
	return &Dispatcher{Dir: dir}
}

func (d *Dispatcher) IsParallelExecution() bool { return false }

// TriggerJob implements pipeline.Dispatcher. It never runs a command: a
// task node's shell command is reparsed and pretty-printed via
// mvdan.cc/sh/v3/syntax, prefixed with one DAGRUNNER_PRM_<KEY> export per
// parameter (the value's fmt.Sprint form, double-quoted; unlike the local
// Dispatcher's channel, values are not JSON-encoded), and written to
// <Dir>/<command-friendly-name>.sh. An
// as-is node's render_string is written verbatim (spec.md §4.2's "during
// rendering, its render_string is emitted verbatim").
func (d *Dispatcher) TriggerJob(ctx context.Context, n *graph.Node, mapVariable map[string]string, params map[string]any) (map[string]any, string, error) {
	var script string
	switch n.Type {
	case graph.NodeTypeAsIs:
		script = n.Spec.RenderString
	case graph.NodeTypeTask:
		rendered, err := d.renderCommand(n, params)
		if err != nil {
			return nil, "", err
		}
		script = rendered
	default:
		return nil, "", fmt.Errorf("render: node %q of type %q cannot be rendered as a leaf", n.Name, n.Type)
	}

	path := filepath.Join(d.Dir, graph.CommandFriendlyName(n.InternalName)+".sh")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		return nil, "", fmt.Errorf("render: write script for node %q: %w", n.Name, err)
	}
	return nil, path, nil
}

func (d *Dispatcher) renderCommand(n *graph.Node, params map[string]any) (string, error) {
	file, err := syntax.NewParser().Parse(strings.NewReader(n.Spec.Command), "")
	if err != nil {
		return "", fmt.Errorf("render: parse shell command for node %q: %w", n.Name, err)
	}

	var buf strings.Builder
	buf.WriteString("#!/bin/sh\n")
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		buf.WriteString(fmt.Sprintf("export DAGRUNNER_PRM_%s=%q\n", strings.ToUpper(key), fmt.Sprint(params[key])))
	}
	printer := syntax.NewPrinter()
	if err := printer.Print(&buf, file); err != nil {
		return "", fmt.Errorf("render: print shell command for node %q: %w", n.Name, err)
	}
	return buf.String(), nil
}

var _ pipeline.Dispatcher = (*Dispatcher)(nil)

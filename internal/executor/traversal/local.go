// Package traversal provides the in-process pipeline.Dispatcher: the
// "local mode runs in-process" variant of spec.md §4.3's trigger_job.
package traversal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/dagrunner/dagrunner/internal/executor/command"
	"github.com/dagrunner/dagrunner/internal/graph"
	"github.com/dagrunner/dagrunner/internal/pipeline"
)

// paramEnvPrefix names the process-environment parameter channel (spec.md
// §5/§9, renamed from the source's MAGNUS_PRM_ prefix): a write-once-per-task
// bridge used only for the shell/subprocess path, since in-process python
// dispatch passes params directly as a Go map.
const paramEnvPrefix = "DAGRUNNER_PRM_"

// LocalDispatcher runs task and as-is nodes in the same process as the
// traversal core. IsParallelExecution is always true: goroutines are cheap
// enough that there is no reason to serialize composite branch execution
// when running locally.
type LocalDispatcher struct {
	Python *command.PythonRegistry

	// ComputeDataFolder resolves the working directory a shell command
	// runs in, given the dispatched node. Nil runs in the process's own
	// working directory.
	ComputeDataFolder func(n *graph.Node) string
}

// NewLocalDispatcher returns a LocalDispatcher. python may be nil if the
// pipeline never declares a command_type=python node.
func NewLocalDispatcher(python *command.PythonRegistry) *LocalDispatcher {
	return &LocalDispatcher{Python: python}
}

func (d *LocalDispatcher) IsParallelExecution() bool { return true }

// TriggerJob implements pipeline.Dispatcher.
func (d *LocalDispatcher) TriggerJob(ctx context.Context, n *graph.Node, mapVariable map[string]string, params map[string]any) (map[string]any, string, error) {
	switch n.Type {
	case graph.NodeTypeAsIs:
		// spec.md §4.2: "no-op during interactive execution".
		return nil, "", nil
	case graph.NodeTypeTask:
		return d.triggerTask(ctx, n, params)
	default:
		return nil, "", fmt.Errorf("traversal: node %q of type %q cannot be dispatched as a leaf", n.Name, n.Type)
	}
}

func (d *LocalDispatcher) triggerTask(ctx context.Context, n *graph.Node, params map[string]any) (map[string]any, string, error) {
	if n.Spec.CommandType == graph.CommandTypePython {
		if d.Python == nil {
			return nil, "", fmt.Errorf("traversal: node %q is command_type=python but no function registry is configured", n.Name)
		}
		result, err := d.Python.Execute(ctx, n.Spec.Command, params)
		return result.Parameters, result.Message, err
	}

	dir := ""
	if d.ComputeDataFolder != nil {
		dir = d.ComputeDataFolder(n)
	}
	result, err := command.NewShellExecutor(dir).Execute(ctx, n.Spec.Command, paramEnv(params))
	return result.Parameters, result.Message, err
}

// paramEnv encodes params as DAGRUNNER_PRM_-prefixed environment entries
// alongside the inherited process environment. Values are JSON-encoded
// since environment entries are plain strings.
func paramEnv(params map[string]any) []string {
	env := os.Environ()
	for k, v := range params {
		data, err := json.Marshal(v)
		if err != nil {
			continue
		}
		env = append(env, paramEnvPrefix+strings.ToUpper(k)+"="+string(data))
	}
	return env
}

var _ pipeline.Dispatcher = (*LocalDispatcher)(nil)

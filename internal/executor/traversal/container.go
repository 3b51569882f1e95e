package traversal

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/moby/moby/api/types/container"
	"github.com/moby/moby/client"

	"github.com/dagrunner/dagrunner/internal/graph"
	"github.com/dagrunner/dagrunner/internal/pipeline"
)

// ContainerDispatcher runs task nodes by spawning a container whose
// entrypoint re-invokes "dagrunner execute-single-node" with the node's
// command-friendly internal name (spec.md §4.3's "container mode spawns a
// container"). Composite branches are still expanded in this process, one
// after another since IsParallelExecution is false; only the leaf dispatch
// itself crosses into a container.
type ContainerDispatcher struct {
	Client *client.Client

	// Image names the image each spawned container runs. Pipeline
	// documents in this mode assume a single image carrying the
	// dagrunner binary plus every task's dependencies.
	Image string

	// ReinvokeArgs builds the command the container entrypoint runs,
	// given the node's command-friendly internal name and the run ID.
	// Defaults to ["dagrunner", "execute-single-node", "--run-id", runID,
	// "--node", commandFriendlyName].
	ReinvokeArgs func(runID, commandFriendlyName string) []string
}

// NewContainerDispatcher returns a ContainerDispatcher bound to cli,
// spawning containers from image.
func NewContainerDispatcher(cli *client.Client, image string) *ContainerDispatcher {
	return &ContainerDispatcher{Client: cli, Image: image}
}

// IsParallelExecution is always false: container mode already pays
// per-branch process isolation, and the host commonly sizes its Docker
// daemon connection for one in-flight request at a time.
func (d *ContainerDispatcher) IsParallelExecution() bool { return false }

// TriggerJob implements pipeline.Dispatcher by creating, starting, and
// waiting on a container that re-invokes this binary against the same
// node. The Run Log's parameters travel to the container as
// DAGRUNNER_PRM_ environment entries, mirroring the local Dispatcher's
// channel (spec.md §9).
func (d *ContainerDispatcher) TriggerJob(ctx context.Context, n *graph.Node, mapVariable map[string]string, params map[string]any) (map[string]any, string, error) {
	runID := uuid.NewString()
	name := fmt.Sprintf("dagrunner-%s-%s", graph.CommandFriendlyName(n.InternalName), runID[:8])

	cmd := d.reinvokeArgs(runID, graph.CommandFriendlyName(n.InternalName))
	resp, err := d.Client.ContainerCreate(ctx, &container.Config{
		Image: d.Image,
		Cmd:   cmd,
		Env:   paramEnv(params),
	}, &container.HostConfig{AutoRemove: true}, nil, nil, name)
	if err != nil {
		return nil, "", fmt.Errorf("traversal: create container for node %q: %w", n.Name, err)
	}

	if err := d.Client.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		return nil, "", fmt.Errorf("traversal: start container for node %q: %w", n.Name, err)
	}

	statusCh, errCh := d.Client.ContainerWait(ctx, resp.ID, container.WaitConditionNotRunning)
	var exitCode int64
	select {
	case err := <-errCh:
		if err != nil {
			return nil, "", fmt.Errorf("traversal: wait for container running node %q: %w", n.Name, err)
		}
	case result := <-statusCh:
		exitCode = result.StatusCode
	case <-ctx.Done():
		return nil, "", ctx.Err()
	}

	message, err := d.tailLogs(ctx, resp.ID)
	if err != nil {
		return nil, "", fmt.Errorf("traversal: read logs for node %q: %w", n.Name, err)
	}

	if exitCode != 0 {
		return nil, message, fmt.Errorf("traversal: node %q exited with status %d", n.Name, exitCode)
	}
	return nil, message, nil
}

func (d *ContainerDispatcher) reinvokeArgs(runID, commandFriendlyName string) []string {
	if d.ReinvokeArgs != nil {
		return d.ReinvokeArgs(runID, commandFriendlyName)
	}
	return []string{"dagrunner", "execute-single-node", "--run-id", runID, "--node", commandFriendlyName}
}

func (d *ContainerDispatcher) tailLogs(ctx context.Context, containerID string) (string, error) {
	logs, err := d.Client.ContainerLogs(ctx, containerID, container.LogsOptions{ShowStdout: true, ShowStderr: true})
	if err != nil {
		return "", err
	}
	defer logs.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, logs); err != nil && err != io.EOF {
		return "", err
	}
	return buf.String(), nil
}

var _ pipeline.Dispatcher = (*ContainerDispatcher)(nil)

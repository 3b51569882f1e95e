package traversal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContainerDispatcher_IsParallelExecution(t *testing.T) {
	require.False(t, NewContainerDispatcher(nil, "dagrunner:latest").IsParallelExecution())
}

func TestContainerDispatcher_DefaultReinvokeArgs(t *testing.T) {
	d := NewContainerDispatcher(nil, "dagrunner:latest")
	args := d.reinvokeArgs("run-1", "fit%model")
	require.Equal(t, []string{"dagrunner", "execute-single-node", "--run-id", "run-1", "--node", "fit%model"}, args)
}

func TestContainerDispatcher_CustomReinvokeArgs(t *testing.T) {
	d := NewContainerDispatcher(nil, "dagrunner:latest")
	d.ReinvokeArgs = func(runID, commandFriendlyName string) []string {
		return []string{"custom", runID, commandFriendlyName}
	}
	args := d.reinvokeArgs("run-2", "node")
	require.Equal(t, []string{"custom", "run-2", "node"}, args)
}

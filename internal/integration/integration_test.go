package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNoop(t *testing.T) {
	var a Adapter = Noop{}
	ctx := context.Background()
	require.NoError(t, a.Validate(ctx, "shell", "local"))
	require.NoError(t, a.ConfigureForTraversal(ctx, "shell", "local"))
	require.NoError(t, a.ConfigureForExecution(ctx, "shell", "local"))
}

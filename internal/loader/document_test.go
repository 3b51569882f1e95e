package loader

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dagrunner/dagrunner/internal/graph"
)

func TestParse_LinearPipeline(t *testing.T) {
	raw := []byte(`
dag:
  start_at: t1
  description: a linear pipeline
  steps:
    t1:
      type: task
      command_type: shell
      command: echo hi
      next: success
    success:
      type: success
    fail:
      type: fail
`)
	doc, spec, err := Parse(raw)
	require.NoError(t, err)
	require.Equal(t, "a linear pipeline", doc.DAG.Description)
	require.Equal(t, "t1", spec.StartAt)
	require.Len(t, spec.Nodes, 3)
	require.Equal(t, "t1", spec.Nodes[0].Name)
	require.Equal(t, graph.NodeTypeTask, spec.Nodes[0].Spec.Type)
	require.Equal(t, "echo hi", spec.Nodes[0].Spec.Command)
	require.Equal(t, "success", spec.Nodes[0].Spec.Next)

	g, err := graph.NewGraph("", spec)
	require.NoError(t, err)
	require.NotNil(t, g)
}

func TestParse_ParallelBranches(t *testing.T) {
	raw := []byte(`
dag:
  start_at: p
  steps:
    p:
      type: parallel
      next: success
      branches:
        a:
          start_at: ta
          steps:
            ta:
              type: task
              command_type: shell
              command: ok
              next: success
            success:
              type: success
            fail:
              type: fail
        b:
          start_at: tb
          steps:
            tb:
              type: task
              command_type: shell
              command: ok
              next: success
            success:
              type: success
            fail:
              type: fail
    success:
      type: success
    fail:
      type: fail
`)
	_, spec, err := Parse(raw)
	require.NoError(t, err)

	pNode := spec.Nodes[0]
	require.Equal(t, graph.NodeTypeParallel, pNode.Spec.Type)
	require.Len(t, pNode.Spec.Branches, 2)
	require.Equal(t, "ta", pNode.Spec.Branches["a"].StartAt)
	require.Equal(t, "tb", pNode.Spec.Branches["b"].StartAt)

	g, err := graph.NewGraph("", spec)
	require.NoError(t, err)
	require.NotNil(t, g)
}

func TestParse_MapNode(t *testing.T) {
	raw := []byte(`
dag:
  start_at: m
  steps:
    m:
      type: map
      next: success
      iterate_on: xs
      iterate_as: x
      branch:
        start_at: t
        steps:
          t:
            type: task
            command_type: shell
            command: handle
            next: success
          success:
            type: success
          fail:
            type: fail
    success:
      type: success
    fail:
      type: fail
`)
	_, spec, err := Parse(raw)
	require.NoError(t, err)

	mNode := spec.Nodes[0]
	require.Equal(t, graph.NodeTypeMap, mNode.Spec.Type)
	require.Equal(t, "xs", mNode.Spec.IterateOn)
	require.Equal(t, "x", mNode.Spec.IterateAs)
	require.NotNil(t, mNode.Spec.BranchSpec)
	require.Equal(t, "t", mNode.Spec.BranchSpec.StartAt)
}

func TestParse_StepCatalogAndModeConfig(t *testing.T) {
	raw := []byte(`
dag:
  start_at: t1
  steps:
    t1:
      type: task
      command_type: shell
      command: echo hi
      next: success
      retry: 3
      catalog:
        get: ["input.csv"]
        put: ["output.csv"]
        compute_data_folder: /data
      mode_config:
        secrets: ["db-password"]
    success:
      type: success
    fail:
      type: fail
`)
	_, spec, err := Parse(raw)
	require.NoError(t, err)

	t1 := spec.Nodes[0].Spec
	require.Equal(t, 3, t1.Retry)
	require.Equal(t, []string{"input.csv"}, t1.Catalog.Get)
	require.Equal(t, []string{"output.csv"}, t1.Catalog.Put)
	require.Equal(t, "/data", t1.Catalog.ComputeDataFolder)
	require.Equal(t, []any{"db-password"}, t1.ModeConfig["secrets"])
}

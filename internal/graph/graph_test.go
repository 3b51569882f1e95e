package graph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func linearSpec() *GraphSpec {
	return &GraphSpec{
		StartAt: "t1",
		Nodes: []NamedNodeSpec{
			{Name: "t1", Spec: &NodeSpec{Type: NodeTypeTask, CommandType: CommandTypeShell, Command: "echo hi", Next: "success"}},
			{Name: "success", Spec: &NodeSpec{Type: NodeTypeSuccess}},
			{Name: "fail", Spec: &NodeSpec{Type: NodeTypeFail}},
		},
	}
}

func TestNewGraph_Linear(t *testing.T) {
	g, err := NewGraph("", linearSpec())
	require.NoError(t, err)
	require.Equal(t, "t1", g.StartAt)
	require.NotNil(t, g.GetSuccessNode())
	require.NotNil(t, g.GetFailNode())

	n, err := g.GetNodeByName("t1")
	require.NoError(t, err)
	require.Equal(t, "t1", n.InternalName)
	require.Equal(t, "", n.InternalBranchName)
	require.Equal(t, 0, DotDepth(n.InternalBranchName))
	require.Equal(t, 1, DotDepth(n.InternalName))
}

func TestNewGraph_MissingNeighbor(t *testing.T) {
	spec := linearSpec()
	spec.Nodes[0].Spec.Next = "does-not-exist"
	_, err := NewGraph("", spec)
	require.ErrorIs(t, err, ErrMissingNeighbor)
}

func TestNewGraph_RequiresExactlyOneSuccessAndFail(t *testing.T) {
	spec := linearSpec()
	spec.Nodes = append(spec.Nodes, NamedNodeSpec{Name: "success2", Spec: &NodeSpec{Type: NodeTypeSuccess}})
	_, err := NewGraph("", spec)
	require.ErrorIs(t, err, ErrValidation)

	spec = linearSpec()
	spec.Nodes = spec.Nodes[:2] // drop fail node
	_, err = NewGraph("", spec)
	require.ErrorIs(t, err, ErrValidation)
}

func TestNewGraph_CycleDetected(t *testing.T) {
	spec := &GraphSpec{
		StartAt: "t1",
		Nodes: []NamedNodeSpec{
			{Name: "t1", Spec: &NodeSpec{Type: NodeTypeTask, CommandType: CommandTypeShell, Command: "true", Next: "t2"}},
			{Name: "t2", Spec: &NodeSpec{Type: NodeTypeTask, CommandType: CommandTypeShell, Command: "true", Next: "t1"}},
			{Name: "success", Spec: &NodeSpec{Type: NodeTypeSuccess}},
			{Name: "fail", Spec: &NodeSpec{Type: NodeTypeFail}},
		},
	}
	_, err := NewGraph("", spec)
	require.ErrorIs(t, err, ErrCycleDetected)
}

func TestNewGraph_StartAtMustResolve(t *testing.T) {
	spec := linearSpec()
	spec.StartAt = "nope"
	_, err := NewGraph("", spec)
	require.ErrorIs(t, err, ErrValidation)
}

func TestParallelNode_RequiresBranches(t *testing.T) {
	spec := &GraphSpec{
		StartAt: "p",
		Nodes: []NamedNodeSpec{
			{Name: "p", Spec: &NodeSpec{Type: NodeTypeParallel, Next: "success", Branches: map[string]*GraphSpec{}}},
			{Name: "success", Spec: &NodeSpec{Type: NodeTypeSuccess}},
			{Name: "fail", Spec: &NodeSpec{Type: NodeTypeFail}},
		},
	}
	_, err := NewGraph("", spec)
	require.ErrorIs(t, err, ErrValidation)
}

func TestParallelNode_ExpandBranches(t *testing.T) {
	branchA := linearSpec()
	branchB := linearSpec()
	spec := &GraphSpec{
		StartAt: "p",
		Nodes: []NamedNodeSpec{
			{Name: "p", Spec: &NodeSpec{Type: NodeTypeParallel, Next: "success", Branches: map[string]*GraphSpec{"a": branchA, "b": branchB}}},
			{Name: "success", Spec: &NodeSpec{Type: NodeTypeSuccess}},
			{Name: "fail", Spec: &NodeSpec{Type: NodeTypeFail}},
		},
	}
	g, err := NewGraph("", spec)
	require.NoError(t, err)

	p, err := g.GetNodeByName("p")
	require.NoError(t, err)
	require.True(t, p.IsComposite())

	branches, err := p.ExpandBranches(nil)
	require.NoError(t, err)
	require.Len(t, branches, 2)
	require.Equal(t, "p.a", branches["a"].InternalBranchName)
	require.Equal(t, 2, DotDepth(branches["a"].InternalBranchName))

	n, err := branches["a"].GetNodeByName("t1")
	require.NoError(t, err)
	require.Equal(t, "p.a.t1", n.InternalName)
	require.Equal(t, 3, DotDepth(n.InternalName))
}

func TestMapNode_ExpandBranches(t *testing.T) {
	tmpl := linearSpec()
	spec := &GraphSpec{
		StartAt: "m",
		Nodes: []NamedNodeSpec{
			{Name: "m", Spec: &NodeSpec{Type: NodeTypeMap, Next: "success", IterateOn: "xs", IterateAs: "x", BranchSpec: tmpl}},
			{Name: "success", Spec: &NodeSpec{Type: NodeTypeSuccess}},
			{Name: "fail", Spec: &NodeSpec{Type: NodeTypeFail}},
		},
	}
	g, err := NewGraph("", spec)
	require.NoError(t, err)

	m, err := g.GetNodeByName("m")
	require.NoError(t, err)

	branches, err := m.ExpandBranches([]string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, branches, 3)
	require.Equal(t, "m.a", branches["a"].InternalBranchName)
	require.Equal(t, "m.c", branches["c"].InternalBranchName)
}

func TestDAGNode_RequiresSubDag(t *testing.T) {
	spec := &GraphSpec{
		StartAt: "d",
		Nodes: []NamedNodeSpec{
			{Name: "d", Spec: &NodeSpec{Type: NodeTypeDAG, Next: "success", DagDefinition: "child.yaml"}},
			{Name: "success", Spec: &NodeSpec{Type: NodeTypeSuccess}},
			{Name: "fail", Spec: &NodeSpec{Type: NodeTypeFail}},
		},
	}
	_, err := NewGraph("", spec)
	require.ErrorIs(t, err, ErrValidation)
}

func TestResolveMapPlaceholders(t *testing.T) {
	out := ResolveMapPlaceholders("m.%.t1", []string{"x"}, map[string]string{"x": "a"})
	require.Equal(t, "m.a.t1", out)
}

func TestHash_Deterministic(t *testing.T) {
	spec := linearSpec()
	h1, err := Hash(spec)
	require.NoError(t, err)
	h2, err := Hash(spec)
	require.NoError(t, err)
	require.Equal(t, h1, h2)

	spec2 := linearSpec()
	spec2.Nodes[0].Spec.Command = "echo different"
	h3, err := Hash(spec2)
	require.NoError(t, err)
	require.NotEqual(t, h1, h3)
}

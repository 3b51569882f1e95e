package graph

import "time"

// NodeType enumerates the node taxonomy. A tagged-variant registry keyed by
// NodeType replaces the original implementation's subclass enumeration.
type NodeType string

const (
	NodeTypeTask     NodeType = "task"
	NodeTypeSuccess  NodeType = "success"
	NodeTypeFail     NodeType = "fail"
	NodeTypeAsIs     NodeType = "as-is"
	NodeTypeParallel NodeType = "parallel"
	NodeTypeMap      NodeType = "map"
	NodeTypeDAG      NodeType = "dag"
)

// CommandType selects the Command Executor used to run a task node.
type CommandType string

const (
	CommandTypePython CommandType = "python"
	CommandTypeShell  CommandType = "shell"
)

// CatalogSettings is a node's catalog override, resolved against the
// catalog handler's default compute data folder.
type CatalogSettings struct {
	Get               []string
	Put               []string
	ComputeDataFolder string
}

// NodeSpec is the decoded, pre-validated definition of one node as it
// appears in a pipeline document, independent of its position in the
// overall graph (internal names are computed when the Node is built).
type NodeSpec struct {
	Type        NodeType
	Command     string
	CommandType CommandType
	Next        string
	OnFailure   string
	Retry       int
	Catalog     *CatalogSettings
	ModeConfig  map[string]any

	// parallel
	Branches map[string]*GraphSpec

	// map
	IterateOn     string
	IterateAs     string
	BranchSpec    *GraphSpec

	// dag
	DagDefinition string
	SubDag        *GraphSpec

	// as-is
	RenderString string
}

// NamedNodeSpec preserves pipeline-document order across a map-keyed set of
// node definitions.
type NamedNodeSpec struct {
	Name string
	Spec *NodeSpec
}

// GraphSpec is the decoded definition of one graph (the root DAG, or the
// body of a composite node's branch).
type GraphSpec struct {
	StartAt     string
	Nodes       []NamedNodeSpec
	MaxTime     time.Duration
	Description string
}

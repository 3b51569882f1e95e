package graph

import "fmt"

// Node is the polymorphic unit of work described by spec.md §3/§4.2. All
// variants share this struct; behavior differs by Type and is dispatched by
// the pipeline package's Executor rather than by per-type Go types, per the
// tagged-variant registry design.
type Node struct {
	Name                string
	InternalName        string
	InternalBranchName  string
	Type                NodeType
	Spec                *NodeSpec
}

func buildNode(name, branchName string, spec *NodeSpec) (*Node, error) {
	if err := ValidateNodeName(name); err != nil {
		return nil, err
	}
	if err := validateNodeSpec(name, spec); err != nil {
		return nil, err
	}
	return &Node{
		Name:               name,
		InternalName:       JoinInternalName(branchName, name),
		InternalBranchName: branchName,
		Type:               spec.Type,
		Spec:               spec,
	}, nil
}

func validateNodeSpec(name string, spec *NodeSpec) error {
	switch spec.Type {
	case NodeTypeSuccess, NodeTypeFail:
		if spec.Next != "" {
			return fmt.Errorf("%w: terminal node %q must not set next", ErrValidation, name)
		}
	case NodeTypeAsIs:
	case NodeTypeTask:
		if spec.CommandType == "" {
			spec.CommandType = CommandTypeShell
		}
	case NodeTypeParallel:
		if len(spec.Branches) == 0 {
			return fmt.Errorf("%w: parallel node %q must declare at least one branch", ErrValidation, name)
		}
	case NodeTypeMap:
		if spec.IterateOn == "" || spec.IterateAs == "" {
			return fmt.Errorf("%w: map node %q requires iterate_on and iterate_as", ErrValidation, name)
		}
		if spec.BranchSpec == nil {
			return fmt.Errorf("%w: map node %q is missing its branch sub-graph", ErrValidation, name)
		}
	case NodeTypeDAG:
		if spec.DagDefinition == "" {
			return fmt.Errorf("%w: dag node %q requires dag_definition", ErrValidation, name)
		}
		if spec.SubDag == nil {
			return fmt.Errorf("%w: dag node %q's loaded document has no \"dag\" key", ErrValidation, name)
		}
	default:
		return fmt.Errorf("%w: node %q has unknown type %q", ErrValidation, name, spec.Type)
	}
	if spec.Retry < 1 {
		spec.Retry = 1
	}
	return nil
}

// IsTerminal reports whether n is a success or fail node.
func (n *Node) IsTerminal() bool {
	return n.Type == NodeTypeSuccess || n.Type == NodeTypeFail
}

// IsComposite reports whether n's body is itself one or more sub-graphs.
func (n *Node) IsComposite() bool {
	switch n.Type {
	case NodeTypeParallel, NodeTypeMap, NodeTypeDAG:
		return true
	default:
		return false
	}
}

// MaxAttempts returns the configured retry count, defaulting to 1.
func (n *Node) MaxAttempts() int {
	if n.Spec.Retry < 1 {
		return 1
	}
	return n.Spec.Retry
}

// CatalogSettings returns the node's catalog override, or nil if unset.
func (n *Node) CatalogSettings() *CatalogSettings {
	return n.Spec.Catalog
}

// ModeConfig returns the node's executor-mode-specific configuration.
func (n *Node) ModeConfig() map[string]any {
	return n.Spec.ModeConfig
}

// NextNodeName returns the name of the node to run after n succeeds. Empty
// for terminal nodes.
func (n *Node) NextNodeName() string { return n.Spec.Next }

// OnFailureNodeName returns the name of the node to run after n fails,
// which may be empty (callers fall back to the graph's fail node).
func (n *Node) OnFailureNodeName() string { return n.Spec.OnFailure }

// Neighbours returns the distinct set of node names n's edges point to.
func (n *Node) Neighbours() []string {
	seen := map[string]struct{}{}
	var out []string
	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	add(n.Spec.Next)
	add(n.Spec.OnFailure)
	return out
}

// StepLogName resolves the map placeholder in n's internal name against
// keys (consumed in order) and vars.
func (n *Node) StepLogName(keys []string, vars map[string]string) string {
	return ResolveMapPlaceholders(n.InternalName, keys, vars)
}

// BranchLogName resolves the map placeholder in n's containing branch name.
func (n *Node) BranchLogName(keys []string, vars map[string]string) string {
	return ResolveMapPlaceholders(n.InternalBranchName, keys, vars)
}

// ExpandBranches builds the sub-graph(s) of a composite node. For a map
// node, iterationValues supplies the resolved list parameter named by
// iterate_on; it is ignored for parallel and dag nodes.
func (n *Node) ExpandBranches(iterationValues []string) (map[string]*Graph, error) {
	switch n.Type {
	case NodeTypeParallel:
		branches := make(map[string]*Graph, len(n.Spec.Branches))
		for name, spec := range n.Spec.Branches {
			g, err := NewGraph(JoinInternalName(n.InternalName, name), spec)
			if err != nil {
				return nil, err
			}
			branches[name] = g
		}
		return branches, nil
	case NodeTypeMap:
		branches := make(map[string]*Graph, len(iterationValues))
		keys := []string{n.Spec.IterateAs}
		for _, v := range iterationValues {
			branchName := ResolveMapPlaceholders(JoinInternalName(n.InternalName, MapPlaceholder), keys, map[string]string{n.Spec.IterateAs: v})
			g, err := NewGraph(branchName, n.Spec.BranchSpec)
			if err != nil {
				return nil, err
			}
			branches[v] = g
		}
		return branches, nil
	case NodeTypeDAG:
		g, err := NewGraph(JoinInternalName(n.InternalName, "dag"), n.Spec.SubDag)
		if err != nil {
			return nil, err
		}
		return map[string]*Graph{"dag": g}, nil
	default:
		return nil, fmt.Errorf("node %q is not a composite node", n.Name)
	}
}

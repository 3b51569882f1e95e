package graph

import "fmt"

// Graph is an ordered collection of Nodes with a designated start node,
// exactly one success node, exactly one fail node, and structural
// validation (spec.md §3/§4.1).
type Graph struct {
	StartAt             string
	InternalBranchName  string
	Nodes               []*Node
	MaxTime             float64

	byName         map[string]*Node
	byInternalName map[string]*Node
	successNode    *Node
	failNode       *Node
}

// NewGraph builds and validates a Graph from spec. internalBranchName is
// the dot-path of the branch this graph belongs to ("" at the root).
func NewGraph(internalBranchName string, spec *GraphSpec) (*Graph, error) {
	g := &Graph{
		StartAt:            spec.StartAt,
		InternalBranchName: internalBranchName,
		byName:             make(map[string]*Node, len(spec.Nodes)),
		byInternalName:     make(map[string]*Node, len(spec.Nodes)),
	}

	for _, named := range spec.Nodes {
		if _, exists := g.byName[named.Name]; exists {
			return nil, fmt.Errorf("%w: duplicate node name %q", ErrValidation, named.Name)
		}
		n, err := buildNode(named.Name, internalBranchName, named.Spec)
		if err != nil {
			return nil, err
		}
		g.Nodes = append(g.Nodes, n)
		g.byName[n.Name] = n
		g.byInternalName[n.InternalName] = n
		switch n.Type {
		case NodeTypeSuccess:
			g.successNode = n
		case NodeTypeFail:
			g.failNode = n
		}
	}

	if err := g.validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// GetNodeByName returns the node named name, or ErrNodeNotFound.
func (g *Graph) GetNodeByName(name string) (*Node, error) {
	n, ok := g.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, name)
	}
	return n, nil
}

// GetNodeByInternalName returns the node with internal name iname, or
// ErrNodeNotFound.
func (g *Graph) GetNodeByInternalName(iname string) (*Node, error) {
	n, ok := g.byInternalName[iname]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, iname)
	}
	return n, nil
}

// GetSuccessNode returns the graph's single success node.
func (g *Graph) GetSuccessNode() *Node { return g.successNode }

// GetFailNode returns the graph's single fail node.
func (g *Graph) GetFailNode() *Node { return g.failNode }

func (g *Graph) validate() error {
	if g.StartAt == "" {
		return fmt.Errorf("%w: start_at is required", ErrValidation)
	}
	if _, ok := g.byName[g.StartAt]; !ok {
		return fmt.Errorf("%w: start_at %q does not resolve to a node", ErrValidation, g.StartAt)
	}

	successCount, failCount := 0, 0
	for _, n := range g.Nodes {
		switch n.Type {
		case NodeTypeSuccess:
			successCount++
		case NodeTypeFail:
			failCount++
		}
		for _, neighbor := range n.Neighbours() {
			if _, ok := g.byName[neighbor]; !ok {
				return fmt.Errorf("%w: node %q references missing neighbor %q", ErrMissingNeighbor, n.Name, neighbor)
			}
		}
	}
	if successCount != 1 {
		return fmt.Errorf("%w: graph must have exactly one success node, found %d", ErrValidation, successCount)
	}
	if failCount != 1 {
		return fmt.Errorf("%w: graph must have exactly one fail node, found %d", ErrValidation, failCount)
	}

	return g.isDAG()
}

// isDAG performs cycle detection over the directed edges (n -> n.Next) and
// (n -> n.OnFailure), with the success/fail nodes treated as sinks. This is
// the static counterpart to the executor's runtime previous==current guard
// (kept as belt-and-braces per the engine's design notes).
func (g *Graph) isDAG() error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(g.Nodes))

	var visit func(name string) error
	visit = func(name string) error {
		switch color[name] {
		case black:
			return nil
		case gray:
			return fmt.Errorf("%w: cycle through node %q", ErrCycleDetected, name)
		}
		color[name] = gray
		n := g.byName[name]
		if n != nil && !n.IsTerminal() {
			for _, neighbor := range n.Neighbours() {
				if err := visit(neighbor); err != nil {
					return err
				}
			}
		}
		color[name] = black
		return nil
	}

	for _, n := range g.Nodes {
		if err := visit(n.Name); err != nil {
			return err
		}
	}
	return nil
}

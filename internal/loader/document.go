// Package loader turns a pipeline document (spec.md §6's "Pipeline
// document") into a *graph.GraphSpec the traversal core can run, and loads
// the runner/user configuration files that select concrete providers.
package loader

import (
	"fmt"
	"os"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/goccy/go-yaml"

	"github.com/dagrunner/dagrunner/internal/graph"
)

// Document is the decoded top-level shape of a pipeline document (spec.md
// §6: "dag (required)... optional run_log, catalog, secrets, mode").
type Document struct {
	DAG     rawDAG         `yaml:"dag"`
	RunLog  map[string]any `yaml:"run_log"`
	Catalog map[string]any `yaml:"catalog"`
	Secrets map[string]any `yaml:"secrets"`
	Mode    map[string]any `yaml:"mode"`
}

// rawDAG mirrors the dag key before its steps are decoded into NodeSpecs.
// Steps is a yaml.MapSlice rather than a plain map so step declaration
// order survives decode (spec.md §8's map-placeholder insertion-order
// invariant depends on it, and a pipeline author expects step order in the
// file to be meaningful).
type rawDAG struct {
	StartAt     string        `yaml:"start_at"`
	Steps       yaml.MapSlice `yaml:"steps"`
	Description string        `yaml:"description"`
	MaxTime     string        `yaml:"max_time"`
}

// Parse decodes raw pipeline document bytes (already variable-substituted
// by Substitute) into a Document and its equivalent graph.GraphSpec.
//
// yaml.UseOrderedMap makes every nested mapping decode as yaml.MapSlice
// instead of map[string]any, not just the top-level Steps field — needed
// so branches.*.steps and branch.steps preserve declaration order too.
func Parse(raw []byte) (*Document, *graph.GraphSpec, error) {
	var doc Document
	if err := yaml.Unmarshal(raw, &doc, yaml.UseOrderedMap()); err != nil {
		return nil, nil, fmt.Errorf("loader: parse pipeline document: %w", err)
	}

	spec, err := doc.DAG.toGraphSpec()
	if err != nil {
		return nil, nil, err
	}
	return &doc, spec, nil
}

func (d rawDAG) toGraphSpec() (*graph.GraphSpec, error) {
	maxTime, err := parseDuration(d.MaxTime)
	if err != nil {
		return nil, fmt.Errorf("loader: dag.max_time: %w", err)
	}

	nodes := make([]graph.NamedNodeSpec, 0, len(d.Steps))
	for _, item := range d.Steps {
		name, ok := item.Key.(string)
		if !ok {
			return nil, fmt.Errorf("loader: step name %v is not a string", item.Key)
		}
		spec, err := decodeStep(item.Value)
		if err != nil {
			return nil, fmt.Errorf("loader: step %q: %w", name, err)
		}
		nodes = append(nodes, graph.NamedNodeSpec{Name: name, Spec: spec})
	}

	return &graph.GraphSpec{
		StartAt:     d.StartAt,
		Nodes:       nodes,
		MaxTime:     maxTime,
		Description: d.Description,
	}, nil
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

// stepShape is the generic shape every step definition decodes through
// before its variant-specific fields (branches/branch/dag_definition) are
// recursively turned into nested GraphSpecs (spec.md §6: "plus
// variant-specific fields").
type stepShape struct {
	Type          string         `mapstructure:"type"`
	Next          string         `mapstructure:"next"`
	OnFailure     string         `mapstructure:"on_failure"`
	Command       string         `mapstructure:"command"`
	CommandType   string         `mapstructure:"command_type"`
	Retry         int            `mapstructure:"retry"`
	Catalog       *catalogShape  `mapstructure:"catalog"`
	ModeConfig    map[string]any `mapstructure:"mode_config"`
	IterateOn     string         `mapstructure:"iterate_on"`
	IterateAs     string         `mapstructure:"iterate_as"`
	DagDefinition string         `mapstructure:"dag_definition"`
	RenderString  string         `mapstructure:"render_string"`
}

type catalogShape struct {
	Get               []string `mapstructure:"get"`
	Put               []string `mapstructure:"put"`
	ComputeDataFolder string   `mapstructure:"compute_data_folder"`
}

// decodeStep decodes one step's raw yaml.MapSlice value into a
// graph.NodeSpec. mapstructure handles the flat scalar fields; the
// composite-only nested-graph fields (branches, branch, dag_definition's
// inline sub_dag) are pulled out and decoded separately since they are
// themselves dag-shaped documents, not step fields. A dag step without an
// inline sub_dag reads the file named by dag_definition and takes its dag
// key as the sub-graph; a file with no steps under dag leaves SubDag nil,
// which graph validation rejects.
func decodeStep(raw any) (*graph.NodeSpec, error) {
	flat, nested, err := splitCompositeFields(raw)
	if err != nil {
		return nil, err
	}

	var shape stepShape
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &shape,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	// mapstructure has no notion of yaml.MapSlice; flatten it (and any
	// nested occurrences, e.g. inside mode_config) back to plain maps
	// first. Order doesn't matter for these fields, only for dag bodies,
	// which splitCompositeFields already pulled out above.
	if err := decoder.Decode(plainValue(flat)); err != nil {
		return nil, fmt.Errorf("decode step fields: %w", err)
	}

	spec := &graph.NodeSpec{
		Type:          graph.NodeType(shape.Type),
		Command:       shape.Command,
		CommandType:   graph.CommandType(shape.CommandType),
		Next:          shape.Next,
		OnFailure:     shape.OnFailure,
		Retry:         shape.Retry,
		ModeConfig:    shape.ModeConfig,
		IterateOn:     shape.IterateOn,
		IterateAs:     shape.IterateAs,
		DagDefinition: shape.DagDefinition,
		RenderString:  shape.RenderString,
	}
	if shape.Catalog != nil {
		spec.Catalog = &graph.CatalogSettings{
			Get:               shape.Catalog.Get,
			Put:               shape.Catalog.Put,
			ComputeDataFolder: shape.Catalog.ComputeDataFolder,
		}
	}

	if len(nested.branches) > 0 {
		spec.Branches = make(map[string]*graph.GraphSpec, len(nested.branches))
		for name, body := range nested.branches {
			branchSpec, err := rawDAG{StartAt: body.startAt, Steps: body.steps}.toGraphSpec()
			if err != nil {
				return nil, fmt.Errorf("branch %q: %w", name, err)
			}
			spec.Branches[name] = branchSpec
		}
	}
	if nested.branch != nil {
		branchSpec, err := rawDAG{StartAt: nested.branch.startAt, Steps: nested.branch.steps}.toGraphSpec()
		if err != nil {
			return nil, fmt.Errorf("branch: %w", err)
		}
		spec.BranchSpec = branchSpec
	}
	if nested.subDag != nil {
		subDagSpec, err := rawDAG{StartAt: nested.subDag.startAt, Steps: nested.subDag.steps}.toGraphSpec()
		if err != nil {
			return nil, fmt.Errorf("sub_dag: %w", err)
		}
		spec.SubDag = subDagSpec
	}
	if spec.SubDag == nil && spec.DagDefinition != "" {
		data, err := os.ReadFile(spec.DagDefinition)
		if err != nil {
			return nil, fmt.Errorf("dag_definition: %w", err)
		}
		_, subDagSpec, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("dag_definition %q: %w", spec.DagDefinition, err)
		}
		if len(subDagSpec.Nodes) > 0 {
			spec.SubDag = subDagSpec
		}
	}
	return spec, nil
}

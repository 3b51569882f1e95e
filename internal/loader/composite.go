package loader

import (
	"fmt"

	"github.com/goccy/go-yaml"
)

// dagBody is the start_at/steps shape shared by a branch body, a map node's
// branch, and an inline sub_dag — each is itself a dag-shaped document.
type dagBody struct {
	startAt string
	steps   yaml.MapSlice
}

type nestedFields struct {
	branches map[string]dagBody
	branch   *dagBody
	subDag   *dagBody
}

// splitCompositeFields separates a step's composite-only nested-graph
// fields (branches, branch, sub_dag) from its flat scalar fields, since the
// former are themselves dag-shaped documents decoded recursively rather
// than plain mapstructure targets.
func splitCompositeFields(raw any) (map[string]any, nestedFields, error) {
	items, ok := raw.(yaml.MapSlice)
	if !ok {
		return nil, nestedFields{}, fmt.Errorf("step definition must be a mapping")
	}

	flat := make(map[string]any, len(items))
	var nested nestedFields

	for _, item := range items {
		key, ok := item.Key.(string)
		if !ok {
			return nil, nestedFields{}, fmt.Errorf("step key %v is not a string", item.Key)
		}
		switch key {
		case "branches":
			branchesSlice, ok := item.Value.(yaml.MapSlice)
			if !ok {
				return nil, nestedFields{}, fmt.Errorf("branches must be a mapping")
			}
			nested.branches = make(map[string]dagBody, len(branchesSlice))
			for _, b := range branchesSlice {
				name, ok := b.Key.(string)
				if !ok {
					return nil, nestedFields{}, fmt.Errorf("branch name %v is not a string", b.Key)
				}
				body, err := asDagBody(b.Value)
				if err != nil {
					return nil, nestedFields{}, fmt.Errorf("branch %q: %w", name, err)
				}
				nested.branches[name] = body
			}
		case "branch":
			body, err := asDagBody(item.Value)
			if err != nil {
				return nil, nestedFields{}, fmt.Errorf("branch: %w", err)
			}
			nested.branch = &body
		case "sub_dag":
			body, err := asDagBody(item.Value)
			if err != nil {
				return nil, nestedFields{}, fmt.Errorf("sub_dag: %w", err)
			}
			nested.subDag = &body
		default:
			flat[key] = item.Value
		}
	}
	return flat, nested, nil
}

// plainValue recursively converts yaml.MapSlice values (produced by
// yaml.UseOrderedMap for every untyped nested mapping) back to
// map[string]any, for fields where declaration order doesn't matter and a
// plain map is what the rest of the decode pipeline (mapstructure) expects.
func plainValue(v any) any {
	switch vv := v.(type) {
	case yaml.MapSlice:
		m := make(map[string]any, len(vv))
		for _, item := range vv {
			key, _ := item.Key.(string)
			m[key] = plainValue(item.Value)
		}
		return m
	case map[string]any:
		m := make(map[string]any, len(vv))
		for key, val := range vv {
			m[key] = plainValue(val)
		}
		return m
	case []any:
		out := make([]any, len(vv))
		for i, e := range vv {
			out[i] = plainValue(e)
		}
		return out
	default:
		return v
	}
}

func asDagBody(v any) (dagBody, error) {
	slice, ok := v.(yaml.MapSlice)
	if !ok {
		return dagBody{}, fmt.Errorf("must be a mapping with start_at and steps")
	}
	var body dagBody
	for _, item := range slice {
		key, _ := item.Key.(string)
		switch key {
		case "start_at":
			s, ok := item.Value.(string)
			if !ok {
				return dagBody{}, fmt.Errorf("start_at must be a string")
			}
			body.startAt = s
		case "steps":
			steps, ok := item.Value.(yaml.MapSlice)
			if !ok {
				return dagBody{}, fmt.Errorf("steps must be a mapping")
			}
			body.steps = steps
		}
	}
	return body, nil
}

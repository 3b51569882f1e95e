package pipeline

// MapVariable is the per-iteration parameter overlay threaded through a
// traversal: when a map node expands its branches, each branch's execution
// binds its iterate_as name to its own iteration value without ever writing
// it into the Run Log's shared parameters (spec.md §4.5 step 2, §9's
// "parameters as process environment" design note). Values are merged over
// Run Log parameters only at the point a task is dispatched.
//
// Keys are tracked in insertion order (bindings accumulate one per
// ancestor map node) even though lookups go through Values, because Node's
// ResolveMapPlaceholders-based name accessors require an explicit order
// Go's map iteration cannot provide.
type MapVariable struct {
	keys   []string
	values map[string]string
}

// NewMapVariable returns an empty overlay, the root traversal's starting
// value.
func NewMapVariable() MapVariable {
	return MapVariable{}
}

// With returns a copy of m with key bound to value, appended after any
// existing bindings.
func (m MapVariable) With(key, value string) MapVariable {
	keys := make([]string, len(m.keys), len(m.keys)+1)
	copy(keys, m.keys)
	keys = append(keys, key)

	values := make(map[string]string, len(m.values)+1)
	for k, v := range m.values {
		values[k] = v
	}
	values[key] = value

	return MapVariable{keys: keys, values: values}
}

// Keys returns the bound variable names in insertion order.
func (m MapVariable) Keys() []string { return m.keys }

// Values returns the bound variable name-to-value map.
func (m MapVariable) Values() map[string]string { return m.values }

func mapVariableFrom(values map[string]string) MapVariable {
	mv := NewMapVariable()
	for k, v := range values {
		mv = mv.With(k, v)
	}
	return mv
}

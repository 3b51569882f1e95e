package command

import (
	"context"
	"fmt"
	"reflect"
)

// PythonFunc is one registered task function. ParamNames gives fn's
// parameter names in declaration order — Go has no runtime introspection of
// parameter names, so a command_type=python node's target function must be
// registered with them explicitly (SPEC_FULL.md §4 supplement on
// magnus.utils.filter_arguments_for_func).
type PythonFunc struct {
	Fn         reflect.Value
	ParamNames []string
}

// PythonRegistry dispatches task functions by a "pkg.Func"-style qualified
// name, standing in for magnus-core's dynamic python module.function
// import: there is no Go equivalent of importing a dotted module path at
// runtime, so callers register functions ahead of time.
type PythonRegistry struct {
	funcs map[string]PythonFunc
}

// NewPythonRegistry returns an empty registry.
func NewPythonRegistry() *PythonRegistry {
	return &PythonRegistry{funcs: map[string]PythonFunc{}}
}

// Register adds fn under qualifiedName. Execute understands fn returning
// nothing, a single map[string]any or error, or (map[string]any, error) in
// that order; a function with more than two results fails at Execute time.
func (r *PythonRegistry) Register(qualifiedName string, fn any, paramNames ...string) error {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return fmt.Errorf("command: %q is not a function", qualifiedName)
	}
	if v.Type().NumIn() != len(paramNames) {
		return fmt.Errorf("command: %q declares %d parameter name(s) for a function with %d parameter(s)",
			qualifiedName, len(paramNames), v.Type().NumIn())
	}
	r.funcs[qualifiedName] = PythonFunc{Fn: v, ParamNames: paramNames}
	return nil
}

// Execute filters params down to qualifiedName's registered parameter names
// — "call with only those parameters whose names appear in the function
// signature" (spec.md §4.2) — calls it, and returns its map return value (if
// any) as new parameters to persist.
func (r *PythonRegistry) Execute(ctx context.Context, qualifiedName string, params map[string]any) (Result, error) {
	pf, ok := r.funcs[qualifiedName]
	if !ok {
		return Result{}, fmt.Errorf("command: no python function registered as %q", qualifiedName)
	}

	ft := pf.Fn.Type()
	args := make([]reflect.Value, ft.NumIn())
	for i, name := range pf.ParamNames {
		paramType := ft.In(i)
		v, present := params[name]
		if !present {
			args[i] = reflect.Zero(paramType)
			continue
		}
		rv := reflect.ValueOf(v)
		switch {
		case !rv.IsValid():
			args[i] = reflect.Zero(paramType)
		case rv.Type().AssignableTo(paramType):
			args[i] = rv
		case rv.Type().ConvertibleTo(paramType):
			args[i] = rv.Convert(paramType)
		default:
			return Result{}, fmt.Errorf("command: %s: parameter %q of type %s is not assignable to %s",
				qualifiedName, name, rv.Type(), paramType)
		}
	}

	out := pf.Fn.Call(args)
	result, err := parsePythonReturn(qualifiedName, out)
	if err != nil {
		return Result{}, err
	}
	return result, nil
}

func parsePythonReturn(qualifiedName string, out []reflect.Value) (Result, error) {
	var result Result
	var errVal error

	switch len(out) {
	case 0:
	case 1:
		if e, ok := asError(out[0]); ok {
			errVal = e
		} else if m, ok := asParameters(out[0]); ok {
			result.Parameters = m
		}
	case 2:
		if m, ok := asParameters(out[0]); ok {
			result.Parameters = m
		}
		if e, ok := asError(out[1]); ok {
			errVal = e
		}
	default:
		return Result{}, fmt.Errorf("command: %q must return at most (map[string]any, error)", qualifiedName)
	}

	if errVal != nil {
		return Result{}, fmt.Errorf("command: %s: %w", qualifiedName, errVal)
	}
	if len(result.Parameters) == 0 {
		result.Parameters = nil
	}
	return result, nil
}

func asError(v reflect.Value) (error, bool) {
	if !v.IsValid() || v.IsZero() {
		return nil, false
	}
	err, ok := v.Interface().(error)
	return err, ok && err != nil
}

func asParameters(v reflect.Value) (map[string]any, bool) {
	if !v.IsValid() {
		return nil, false
	}
	m, ok := v.Interface().(map[string]any)
	return m, ok
}

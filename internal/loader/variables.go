package loader

import (
	"bytes"
	"fmt"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
)

// Substitute replaces {{name}}-style placeholders in raw pipeline document
// bytes with values from variables (spec.md §6's "Variables file"), before
// the result is handed to Parse. Each variable name is registered as a
// zero-argument template function, so {{name}} in the document parses as a
// function call rather than requiring the usual {{.name}} field syntax.
func Substitute(raw []byte, variables map[string]any) ([]byte, error) {
	funcs := sprig.FuncMap()
	for name, value := range variables {
		value := value
		funcs[name] = func() any { return value }
	}

	tmpl, err := template.New("pipeline").Funcs(funcs).Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("loader: parse variable placeholders: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, nil); err != nil {
		return nil, fmt.Errorf("loader: substitute variables: %w", err)
	}
	return buf.Bytes(), nil
}

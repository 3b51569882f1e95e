package main

import (
	"fmt"
	"strings"
)

// parseMapVariable turns repeated --map-variable key=value flags into the
// map passed to ExecuteNode/ExecuteBranch.
func parseMapVariable(entries []string) (map[string]string, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		key, value, ok := strings.Cut(e, "=")
		if !ok {
			return nil, fmt.Errorf("--map-variable %q must be key=value", e)
		}
		out[key] = value
	}
	return out, nil
}

package graph

import (
	"fmt"
	"strings"
)

// MapPlaceholder is the single reserved character in internal names,
// substituted at runtime with a map iteration value.
const MapPlaceholder = "%"

// ValidateNodeName rejects names containing the path separator "." or the
// map placeholder "%", both reserved for internal-name construction.
func ValidateNodeName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: node name must not be empty", ErrValidation)
	}
	if strings.Contains(name, ".") {
		return fmt.Errorf("%w: node name %q must not contain %q", ErrValidation, name, ".")
	}
	if strings.Contains(name, MapPlaceholder) {
		return fmt.Errorf("%w: node name %q must not contain the map placeholder %q", ErrValidation, name, MapPlaceholder)
	}
	return nil
}

// JoinInternalName builds a dot-path internal name from a containing branch
// name (possibly empty, at the root) and a leaf name.
func JoinInternalName(branchName, leaf string) string {
	if branchName == "" {
		return leaf
	}
	return branchName + "." + leaf
}

// DotDepth returns the number of "."-separated segments in name, 0 for an
// empty name.
func DotDepth(name string) int {
	if name == "" {
		return 0
	}
	return strings.Count(name, ".") + 1
}

// ResolveMapPlaceholders replaces one occurrence of MapPlaceholder in name
// per entry of vars, consumed in the iteration order of keys, which callers
// must supply already ordered (Go map iteration order is not used here).
func ResolveMapPlaceholders(name string, keys []string, vars map[string]string) string {
	result := name
	for _, k := range keys {
		idx := strings.Index(result, MapPlaceholder)
		if idx < 0 {
			break
		}
		result = result[:idx] + vars[k] + result[idx+len(MapPlaceholder):]
	}
	return result
}

// CommandFriendlyName substitutes whitespace in name with MapPlaceholder so
// it can cross a CLI argument boundary unquoted.
func CommandFriendlyName(name string) string {
	return strings.Join(strings.Fields(name), MapPlaceholder)
}

// NodeNameFromCommandFriendlyName reverses CommandFriendlyName, restoring
// whitespace at the positions where it substituted MapPlaceholder. This is
// lossy with respect to genuine "%" characters in names, which is why node
// names reject "%" (see ValidateNodeName).
func NodeNameFromCommandFriendlyName(name string) string {
	return strings.ReplaceAll(name, MapPlaceholder, " ")
}

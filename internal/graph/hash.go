package graph

import (
	"encoding/json"

	"github.com/dagrunner/dagrunner/internal/stringutil"
)

// Hash computes dag_hash: a deterministic content hash of a DAG definition,
// used to guard resumed runs against drift (spec.md §4.4).
func Hash(spec *GraphSpec) (string, error) {
	data, err := json.Marshal(spec)
	if err != nil {
		return "", err
	}
	return stringutil.Base58EncodeSHA256(string(data)), nil
}

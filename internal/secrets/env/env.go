// Package env is the default secrets.Handler: resolves a secret name from
// the process environment under a fixed prefix, so operators can inject
// secrets the same way the engine already injects task parameters
// (internal/executor/traversal's DAGRUNNER_PRM_ channel).
package env

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dagrunner/dagrunner/internal/secrets"
)

var _ secrets.Handler = (*Handler)(nil)

// EnvPrefix names the environment namespace secrets are looked up under,
// e.g. secret name "db-password" resolves env var "DAGRUNNER_SECRET_DB_PASSWORD".
const EnvPrefix = "DAGRUNNER_SECRET_"

// Handler reads secrets from os.Environ.
type Handler struct{}

// New returns an environment-backed secrets.Handler.
func New() *Handler {
	return &Handler{}
}

func (h *Handler) Get(ctx context.Context, name string) (string, error) {
	key := EnvPrefix + envKey(name)
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", fmt.Errorf("%w: %s", secrets.ErrNotFound, name)
	}
	return v, nil
}

func envKey(name string) string {
	r := strings.NewReplacer("-", "_", ".", "_")
	return strings.ToUpper(r.Replace(name))
}

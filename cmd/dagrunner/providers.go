package main

import (
	"fmt"

	"github.com/moby/moby/client"

	"github.com/dagrunner/dagrunner/internal/catalog"
	"github.com/dagrunner/dagrunner/internal/catalog/filecatalog"
	"github.com/dagrunner/dagrunner/internal/executor/command"
	"github.com/dagrunner/dagrunner/internal/executor/render"
	"github.com/dagrunner/dagrunner/internal/executor/traversal"
	"github.com/dagrunner/dagrunner/internal/loader"
	"github.com/dagrunner/dagrunner/internal/pipeline"
	"github.com/dagrunner/dagrunner/internal/runlog"
	"github.com/dagrunner/dagrunner/internal/runlog/filestore"
	"github.com/dagrunner/dagrunner/internal/secrets"
	"github.com/dagrunner/dagrunner/internal/secrets/env"
	"github.com/dagrunner/dagrunner/internal/secrets/vault"
)

// buildStore constructs the runlog.Store named by cfg.RunLogStore. "file"
// (or an empty name) is the only provider name this CLI accepts; any other
// name is rejected with an error.
func buildStore(cfg loader.RunnerConfig) (runlog.Store, error) {
	switch cfg.RunLogStore.Name {
	case "", "file":
		root, _ := cfg.RunLogStore.Config["data_root"].(string)
		if root == "" {
			root = ".dagrunner/runs"
		}
		return filestore.New(root)
	default:
		return nil, fmt.Errorf("unknown run_log_store provider %q", cfg.RunLogStore.Name)
	}
}

func buildCatalog(cfg loader.RunnerConfig) (catalog.Handler, error) {
	switch cfg.Catalog.Name {
	case "", "file":
		root, _ := cfg.Catalog.Config["data_root"].(string)
		if root == "" {
			root = ".dagrunner/catalog"
		}
		computeData, _ := cfg.Catalog.Config["compute_data_folder"].(string)
		if computeData == "" {
			computeData = "."
		}
		return filecatalog.New(root, computeData)
	default:
		return nil, fmt.Errorf("unknown catalog provider %q", cfg.Catalog.Name)
	}
}

func buildSecrets(cfg loader.RunnerConfig) (secrets.Handler, error) {
	switch cfg.Secrets.Name {
	case "", "env":
		return env.New(), nil
	case "vault":
		mount, _ := cfg.Secrets.Config["mount"].(string)
		field, _ := cfg.Secrets.Config["field"].(string)
		return vault.NewFromEnv(mount, field)
	default:
		return nil, fmt.Errorf("unknown secrets provider %q", cfg.Secrets.Name)
	}
}

// buildDispatcher constructs the pipeline.Dispatcher named by cfg.Mode.
// "local" runs tasks in this process; "container" spawns one container per
// task via the Docker/moby client; "render" writes a shell script per task
// instead of running anything (spec.md §4.3's Executor variants).
func buildDispatcher(cfg loader.RunnerConfig) (pipeline.Dispatcher, error) {
	switch cfg.Mode.Name {
	case "", "local":
		return traversal.NewLocalDispatcher(command.NewPythonRegistry()), nil
	case "container":
		image, _ := cfg.Mode.Config["image"].(string)
		if image == "" {
			return nil, fmt.Errorf("mode=container requires config.image")
		}
		cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
		if err != nil {
			return nil, fmt.Errorf("create docker client: %w", err)
		}
		return traversal.NewContainerDispatcher(cli, image), nil
	case "render":
		dir, _ := cfg.Mode.Config["dir"].(string)
		if dir == "" {
			dir = ".dagrunner/render"
		}
		return render.New(dir), nil
	default:
		return nil, fmt.Errorf("unknown mode provider %q", cfg.Mode.Name)
	}
}

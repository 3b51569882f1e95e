package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dagrunner/dagrunner/internal/graph"
	"github.com/dagrunner/dagrunner/internal/loader"
	"github.com/dagrunner/dagrunner/internal/pipeline"
	"github.com/dagrunner/dagrunner/internal/runlog"
)

func newExecuteCmd() *cobra.Command {
	var (
		pipelinePath   string
		variablesPath  string
		tag            string
		runID          string
		useCached      bool
		useCachedForce bool
	)

	cmd := &cobra.Command{
		Use:   "execute",
		Short: "Run a pipeline document to completion",
		RunE: func(cmd *cobra.Command, args []string) error {
			if pipelinePath == "" {
				return fmt.Errorf("--pipeline is required")
			}
			if runID == "" {
				runID = uuid.NewString()
			}

			raw, err := os.ReadFile(pipelinePath)
			if err != nil {
				return fmt.Errorf("read pipeline document: %w", err)
			}

			var variables map[string]any
			if variablesPath != "" {
				varRaw, err := os.ReadFile(variablesPath)
				if err != nil {
					return fmt.Errorf("read variables file: %w", err)
				}
				if err := yaml.Unmarshal(varRaw, &variables); err != nil {
					return fmt.Errorf("parse variables file: %w", err)
				}
			}

			substituted, err := loader.Substitute(raw, variables)
			if err != nil {
				return fmt.Errorf("substitute variables: %w", err)
			}

			_, spec, err := loader.Parse(substituted)
			if err != nil {
				return err
			}

			runnerCfg, err := loader.LoadRunnerConfig(cfgFile)
			if err != nil {
				return err
			}

			exec, err := buildExecutor(runnerCfg)
			if err != nil {
				return err
			}

			root, err := graph.NewGraph("", spec)
			if err != nil {
				return err
			}

			run, err := exec.Run(cmd.Context(), root, spec, pipeline.RunOptions{
				RunID: runID,
				Tag:   tag,
				RunConfig: map[string]any{
					"pipeline": pipelinePath,
					"mode":     runnerCfg.Mode.Name,
				},
				UseCached:      useCached,
				UseCachedForce: useCachedForce,
				PreviousRunID:  os.Getenv("DAGRUNNER_PREVIOUS_RUN_ID"),
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "run_id=%s status=%s\n", run.RunID, run.Status)
			if run.Status != runlog.StatusSuccess {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pipelinePath, "pipeline", "", "path to the pipeline document")
	cmd.Flags().StringVar(&variablesPath, "variables", "", "path to a variables file for {{name}} substitution")
	cmd.Flags().StringVar(&tag, "tag", "", "free-form label attached to the run")
	cmd.Flags().StringVar(&runID, "run-id", "", "run id (generated if omitted)")
	cmd.Flags().BoolVar(&useCached, "use-cached", false, "resume from a previous run's Run Log")
	cmd.Flags().BoolVar(&useCachedForce, "use-cached-force", false, "resume even if the dag_hash differs from the previous run")
	return cmd
}

// buildExecutor wires a pipeline.Executor from the providers named in cfg.
func buildExecutor(cfg loader.RunnerConfig) (*pipeline.Executor, error) {
	store, err := buildStore(cfg)
	if err != nil {
		return nil, err
	}
	cat, err := buildCatalog(cfg)
	if err != nil {
		return nil, err
	}
	sec, err := buildSecrets(cfg)
	if err != nil {
		return nil, err
	}
	dispatcher, err := buildDispatcher(cfg)
	if err != nil {
		return nil, err
	}
	exec := pipeline.New(store, cat, sec, nil, dispatcher)
	exec.Logger = newCLILogger()
	return exec, nil
}

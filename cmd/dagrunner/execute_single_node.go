package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/dagrunner/dagrunner/internal/graph"
	"github.com/dagrunner/dagrunner/internal/loader"
	"github.com/dagrunner/dagrunner/internal/runlog"
)

// newExecuteSingleNodeCmd is the execute-single-node re-entry point
// (spec.md §6): dispatch exactly one node of an already-created Run Log.
// A container Dispatcher's spawned entrypoint invokes this.
func newExecuteSingleNodeCmd() *cobra.Command {
	var (
		pipelinePath  string
		variablesPath string
		runID         string
		branch        string
		node          string
		mapVars       []string
	)

	cmd := &cobra.Command{
		Use:   "execute-single-node",
		Short: "Dispatch a single node of an already-created run",
		RunE: func(cmd *cobra.Command, args []string) error {
			if pipelinePath == "" || runID == "" || node == "" {
				return fmt.Errorf("--pipeline, --run-id, and --node are required")
			}

			root, _, err := loadGraph(pipelinePath, variablesPath)
			if err != nil {
				return err
			}

			mapVariable, err := parseMapVariable(mapVars)
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

			internalBranch := graph.NodeNameFromCommandFriendlyName(branch)
			nodeName := graph.NodeNameFromCommandFriendlyName(node)

			status, err := exec.ExecuteNode(cmd.Context(), root, runID, internalBranch, nodeName, mapVariable)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "status=%s\n", status)
			if status != runlog.StatusSuccess {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pipelinePath, "pipeline", "", "path to the pipeline document")
	cmd.Flags().StringVar(&variablesPath, "variables", "", "path to a variables file for {{name}} substitution")
	cmd.Flags().StringVar(&runID, "run-id", "", "run id of the already-created Run Log")
	cmd.Flags().StringVar(&branch, "branch", "", "internal branch name the node belongs to, % in place of whitespace")
	cmd.Flags().StringVar(&node, "node", "", "node name, % in place of whitespace")
	cmd.Flags().StringArrayVar(&mapVars, "map-variable", nil, "key=value map iteration variable, repeatable")
	return cmd
}

// loadGraph re-parses the pipeline document (and, if given, re-applies a
// variables file) into the same graph.Graph the original execute built, so
// a single-node or single-branch re-entry sees identical node identities
// and internal names.
func loadGraph(pipelinePath, variablesPath string) (*graph.Graph, *graph.GraphSpec, error) {
	raw, err := os.ReadFile(pipelinePath)
	if err != nil {
		return nil, nil, fmt.Errorf("read pipeline document: %w", err)
	}
	if variablesPath != "" {
		varRaw, err := os.ReadFile(variablesPath)
		if err != nil {
			return nil, nil, fmt.Errorf("read variables file: %w", err)
		}
		var variables map[string]any
		if err := yaml.Unmarshal(varRaw, &variables); err != nil {
			return nil, nil, fmt.Errorf("parse variables file: %w", err)
		}
		raw, err = loader.Substitute(raw, variables)
		if err != nil {
			return nil, nil, fmt.Errorf("substitute variables: %w", err)
		}
	}
	_, spec, err := loader.Parse(raw)
	if err != nil {
		return nil, nil, err
	}
	root, err := graph.NewGraph("", spec)
	if err != nil {
		return nil, nil, err
	}
	return root, spec, nil
}

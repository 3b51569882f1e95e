package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dagrunner/dagrunner/internal/graph"
	"github.com/dagrunner/dagrunner/internal/loader"
	"github.com/dagrunner/dagrunner/internal/runlog"
)

// newExecuteSingleBranchCmd is the execute-single-branch re-entry point
// (spec.md §6, §9's corrected name for the source's "execute_single_brach"):
// run an entire branch's graph to completion within an already-created Run
// Log. The legacy misspelling is kept as a hidden alias for compatibility
// with callers that still invoke it.
func newExecuteSingleBranchCmd() *cobra.Command {
	var (
		pipelinePath  string
		variablesPath string
		runID         string
		branch        string
		mapVars       []string
	)

	cmd := &cobra.Command{
		Use:     "execute-single-branch",
		Aliases: []string{"execute-single-brach"},
		Short:   "Run one branch of an already-created run to completion",
		RunE: func(cmd *cobra.Command, args []string) error {
			if pipelinePath == "" || runID == "" {
				return fmt.Errorf("--pipeline and --run-id are required")
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
			if err := exec.ExecuteBranch(cmd.Context(), root, runID, internalBranch, mapVariable); err != nil {
				return err
			}

			final, err := exec.Store.GetRunLogByID(cmd.Context(), runID, true)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "status=%s\n", final.Status)
			if final.Status != runlog.StatusSuccess {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pipelinePath, "pipeline", "", "path to the pipeline document")
	cmd.Flags().StringVar(&variablesPath, "variables", "", "path to a variables file for {{name}} substitution")
	cmd.Flags().StringVar(&runID, "run-id", "", "run id of the already-created Run Log")
	cmd.Flags().StringVar(&branch, "branch", "", "internal branch name to execute, % in place of whitespace")
	cmd.Flags().StringArrayVar(&mapVars, "map-variable", nil, "key=value map iteration variable, repeatable")
	return cmd
}

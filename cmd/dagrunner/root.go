// Package main is the dagrunner CLI entry point (spec.md §6's CLI surface):
// execute, execute-single-node, execute-single-branch, and version, wired
// the way the teacher wires cobra with a persistent --config flag and a
// viper-backed runner configuration.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dagrunner/dagrunner/internal/logger"
)

var (
	cfgFile  string
	logLevel string
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "dagrunner",
		Short:         "Run and re-enter DAG pipeline documents",
		Long:          "dagrunner executes pipeline documents, and re-enters a single node or branch of an already-created run for container and external-worker dispatch.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "runner config file (selects run log store, catalog, secrets, mode providers)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")

	cmd.AddCommand(newExecuteCmd())
	cmd.AddCommand(newExecuteSingleNodeCmd())
	cmd.AddCommand(newExecuteSingleBranchCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newCLILogger() logger.Logger {
	opts := []logger.Option{}
	if logLevel == "debug" {
		opts = append(opts, logger.WithDebug())
	}
	return logger.NewLogger(opts...)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, "dagrunner:", err)
	os.Exit(1)
}

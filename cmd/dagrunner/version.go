package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dagrunner/dagrunner/internal/build"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the dagrunner version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), build.Version)
			return nil
		},
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joestump/experiment40/internal/build"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			info := build.Current()
			fmt.Fprintf(cmd.OutOrStdout(), "experiment40 %s (commit %s, branch %s, %s)\n",
				info.Version, info.Commit, info.Branch, info.GoVersion)
		},
	}
}

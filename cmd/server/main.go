package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	serve := newServeCmd()
	cmd := &cobra.Command{
		Use:          "flangeqc",
		Short:        "Flange tightening QC service",
		SilenceUsage: true,
		// bare invocation serves, like the old single-purpose binary
		RunE: serve.RunE,
	}
	cmd.AddCommand(serve, newMigrateCmd())
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// Command wispcheck is the thin host binary that wires the analysis
// core together: loader (C7) drives infer (C3) -> solve (C4) ->
// present (C5) across a workspace's modules and prints the resulting
// diagnostics and per-binding summaries.
//
// Grounded on the teacher's cmd/ailang/main.go for the overall
// flag/command shape and severity coloring, and on
// open-platform-model-cli's cmd/opm/root.go for the cobra root-command
// + persistent-flags layout this binary actually follows.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/wisplang/wisp/internal/cli"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

var flagVerbose bool

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "wispcheck",
		Short:         "Type-check wisp modules without emitting code",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cli.SetupLogging(flagVerbose)
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "show per-module progress at debug level")
	root.AddCommand(newCheckCmd())
	root.AddCommand(newVersionCmd())
	return root
}

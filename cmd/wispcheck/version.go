package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version info, set by ldflags during release builds; "dev" otherwise.
var (
	Version = "dev"
	Commit  = "unknown"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show wispcheck version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "wispcheck %s (%s)\n", Version, Commit)
			return nil
		},
	}
}

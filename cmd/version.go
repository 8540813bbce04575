package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shaharia-lab/vscode-testkit/internal/build"
)

// NewVersionCmd returns the "version" subcommand.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "vscode-testkit %s\n", build.String())
		},
	}
}

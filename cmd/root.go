package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaharia-lab/vscode-testkit/internal/config"
)

// NewRootCmd builds the command tree around cfg.
func NewRootCmd(cfg *config.AppConfig) *cobra.Command {
	root := &cobra.Command{
		Use:           "vscode-testkit",
		Short:         "Editor extension test kit",
		Long:          "Test doubles for the host editor API and a runner for end-to-end event scenarios.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(NewRunCmd(cfg))
	root.AddCommand(NewVersionCmd())
	return root
}

// Execute runs the root command.
func Execute() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := NewRootCmd(cfg).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Package main provides the entry point for the libscan CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for libscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "libscan",
		Short: "Catalogue the public API surface of Go libraries",
		Long: `libscan catalogues the public API surface of Go libraries.

It loads a library, walks its sub-packages, and records every exported
function and type together with argument lists and documentation. Broken
or unloadable sub-packages are skipped so one bad package never fails a
whole scan.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

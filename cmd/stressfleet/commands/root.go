// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing, flag binding, and validation. Command execution is delegated
// to handler functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the stressfleet CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stressfleet",
		Short: "Deploy and run a CPU-stress fleet on AWS",
	}

	cmd.AddCommand(Deploy())
	cmd.AddCommand(Serve())
	cmd.AddCommand(Version())

	return cmd
}

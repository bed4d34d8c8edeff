package main

import (
	"github.com/spf13/cobra"

	"github.com/guns21/authkit/internal/config"
)

// serviceName tags every log record.
const serviceName = "authkit"

// NewRootCmd creates the root command for the authkit CLI.
func NewRootCmd() *cobra.Command {
	return newRootCmd(nil)
}

func newRootCmd(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authkit",
		Short: "authkit - username/password authentication service",
		Long: `authkit verifies usernames and passwords against a PostgreSQL user store
and answers with uniform JSON result envelopes.`,
		SilenceUsage: true,
	}

	// Config flags are persistent so every subcommand resolves the same layered config.
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(newServeCmd(deps))
	cmd.AddCommand(newMigrateCmd(deps))
	cmd.AddCommand(newUserCmd(deps))
	cmd.AddCommand(NewHashCmd())

	return cmd
}

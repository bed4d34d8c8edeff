// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authkit Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/guns21/authkit/internal/config"
)

// NewHashCmd creates the hash subcommand.
func NewHashCmd() *cobra.Command {
	var fromStdin bool
	cmd := &cobra.Command{
		Use:   "hash [PASSWORD]",
		Short: "Print the stored form of a password",
		Long: `Encode a password with the configured scheme and print the values to store
in users.password_hash and users.password_salt.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			var arg string
			if len(args) == 1 {
				arg = args[0]
			}
			password, err := resolvePassword(cmd.InOrStdin(), arg, fromStdin)
			if err != nil {
				return err
			}
			hash, salt, err := encodePassword(cfg.Auth.Scheme, password)
			if err != nil {
				return err
			}
			cmd.Printf("scheme: %s\nhash: %s\n", cfg.Auth.Scheme, hash)
			if salt != "" {
				cmd.Printf("salt: %s\n", salt)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "read the password from the first line of stdin")
	return cmd
}

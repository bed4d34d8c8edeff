// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authkit Contributors

package main

import (
	"strconv"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/guns21/authkit/internal/config"
	"github.com/guns21/authkit/internal/store"
)

// newMigrateCmd creates the migrate command group.
func newMigrateCmd(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
		Long:  `Apply, roll back or inspect the embedded PostgreSQL schema migrations.`,
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, deps, func(m SchemaMigrator) error {
				if steps < 1 {
					return oops.Code("CONFIG_INVALID").With("field", "steps").Errorf("--steps must be at least 1, got %d", steps)
				}
				cmd.Printf("Rolling back %d migration(s)...\n", steps)
				if err := m.Steps(-steps); err != nil {
					return err
				}
				return printVersion(cmd, m)
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd, deps, func(m SchemaMigrator) error {
					cmd.Println("Running migrations...")
					if err := m.Up(); err != nil {
						return err
					}
					cmd.Println("Migrations completed successfully")
					return printVersion(cmd, m)
				})
			},
		},
		down,
		&cobra.Command{
			Use:   "status",
			Short: "Show the applied version and pending migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd, deps, func(m SchemaMigrator) error {
					if err := printVersion(cmd, m); err != nil {
						return err
					}
					pending, err := m.PendingMigrations()
					if err != nil {
						return err
					}
					if len(pending) == 0 {
						cmd.Println("Schema is up to date")
						return nil
					}
					cmd.Printf("Pending migrations: %d\n", len(pending))
					for _, v := range pending {
						name, err := store.MigrationName(v)
						if err != nil {
							return err
						}
						cmd.Printf("  %s\n", name)
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "force VERSION",
			Short: "Mark VERSION as applied and clear the dirty flag",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				version, err := strconv.Atoi(args[0])
				if err != nil {
					return oops.Code("INVALID_VERSION").With("version", args[0]).Wrap(err)
				}
				return withMigrator(cmd, deps, func(m SchemaMigrator) error {
					if err := m.Force(version); err != nil {
						return err
					}
					return printVersion(cmd, m)
				})
			},
		},
	)
	return cmd
}

// withMigrator resolves the database URL, opens a migrator, runs fn and closes it.
func withMigrator(cmd *cobra.Command, deps *Deps, fn func(SchemaMigrator) error) (err error) {
	deps = deps.withDefaults()

	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").
			With("field", "database.url").
			Errorf("database.url (or DATABASE_URL) is required")
	}

	m, err := deps.MigratorFactory(cfg.Database.URL)
	if err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "create migrator").Wrap(err)
	}
	defer func() {
		if closeErr := m.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn(m)
}

func printVersion(cmd *cobra.Command, m SchemaMigrator) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	state := "clean"
	if dirty {
		state = "dirty"
	}
	cmd.Printf("Schema version: %d (%s)\n", version, state)
	return nil
}

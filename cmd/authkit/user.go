// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authkit Contributors

package main

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/guns21/authkit/internal/auth"
	"github.com/guns21/authkit/internal/auth/postgres"
	"github.com/guns21/authkit/internal/config"
)

// Default timeout for user administration commands.
const defaultUserTimeout = 30 * time.Second

// userAddConfig holds configuration for the user add command.
type userAddConfig struct {
	password      string
	passwordStdin bool
	nickname      string
	organization  string
	thirdPartyID  string
	roles         []string
	timeout       time.Duration
}

// newUserCmd creates the user command group.
func newUserCmd(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage stored users",
	}

	cfg := &userAddConfig{}
	add := &cobra.Command{
		Use:   "add USERNAME",
		Short: "Create a user and grant roles",
		Long: `Create a user whose password is encoded with the configured scheme.
Roles named with --role are created when missing and granted to the user.
All changes are made in one transaction; on any failure nothing is stored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUserAdd(cmd, args[0], cfg, deps)
		},
	}
	add.Flags().StringVar(&cfg.password, "password", "", "password for the new user")
	add.Flags().BoolVar(&cfg.passwordStdin, "password-stdin", false, "read the password from the first line of stdin")
	add.Flags().StringVar(&cfg.nickname, "nickname", "", "display name")
	add.Flags().StringVar(&cfg.organization, "organization", "", "organization id")
	add.Flags().StringVar(&cfg.thirdPartyID, "third-party-id", "", "bound third-party account id")
	add.Flags().StringSliceVar(&cfg.roles, "role", nil, "role to grant (repeatable)")
	add.Flags().DurationVar(&cfg.timeout, "timeout", defaultUserTimeout, "timeout for database operations (e.g., 30s, 1m)")

	cmd.AddCommand(add)
	return cmd
}

func runUserAdd(cmd *cobra.Command, username string, ucfg *userAddConfig, deps *Deps) error {
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

	password, err := resolvePassword(cmd.InOrStdin(), ucfg.password, ucfg.passwordStdin)
	if err != nil {
		return err
	}
	hash, salt, err := encodePassword(cfg.Auth.Scheme, password)
	if err != nil {
		return err
	}

	// Use cmd.Context() to respect SIGINT/SIGTERM signals
	ctx, cancel := context.WithTimeout(cmd.Context(), ucfg.timeout)
	defer cancel()

	db, err := deps.DatabaseFactory(ctx, cfg.Database.URL)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer db.Close()

	tx, err := db.Begin(ctx)
	if err != nil {
		return oops.Code("USER_ADD_FAILED").With("operation", "begin transaction").Wrap(err)
	}
	user := &auth.User{
		ID:              ulid.Make().String(),
		Username:        username,
		PasswordHash:    hash,
		PasswordSalt:    salt,
		Nickname:        ucfg.nickname,
		OrganizationID:  ucfg.organization,
		ThirdPartyBound: ucfg.thirdPartyID != "",
		ThirdPartyID:    ucfg.thirdPartyID,
	}
	report, err := seedUser(ctx, postgres.NewUserRepository(tx), user, ucfg.roles)
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return oops.Code("USER_ADD_FAILED").With("operation", "rollback").Wrap(errors.Join(err, rbErr))
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return oops.Code("USER_ADD_FAILED").With("operation", "commit").Wrap(err)
	}

	cmd.Printf("Created user %s (id %s, scheme %s)\n", user.Username, user.ID, cfg.Auth.Scheme)
	for _, line := range report {
		cmd.Println(line)
	}
	return nil
}

// seedUser stores user and grants roles, creating the ones that do not exist yet.
// It returns the lines to print once the transaction commits.
func seedUser(ctx context.Context, repo *postgres.UserRepository, user *auth.User, roles []string) ([]string, error) {
	if err := repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	report := make([]string, 0, 2*len(roles))
	for _, name := range roles {
		_, err := repo.GetRole(ctx, name)
		switch {
		case err == nil:
		case errors.Is(err, auth.ErrNotFound):
			if err := repo.CreateRole(ctx, &auth.Role{ID: ulid.Make().String(), Name: name}); err != nil {
				return nil, err
			}
			report = append(report, "Created role "+name)
		default:
			return nil, err
		}
		if err := repo.AssignRole(ctx, user.Username, name); err != nil {
			return nil, err
		}
		report = append(report, "Granted role "+name)
	}
	return report, nil
}

// resolvePassword returns the flag password, or the first stdin line when fromStdin is set.
func resolvePassword(stdin io.Reader, flagValue string, fromStdin bool) (string, error) {
	if fromStdin {
		if flagValue != "" {
			return "", oops.Code("CONFIG_INVALID").Errorf("--password and --password-stdin are mutually exclusive")
		}
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", oops.Code("PASSWORD_READ_FAILED").Wrap(err)
		}
		flagValue = strings.TrimRight(line, "\r\n")
	}
	if flagValue == "" {
		return "", oops.Code("CONFIG_INVALID").Errorf("a non-empty password is required")
	}
	return flagValue, nil
}

// encodePassword encodes password with the strategy configured for scheme.
func encodePassword(scheme, password string) (hash, salt string, err error) {
	strategy, err := auth.NewStrategy(scheme)
	if err != nil {
		return "", "", err
	}
	encoder, ok := strategy.(auth.CredentialEncoder)
	if !ok {
		return "", "", oops.Code("CONFIG_INVALID").
			With("scheme", scheme).
			Errorf("scheme %q cannot encode passwords", scheme)
	}
	return encoder.Encode(password)
}

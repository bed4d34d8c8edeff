// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authkit Contributors

// Package postgres provides PostgreSQL-backed implementations of auth interfaces.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/guns21/authkit/internal/auth"
)

// querier is satisfied by *pgxpool.Pool, pgx.Tx and pgxmock pools.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository implements auth.UserLookupService using PostgreSQL.
type UserRepository struct {
	db querier
}

var _ auth.UserLookupService = (*UserRepository)(nil)

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db querier) *UserRepository {
	return &UserRepository{db: db}
}

const selectUser = `
	SELECT id, username, password_hash, password_salt, nickname,
	       organization_id, third_party_bound, third_party_id
	FROM users
	WHERE username = $1`

// GetUser retrieves a user by exact username.
func (r *UserRepository) GetUser(ctx context.Context, username string) (*auth.User, error) {
	var u auth.User
	err := r.db.QueryRow(ctx, selectUser, username).Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.PasswordSalt,
		&u.Nickname,
		&u.OrganizationID,
		&u.ThirdPartyBound,
		&u.ThirdPartyID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").
			With("username", username).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_FAILED").
			With("operation", "get user by username").
			With("username", username).
			Wrap(err)
	}
	return &u, nil
}

const selectUserRoles = `
	SELECT r.id, r.name, r.description
	FROM roles r
	JOIN user_roles ur ON ur.role_id = r.id
	JOIN users u ON u.id = ur.user_id
	WHERE u.username = $1
	ORDER BY r.name`

// GetUserRoles returns the roles granted to username, ordered by name.
// Unknown users have no roles.
func (r *UserRepository) GetUserRoles(ctx context.Context, username string) ([]auth.Role, error) {
	rows, err := r.db.Query(ctx, selectUserRoles, username)
	if err != nil {
		return nil, oops.Code("USER_ROLES_FAILED").
			With("operation", "query user roles").
			With("username", username).
			Wrap(err)
	}
	defer rows.Close()

	roles := []auth.Role{}
	for rows.Next() {
		var role auth.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description); err != nil {
			return nil, oops.Code("USER_ROLES_FAILED").
				With("operation", "scan role").
				With("username", username).
				Wrap(err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("USER_ROLES_FAILED").
			With("operation", "iterate roles").
			With("username", username).
			Wrap(err)
	}
	return roles, nil
}

// CreateUser stores a new user. A taken username yields USER_ALREADY_EXISTS.
func (r *UserRepository) CreateUser(ctx context.Context, user *auth.User) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (
			id, username, password_hash, password_salt, nickname,
			organization_id, third_party_bound, third_party_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.PasswordSalt,
		user.Nickname,
		user.OrganizationID,
		user.ThirdPartyBound,
		user.ThirdPartyID,
	)
	if isUniqueViolation(err) {
		return oops.Code("USER_ALREADY_EXISTS").
			With("username", user.Username).
			Errorf("user %q already exists", user.Username)
	}
	if err != nil {
		return oops.Code("USER_CREATE_FAILED").
			With("operation", "insert user").
			With("username", user.Username).
			Wrap(err)
	}
	return nil
}

// CreateRole stores a new role. A taken name yields ROLE_ALREADY_EXISTS.
func (r *UserRepository) CreateRole(ctx context.Context, role *auth.Role) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO roles (id, name, description) VALUES ($1, $2, $3)`,
		role.ID, role.Name, role.Description,
	)
	if isUniqueViolation(err) {
		return oops.Code("ROLE_ALREADY_EXISTS").
			With("role", role.Name).
			Errorf("role %q already exists", role.Name)
	}
	if err != nil {
		return oops.Code("ROLE_CREATE_FAILED").
			With("operation", "insert role").
			With("role", role.Name).
			Wrap(err)
	}
	return nil
}

// GetRole retrieves a role by name.
func (r *UserRepository) GetRole(ctx context.Context, name string) (*auth.Role, error) {
	var role auth.Role
	err := r.db.QueryRow(ctx,
		`SELECT id, name, description FROM roles WHERE name = $1`, name,
	).Scan(&role.ID, &role.Name, &role.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ROLE_NOT_FOUND").With("role", name).Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ROLE_GET_FAILED").With("role", name).Wrap(err)
	}
	return &role, nil
}

// AssignRole grants roleName to username. Granting an already held role is a no-op.
func (r *UserRepository) AssignRole(ctx context.Context, username, roleName string) error {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO user_roles (user_id, role_id)
		SELECT u.id, r.id FROM users u, roles r
		WHERE u.username = $1 AND r.name = $2
		ON CONFLICT (user_id, role_id) DO NOTHING
	`, username, roleName)
	if err != nil {
		return oops.Code("ROLE_ASSIGN_FAILED").
			With("username", username).
			With("role", roleName).
			Wrap(err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Nothing inserted: either already granted or one side is missing.
	var held bool
	err = r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM user_roles ur
			JOIN users u ON u.id = ur.user_id
			JOIN roles r ON r.id = ur.role_id
			WHERE u.username = $1 AND r.name = $2
		)
	`, username, roleName).Scan(&held)
	if err != nil {
		return oops.Code("ROLE_ASSIGN_FAILED").
			With("operation", "check existing grant").
			With("username", username).
			With("role", roleName).
			Wrap(err)
	}
	if !held {
		return oops.Code("ROLE_ASSIGN_FAILED").
			With("username", username).
			With("role", roleName).
			Wrap(auth.ErrNotFound)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

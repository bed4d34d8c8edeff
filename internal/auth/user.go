// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authkit Contributors

package auth

import (
	"context"

	"github.com/samber/oops"
)

// User is the stored account record consulted during login.
type User struct {
	ID              string
	Username        string
	PasswordHash    string
	PasswordSalt    string
	Nickname        string
	OrganizationID  string
	ThirdPartyBound bool
	ThirdPartyID    string
}

// Role is a named permission group owned by a user.
type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UserLookupService resolves usernames to stored user and role data.
// The two lookups are independent reads; no transactional coupling is implied.
type UserLookupService interface {
	// GetUser returns the user with the given username.
	// Returns an error wrapping ErrNotFound if no such user exists.
	GetUser(ctx context.Context, username string) (*User, error)

	// GetUserRoles returns the roles owned by username.
	// Unknown users yield an empty list, not an error.
	GetUserRoles(ctx context.Context, username string) ([]Role, error)
}

// EmptyLookupService is a UserLookupService with no users.
// It is the placeholder used until a real store is wired in.
type EmptyLookupService struct{}

// GetUser always reports ErrNotFound.
func (EmptyLookupService) GetUser(_ context.Context, username string) (*User, error) {
	return nil, oops.Code("USER_NOT_FOUND").With("username", username).Wrap(ErrNotFound)
}

// GetUserRoles always returns an empty list.
func (EmptyLookupService) GetUserRoles(_ context.Context, _ string) ([]Role, error) {
	return []Role{}, nil
}

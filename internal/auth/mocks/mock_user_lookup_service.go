// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authkit Contributors

// Package mocks holds testify mocks for internal/auth interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/guns21/authkit/internal/auth"
)

// MockUserLookupService is a testify mock of auth.UserLookupService.
type MockUserLookupService struct {
	mock.Mock
}

// NewMockUserLookupService creates a mock whose expectations are asserted on cleanup.
func NewMockUserLookupService(t interface {
	mock.TestingT
	Cleanup(func())
},
) *MockUserLookupService {
	m := &MockUserLookupService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// GetUser implements auth.UserLookupService.
func (m *MockUserLookupService) GetUser(ctx context.Context, username string) (*auth.User, error) {
	args := m.Called(ctx, username)
	var user *auth.User
	if v := args.Get(0); v != nil {
		user = v.(*auth.User) //nolint:errcheck,revive // set by test expectations
	}
	return user, args.Error(1)
}

// GetUserRoles implements auth.UserLookupService.
func (m *MockUserLookupService) GetUserRoles(ctx context.Context, username string) ([]auth.Role, error) {
	args := m.Called(ctx, username)
	var roles []auth.Role
	if v := args.Get(0); v != nil {
		roles = v.([]auth.Role) //nolint:errcheck,revive // set by test expectations
	}
	return roles, args.Error(1)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authkit Contributors

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/guns21/authkit/internal/auth"
)

// MockStrategy is a testify mock of auth.Strategy.
type MockStrategy struct {
	mock.Mock
}

// NewMockStrategy creates a mock whose expectations are asserted on cleanup.
func NewMockStrategy(t interface {
	mock.TestingT
	Cleanup(func())
},
) *MockStrategy {
	m := &MockStrategy{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// VerifyCredential implements auth.Strategy.
func (m *MockStrategy) VerifyCredential(ctx context.Context, user *auth.User, credential string) error {
	return m.Called(ctx, user, credential).Error(0)
}

// BuildAuthentication implements auth.Strategy.
func (m *MockStrategy) BuildAuthentication(ctx context.Context, principal *auth.Principal) (*auth.Authentication, error) {
	args := m.Called(ctx, principal)
	var out *auth.Authentication
	if v := args.Get(0); v != nil {
		out = v.(*auth.Authentication) //nolint:errcheck,revive // set by test expectations
	}
	return out, args.Error(1)
}

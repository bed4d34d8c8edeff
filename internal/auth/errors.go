// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authkit Contributors

package auth

import (
	"errors"

	"github.com/samber/oops"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// Error codes reported by Provider.Authenticate.
const (
	CodeInvalidCredentialsFormat = "AUTH_INVALID_CREDENTIALS_FORMAT"
	CodeUserNotFound             = "AUTH_USER_NOT_FOUND"
	CodeBadCredentials           = "AUTH_BAD_CREDENTIALS"
	CodeLookupFailed             = "AUTH_LOOKUP_FAILED"
	CodeVerifyFailed             = "AUTH_VERIFY_FAILED"
	CodeAuthenticationFailed     = "AUTH_BUILD_FAILED"
)

// Constructor errors for NewProvider.
var (
	ErrNilLookupService = oops.Code("CONFIG_INVALID").Errorf("user lookup service is required")
	ErrNilStrategy      = oops.Code("CONFIG_INVALID").Errorf("authentication strategy is required")
)

// ErrBadCredentials is returned by strategies when a credential does not match.
var ErrBadCredentials = oops.Code(CodeBadCredentials).Errorf("bad credentials")

// IsInvalidCredentialsFormat reports whether err is an empty-field or pattern failure.
func IsInvalidCredentialsFormat(err error) bool {
	return hasCode(err, CodeInvalidCredentialsFormat)
}

// IsUserNotFound reports whether err reports a missing account.
func IsUserNotFound(err error) bool {
	return hasCode(err, CodeUserNotFound)
}

// IsBadCredentials reports whether err reports a rejected credential.
func IsBadCredentials(err error) bool {
	return hasCode(err, CodeBadCredentials)
}

func hasCode(err error, code string) bool {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return false
	}
	return oopsErr.Code() == code
}

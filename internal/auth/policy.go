// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authkit Contributors

package auth

import (
	"regexp"

	"github.com/samber/oops"
)

// FormatPolicy holds the optional username and password patterns.
// Patterns are compiled once; a match must begin at the start of the input
// but may stop before its end, unless the pattern itself anchors the end.
type FormatPolicy struct {
	usernamePattern string
	passwordPattern string
	username        *regexp.Regexp
	password        *regexp.Regexp
}

// NewFormatPolicy compiles the given patterns. Empty patterns impose no constraint.
func NewFormatPolicy(usernamePattern, passwordPattern string) (*FormatPolicy, error) {
	p := &FormatPolicy{
		usernamePattern: usernamePattern,
		passwordPattern: passwordPattern,
	}

	var err error
	if p.username, err = compileStartAnchored(usernamePattern); err != nil {
		return nil, oops.Code("CONFIG_INVALID").
			With("field", "username_pattern").
			With("pattern", usernamePattern).
			Wrap(err)
	}
	if p.password, err = compileStartAnchored(passwordPattern); err != nil {
		return nil, oops.Code("CONFIG_INVALID").
			With("field", "password_pattern").
			With("pattern", passwordPattern).
			Wrap(err)
	}
	return p, nil
}

// compileStartAnchored compiles pattern so that it only matches at offset zero.
func compileStartAnchored(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	if _, err := regexp.Compile(pattern); err != nil {
		return nil, err //nolint:wrapcheck // callers attach field context
	}
	return regexp.Compile(`^(?:` + pattern + `)`) //nolint:wrapcheck // validated above
}

// UsernamePattern returns the configured username pattern, or "".
func (p *FormatPolicy) UsernamePattern() string {
	if p == nil {
		return ""
	}
	return p.usernamePattern
}

// PasswordPattern returns the configured password pattern, or "".
func (p *FormatPolicy) PasswordPattern() string {
	if p == nil {
		return ""
	}
	return p.passwordPattern
}

// CheckUsername returns an InvalidCredentialsFormat error if username does not match.
func (p *FormatPolicy) CheckUsername(username string) error {
	if p == nil || p.username == nil || p.username.MatchString(username) {
		return nil
	}
	return oops.Code(CodeInvalidCredentialsFormat).
		With("field", "username").
		With("pattern", p.usernamePattern).
		Errorf("username does not match pattern %s", p.usernamePattern)
}

// CheckPassword returns an InvalidCredentialsFormat error if password does not match.
// The password itself is never attached to the error.
func (p *FormatPolicy) CheckPassword(password string) error {
	if p == nil || p.password == nil || p.password.MatchString(password) {
		return nil
	}
	return oops.Code(CodeInvalidCredentialsFormat).
		With("field", "password").
		With("pattern", p.passwordPattern).
		Errorf("password does not match pattern %s", p.passwordPattern)
}

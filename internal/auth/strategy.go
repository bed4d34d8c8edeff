// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authkit Contributors

package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
	"time"

	"github.com/samber/oops"
)

// Supported credential schemes.
const (
	SchemeArgon2id     = "argon2id"
	SchemeBcrypt       = "bcrypt"
	SchemeSaltedSHA256 = "salted-sha256"
	SchemeCustom       = "custom"
)

// Authentication is the result of a successful login attempt.
type Authentication struct {
	Principal       *Principal
	Scheme          string
	AuthenticatedAt time.Time
}

// Strategy supplies the scheme-specific steps of a login attempt.
type Strategy interface {
	// VerifyCredential checks credential against the stored user record.
	// A mismatch must be reported as an error for which IsBadCredentials is true.
	VerifyCredential(ctx context.Context, user *User, credential string) error

	// BuildAuthentication wraps an assembled principal into the final result.
	BuildAuthentication(ctx context.Context, principal *Principal) (*Authentication, error)
}

// CredentialEncoder is implemented by strategies that can produce stored
// credentials for new accounts.
type CredentialEncoder interface {
	// Encode returns the password hash and salt to store for password.
	Encode(password string) (hash, salt string, err error)
}

// NewStrategy returns the built-in strategy for scheme.
func NewStrategy(scheme string) (Strategy, error) {
	switch scheme {
	case SchemeArgon2id, "":
		return NewHasherStrategy(SchemeArgon2id, NewArgon2idHasher()), nil
	case SchemeBcrypt:
		return NewHasherStrategy(SchemeBcrypt, NewBcryptHasher(0)), nil
	case SchemeSaltedSHA256:
		return NewSaltedDigestStrategy(), nil
	default:
		return nil, oops.Code("CONFIG_INVALID").
			With("field", "scheme").
			With("scheme", scheme).
			Errorf("unknown credential scheme %q", scheme)
	}
}

func newAuthentication(principal *Principal, scheme string, now time.Time) *Authentication {
	return &Authentication{
		Principal:       principal,
		Scheme:          scheme,
		AuthenticatedAt: now,
	}
}

// HasherStrategy verifies self-describing hashes stored in User.PasswordHash.
type HasherStrategy struct {
	scheme string
	hasher PasswordHasher
	now    func() time.Time
}

// NewHasherStrategy creates a HasherStrategy reporting scheme on its results.
func NewHasherStrategy(scheme string, hasher PasswordHasher) *HasherStrategy {
	return &HasherStrategy{scheme: scheme, hasher: hasher, now: time.Now}
}

// VerifyCredential implements Strategy.
func (s *HasherStrategy) VerifyCredential(_ context.Context, user *User, credential string) error {
	ok, err := s.hasher.Verify(credential, user.PasswordHash)
	if err != nil {
		return oops.Code(CodeVerifyFailed).
			With("scheme", s.scheme).
			With("user_id", user.ID).
			Wrap(err)
	}
	if !ok {
		return ErrBadCredentials
	}
	return nil
}

// BuildAuthentication implements Strategy.
func (s *HasherStrategy) BuildAuthentication(_ context.Context, principal *Principal) (*Authentication, error) {
	return newAuthentication(principal, s.scheme, s.now()), nil
}

// Encode implements CredentialEncoder. Hashers embed their own salt, so the returned salt is empty.
func (s *HasherStrategy) Encode(password string) (string, string, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", "", err //nolint:wrapcheck // hasher errors already carry codes
	}
	return hash, "", nil
}

// SaltedDigestStrategy checks hex(SHA-256(salt || password)) against User.PasswordHash,
// using the per-user User.PasswordSalt.
type SaltedDigestStrategy struct {
	now func() time.Time
}

// NewSaltedDigestStrategy creates a SaltedDigestStrategy.
func NewSaltedDigestStrategy() *SaltedDigestStrategy {
	return &SaltedDigestStrategy{now: time.Now}
}

// SaltedDigest returns the lowercase hex SHA-256 digest of salt followed by password.
func SaltedDigest(salt, password string) string {
	sum := sha256.Sum256([]byte(salt + password))
	return hex.EncodeToString(sum[:])
}

// VerifyCredential implements Strategy.
func (s *SaltedDigestStrategy) VerifyCredential(_ context.Context, user *User, credential string) error {
	want := strings.ToLower(user.PasswordHash)
	got := SaltedDigest(user.PasswordSalt, credential)
	if subtle.ConstantTimeCompare([]byte(want), []byte(got)) != 1 {
		return ErrBadCredentials
	}
	return nil
}

// BuildAuthentication implements Strategy.
func (s *SaltedDigestStrategy) BuildAuthentication(_ context.Context, principal *Principal) (*Authentication, error) {
	return newAuthentication(principal, SchemeSaltedSHA256, s.now()), nil
}

// Encode implements CredentialEncoder with a fresh random 16-byte salt.
func (s *SaltedDigestStrategy) Encode(password string) (string, string, error) {
	if password == "" {
		return "", "", ErrEmptyPassword
	}
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", "", oops.Code("AUTH_SALT_FAILED").Wrap(err)
	}
	salt := hex.EncodeToString(raw)
	return SaltedDigest(salt, password), salt, nil
}

// StrategyFunc adapts a verification function to Strategy.
// Results report SchemeCustom.
type StrategyFunc func(ctx context.Context, user *User, credential string) error

// VerifyCredential implements Strategy.
func (f StrategyFunc) VerifyCredential(ctx context.Context, user *User, credential string) error {
	return f(ctx, user, credential)
}

// BuildAuthentication implements Strategy.
func (f StrategyFunc) BuildAuthentication(_ context.Context, principal *Principal) (*Authentication, error) {
	return newAuthentication(principal, SchemeCustom, time.Now()), nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authkit Contributors

// Package auth provides username/password authentication primitives.
//
// # Records
//
// User and Role are plain data carriers loaded from a UserLookupService.
// The provider never mutates a loaded User.
//
// # Provider
//
// Provider orchestrates a single login attempt:
//   - format checks (empty fields, optional username/password patterns)
//   - user lookup
//   - credential verification through a Strategy
//   - role lookup and Principal assembly
//   - final Authentication construction through the same Strategy
//
// Providers are created with NewProvider, which validates its dependencies.
// A Provider holds no per-attempt state and is safe for concurrent use.
//
// # Strategies
//
// Strategy implementations decide how a credential is checked:
//   - HasherStrategy - PHC/bcrypt hashes via a PasswordHasher
//   - SaltedDigestStrategy - hex SHA-256 of the stored salt and the password
//   - StrategyFunc - adapter for ad-hoc or external verification
package auth

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authkit Contributors

// Package store owns the PostgreSQL schema and connection setup for authkit.
//
// Schema changes live in migrations/ as NNNNNN_name.(up|down).sql files and are
// embedded into the binary. Connect opens a pgx pool and waits for the
// database to accept connections; it is used once at startup.
package store

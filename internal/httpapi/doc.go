// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authkit Contributors

// Package httpapi exposes the authentication provider over HTTP.
//
// Every response body is a result envelope. Login failures carry the error
// code of the rejected attempt so clients can branch without parsing messages.
package httpapi

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authkit Contributors

package httpapi

import (
	"net/http"

	"github.com/guns21/authkit/internal/httpserver"
)

// NewServer creates the API server for handler on addr. Use port 0 to pick a free port.
func NewServer(addr string, handler http.Handler) *httpserver.Server {
	return httpserver.New("api", addr, handler)
}

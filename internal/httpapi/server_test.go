// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authkit Contributors

package httpapi_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/guns21/authkit/internal/auth"
	"github.com/guns21/authkit/internal/httpapi"
)

func TestServer_StartServeStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	provider := newProvider(t, auth.EmptyLookupService{})
	srv := httpapi.NewServer("127.0.0.1:0", httpapi.NewHandler(provider, auth.EmptyLookupService{}).Routes())
	assert.Empty(t, srv.Addr())

	errCh, err := srv.Start()
	require.NoError(t, err)
	require.NotEmpty(t, srv.Addr())

	transport := &http.Transport{DisableKeepAlives: true}
	client := &http.Client{Transport: transport, Timeout: 5 * time.Second}
	resp, err := client.Post("http://"+srv.Addr()+"/api/login", "application/json",
		strings.NewReader(`{"username":"ghost","password":"x"}`))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	transport.CloseIdleConnections()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))

	_, open := <-errCh
	assert.False(t, open, "error channel closes after a clean stop")
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authkit Contributors

package observability

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, h http.Handler, path string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return rec.Code, string(body)
}

func TestServer_Metrics(t *testing.T) {
	server := NewServer("127.0.0.1:0", nil)
	server.Metrics().RecordAttempt("success", 20*time.Millisecond)
	server.Metrics().RecordRequest("/api/login", http.StatusOK)

	code, body := get(t, server.Handler(), "/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "go_")
	assert.Contains(t, body, "process_")
	assert.Contains(t, body, `authkit_authentication_attempts_total{outcome="success"} 1`)
	assert.Contains(t, body, "authkit_authentication_duration_seconds_count 1")
	assert.Contains(t, body, `authkit_http_requests_total{route="/api/login",status="200"} 1`)
}

func TestServer_Probes(t *testing.T) {
	tests := []struct {
		name     string
		ready    ReadinessChecker
		path     string
		wantCode int
		wantBody string
	}{
		{name: "liveness", path: "/healthz/liveness", wantCode: http.StatusOK, wantBody: "ok\n"},
		{name: "ready", ready: func() bool { return true }, path: "/healthz/readiness", wantCode: http.StatusOK, wantBody: "ok\n"},
		{name: "not ready", ready: func() bool { return false }, path: "/healthz/readiness", wantCode: http.StatusServiceUnavailable, wantBody: "not ready\n"},
		{name: "nil checker is ready", path: "/healthz/readiness", wantCode: http.StatusOK, wantBody: "ok\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := get(t, NewServer("127.0.0.1:0", tt.ready).Handler(), tt.path)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func TestServer_StartStop(t *testing.T) {
	server := NewServer("127.0.0.1:0", nil)
	errCh, err := server.Start()
	require.NoError(t, err)

	_, err = server.Start()
	require.Error(t, err, "second Start should fail")

	resp, err := http.Get("http://" + server.Addr() + "/healthz/liveness")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, server.Stop(ctx))
	require.NoError(t, server.Stop(ctx), "Stop should be idempotent")

	select {
	case err, ok := <-errCh:
		assert.False(t, ok, "channel should close without error, got %v", err)
	case <-time.After(time.Second):
		t.Fatal("error channel not closed after Stop")
	}
}

func TestServer_StartListenFailure(t *testing.T) {
	server := NewServer("256.0.0.1:bad", nil)
	_, err := server.Start()
	require.Error(t, err)
	assert.Empty(t, server.Addr())
}

func TestMetrics_RecordAttempt(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.RecordAttempt("bad_credentials", time.Millisecond)
	m.RecordAttempt("bad_credentials", time.Millisecond)
	m.RecordAttempt("success", time.Millisecond)

	assert.InDelta(t, 2, testutil.ToFloat64(m.AuthAttempts.WithLabelValues("bad_credentials")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.AuthAttempts.WithLabelValues("success")), 0)
}

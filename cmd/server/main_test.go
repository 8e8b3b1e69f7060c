package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitsavvy/internal/config"
	"github.com/mmynk/splitsavvy/internal/metrics"
	"github.com/mmynk/splitsavvy/internal/storage/sqlite"
	"github.com/mmynk/splitsavvy/pkg/api"
)

func TestRouter(t *testing.T) {
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	server := httptest.NewServer(newRouter(config.Default(), store, metrics.New()))
	t.Cleanup(server.Close)

	get := func(path string) (int, string) {
		resp, err := http.Get(server.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(body)
	}

	code, body := get("/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body)

	code, body = get("/pay?from=a&to=b&amount=3.50")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"amount":"3.5"`)

	for _, path := range []string{"/pay", "/splitsavvy.v1.GroupService/AddUser"} {
		req, err := http.NewRequest(http.MethodOptions, server.URL+path, nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"), path)
	}

	client := api.NewGroupServiceClient(http.DefaultClient, server.URL)
	_, err = client.AddUser(context.Background(), connect.NewRequest(&api.AddUserRequest{Name: "Alice"}))
	require.NoError(t, err)

	code, body = get("/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `splitsavvy_rpc_requests_total{code="ok",procedure="/splitsavvy.v1.GroupService/AddUser"} 1`)
}

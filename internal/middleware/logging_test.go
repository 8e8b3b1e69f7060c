package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/mmynk/splitsavvy/pkg/api"
	"github.com/mmynk/splitsavvy/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ping struct{}

// callThrough runs one unary call through the interceptor with the given result.
func callThrough(t *testing.T, interceptor connect.UnaryInterceptorFunc, result error) error {
	t.Helper()

	mux := http.NewServeMux()
	mux.Handle("/test.v1.Ping/Ping", connect.NewUnaryHandler("/test.v1.Ping/Ping",
		func(context.Context, *connect.Request[ping]) (*connect.Response[ping], error) {
			if result != nil {
				return nil, result
			}
			return connect.NewResponse(&ping{}), nil
		},
		api.WithJSON(),
		connect.WithInterceptors(interceptor),
	))
	server := httptest.NewServer(mux)
	defer server.Close()

	client := connect.NewClient[ping, ping](http.DefaultClient, server.URL+"/test.v1.Ping/Ping", api.WithJSON())
	_, err := client.CallUnary(context.Background(), connect.NewRequest(&ping{}))
	return err
}

func TestLoggingInterceptor(t *testing.T) {
	tests := []struct {
		name    string
		result  error
		level   string
		message string
	}{
		{"ok", nil, "INF", "RPC ok"},
		{"client error", connect.NewError(connect.CodeNotFound, errors.New("missing")), "WRN", "RPC error"},
		{"server fault", connect.NewError(connect.CodeInternal, errors.New("disk on fire")), "ERR", "RPC error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := logging.New(&buf, slog.LevelDebug)

			err := callThrough(t, LoggingInterceptor(logger), tt.result)
			if tt.result == nil {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}

			out := buf.String()
			assert.Contains(t, out, tt.level)
			assert.Contains(t, out, tt.message)
			assert.Contains(t, out, "/test.v1.Ping/Ping")
		})
	}
}

func TestCORS(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	handler := RequestLogger(logging.New(&buf, slog.LevelDebug))(http.NotFoundHandler())

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Contains(t, buf.String(), "Request completed")
	assert.Contains(t, buf.String(), "/healthz")
}

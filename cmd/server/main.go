package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/gorilla/mux"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/splitsavvy/internal/config"
	"github.com/mmynk/splitsavvy/internal/metrics"
	"github.com/mmynk/splitsavvy/internal/middleware"
	"github.com/mmynk/splitsavvy/internal/paylink"
	"github.com/mmynk/splitsavvy/internal/service"
	"github.com/mmynk/splitsavvy/internal/storage"
	"github.com/mmynk/splitsavvy/internal/storage/sqlite"
	"github.com/mmynk/splitsavvy/pkg/api"
	"github.com/mmynk/splitsavvy/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	conf, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Setup(conf.Log.Level)

	if err := run(conf); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(conf *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize SQLite storage
	store, err := sqlite.New(conf.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", conf.Database.Path)

	m := metrics.New()
	handler := newRouter(conf, store, m)

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", conf.Server.Port),
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting",
			"address", server.Addr,
			"url", fmt.Sprintf("http://localhost%s", server.Addr),
		)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down cleanly: %w", err)
	}
	return nil
}

// newRouter mounts the Connect services and the plain HTTP routes.
func newRouter(conf *config.Config, store storage.Store, m *metrics.Metrics) http.Handler {
	interceptors := connect.WithInterceptors(
		middleware.LoggingInterceptor(slog.Default()),
		m.Interceptor(),
	)

	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(slog.Default()))

	r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	paylink.RegisterRoutes(r)

	// Register Connect services
	groupPath, groupHandler := api.NewGroupServiceHandler(service.NewGroupService(store), interceptors)
	r.PathPrefix(groupPath).Handler(groupHandler)

	expensePath, expenseHandler := api.NewExpenseServiceHandler(service.NewExpenseService(store), interceptors)
	r.PathPrefix(expensePath).Handler(expenseHandler)

	settlementPath, settlementHandler := api.NewSettlementServiceHandler(service.NewSettlementService(store, conf, m), interceptors)
	r.PathPrefix(settlementPath).Handler(settlementHandler)

	// CORS wraps the router so preflights to GET-only routes are answered too
	return middleware.CORS(r)
}

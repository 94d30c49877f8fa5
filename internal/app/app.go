package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gezakerecsenyi/etymologez/internal/config"
	"github.com/gezakerecsenyi/etymologez/internal/transport/middleware"
	"github.com/gezakerecsenyi/etymologez/internal/transport/rest"
)

const rateLimitSweep = time.Minute

// Run loads configuration, opens the record store and serves the REST API
// until ctx is cancelled. On shutdown the server stops accepting requests,
// then background searches get the remainder of the shutdown timeout to
// finish before they are cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.InfoContext(ctx, "starting application",
		slog.String("version", BuildVersion()),
		slog.String("store", cfg.Store.Driver),
		slog.String("log_level", cfg.Log.Level),
	)

	stores, err := OpenStores(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer stores.Close()

	svcs := NewServices(cfg, stores, logger)

	runs, cancelRuns := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelRuns()
	unrollHandler := rest.NewUnrollHandler(runs, svcs.Unroll, logger)

	limiter := middleware.NewRateLimiter(cfg.Server.UnrollRateLimit, rateLimitSweep)
	defer limiter.Stop()

	router := rest.NewRouter(rest.Handlers{
		Health:   rest.NewHealthHandler(pingFunc(stores.Ping), BuildVersion()),
		Listings: rest.NewListingHandler(svcs.Listings, logger),
		Unroll:   unrollHandler,
		Records:  rest.NewRecordHandler(stores.Records, logger),
		Graph:    rest.NewGraphHandler(svcs.Graph, logger),
	}, middleware.Chain(
		middleware.CORS(cfg.CORS),
		svcs.Source.Middleware,
		limitUnrollStarts(limiter),
	))

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recovery(logger),
	)(router)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", slog.String("error", err.Error()))
	}
	if err := unrollHandler.Wait(shutdownCtx); err != nil {
		logger.Warn("cancelling unfinished searches", slog.String("error", err.Error()))
		cancelRuns()
		_ = unrollHandler.Wait(context.Background())
	}

	logger.Info("stopped")
	return nil
}

// limitUnrollStarts applies the rate limiter to new searches only.
func limitUnrollStarts(rl *middleware.RateLimiter) middleware.Middleware {
	return func(next http.Handler) http.Handler {
		limited := rl.Limit(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost && r.URL.Path == "/api/v1/unroll" {
				limited.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

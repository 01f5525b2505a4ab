package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"gitlab.com/yelinaung/pgconnect/internal/config"
	"gitlab.com/yelinaung/pgconnect/internal/database"
	"gitlab.com/yelinaung/pgconnect/internal/logger"
	"gitlab.com/yelinaung/pgconnect/internal/server"
)

const shutdownTimeout = 10 * time.Second

func runCheck(ctx context.Context, env config.Env, out io.Writer) error {
	cfg, err := config.Resolve(env)
	if err != nil {
		return err
	}

	pool, err := database.Connect(ctx, cfg, database.WithTracing())
	if err != nil {
		return err
	}
	defer pool.Close()

	s := database.Snapshot(pool)
	fmt.Fprintf(out, "url:             %s\n", logger.RedactURL(cfg.URL))
	fmt.Fprintf(out, "min connections: %d\n", cfg.MinConnections)
	fmt.Fprintf(out, "max connections: %d\n", cfg.MaxConnections)
	fmt.Fprintf(out, "total conns:     %d (idle %d, acquired %d)\n", s.TotalConns, s.IdleConns, s.AcquiredConns)

	return nil
}

func runServe(ctx context.Context, env config.Env) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := database.Open(ctx, env, database.WithTracing(), database.WithStats())
	if err != nil {
		return err
	}
	defer pool.Close()

	rt := config.LoadRuntime(env)
	srv := server.New(rt.HTTPAddr, pool, func() database.PoolStats {
		return database.Snapshot(pool)
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info().Str("addr", rt.HTTPAddr).Msg("Serving pool status")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Log.Info().Msg("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("unable to shut down server: %w", err)
	}
	return nil
}

// exitCode maps an error to a process exit status by its kind.
func exitCode(err error) int {
	switch config.KindOf(err) {
	case config.KindNone:
		return 0
	case config.KindMissingConfig, config.KindInvalidEncoding, config.KindInvalidNumber:
		return 2
	default:
		return 1
	}
}

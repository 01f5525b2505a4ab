// Package database opens PostgreSQL connection pools from resolved configuration.
package database

import (
	"context"
	"fmt"
	"math"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"gitlab.com/yelinaung/pgconnect/internal/config"
	"gitlab.com/yelinaung/pgconnect/internal/logger"
)

const instrumentationName = "gitlab.com/yelinaung/pgconnect/internal/database"

// ErrConnect wraps every failure reported by pgx while building or reaching the pool.
// The pgx error stays in the chain.
var ErrConnect = config.ErrConnection

// Option customizes how Connect builds the pool.
type Option func(*options)

type options struct {
	tracing bool
	stats   bool
	log     zerolog.Logger
}

// WithTracing installs the otelpgx query tracer on every connection.
func WithTracing() Option {
	return func(o *options) { o.tracing = true }
}

// WithStats exports pool statistics through the global OpenTelemetry meter provider.
func WithStats() Option {
	return func(o *options) { o.stats = true }
}

// WithLogger overrides the logger used for connection events.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

func newOptions(opts []Option) options {
	o := options{log: logger.Log}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Open resolves the connection settings from env and connects.
// Configuration errors are returned as is; nothing is dialed in that case.
func Open(ctx context.Context, env config.Env, opts ...Option) (*pgxpool.Pool, error) {
	cfg, err := config.Resolve(env)
	if err != nil {
		return nil, err
	}
	return Connect(ctx, cfg, opts...)
}

// PoolConfig translates cfg into a pgxpool configuration. Bounds above
// math.MaxInt32 are clamped since pgxpool counts connections in int32.
func PoolConfig(cfg config.ConnectionConfig) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to parse database URL: %w", ErrConnect, err)
	}

	poolCfg.MaxConns = clampInt32(cfg.MaxConnections)
	poolCfg.MinConns = clampInt32(cfg.MinConnections)

	return poolCfg, nil
}

// Connect establishes a connection pool to the PostgreSQL database and pings it.
// It waits on ctx only; there is no timeout or retry of its own.
func Connect(ctx context.Context, cfg config.ConnectionConfig, opts ...Option) (*pgxpool.Pool, error) {
	o := newOptions(opts)

	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "database.Connect")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("db.pool.min_conns", int64(cfg.MinConnections)),
		attribute.Int64("db.pool.max_conns", int64(cfg.MaxConnections)),
	)

	o.log.Debug().
		Str("url", logger.RedactURL(cfg.URL)).
		Uint32("min_conns", cfg.MinConnections).
		Uint32("max_conns", cfg.MaxConnections).
		Msg("Connecting to database")

	pool, err := connect(ctx, cfg, o)
	recordAttempt(ctx, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	o.log.Info().
		Uint32("min_conns", cfg.MinConnections).
		Uint32("max_conns", cfg.MaxConnections).
		Msg("Connected to database")

	return pool, nil
}

func connect(ctx context.Context, cfg config.ConnectionConfig, o options) (*pgxpool.Pool, error) {
	poolCfg, err := PoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	if o.tracing {
		poolCfg.ConnConfig.Tracer = otelpgx.NewTracer()
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to create connection pool: %w", ErrConnect, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: unable to ping database: %w", ErrConnect, err)
	}

	if o.stats {
		if err := otelpgx.RecordStats(pool); err != nil {
			o.log.Warn().Err(err).Msg("Failed to register pool metrics")
		}
	}

	return pool, nil
}

func recordAttempt(ctx context.Context, err error) {
	counter, cerr := otel.Meter(instrumentationName).Int64Counter(
		"pgconnect.connect.attempts",
		metric.WithDescription("Connection pool open attempts by outcome."),
	)
	if cerr != nil {
		return
	}

	result := "ok"
	if err != nil {
		result = config.KindOf(err).String()
	}
	counter.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

func clampInt32(n uint32) int32 {
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(n)
}

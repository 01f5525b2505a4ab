// Package server exposes pool health and statistics over HTTP.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/yelinaung/pgconnect/internal/config"
	"gitlab.com/yelinaung/pgconnect/internal/database"
	"gitlab.com/yelinaung/pgconnect/internal/logger"
)

const pingTimeout = 2 * time.Second

type handler struct {
	db    database.Pinger
	stats func() database.PoolStats
}

// Handler returns the routes for /healthz, /stats and /metrics,
// instrumented with otelhttp.
func Handler(db database.Pinger, stats func() database.PoolStats) http.Handler {
	h := &handler{db: db, stats: stats}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		database.NewStatsCollector(stats),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.healthz)
	mux.HandleFunc("GET /stats", h.poolStats)
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return otelhttp.NewHandler(mux, "pgconnect")
}

// New returns an http.Server listening on addr.
func New(addr string, db database.Pinger, stats func() database.PoolStats) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           Handler(db, stats),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func (h *handler) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	err := h.db.Ping(ctx)
	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.Bool("db.healthy", err == nil))

	if err != nil {
		logger.Log.Warn().Err(err).Msg("Health check failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"kind":   config.KindOf(err).String(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) poolStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.stats())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to write response")
	}
}

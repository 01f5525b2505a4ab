package database

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// PoolStats is a point-in-time copy of pgxpool.Stat.
type PoolStats struct {
	AcquireCount         int64         `json:"acquire_count"`
	AcquireDuration      time.Duration `json:"acquire_duration_ns"`
	AcquiredConns        int32         `json:"acquired_conns"`
	CanceledAcquireCount int64         `json:"canceled_acquire_count"`
	ConstructingConns    int32         `json:"constructing_conns"`
	EmptyAcquireCount    int64         `json:"empty_acquire_count"`
	IdleConns            int32         `json:"idle_conns"`
	MaxConns             int32         `json:"max_conns"`
	TotalConns           int32         `json:"total_conns"`
	NewConnsCount        int64         `json:"new_conns_count"`
}

// Snapshot copies the current statistics of pool.
func Snapshot(pool *pgxpool.Pool) PoolStats {
	s := pool.Stat()
	return PoolStats{
		AcquireCount:         s.AcquireCount(),
		AcquireDuration:      s.AcquireDuration(),
		AcquiredConns:        s.AcquiredConns(),
		CanceledAcquireCount: s.CanceledAcquireCount(),
		ConstructingConns:    s.ConstructingConns(),
		EmptyAcquireCount:    s.EmptyAcquireCount(),
		IdleConns:            s.IdleConns(),
		MaxConns:             s.MaxConns(),
		TotalConns:           s.TotalConns(),
		NewConnsCount:        s.NewConnsCount(),
	}
}

// StatsCollector exposes pool statistics as Prometheus metrics.
type StatsCollector struct {
	stats func() PoolStats

	acquiredConns     *prometheus.Desc
	idleConns         *prometheus.Desc
	totalConns        *prometheus.Desc
	maxConns          *prometheus.Desc
	constructingConns *prometheus.Desc
	acquireCount      *prometheus.Desc
	emptyAcquire      *prometheus.Desc
	canceledAcquire   *prometheus.Desc
	newConns          *prometheus.Desc
	acquireSeconds    *prometheus.Desc
}

// NewStatsCollector returns a collector reading from stats on every scrape.
func NewStatsCollector(stats func() PoolStats) *StatsCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc("pgconnect_pool_"+name, help, nil, nil)
	}
	return &StatsCollector{
		stats:             stats,
		acquiredConns:     desc("acquired_conns", "Connections currently checked out."),
		idleConns:         desc("idle_conns", "Idle connections in the pool."),
		totalConns:        desc("total_conns", "Total connections in the pool."),
		maxConns:          desc("max_conns", "Maximum size of the pool."),
		constructingConns: desc("constructing_conns", "Connections being established."),
		acquireCount:      desc("acquire_total", "Successful acquires from the pool."),
		emptyAcquire:      desc("empty_acquire_total", "Acquires that waited for a connection."),
		canceledAcquire:   desc("canceled_acquire_total", "Acquires canceled by their context."),
		newConns:          desc("new_conns_total", "Connections opened by the pool."),
		acquireSeconds:    desc("acquire_duration_seconds_total", "Time spent acquiring connections."),
	}
}

// Describe implements prometheus.Collector.
func (c *StatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquiredConns
	ch <- c.idleConns
	ch <- c.totalConns
	ch <- c.maxConns
	ch <- c.constructingConns
	ch <- c.acquireCount
	ch <- c.emptyAcquire
	ch <- c.canceledAcquire
	ch <- c.newConns
	ch <- c.acquireSeconds
}

// Collect implements prometheus.Collector.
func (c *StatsCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.stats()

	gauge := func(d *prometheus.Desc, v int32) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, float64(v))
	}
	counter := func(d *prometheus.Desc, v float64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, v)
	}

	gauge(c.acquiredConns, s.AcquiredConns)
	gauge(c.idleConns, s.IdleConns)
	gauge(c.totalConns, s.TotalConns)
	gauge(c.maxConns, s.MaxConns)
	gauge(c.constructingConns, s.ConstructingConns)
	counter(c.acquireCount, float64(s.AcquireCount))
	counter(c.emptyAcquire, float64(s.EmptyAcquireCount))
	counter(c.canceledAcquire, float64(s.CanceledAcquireCount))
	counter(c.newConns, float64(s.NewConnsCount))
	counter(c.acquireSeconds, s.AcquireDuration.Seconds())
}

// Package metrics holds Prometheus instruments that are used across the
// platform.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ActiveClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_clients",
			Help: "Number of active, non-expired client records in memory.",
		})

	ClientLoadTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "client_load_total",
			Help: "Cumulative number of client-list loads that completed.",
		})

	ClientLoadErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "client_load_errors_total",
			Help: "Cumulative number of remote client-list load failures.",
		})

	CacheFallbackTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_fallback_total",
			Help: "Loads served from the local cache slot or built-in seed.",
		})

	ResolveHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "resolve_hits_total",
			Help: "Token and subdomain resolutions that returned a record.",
		})

	ResolveMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "resolve_misses_total",
			Help: "Token and subdomain resolutions that found no active record.",
		})

	ClientExpiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "client_expired_total",
			Help: "Records deactivated by lazy expiration at lookup time.",
		})

	RemoteSyncErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "remote_sync_errors_total",
			Help: "Best-effort remote upserts that failed and were swallowed.",
		})
)

func init() {
	prometheus.MustRegister(
		ActiveClients,
		ClientLoadTotal,
		ClientLoadErrorsTotal,
		CacheFallbackTotal,
		ResolveHitsTotal,
		ResolveMissesTotal,
		ClientExpiredTotal,
		RemoteSyncErrorsTotal,
	)
}

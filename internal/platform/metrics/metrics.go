// Package metrics exposes prometheus instruments for the matching engine
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Engine groups the counters the collector loop and matcher maintain
type Engine struct {
	ClaimsIngested      *prometheus.CounterVec
	ClaimsDuplicate     *prometheus.CounterVec
	ClaimsInvalid       *prometheus.CounterVec
	ClaimsFailed        *prometheus.CounterVec
	AlertsEmitted       prometheus.Counter
	AlertWriteFailures  prometheus.Counter
	WatchlistRefreshes  prometheus.Counter
	WatchlistSize       prometheus.Gauge
	CollectorCycles     prometheus.Counter
	CollectorFeedErrors *prometheus.CounterVec
}

// NewEngine registers the engine instruments on the default registerer
func NewEngine() *Engine {
	return &Engine{
		ClaimsIngested: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "breachwatch_claims_ingested_total",
			Help: "Claims admitted into the store, by collector",
		}, []string{"collector"}),
		ClaimsDuplicate: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "breachwatch_claims_duplicate_total",
			Help: "Claims suppressed by the duplicate detector, by collector",
		}, []string{"collector"}),
		ClaimsInvalid: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "breachwatch_claims_invalid_total",
			Help: "Claims rejected by field validation, by collector",
		}, []string{"collector"}),
		ClaimsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "breachwatch_claims_failed_total",
			Help: "Claims whose admission failed on storage, by collector",
		}, []string{"collector"}),
		AlertsEmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "breachwatch_alerts_emitted_total",
			Help: "Alerts persisted after a watchlist match",
		}),
		AlertWriteFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "breachwatch_alert_write_failures_total",
			Help: "Alert persistence failures that were logged and skipped",
		}),
		WatchlistRefreshes: promauto.NewCounter(prometheus.CounterOpts{
			Name: "breachwatch_watchlist_refreshes_total",
			Help: "Snapshot rebuilds of the watchlist matcher",
		}),
		WatchlistSize: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "breachwatch_watchlist_identifiers",
			Help: "Identifiers in the current matcher snapshot",
		}),
		CollectorCycles: promauto.NewCounter(prometheus.CounterOpts{
			Name: "breachwatch_collector_cycles_total",
			Help: "Completed collection cycles",
		}),
		CollectorFeedErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "breachwatch_collector_feed_errors_total",
			Help: "Feed fetch failures, by feed",
		}, []string{"feed"}),
	}
}

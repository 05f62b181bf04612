// Package metrics holds the Prometheus collectors exported on /metrics
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "solspace"

var (
	// ReconcileRequests counts reconcile calls by outcome (ok, source_unavailable, error)
	ReconcileRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "deposit",
		Name:      "reconcile_requests_total",
		Help:      "Deposit reconciliation requests by outcome.",
	}, []string{"outcome"})

	// DepositsCredited counts signatures credited to a balance
	DepositsCredited = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "deposit",
		Name:      "credited_total",
		Help:      "Transaction signatures credited.",
	})

	// DepositPoints counts points credited from deposits
	DepositPoints = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "deposit",
		Name:      "points_total",
		Help:      "Points credited from deposits.",
	})

	// SignatureSkips counts signatures skipped during reconciliation by reason
	SignatureSkips = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "deposit",
		Name:      "signature_skips_total",
		Help:      "Signatures skipped during reconciliation by reason.",
	}, []string{"reason"})

	// GameEvents counts submitted game events by decision (admitted or a rejection code)
	GameEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "game",
		Name:      "events_total",
		Help:      "Game event submissions by decision.",
	}, []string{"decision"})

	// GamePoints counts points credited from game events
	GamePoints = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "game",
		Name:      "points_total",
		Help:      "Points credited from game events.",
	})

	// LeaderboardDuration observes leaderboard computation time by view
	LeaderboardDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "leaderboard",
		Name:      "compute_duration_seconds",
		Help:      "Leaderboard computation time.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"view"})

	// HTTPRequests counts API requests
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests processed.",
	}, []string{"route", "method", "status"})

	// HTTPDuration observes API request latency
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	// SweeperRuns counts maintenance passes by sweeper and outcome
	SweeperRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sweeper",
		Name:      "runs_total",
		Help:      "Sweeper passes by outcome.",
	}, []string{"sweeper", "outcome"})

	// SweeperItems counts rows or entries removed or written by sweepers
	SweeperItems = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sweeper",
		Name:      "items_total",
		Help:      "Items processed by sweepers.",
	}, []string{"sweeper"})
)

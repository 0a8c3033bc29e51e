// Package metrics defines and registers all custom Prometheus metrics for the
// vision API. It is the single source of truth for metric names, labels, and
// help strings; metrics register with the default registry at package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "vision"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - outcome: "success", "invalid_credentials", or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// RegistrationsTotal counts registration attempts.
// Label:
//   - outcome: "success", "already_registered", or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by outcome.",
	},
	[]string{"outcome"},
)

// TokensRevokedTotal counts tokens denylisted via logout.
var TokensRevokedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_revoked_total",
		Help:      "Total number of tokens revoked by logout.",
	},
)

// ── Classification metrics ────────────────────────────────────────────────────

// ClassificationsTotal counts classification requests.
// Label:
//   - outcome: "success", "unknown" (model declined), or "error"
var ClassificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "classifications_total",
		Help:      "Total number of classification requests, by outcome.",
	},
	[]string{"outcome"},
)

// ClassificationDuration measures the end-to-end latency of a classification
// request, including the inference round-trip.
var ClassificationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "classification_duration_seconds",
		Help:      "Duration of classification requests from upload to response.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"outcome"},
)

// HistoryQueueDepth tracks the number of records waiting in each history
// writer channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var HistoryQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "history_queue_depth",
		Help:      "Current number of records pending in each history writer channel.",
	},
	[]string{"worker_id"},
)

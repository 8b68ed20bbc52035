// Package metrics defines the custom Prometheus metrics of the job board API.
// Metrics are registered with the default registry on package init through
// promauto; HTTP request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "jobboard"

// ── Auth ──────────────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register and login attempts.
// Labels:
//   - action: "register" or "login"
//   - result: "success", "conflict", "invalid" or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of register and login attempts, by outcome.",
	},
	[]string{"action", "result"},
)

// ── Jobs ──────────────────────────────────────────────────────────────────────

// JobsCreatedTotal counts newly created postings.
// Label:
//   - type: "full-time", "part-time", "contract" or "internship"
var JobsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "jobs_created_total",
		Help:      "Total number of job postings created, by type.",
	},
	[]string{"type"},
)

// JobViewsTotal counts tracked views.
// Label:
//   - unique: "true" when the view came from a first-time viewer
var JobViewsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "job_views_total",
		Help:      "Total number of tracked job views, split by first-time viewer.",
	},
	[]string{"unique"},
)

// IdempotentReplaysTotal counts job creations answered from an earlier request.
var IdempotentReplaysTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idempotent_replays_total",
		Help:      "Total number of job creations replayed via Idempotency-Key.",
	},
)

// ── Applications ──────────────────────────────────────────────────────────────

// ApplicationsSubmittedTotal counts apply attempts.
// Label:
//   - result: "created", "duplicate" or "error"
var ApplicationsSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "applications_submitted_total",
		Help:      "Total number of job applications submitted, by outcome.",
	},
	[]string{"result"},
)

// ApplicationsReviewedTotal counts employer status changes.
// Label:
//   - status: the status the application was moved to
var ApplicationsReviewedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "applications_reviewed_total",
		Help:      "Total number of application reviews, by resulting status.",
	},
	[]string{"status"},
)

// Package metrics defines the custom Prometheus metrics of the racing API.
// Metric names, labels and help strings live here only.
//
// Collectors register with the default registry on package init through
// promauto; HTTP request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "racing"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// GateDecisionsTotal counts auth gate outcomes.
// Labels:
//   - gate: "authenticate", "authorize", "can_elevate", "can_view", "can_delete"
//   - result: "allow", "deny" or "error"
var GateDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_decisions_total",
		Help:      "Total number of auth gate decisions, by gate and result.",
	},
	[]string{"gate", "result"},
)

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "success", "conflict", "invalid" or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "invalid" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Race metrics ──────────────────────────────────────────────────────────────

// RacesCreatedTotal counts newly created races.
// Label:
//   - type: the race type (e.g. "GRAND_PRIX")
var RacesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "races_created_total",
		Help:      "Total number of races created, by type.",
	},
	[]string{"type"},
)

// RaceQueryResults observes how many races a listing returned.
var RaceQueryResults = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "race_query_results",
		Help:      "Number of races returned by a listing request.",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
	},
)

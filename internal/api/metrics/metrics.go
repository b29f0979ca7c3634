// Package metrics defines and registers the custom Prometheus metrics for the
// booking console. It is the single source of truth for metric names, labels
// and help strings.
//
// All metrics register with the default registry on package init through
// promauto; /metrics serves them alongside the echoprometheus request metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "booking_console"

// ── Session metrics ───────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "unreachable" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// SessionValidationsTotal counts token validations.
// Label:
//   - result: "valid", "invalid", "no_session" or "unreachable"
var SessionValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_validations_total",
		Help:      "Total number of session token validations, by result.",
	},
	[]string{"result"},
)

// ── Booking metrics ───────────────────────────────────────────────────────────

// BookingsCreatedTotal counts bookings accepted by the booking service.
// Label:
//   - role: role of the requester
var BookingsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_created_total",
		Help:      "Total number of bookings created, by requester role.",
	},
	[]string{"role"},
)

// BookingTransitionsTotal counts status transitions that the server applied.
// Labels:
//   - to: the resulting status (e.g. "CONFIRMED")
var BookingTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_transitions_total",
		Help:      "Total number of booking status transitions applied.",
	},
	[]string{"to"},
)

// BookingErrorsTotal counts rejected booking operations.
// Labels:
//   - operation: "create" or "transition"
//   - reason: e.g. "validation", "illegal_transition", "forbidden", "window_closed", "unreachable"
var BookingErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_errors_total",
		Help:      "Total number of rejected booking operations, by operation and reason.",
	},
	[]string{"operation", "reason"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditDroppedTotal counts transition audit records dropped on a full queue.
var AuditDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_dropped_total",
		Help:      "Total number of transition audit records dropped because the queue was full.",
	},
)

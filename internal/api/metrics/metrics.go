// Package metrics defines the custom Prometheus metrics of the inventory API.
// It is the single source of truth for metric names, labels, and help strings.
//
// All metrics are registered with the default registry at package init via
// promauto; the router exposes them next to the echo request metrics.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/carlot/inventory-api/internal/core/domain"
)

const namespace = "inventory"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts POST /auth/login outcomes.
// Label:
//   - result: "success", "rejected" (bad credentials) or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenVerificationsTotal counts bearer tokens checked by the auth middleware.
// Label:
//   - result: "ok", "expired", "invalid", "malformed", "identity_rejected" or "error"
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of bearer token verifications, by result.",
	},
	[]string{"result"},
)

// AccessDeniedTotal counts requests stopped by a role gate.
// Labels:
//   - tier: the gate that refused ("authenticated", "manager_or_admin", "admin")
//   - reason: "unauthenticated" or "forbidden"
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of requests denied by the access policy.",
	},
	[]string{"tier", "reason"},
)

// ── Resource metrics ──────────────────────────────────────────────────────────

// VehicleMutationsTotal counts successful vehicle writes.
// Label:
//   - op: "create", "update" or "delete"
var VehicleMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "vehicle_mutations_total",
		Help:      "Total number of successful vehicle writes, by operation.",
	},
	[]string{"op"},
)

// UserMutationsTotal counts successful identity writes, password changes
// included.
// Label:
//   - op: "create", "update", "delete" or "change_password"
var UserMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_mutations_total",
		Help:      "Total number of successful user writes, by operation.",
	},
	[]string{"op"},
)

// TokenResult maps a ResolveCurrentIdentity error to a TokenVerificationsTotal
// label.
func TokenResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenInvalid):
		return "invalid"
	case errors.Is(err, domain.ErrTokenMalformed):
		return "malformed"
	case errors.Is(err, domain.ErrUnauthorized):
		return "identity_rejected"
	default:
		return "error"
	}
}

package authz

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	decisionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_admin_authz_decisions_total",
			Help: "Authorization decisions by role, resource, action and outcome.",
		},
		[]string{"role", "resource", "action", "outcome"},
	)

	auditDropsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clinic_admin_audit_dropped_total",
			Help: "Audit entries dropped because the queue was full.",
		},
	)
)

func recordDecision(role, resource, action string, allowed bool) {
	outcome := "denied"
	if allowed {
		outcome = "allowed"
	}
	decisionTotal.WithLabelValues(role, resource, action, outcome).Inc()
}

func recordAuditDrop() {
	auditDropsTotal.Inc()
}

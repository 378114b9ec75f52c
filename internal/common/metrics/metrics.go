// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ChatTurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_turns_total",
			Help: "Total number of chat turns processed",
		},
		[]string{"agent", "status"},
	)

	RoutingDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_routing_decisions_total",
			Help: "Routing decisions by selected agent and fallback flag",
		},
		[]string{"agent", "fallback"},
	)

	RecoveryStageOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_recovery_stage_outcomes_total",
			Help: "Outcomes of each recovery pipeline stage",
		},
		[]string{"stage", "outcome"},
	)

	AgentInvocationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "chatbot_agent_invocation_duration_seconds",
			Help: "Duration of agent invocations in seconds",
		},
		[]string{"agent"},
	)

	GuardrailInterceptions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_guardrail_interceptions_total",
			Help: "Messages intercepted by the guardrail, by violation type",
		},
		[]string{"violation"},
	)
)

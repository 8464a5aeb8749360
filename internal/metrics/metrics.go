// Package metrics defines the Prometheus instrumentation for healthflow.
// Collectors register on the default registry and are served at /metrics
// in HTTP mode.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BMIRequests counts BMI assessments by outcome ("ok" or "invalid"),
	// across both the REST endpoint and the MCP tool.
	BMIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "healthflow_bmi_requests_total",
		Help: "BMI assessment requests by outcome.",
	}, []string{"outcome"})

	// ToolCalls counts MCP tool invocations by tool name and outcome.
	ToolCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "healthflow_tool_calls_total",
		Help: "MCP tool calls by tool and outcome.",
	}, []string{"tool", "outcome"})

	// WorkflowRuns counts content workflow runs by final status.
	WorkflowRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "healthflow_workflow_runs_total",
		Help: "Content workflow runs by status.",
	}, []string{"status"})

	// AgentDuration observes per-agent stage latency in seconds.
	AgentDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "healthflow_agent_duration_seconds",
		Help:    "Duration of agent stages.",
		Buckets: prometheus.DefBuckets,
	}, []string{"agent"})
)

const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

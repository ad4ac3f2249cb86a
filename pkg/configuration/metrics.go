package configuration

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeCompleted = "completed"
	outcomeCancelled = "cancelled"
	outcomeTimeout   = "timeout"
	outcomeFailed    = "failed"
)

var (
	// SessionsTotal is the total number of configuration sessions by outcome.
	SessionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "configuration_sessions_total",
			Help: "Total number of configuration sessions by outcome",
		},
		[]string{"outcome"},
	)

	// SectionDuration is how long administrators spend on a section.
	SectionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "configuration_section_duration_seconds",
			Help:    "Time spent configuring a section",
			Buckets: []float64{5, 15, 30, 60, 120, 300, 600},
		},
		[]string{"section"},
	)

	// PromptRetries is the number of prompts repeated after an invalid reply.
	PromptRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "configuration_prompt_retries_total",
			Help: "Total number of prompts repeated after an invalid reply",
		},
		[]string{"section", "state"},
	)

	// PermissionFailures is the number of channel permission overwrites the platform rejected.
	PermissionFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "configuration_permission_failures_total",
			Help: "Total number of channel permission overwrites that could not be set",
		},
	)
)

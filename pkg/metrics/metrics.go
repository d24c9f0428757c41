// Package metrics exposes prometheus collectors for ticket automation.
package metrics

import (
	"github.com/LambdaTest/jira-reporter/pkg/constants"
	"github.com/LambdaTest/jira-reporter/pkg/core"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Outcomes counts lifecycle outcomes by action and status.
	Outcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: constants.MetricsNamespace,
		Name:      "outcomes_total",
		Help:      "Number of raise and resolve outcomes by status.",
	}, []string{"action", "status"})

	// BuildDuration observes how long processing one build took.
	BuildDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: constants.MetricsNamespace,
		Name:      "build_processing_seconds",
		Help:      "Time spent applying raise and resolve actions to one build.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	})

	// ConsumedMessages counts build result messages read from kafka by result.
	ConsumedMessages = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: constants.MetricsNamespace,
		Name:      "consumed_messages_total",
		Help:      "Number of build result messages consumed.",
	}, []string{"result"})
)

// Registry holds every collector of the service plus the go runtime collectors.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{Namespace: constants.MetricsNamespace}),
		Outcomes,
		BuildDuration,
		ConsumedMessages,
	)
}

// ObserveReport records the outcomes and duration of a processed build.
func ObserveReport(report *core.Report) {
	for _, o := range report.Outcomes {
		Outcomes.WithLabelValues(string(o.Action), string(o.Status)).Inc()
	}
	if !report.FinishedAt.IsZero() {
		BuildDuration.Observe(report.FinishedAt.Sub(report.StartedAt).Seconds())
	}
}

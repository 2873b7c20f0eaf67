// Package metrics exposes prometheus instrumentation for the participant flow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type ExperimentMetrics struct {
	ResponsesStarted   prometheus.Counter
	ResponsesCompleted prometheus.Counter
	StepAdvances       *prometheus.CounterVec
}

func NewExperimentMetrics() *ExperimentMetrics {
	return &ExperimentMetrics{
		ResponsesStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voxlab_experiment_responses_started_total",
			Help: "Participant responses created.",
		}),
		ResponsesCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voxlab_experiment_responses_completed_total",
			Help: "Participant responses that reached the end of the flow.",
		}),
		StepAdvances: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "voxlab_experiment_step_advances_total",
			Help: "Flow step transitions, labelled by the step reached.",
		}, []string{"step"}),
	}
}

func (m *ExperimentMetrics) IncrementStarted() {
	if m == nil {
		return
	}
	m.ResponsesStarted.Inc()
}

func (m *ExperimentMetrics) IncrementCompleted() {
	if m == nil {
		return
	}
	m.ResponsesCompleted.Inc()
}

func (m *ExperimentMetrics) ObserveAdvance(step string) {
	if m == nil {
		return
	}
	m.StepAdvances.WithLabelValues(step).Inc()
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	CalculationsTotal prometheus.Counter
	ZeroTokenInputs   prometheus.Counter
	FScores           prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		CalculationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voxlab_formality_calculations_total",
			Help: "Total formality calculations stored",
		}),
		ZeroTokenInputs: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voxlab_formality_zero_token_inputs_total",
			Help: "Scoring requests rejected because the input had no scorable tokens",
		}),
		FScores: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "voxlab_formality_fscore",
			Help:    "Distribution of computed F-scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		}),
	}
}

func (m *Metrics) ObserveCalculation(fScore int) {
	m.CalculationsTotal.Inc()
	m.FScores.Observe(float64(fScore))
}

func (m *Metrics) IncrementZeroTokenInputs() {
	m.ZeroTokenInputs.Inc()
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"voxlab/internal/pipeline/models"
)

type Metrics struct {
	FetchesTotal       prometheus.Counter
	FetchFailuresTotal prometheus.Counter
	StageBatchesTotal  *prometheus.CounterVec
	StageFailuresTotal *prometheus.CounterVec
	ItemsProcessed     *prometheus.CounterVec
	RulesVersion       prometheus.Gauge
	StaleRecords       *prometheus.GaugeVec
}

func New() *Metrics {
	return &Metrics{
		FetchesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voxlab_pipeline_status_fetches_total",
			Help: "Total pipeline status recomputations",
		}),
		FetchFailuresTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "voxlab_pipeline_status_fetch_failures_total",
			Help: "Pipeline status recomputations that failed to fetch a snapshot",
		}),
		StageBatchesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "voxlab_pipeline_stage_batches_total",
			Help: "Batch invocations per stage",
		}, []string{"stage"}),
		StageFailuresTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "voxlab_pipeline_stage_failures_total",
			Help: "Aborted stage runs per stage",
		}, []string{"stage"}),
		ItemsProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "voxlab_pipeline_items_processed_total",
			Help: "Items processed by stage runs",
		}, []string{"stage"}),
		RulesVersion: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "voxlab_pipeline_rules_version",
			Help: "Current thematic-coding rules version",
		}),
		StaleRecords: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "voxlab_pipeline_stale_records",
			Help: "Stale records per staleness-tracking stage",
		}, []string{"stage"}),
	}
}

func (m *Metrics) ObserveFetch(status *models.Status) {
	m.FetchesTotal.Inc()
	m.RulesVersion.Set(float64(status.RulesVersion))
	m.StaleRecords.WithLabelValues(string(models.StagePassA)).Set(float64(status.PassA.Stale))
	m.StaleRecords.WithLabelValues(string(models.StagePassB)).Set(float64(status.PassB.Stale))
	m.StaleRecords.WithLabelValues(string(models.StageEvaluation)).Set(float64(status.Evaluation.Stale))
}

func (m *Metrics) IncrementFetchFailures() {
	m.FetchFailuresTotal.Inc()
}

func (m *Metrics) ObserveBatch(stage models.Stage, processed int) {
	m.StageBatchesTotal.WithLabelValues(string(stage)).Inc()
	m.ItemsProcessed.WithLabelValues(string(stage)).Add(float64(processed))
}

func (m *Metrics) IncrementStageFailures(stage models.Stage) {
	m.StageFailuresTotal.WithLabelValues(string(stage)).Inc()
}

package pipeline

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"voxlab/internal/pipeline/models"
)

//go:embed costs.yaml
var costsYAML []byte

// StageCost holds the per-call constants used for pre-run estimates.
type StageCost struct {
	CostPerCall    float64 `yaml:"cost_per_call"`
	SecondsPerCall float64 `yaml:"seconds_per_call"`
}

type costsFile struct {
	BatchSize int                  `yaml:"batch_size"`
	Stages    map[string]StageCost `yaml:"stages"`
}

var costs = mustLoadCosts()

// DefaultBatchSize is the fixed batch size the draining loop requests.
var DefaultBatchSize = costs.BatchSize

func mustLoadCosts() costsFile {
	var f costsFile
	if err := yaml.Unmarshal(costsYAML, &f); err != nil {
		panic(fmt.Sprintf("pipeline: invalid costs.yaml: %v", err))
	}
	if f.BatchSize <= 0 {
		panic("pipeline: costs.yaml batch_size must be positive")
	}
	return f
}

// CostFor returns the estimate constants for a stage; zero constants for
// stages without configured costs (transcription and evaluation are billed
// by their providers, not estimated here).
func CostFor(stage models.Stage) StageCost {
	return costs.Stages[string(stage)]
}

// Estimate is a pre-run cost/time projection for a run-all selection.
type Estimate struct {
	Calls   int     `json:"calls"`
	CostUSD float64 `json:"cost_usd"`
	Seconds float64 `json:"seconds"`
}

// Selection picks which stages a run-all executes. Stages always run in the
// fixed order metrics, pass A, pass B.
type Selection struct {
	Metrics bool `json:"metrics"`
	PassA   bool `json:"pass_a"`
	PassB   bool `json:"pass_b"`
}

// Stages returns the selected stages in run order.
func (s Selection) Stages() []models.Stage {
	var out []models.Stage
	if s.Metrics {
		out = append(out, models.StageMetrics)
	}
	if s.PassA {
		out = append(out, models.StagePassA)
	}
	if s.PassB {
		out = append(out, models.StagePassB)
	}
	return out
}

// EstimateRunAll accumulates the pre-run estimate from the latest status, in
// the same fixed stage order the run will use.
func EstimateRunAll(status *models.Status, sel Selection) Estimate {
	var est Estimate
	if status == nil {
		return est
	}
	for _, stage := range sel.Stages() {
		var pending int
		switch stage {
		case models.StageMetrics:
			pending = status.Metrics.Missing
		case models.StagePassA:
			pending = status.PassA.Missing + status.PassA.Stale
		case models.StagePassB:
			pending = status.PassB.Missing + status.PassB.Stale
		}
		c := CostFor(stage)
		est.Calls += pending
		est.CostUSD += float64(pending) * c.CostPerCall
		est.Seconds += float64(pending) * c.SecondsPerCall
	}
	return est
}

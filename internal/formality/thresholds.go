package formality

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed interpretation.yaml
var interpretationYAML []byte

// Band is one interpretation band of the F-score scale.
type Band struct {
	Key   string `yaml:"key"`
	Label string `yaml:"label"`
	Max   int    `yaml:"max"`
}

type bandsFile struct {
	Bands []Band `yaml:"bands"`
}

// bands holds the interpretation table, loaded once at init. The table is
// configuration data: the scorer and the dashboard both read it from here so
// the cut points exist in exactly one place.
var bands = mustLoadBands()

func mustLoadBands() []Band {
	var f bandsFile
	if err := yaml.Unmarshal(interpretationYAML, &f); err != nil {
		panic(fmt.Sprintf("formality: invalid interpretation.yaml: %v", err))
	}
	if len(f.Bands) == 0 {
		panic("formality: interpretation.yaml defines no bands")
	}
	return f.Bands
}

// InterpretationBands returns the configured bands in ascending order, for
// callers that render the full scale.
func InterpretationBands() []Band {
	out := make([]Band, len(bands))
	copy(out, bands)
	return out
}

// Interpret maps an F-score to its interpretation key and display label.
// Scores above the last band's max clamp to the last band.
func Interpret(fScore int) (key, label string) {
	for _, b := range bands {
		if fScore <= b.Max {
			return b.Key, b.Label
		}
	}
	last := bands[len(bands)-1]
	return last.Key, last.Label
}

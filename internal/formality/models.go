// Package formality implements the Heylighen & Dewaele F-score over
// part-of-speech category percentages, plus the breakdown data the dashboard
// renders. All computation here is pure; persistence lives in the store
// subpackage.
package formality

import (
	"time"

	id "voxlab/pkg/domain"
)

// Category is one of the eight part-of-speech categories the F-score formula
// counts. The zero value means the token is tagged but not counted.
type Category string

const (
	// Positive contributors: higher share raises the score.
	CategoryNoun        Category = "noun"
	CategoryAdjective   Category = "adjective"
	CategoryPreposition Category = "preposition"
	CategoryArticle     Category = "article"

	// Negative contributors: higher share lowers the score.
	CategoryPronoun      Category = "pronoun"
	CategoryVerb         Category = "verb"
	CategoryAdverb       Category = "adverb"
	CategoryInterjection Category = "interjection"
)

// Categories lists all eight categories in formula order: the four positive
// contributors first, then the four negative ones.
var Categories = []Category{
	CategoryNoun, CategoryAdjective, CategoryPreposition, CategoryArticle,
	CategoryPronoun, CategoryVerb, CategoryAdverb, CategoryInterjection,
}

// Formal reports whether the category contributes positively to the F-score.
func (c Category) Formal() bool {
	switch c {
	case CategoryNoun, CategoryAdjective, CategoryPreposition, CategoryArticle:
		return true
	}
	return false
}

// Counted reports whether the category participates in the formula.
func (c Category) Counted() bool {
	return c != ""
}

// Token is one scorable token: its surface text, part-of-speech tag, and the
// formula category it maps to (empty when uncounted). Uncounted tokens are
// excluded from all percentage math but still rendered.
type Token struct {
	Text     string   `json:"text"`
	Tag      string   `json:"pos_tag"`
	Category Category `json:"category,omitempty"`
}

// CategoryStat is the per-category slice of a breakdown.
type CategoryStat struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Breakdown holds the eight per-category counts and percentages.
// TotalTokens counts every tagged token, categorized or not; it is the
// denominator for every percentage, so the eight percentages sum to at most
// 100 and reach exactly 100 only when every token is categorized.
type Breakdown struct {
	TotalTokens int                       `json:"total_tokens"`
	Stats       map[Category]CategoryStat `json:"stats"`
}

// Pct returns the percentage for one category, zero when absent.
func (b Breakdown) Pct(c Category) float64 {
	return b.Stats[c].Percentage
}

// FormulaBreakdown carries the eight percentages renamed for the formula and
// the intermediate sum. Invariant: FScore = round(IntermediateSum / 2).
type FormulaBreakdown struct {
	NounPct         float64 `json:"noun_pct"`
	AdjectivePct    float64 `json:"adjective_pct"`
	PrepositionPct  float64 `json:"preposition_pct"`
	ArticlePct      float64 `json:"article_pct"`
	PronounPct      float64 `json:"pronoun_pct"`
	VerbPct         float64 `json:"verb_pct"`
	AdverbPct       float64 `json:"adverb_pct"`
	InterjectionPct float64 `json:"interjection_pct"`
	IntermediateSum float64 `json:"intermediate_sum"`
}

// TurnScore is the per-turn entry stored when a transcript is scored
// turn-by-turn.
type TurnScore struct {
	Speaker             string           `json:"speaker"`
	Text                string           `json:"text"`
	FScore              int              `json:"f_score"`
	TotalTokens         int              `json:"total_tokens"`
	Interpretation      string           `json:"interpretation"`
	InterpretationLabel string           `json:"interpretation_label"`
	CategoryData        Breakdown        `json:"category_data"`
	FormulaBreakdown    FormulaBreakdown `json:"formula_breakdown"`
}

// Calculation is the persisted, immutable result of one scoring run. Created
// once, never mutated; the breakdown view only reads it. TokensData is nil on
// legacy records that predate token-level detail.
type Calculation struct {
	ID                  id.CalculationID `json:"id"`
	CreatedAt           time.Time        `json:"created_at"`
	FScore              int              `json:"f_score"`
	TotalTokens         int              `json:"total_tokens"`
	Interpretation      string           `json:"interpretation"`
	InterpretationLabel string           `json:"interpretation_label"`
	CategoryData        Breakdown        `json:"category_data"`
	FormulaBreakdown    FormulaBreakdown `json:"formula_breakdown"`
	TokensData          []Token          `json:"tokens_data,omitempty"`
	OriginalTranscript  string           `json:"original_transcript"`

	CallID        id.CallID        `json:"call_id,omitempty"`
	ParticipantID id.ParticipantID `json:"participant_id,omitempty"`

	AIOnlyMode       bool        `json:"ai_only_mode"`
	PerTurnMode      bool        `json:"per_turn_mode"`
	PerTurnResults   []TurnScore `json:"per_turn_results,omitempty"`
	AverageTurnScore *float64    `json:"average_turn_score,omitempty"`

	Notes string `json:"notes,omitempty"`
}

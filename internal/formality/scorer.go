package formality

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"voxlab/internal/formality/tagger"
	id "voxlab/pkg/domain"
	dErrors "voxlab/pkg/domain-errors"
)

// ErrNoTokens marks input that produced zero scorable tokens. The scorer
// never fabricates a numeric score for such input.
var ErrNoTokens = errors.New("no scorable tokens")

// Options controls a scoring run.
type Options struct {
	// AIOnly restricts scoring to assistant turns.
	AIOnly bool
	// PerTurn additionally scores every turn independently and records the
	// arithmetic mean of the per-turn scores.
	PerTurn bool

	CallID        id.CallID
	ParticipantID id.ParticipantID
	Notes         string
}

// Scorer computes formality scores. It is stateless and safe for concurrent
// use; the tagger must be deterministic.
type Scorer struct {
	tagger tagger.Tagger
}

// NewScorer builds a scorer around the given tagger, defaulting to the rule
// tagger when nil.
func NewScorer(t tagger.Tagger) *Scorer {
	if t == nil {
		t = tagger.NewRuleTagger()
	}
	return &Scorer{tagger: t}
}

// ClassifyTokens tokenizes and tags text, mapping each tag to its formula
// category. Deterministic for identical input.
func (s *Scorer) ClassifyTokens(text string) []Token {
	tagged := s.tagger.Tag(text)
	tokens := make([]Token, 0, len(tagged))
	for _, tt := range tagged {
		tokens = append(tokens, Token{
			Text:     tt.Text,
			Tag:      tt.Tag,
			Category: CategoryForTag(tt.Tag),
		})
	}
	return tokens
}

// ComputeCategoryBreakdown counts category occurrences. The denominator is
// every tagged token, categorized or not. Zero tokens yields a breakdown with
// TotalTokens == 0 and all-zero stats; callers must not derive a score from
// it (ScoreTranscript returns ErrNoTokens instead).
func ComputeCategoryBreakdown(tokens []Token) Breakdown {
	stats := make(map[Category]CategoryStat, len(Categories))
	for _, c := range Categories {
		stats[c] = CategoryStat{}
	}
	for _, t := range tokens {
		if !t.Category.Counted() {
			continue
		}
		st := stats[t.Category]
		st.Count++
		stats[t.Category] = st
	}

	total := len(tokens)
	if total > 0 {
		for c, st := range stats {
			st.Percentage = 100 * float64(st.Count) / float64(total)
			stats[c] = st
		}
	}
	return Breakdown{TotalTokens: total, Stats: stats}
}

// ComputeFormulaBreakdown renames the eight percentages for the formula and
// computes the intermediate sum:
//
//	nounPct + adjPct + prepPct + artPct − pronPct − verbPct − advPct − intjPct + 100
func ComputeFormulaBreakdown(b Breakdown) FormulaBreakdown {
	fb := FormulaBreakdown{
		NounPct:         b.Pct(CategoryNoun),
		AdjectivePct:    b.Pct(CategoryAdjective),
		PrepositionPct:  b.Pct(CategoryPreposition),
		ArticlePct:      b.Pct(CategoryArticle),
		PronounPct:      b.Pct(CategoryPronoun),
		VerbPct:         b.Pct(CategoryVerb),
		AdverbPct:       b.Pct(CategoryAdverb),
		InterjectionPct: b.Pct(CategoryInterjection),
	}
	fb.IntermediateSum = fb.NounPct + fb.AdjectivePct + fb.PrepositionPct + fb.ArticlePct -
		fb.PronounPct - fb.VerbPct - fb.AdverbPct - fb.InterjectionPct + 100
	return fb
}

// ComputeFScore finishes the formula: round(intermediateSum / 2). The result
// lands in [0,100] by construction since each percentage group sums to at
// most 100.
func ComputeFScore(fb FormulaBreakdown) int {
	return int(math.Round(fb.IntermediateSum / 2))
}

// ScoreTranscript runs the whole pipeline over a transcript and assembles an
// unsaved Calculation. Zero scorable tokens is an input error (ErrNoTokens
// wrapped with CodeInvalidInput), never a defaulted score.
func (s *Scorer) ScoreTranscript(text string, opts Options) (*Calculation, error) {
	turns := SplitTurns(text)
	scorable := turns
	if opts.AIOnly {
		scorable = filterAITurns(turns)
	}

	// In AI-only mode a transcript without assistant turns joins to the
	// empty string and falls through to the zero-token error below.
	joined := joinTurns(scorable)

	tokens := s.ClassifyTokens(joined)
	if len(tokens) == 0 {
		return nil, dErrors.Wrap(ErrNoTokens, dErrors.CodeInvalidInput, "transcript produced no scorable tokens")
	}

	breakdown := ComputeCategoryBreakdown(tokens)
	formula := ComputeFormulaBreakdown(breakdown)
	fScore := ComputeFScore(formula)
	key, label := Interpret(fScore)

	calc := &Calculation{
		ID:                  id.CalculationID(uuid.New()),
		CreatedAt:           time.Now().UTC(),
		FScore:              fScore,
		TotalTokens:         breakdown.TotalTokens,
		Interpretation:      key,
		InterpretationLabel: label,
		CategoryData:        breakdown,
		FormulaBreakdown:    formula,
		TokensData:          tokens,
		OriginalTranscript:  text,
		CallID:              opts.CallID,
		ParticipantID:       opts.ParticipantID,
		AIOnlyMode:          opts.AIOnly,
		PerTurnMode:         opts.PerTurn,
		Notes:               opts.Notes,
	}

	if opts.PerTurn {
		perTurn, avg := s.scoreTurns(scorable)
		calc.PerTurnResults = perTurn
		calc.AverageTurnScore = avg
	}

	return calc, nil
}

// scoreTurns scores each turn independently through the same pipeline. Turns
// with zero scorable tokens are skipped rather than scored; the average is
// the arithmetic mean over the turns that did score.
func (s *Scorer) scoreTurns(turns []Turn) ([]TurnScore, *float64) {
	results := make([]TurnScore, 0, len(turns))
	var sum float64
	for _, turn := range turns {
		tokens := s.ClassifyTokens(turn.Text)
		if len(tokens) == 0 {
			continue
		}
		breakdown := ComputeCategoryBreakdown(tokens)
		formula := ComputeFormulaBreakdown(breakdown)
		fScore := ComputeFScore(formula)
		key, label := Interpret(fScore)
		results = append(results, TurnScore{
			Speaker:             turn.Speaker,
			Text:                turn.Text,
			FScore:              fScore,
			TotalTokens:         breakdown.TotalTokens,
			Interpretation:      key,
			InterpretationLabel: label,
			CategoryData:        breakdown,
			FormulaBreakdown:    formula,
		})
		sum += float64(fScore)
	}
	if len(results) == 0 {
		return nil, nil
	}
	avg := sum / float64(len(results))
	return results, &avg
}

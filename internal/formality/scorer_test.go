package formality

import (
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "voxlab/pkg/domain-errors"
)

type ScorerSuite struct {
	suite.Suite
	scorer *Scorer
}

func (s *ScorerSuite) SetupTest() {
	s.scorer = NewScorer(nil)
}

func TestScorerSuite(t *testing.T) {
	suite.Run(t, new(ScorerSuite))
}

// TestFScoreFormula verifies the Heylighen & Dewaele formula end to end on
// hand-counted sentences.
func (s *ScorerSuite) TestFScoreFormula() {
	s.Run("the cat is happy scores 75", func() {
		// the=article, cat=noun, is=verb, happy=adjective; each 25%.
		// (25 + 25 + 0 + 25) - (0 + 25 + 0 + 0) + 100 = 150; 150/2 = 75.
		calc, err := s.scorer.ScoreTranscript("The cat is happy.", Options{})
		s.Require().NoError(err)
		s.Equal(75, calc.FScore)
		s.Equal(4, calc.TotalTokens)
	})

	s.Run("pronoun heavy text scores below 50", func() {
		// you=pronoun, know=verb, I=pronoun, really=adverb feel=verb it=pronoun:
		// deictic words dominate, so the score drops under the neutral 50.
		calc, err := s.scorer.ScoreTranscript("you know I really feel it", Options{})
		s.Require().NoError(err)
		s.Less(calc.FScore, 50)
	})

	s.Run("intermediate sum halves into the score", func() {
		calc, err := s.scorer.ScoreTranscript("The cat is happy.", Options{})
		s.Require().NoError(err)
		s.InDelta(float64(calc.FScore)*2, calc.FormulaBreakdown.IntermediateSum, 1.0)
	})

	s.Run("identical input yields identical output", func() {
		first, err := s.scorer.ScoreTranscript("The quick brown fox jumps over the lazy dog.", Options{})
		s.Require().NoError(err)
		second, err := s.scorer.ScoreTranscript("The quick brown fox jumps over the lazy dog.", Options{})
		s.Require().NoError(err)
		s.Equal(first.FScore, second.FScore)
		s.Equal(first.TotalTokens, second.TotalTokens)
		s.Equal(first.FormulaBreakdown, second.FormulaBreakdown)
	})
}

// TestZeroTokenInput verifies unscorable input is an error, never a score.
func (s *ScorerSuite) TestZeroTokenInput() {
	s.Run("empty transcript", func() {
		calc, err := s.scorer.ScoreTranscript("", Options{})
		s.Nil(calc)
		s.Require().ErrorIs(err, ErrNoTokens)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("punctuation only", func() {
		_, err := s.scorer.ScoreTranscript("... !!! ???", Options{})
		s.Require().ErrorIs(err, ErrNoTokens)
	})

	s.Run("ai only with no assistant turns", func() {
		_, err := s.scorer.ScoreTranscript("User: hello there\nUser: anyone home", Options{AIOnly: true})
		s.Require().ErrorIs(err, ErrNoTokens)
	})
}

// TestCategoryBreakdown verifies counts, percentages, and the uncounted
// denominator rule.
func (s *ScorerSuite) TestCategoryBreakdown() {
	s.Run("percentages use all tokens as denominator", func() {
		// "and" is a conjunction: tagged and counted in the denominator but
		// belonging to no formula category.
		tokens := s.scorer.ClassifyTokens("the cat and dog")
		b := ComputeCategoryBreakdown(tokens)
		s.Equal(4, b.TotalTokens)
		s.InDelta(25.0, b.Stats[CategoryArticle].Percentage, 0.001)
		s.InDelta(50.0, b.Stats[CategoryNoun].Percentage, 0.001)
	})

	s.Run("all eight categories always present", func() {
		b := ComputeCategoryBreakdown(s.scorer.ClassifyTokens("hello"))
		for _, c := range Categories {
			_, ok := b.Stats[c]
			s.True(ok, "missing category %s", c)
		}
	})
}

// TestAIOnlyMode verifies speaker filtering before scoring.
func (s *ScorerSuite) TestAIOnlyMode() {
	s.Run("scores assistant turns only", func() {
		transcript := "AI: The weather is pleasant today.\nUser: yeah totally"
		all, err := s.scorer.ScoreTranscript(transcript, Options{})
		s.Require().NoError(err)
		aiOnly, err := s.scorer.ScoreTranscript(transcript, Options{AIOnly: true})
		s.Require().NoError(err)
		s.Less(aiOnly.TotalTokens, all.TotalTokens)
		s.True(aiOnly.AIOnlyMode)
	})
}

// TestPerTurnMode verifies per-turn results and their arithmetic mean.
func (s *ScorerSuite) TestPerTurnMode() {
	s.Run("records one result per scorable turn", func() {
		transcript := "AI: The weather report mentions rain.\nUser: oh okay"
		calc, err := s.scorer.ScoreTranscript(transcript, Options{PerTurn: true})
		s.Require().NoError(err)
		s.Require().Len(calc.PerTurnResults, 2)
		s.Equal("AI", calc.PerTurnResults[0].Speaker)
		s.Equal("User", calc.PerTurnResults[1].Speaker)
	})

	s.Run("average is the mean of turn scores", func() {
		transcript := "AI: The weather report mentions rain.\nUser: oh okay"
		calc, err := s.scorer.ScoreTranscript(transcript, Options{PerTurn: true})
		s.Require().NoError(err)
		s.Require().NotNil(calc.AverageTurnScore)
		want := float64(calc.PerTurnResults[0].FScore+calc.PerTurnResults[1].FScore) / 2
		s.InDelta(want, *calc.AverageTurnScore, 0.001)
	})

	s.Run("whole transcript score is independent of per-turn flag", func() {
		transcript := "AI: The weather report mentions rain.\nUser: oh okay"
		plain, err := s.scorer.ScoreTranscript(transcript, Options{})
		s.Require().NoError(err)
		perTurn, err := s.scorer.ScoreTranscript(transcript, Options{PerTurn: true})
		s.Require().NoError(err)
		s.Equal(plain.FScore, perTurn.FScore)
	})
}

// TestInterpretation verifies the band table boundaries.
func (s *ScorerSuite) TestInterpretation() {
	tests := []struct {
		fScore int
		key    string
	}{
		{0, "very_informal"},
		{39, "very_informal"},
		{40, "conversational"},
		{55, "conversational"},
		{56, "moderately_formal"},
		{70, "moderately_formal"},
		{71, "highly_formal"},
		{100, "highly_formal"},
	}
	for _, tt := range tests {
		key, label := Interpret(tt.fScore)
		s.Equal(tt.key, key, "fScore %d", tt.fScore)
		s.NotEmpty(label)
	}
}

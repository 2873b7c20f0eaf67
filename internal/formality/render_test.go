package formality

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type RenderSuite struct {
	suite.Suite
	scorer *Scorer
}

func (s *RenderSuite) SetupTest() {
	s.scorer = NewScorer(nil)
}

func TestRenderSuite(t *testing.T) {
	suite.Run(t, new(RenderSuite))
}

func (s *RenderSuite) score(text string) *Calculation {
	calc, err := s.scorer.ScoreTranscript(text, Options{})
	s.Require().NoError(err)
	return calc
}

// TestRender verifies token coloring and score direction.
func (s *RenderSuite) TestRender() {
	s.Run("counted tokens get category colors and directions", func() {
		view := Render(s.score("The cat is happy."), AllVisible())
		s.False(view.Legacy)
		s.Require().Len(view.Tokens, 4)

		// the: article, formal side.
		s.Equal(1, view.Tokens[0].Direction)
		s.Equal(categoryColors[CategoryArticle], view.Tokens[0].Color)
		// is: verb, informal side.
		s.Equal(-1, view.Tokens[2].Direction)
	})

	s.Run("uncounted tokens are neutral", func() {
		// "and" is tagged but belongs to no formula category.
		view := Render(s.score("cats and dogs"), AllVisible())
		s.Require().Len(view.Tokens, 3)
		s.Equal(0, view.Tokens[1].Direction)
		s.Equal(uncountedColor, view.Tokens[1].Color)
	})

	s.Run("visibility toggle hides one category", func() {
		vis := AllVisible().Toggle(CategoryArticle)
		view := Render(s.score("The cat is happy."), vis)
		s.False(view.Tokens[0].Visible) // the
		s.True(view.Tokens[1].Visible)  // cat
	})
}

// TestLegacyFallback verifies records without token detail render as plain
// transcript.
func (s *RenderSuite) TestLegacyFallback() {
	calc := s.score("The cat is happy.")
	calc.TokensData = nil

	view := Render(calc, AllVisible())
	s.True(view.Legacy)
	s.Equal("The cat is happy.", view.Transcript)
	s.Empty(view.Tokens)
}

// TestInsights verifies threshold rules fire strictly above their cutoffs,
// in fixed order.
func (s *RenderSuite) TestInsights() {
	s.Run("noun heavy text fires the noun rule", func() {
		calc := s.score("cats dogs birds fish")
		insights := Insights(calc.CategoryData)
		s.Require().NotEmpty(insights)
		s.Equal("noun_heavy", insights[0].Rule)
	})

	s.Run("at threshold does not fire", func() {
		// Construct a breakdown sitting exactly on the noun threshold.
		b := Breakdown{TotalTokens: 10, Stats: map[Category]CategoryStat{
			CategoryNoun: {Count: 3, Percentage: 30},
		}}
		for _, ins := range Insights(b) {
			s.NotEqual("noun_heavy", ins.Rule)
		}
	})

	s.Run("interjections fire at low percentages", func() {
		calc := s.score("oh wow the meeting went well honestly speaking")
		var rules []string
		for _, ins := range Insights(calc.CategoryData) {
			rules = append(rules, ins.Rule)
		}
		s.Contains(rules, "interjection_present")
	})
}

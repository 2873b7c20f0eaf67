package formality

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type TurnsSuite struct {
	suite.Suite
}

func TestTurnsSuite(t *testing.T) {
	suite.Run(t, new(TurnsSuite))
}

// TestSplitTurns verifies speaker-label parsing and continuation handling.
func (s *TurnsSuite) TestSplitTurns() {
	s.Run("labelled lines open turns", func() {
		turns := SplitTurns("AI: Hello there.\nUser: hi")
		s.Require().Len(turns, 2)
		s.Equal("AI", turns[0].Speaker)
		s.Equal("Hello there.", turns[0].Text)
		s.Equal("User", turns[1].Speaker)
	})

	s.Run("continuation lines extend the current turn", func() {
		turns := SplitTurns("AI: first line\nsecond line\nUser: reply")
		s.Require().Len(turns, 2)
		s.Equal("first line second line", turns[0].Text)
	})

	s.Run("text before any label gets an empty speaker", func() {
		turns := SplitTurns("stray preamble\nAI: hello")
		s.Require().Len(turns, 2)
		s.Equal("", turns[0].Speaker)
		s.Equal("stray preamble", turns[0].Text)
	})

	s.Run("colon deep in a sentence is not a label", func() {
		turns := SplitTurns("AI: the ratio was high\nthe answer is simple: forty")
		s.Require().Len(turns, 1)
		s.Contains(turns[0].Text, "simple: forty")
	})

	s.Run("multi word prefix before colon is not a label", func() {
		turns := SplitTurns("note to self: remember")
		s.Require().Len(turns, 1)
		s.Equal("", turns[0].Speaker)
	})

	s.Run("blank lines and empty turns are dropped", func() {
		turns := SplitTurns("AI:\n\nUser: hi\n\n")
		s.Require().Len(turns, 1)
		s.Equal("User", turns[0].Speaker)
	})
}

// TestIsAISpeaker verifies the assistant label set, case-insensitively.
func (s *TurnsSuite) TestIsAISpeaker() {
	s.True(IsAISpeaker("AI"))
	s.True(IsAISpeaker("assistant"))
	s.True(IsAISpeaker("Bot"))
	s.True(IsAISpeaker("AGENT"))
	s.False(IsAISpeaker("User"))
	s.False(IsAISpeaker(""))
}

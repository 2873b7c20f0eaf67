package tagger

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type RuleTaggerSuite struct {
	suite.Suite
	tagger *RuleTagger
}

func (s *RuleTaggerSuite) SetupTest() {
	s.tagger = NewRuleTagger()
}

func TestRuleTaggerSuite(t *testing.T) {
	suite.Run(t, new(RuleTaggerSuite))
}

func (s *RuleTaggerSuite) tagsOf(text string) []string {
	tokens := s.tagger.Tag(text)
	tags := make([]string, 0, len(tokens))
	for _, t := range tokens {
		tags = append(tags, t.Tag)
	}
	return tags
}

// TestTokenization verifies punctuation stripping and token filtering.
func (s *RuleTaggerSuite) TestTokenization() {
	s.Run("surrounding punctuation is stripped", func() {
		tokens := s.tagger.Tag(`"Hello," she said.`)
		s.Require().Len(tokens, 3)
		s.Equal("Hello", tokens[0].Text)
		s.Equal("said", tokens[2].Text)
	})

	s.Run("pure punctuation is never a token", func() {
		s.Empty(s.tagger.Tag("... --- !!!"))
	})

	s.Run("apostrophes survive inside words", func() {
		tokens := s.tagger.Tag("the dog's bone")
		s.Equal("dog's", tokens[1].Text)
		s.Equal(TagNoun, tokens[1].Tag)
	})
}

// TestClosedClasses verifies lexicon lookups for function words.
func (s *RuleTaggerSuite) TestClosedClasses() {
	tests := []struct {
		word string
		want string
	}{
		{"the", TagArticle},
		{"a", TagArticle},
		{"an", TagArticle},
		{"this", TagDeterminer},
		{"in", TagPreposition},
		{"she", TagPronoun},
		{"is", TagVerb},
		{"could", TagModal},
		{"not", TagAdverb},
		{"oh", TagInterjection},
		{"and", TagConjunction},
	}
	for _, tt := range tests {
		tokens := s.tagger.Tag(tt.word)
		s.Require().Len(tokens, 1, tt.word)
		s.Equal(tt.want, tokens[0].Tag, tt.word)
	}
}

// TestSuffixRules verifies open-class fallbacks.
func (s *RuleTaggerSuite) TestSuffixRules() {
	s.Run("ly adverbs", func() {
		s.Equal([]string{TagAdverb}, s.tagsOf("quickly"))
	})

	s.Run("nominal suffixes", func() {
		s.Equal([]string{TagNoun}, s.tagsOf("information"))
		s.Equal([]string{TagNoun}, s.tagsOf("happiness"))
	})

	s.Run("adjectival suffixes", func() {
		s.Equal([]string{TagAdjective}, s.tagsOf("famous"))
		s.Equal([]string{TagAdjective}, s.tagsOf("helpful"))
	})

	s.Run("ing defaults to verb", func() {
		tags := s.tagsOf("she was running")
		s.Equal(TagVerb, tags[2])
	})

	s.Run("ing after an article is a noun", func() {
		tags := s.tagsOf("the meeting")
		s.Equal([]string{TagArticle, TagNoun}, tags)
	})

	s.Run("ed past forms are verbs", func() {
		s.Equal([]string{TagVerb}, s.tagsOf("walked"))
	})

	s.Run("numbers", func() {
		s.Equal([]string{TagNumber}, s.tagsOf("42"))
	})

	s.Run("unknown words default to noun", func() {
		s.Equal([]string{TagNoun}, s.tagsOf("zorblax"))
	})
}

// TestDeterminism verifies identical input produces identical tags.
func (s *RuleTaggerSuite) TestDeterminism() {
	text := "The quick brown fox jumps over the lazy dog while she watched quietly."
	first := s.tagger.Tag(text)
	second := s.tagger.Tag(text)
	s.Equal(first, second)
}

// Package tagger assigns part-of-speech tags to transcript text. The scorer
// depends only on the Tagger interface so the tagging strategy can be swapped
// without touching the formality math.
package tagger

import (
	"strings"
	"unicode"
)

// TaggedToken is one scorable token with its part-of-speech tag.
type TaggedToken struct {
	Text string
	Tag  string
}

// Tagger turns raw text into tagged tokens. Implementations must be
// deterministic: identical input yields identical output.
type Tagger interface {
	Tag(text string) []TaggedToken
}

// Part-of-speech tags emitted by RuleTagger. A Penn-style set, with ART split
// out from other determiners because the formality formula counts articles
// but not demonstratives.
const (
	TagNoun         = "NN"
	TagAdjective    = "JJ"
	TagArticle      = "ART"
	TagDeterminer   = "DT"
	TagPreposition  = "IN"
	TagPronoun      = "PRP"
	TagVerb         = "VB"
	TagModal        = "MD"
	TagAdverb       = "RB"
	TagInterjection = "UH"
	TagConjunction  = "CC"
	TagNumber       = "CD"
)

// RuleTagger is a deterministic lexicon-plus-suffix tagger. Closed word
// classes come from the lexicon; open classes fall back to suffix rules and
// finally to noun, the most common open class in conversational English.
type RuleTagger struct{}

// NewRuleTagger returns the default tagger.
func NewRuleTagger() *RuleTagger {
	return &RuleTagger{}
}

// Tag tokenizes text on whitespace, strips surrounding punctuation, and tags
// every remaining token. Punctuation and whitespace are never emitted as
// scorable tokens.
func (t *RuleTagger) Tag(text string) []TaggedToken {
	fields := strings.Fields(text)
	tokens := make([]TaggedToken, 0, len(fields))
	for _, field := range fields {
		word := strings.TrimFunc(field, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
		})
		if word == "" {
			continue
		}
		var prev string
		if len(tokens) > 0 {
			prev = tokens[len(tokens)-1].Tag
		}
		tokens = append(tokens, TaggedToken{Text: word, Tag: tagWord(word, prev)})
	}
	return tokens
}

func tagWord(word, prevTag string) string {
	lower := strings.ToLower(word)

	if tag, ok := lexicon[lower]; ok {
		return tag
	}
	if isNumeric(lower) {
		return TagNumber
	}

	// Suffix rules for open classes.
	switch {
	case strings.HasSuffix(lower, "ly") && len(lower) > 3:
		return TagAdverb
	case hasAnySuffix(lower, "tion", "sion", "ness", "ment", "ship", "ance", "ence", "ity", "ism", "ist", "ture", "hood"):
		return TagNoun
	case hasAnySuffix(lower, "ous", "ful", "less", "able", "ible", "ive", "ical", "ish"):
		return TagAdjective
	case strings.HasSuffix(lower, "ing") && len(lower) > 4:
		// Gerunds after an article act nominally ("the meeting"); otherwise
		// treat as verbal.
		if prevTag == TagArticle || prevTag == TagDeterminer {
			return TagNoun
		}
		return TagVerb
	case strings.HasSuffix(lower, "ed") && len(lower) > 3:
		return TagVerb
	case strings.HasSuffix(lower, "'s"), strings.HasSuffix(lower, "s'"):
		return TagNoun
	}
	return TagNoun
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) && len(s) > len(suffix)+1 {
			return true
		}
	}
	return false
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '.' && r != ',' {
			return false
		}
	}
	return len(s) > 0 && unicode.IsDigit(rune(s[0]))
}

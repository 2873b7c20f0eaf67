package formality

import "strings"

// Turn is one speaker's contiguous contribution to a transcript.
type Turn struct {
	Speaker string
	Text    string
}

// aiSpeakers are the speaker labels the call provider uses for the
// assistant side of a conversation.
var aiSpeakers = map[string]bool{
	"ai":        true,
	"assistant": true,
	"bot":       true,
	"agent":     true,
}

// SplitTurns parses a transcript into speaker turns. Lines of the form
// "Speaker: text" open a new turn; continuation lines extend the current one.
// Text before any speaker label becomes a turn with an empty speaker.
func SplitTurns(text string) []Turn {
	var turns []Turn
	flush := func(speaker string, parts []string) {
		body := strings.TrimSpace(strings.Join(parts, " "))
		if body == "" {
			return
		}
		turns = append(turns, Turn{Speaker: speaker, Text: body})
	}

	var speaker string
	var parts []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if label, rest, ok := splitSpeakerLabel(line); ok {
			flush(speaker, parts)
			speaker = label
			parts = parts[:0]
			if rest != "" {
				parts = append(parts, rest)
			}
			continue
		}
		parts = append(parts, line)
	}
	flush(speaker, parts)
	return turns
}

// splitSpeakerLabel recognizes "Speaker: text" lines. Labels are short,
// single-word, and colon-terminated; anything else is transcript text that
// happens to contain a colon.
func splitSpeakerLabel(line string) (label, rest string, ok bool) {
	idx := strings.Index(line, ":")
	if idx <= 0 || idx > 20 {
		return "", "", false
	}
	candidate := strings.TrimSpace(line[:idx])
	if candidate == "" || strings.ContainsAny(candidate, " \t") {
		return "", "", false
	}
	return candidate, strings.TrimSpace(line[idx+1:]), true
}

// IsAISpeaker reports whether a speaker label denotes the assistant.
func IsAISpeaker(speaker string) bool {
	return aiSpeakers[strings.ToLower(speaker)]
}

func filterAITurns(turns []Turn) []Turn {
	out := make([]Turn, 0, len(turns))
	for _, t := range turns {
		if IsAISpeaker(t.Speaker) {
			out = append(out, t)
		}
	}
	return out
}

func joinTurns(turns []Turn) string {
	parts := make([]string, 0, len(turns))
	for _, t := range turns {
		parts = append(parts, t.Text)
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

package formality

import "fmt"

// InsightRule derives one qualitative statement from a category breakdown.
// Rules are independent and side-effect-free; they are evaluated in the fixed
// order of insightRules.
type InsightRule struct {
	Name      string
	Category  Category
	Threshold float64
	format    string
}

// insightRules is the fixed rule list the breakdown view evaluates. Each rule
// fires when its category's percentage strictly exceeds its threshold.
var insightRules = []InsightRule{
	{Name: "noun_heavy", Category: CategoryNoun, Threshold: 30,
		format: "Noun usage is high (%.1f%%), which pushes the score toward formal."},
	{Name: "article_heavy", Category: CategoryArticle, Threshold: 12,
		format: "Frequent articles (%.1f%%) suggest explicit, context-independent reference."},
	{Name: "preposition_heavy", Category: CategoryPreposition, Threshold: 15,
		format: "Heavy preposition use (%.1f%%) indicates elaborated, formal phrasing."},
	{Name: "verb_heavy", Category: CategoryVerb, Threshold: 25,
		format: "High verb usage (%.1f%%) lowers formality."},
	{Name: "pronoun_heavy", Category: CategoryPronoun, Threshold: 15,
		format: "Frequent pronouns (%.1f%%) rely on shared context and lower the score."},
	{Name: "adverb_heavy", Category: CategoryAdverb, Threshold: 12,
		format: "Adverb-heavy speech (%.1f%%) reads as informal."},
	{Name: "interjection_present", Category: CategoryInterjection, Threshold: 3,
		format: "Interjections (%.1f%%) are a strong marker of casual speech."},
}

// Insight is one fired rule with its rendered statement.
type Insight struct {
	Rule      string  `json:"rule"`
	Category  Category `json:"category"`
	Statement string  `json:"statement"`
}

// Insights evaluates the rule list against a breakdown and returns the fired
// rules in evaluation order.
func Insights(b Breakdown) []Insight {
	var out []Insight
	for _, r := range insightRules {
		pct := b.Pct(r.Category)
		if pct > r.Threshold {
			out = append(out, Insight{
				Rule:      r.Name,
				Category:  r.Category,
				Statement: fmt.Sprintf(r.format, pct),
			})
		}
	}
	return out
}

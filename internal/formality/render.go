package formality

// Breakdown rendering: the dashboard's colorized transcript view is derived
// entirely from a stored Calculation, never recomputed from text.

// categoryColors assigns each counted category a stable highlight color.
// Hex values, warm for positive contributors and cool for negative ones.
var categoryColors = map[Category]string{
	CategoryNoun:         "#f4a261",
	CategoryAdjective:    "#e9c46a",
	CategoryPreposition:  "#e76f51",
	CategoryArticle:      "#d4a373",
	CategoryPronoun:      "#8ecae6",
	CategoryVerb:         "#219ebc",
	CategoryAdverb:       "#90e0ef",
	CategoryInterjection: "#a2d2ff",
}

// uncountedColor is the neutral highlight for tagged-but-uncounted tokens.
const uncountedColor = "#e0e0e0"

// TokenView is one rendered token: highlight color, direction of its effect
// on the score (+1 raises, -1 lowers, 0 not counted), and tooltip fields.
type TokenView struct {
	Text      string   `json:"text"`
	Tag       string   `json:"pos_tag"`
	Category  Category `json:"category,omitempty"`
	Color     string   `json:"color,omitempty"`
	Direction int      `json:"direction"`
	Visible   bool     `json:"visible"`
}

// View is the complete breakdown view model for one calculation.
type View struct {
	// Legacy is true when the calculation predates token-level detail; the
	// view then carries only the raw transcript with no highlighting.
	Legacy     bool        `json:"legacy"`
	Transcript string      `json:"transcript,omitempty"`
	Tokens     []TokenView `json:"tokens,omitempty"`
	Insights   []Insight   `json:"insights,omitempty"`
}

// Visibility is the set of currently-visible categories. The zero value
// hides everything; construct with AllVisible.
type Visibility struct {
	Categories map[Category]bool
	NotCounted bool
}

// AllVisible returns the initial visibility: all eight categories plus
// not-counted tokens.
func AllVisible() Visibility {
	v := Visibility{Categories: make(map[Category]bool, len(Categories)), NotCounted: true}
	for _, c := range Categories {
		v.Categories[c] = true
	}
	return v
}

// Toggle flips one category's visibility and returns the updated set.
func (v Visibility) Toggle(c Category) Visibility {
	if v.Categories == nil {
		v.Categories = make(map[Category]bool)
	}
	v.Categories[c] = !v.Categories[c]
	return v
}

// Render builds the view model for a stored calculation. Legacy records with
// nil TokensData fall back to the raw transcript with no highlighting.
func Render(calc *Calculation, vis Visibility) View {
	if calc.TokensData == nil {
		return View{
			Legacy:     true,
			Transcript: calc.OriginalTranscript,
			Insights:   Insights(calc.CategoryData),
		}
	}

	tokens := make([]TokenView, 0, len(calc.TokensData))
	for _, t := range calc.TokensData {
		tv := TokenView{Text: t.Text, Tag: t.Tag, Category: t.Category}
		if t.Category.Counted() {
			tv.Color = categoryColors[t.Category]
			if t.Category.Formal() {
				tv.Direction = 1
			} else {
				tv.Direction = -1
			}
			tv.Visible = vis.Categories[t.Category]
		} else {
			tv.Color = uncountedColor
			tv.Visible = vis.NotCounted
		}
		tokens = append(tokens, tv)
	}

	return View{
		Tokens:   tokens,
		Insights: Insights(calc.CategoryData),
	}
}

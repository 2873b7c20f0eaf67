package formality

import "voxlab/internal/formality/tagger"

// tagCategories maps part-of-speech tags onto the eight formula categories.
// Tags missing from the map yield the zero Category: tagged but not counted.
// Data-driven so it is testable in isolation from the tagger.
var tagCategories = map[string]Category{
	tagger.TagNoun:         CategoryNoun,
	tagger.TagAdjective:    CategoryAdjective,
	tagger.TagPreposition:  CategoryPreposition,
	tagger.TagArticle:      CategoryArticle,
	tagger.TagPronoun:      CategoryPronoun,
	tagger.TagVerb:         CategoryVerb,
	tagger.TagModal:        CategoryVerb,
	tagger.TagAdverb:       CategoryAdverb,
	tagger.TagInterjection: CategoryInterjection,

	// Deliberately uncounted: TagDeterminer (non-article determiners),
	// TagConjunction, TagNumber.
}

// CategoryForTag resolves a part-of-speech tag to its formula category.
// Returns the zero Category for tags outside the eight counted classes.
func CategoryForTag(tag string) Category {
	return tagCategories[tag]
}

package tagger

// lexicon covers the closed word classes plus the irregular open-class words
// the suffix rules would mislabel. Keyed by lowercase surface form.
var lexicon = map[string]string{
	// Articles (counted separately from other determiners).
	"the": TagArticle, "a": TagArticle, "an": TagArticle,

	// Other determiners.
	"this": TagDeterminer, "that": TagDeterminer, "these": TagDeterminer,
	"those": TagDeterminer, "each": TagDeterminer, "every": TagDeterminer,
	"some": TagDeterminer, "any": TagDeterminer, "no": TagDeterminer,
	"all": TagDeterminer, "both": TagDeterminer, "either": TagDeterminer,
	"neither": TagDeterminer,

	// Prepositions and subordinating conjunctions.
	"in": TagPreposition, "on": TagPreposition, "at": TagPreposition,
	"of": TagPreposition, "to": TagPreposition, "for": TagPreposition,
	"with": TagPreposition, "from": TagPreposition, "by": TagPreposition,
	"about": TagPreposition, "into": TagPreposition, "over": TagPreposition,
	"under": TagPreposition, "between": TagPreposition, "through": TagPreposition,
	"during": TagPreposition, "before": TagPreposition, "after": TagPreposition,
	"above": TagPreposition, "below": TagPreposition, "against": TagPreposition,
	"among": TagPreposition, "around": TagPreposition, "behind": TagPreposition,
	"beside": TagPreposition, "beyond": TagPreposition, "despite": TagPreposition,
	"except": TagPreposition, "inside": TagPreposition, "near": TagPreposition,
	"off": TagPreposition, "onto": TagPreposition, "outside": TagPreposition,
	"since": TagPreposition, "toward": TagPreposition, "towards": TagPreposition,
	"until": TagPreposition, "upon": TagPreposition, "within": TagPreposition,
	"without": TagPreposition,

	// Pronouns.
	"i": TagPronoun, "me": TagPronoun, "my": TagPronoun, "mine": TagPronoun,
	"myself": TagPronoun, "you": TagPronoun, "your": TagPronoun,
	"yours": TagPronoun, "yourself": TagPronoun, "he": TagPronoun,
	"him": TagPronoun, "his": TagPronoun, "himself": TagPronoun,
	"she": TagPronoun, "her": TagPronoun, "hers": TagPronoun,
	"herself": TagPronoun, "it": TagPronoun, "its": TagPronoun,
	"itself": TagPronoun, "we": TagPronoun, "us": TagPronoun,
	"our": TagPronoun, "ours": TagPronoun, "ourselves": TagPronoun,
	"they": TagPronoun, "them": TagPronoun, "their": TagPronoun,
	"theirs": TagPronoun, "themselves": TagPronoun, "who": TagPronoun,
	"whom": TagPronoun, "whose": TagPronoun, "which": TagPronoun,
	"what": TagPronoun, "someone": TagPronoun, "anyone": TagPronoun,
	"everyone": TagPronoun, "nobody": TagPronoun, "something": TagPronoun,
	"anything": TagPronoun, "everything": TagPronoun, "nothing": TagPronoun,

	// Auxiliary and common verbs.
	"is": TagVerb, "am": TagVerb, "are": TagVerb, "was": TagVerb,
	"were": TagVerb, "be": TagVerb, "been": TagVerb, "being": TagVerb,
	"have": TagVerb, "has": TagVerb, "had": TagVerb, "do": TagVerb,
	"does": TagVerb, "did": TagVerb, "done": TagVerb, "go": TagVerb,
	"goes": TagVerb, "went": TagVerb, "gone": TagVerb, "get": TagVerb,
	"gets": TagVerb, "got": TagVerb, "make": TagVerb, "makes": TagVerb,
	"made": TagVerb, "know": TagVerb, "knows": TagVerb, "knew": TagVerb,
	"think": TagVerb, "thinks": TagVerb, "thought": TagVerb, "say": TagVerb,
	"says": TagVerb, "said": TagVerb, "see": TagVerb, "sees": TagVerb,
	"saw": TagVerb, "seen": TagVerb, "come": TagVerb, "comes": TagVerb,
	"came": TagVerb, "take": TagVerb, "takes": TagVerb, "took": TagVerb,
	"want": TagVerb, "wants": TagVerb, "like": TagVerb, "likes": TagVerb,
	"feel": TagVerb, "feels": TagVerb, "felt": TagVerb, "tell": TagVerb,
	"tells": TagVerb, "told": TagVerb, "mean": TagVerb, "means": TagVerb,
	"meant": TagVerb, "let": TagVerb, "put": TagVerb, "keep": TagVerb,
	"kept": TagVerb,

	// Modals (counted as verbs by the category map).
	"can": TagModal, "could": TagModal, "will": TagModal, "would": TagModal,
	"shall": TagModal, "should": TagModal, "may": TagModal, "might": TagModal,
	"must": TagModal,

	// Adverbs the -ly rule misses.
	"not": TagAdverb, "n't": TagAdverb, "very": TagAdverb, "too": TagAdverb,
	"so": TagAdverb, "just": TagAdverb, "now": TagAdverb, "then": TagAdverb,
	"here": TagAdverb, "there": TagAdverb, "when": TagAdverb,
	"where": TagAdverb, "why": TagAdverb, "how": TagAdverb,
	"always": TagAdverb, "never": TagAdverb, "often": TagAdverb,
	"sometimes": TagAdverb, "again": TagAdverb, "also": TagAdverb,
	"still": TagAdverb, "already": TagAdverb, "maybe": TagAdverb,
	"perhaps": TagAdverb, "quite": TagAdverb, "rather": TagAdverb,
	"really": TagAdverb, "pretty": TagAdverb, "almost": TagAdverb,
	"even": TagAdverb, "yet": TagAdverb,

	// Interjections common in speech transcripts.
	"oh": TagInterjection, "ah": TagInterjection, "uh": TagInterjection,
	"um": TagInterjection, "uhm": TagInterjection, "hmm": TagInterjection,
	"hm": TagInterjection, "wow": TagInterjection, "hey": TagInterjection,
	"hi": TagInterjection, "hello": TagInterjection, "yeah": TagInterjection,
	"yep": TagInterjection, "yes": TagInterjection, "nope": TagInterjection,
	"okay": TagInterjection, "ok": TagInterjection, "oops": TagInterjection,
	"huh": TagInterjection, "gosh": TagInterjection, "well": TagInterjection,
	"thanks": TagInterjection, "bye": TagInterjection, "goodbye": TagInterjection,
	"please": TagInterjection, "alright": TagInterjection,

	// Coordinating conjunctions (tagged but uncounted by the formula).
	"and": TagConjunction, "or": TagConjunction, "but": TagConjunction,
	"nor": TagConjunction, "if": TagConjunction, "because": TagConjunction,
	"while": TagConjunction, "although": TagConjunction, "though": TagConjunction,
	"unless": TagConjunction, "whether": TagConjunction,

	// Irregular adjectives the suffix rules would call nouns.
	"good": TagAdjective, "bad": TagAdjective, "big": TagAdjective,
	"small": TagAdjective, "new": TagAdjective, "old": TagAdjective,
	"great": TagAdjective, "little": TagAdjective, "long": TagAdjective,
	"short": TagAdjective, "high": TagAdjective, "low": TagAdjective,
	"nice": TagAdjective, "fine": TagAdjective, "happy": TagAdjective,
	"sad": TagAdjective, "easy": TagAdjective, "hard": TagAdjective,
	"sure": TagAdjective, "right": TagAdjective, "wrong": TagAdjective,
	"important": TagAdjective, "different": TagAdjective, "same": TagAdjective,
	"other": TagAdjective, "first": TagAdjective, "last": TagAdjective,
	"next": TagAdjective, "own": TagAdjective, "early": TagAdjective,
	"late": TagAdjective, "young": TagAdjective, "many": TagAdjective,
	"few": TagAdjective, "much": TagAdjective, "more": TagAdjective,
	"most": TagAdjective, "less": TagAdjective, "better": TagAdjective,
	"best": TagAdjective, "worse": TagAdjective, "worst": TagAdjective,
}

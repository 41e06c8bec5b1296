package shopping

import (
	"strings"
)

// pluralRule rewrites a trailing suffix. Rules are tried in order and the
// first match wins.
type pluralRule struct {
	suffix      string
	replacement string
}

var pluralRules = []pluralRule{
	{"ies", "y"}, // berries -> berry
	{"oes", "o"}, // tomatoes -> tomato
	{"ves", "f"}, // leaves -> leaf
	{"es", ""},   // dishes -> dish
	{"s", ""},    // eggs -> egg
}

// singularExceptions covers common grocery words the suffix rules get wrong.
// Keys and values are matched against the last word of the name only.
var singularExceptions = map[string]string{
	"apples":     "apple",
	"grapes":     "grape",
	"dates":      "date",
	"limes":      "lime",
	"olives":     "olive",
	"cloves":     "clove",
	"chives":     "chive",
	"noodles":    "noodle",
	"pickles":    "pickle",
	"vegetables": "vegetable",
	"sauces":     "sauce",
	"cheeses":    "cheese",
	"spices":     "spice",
	"slices":     "slice",
	"leaves":     "leaf",
	"loaves":     "loaf",
	"halves":     "half",
}

// Normalize canonicalizes an ingredient name into the key used to merge
// purchases across recipes. An empty name normalizes to "unknown".
func Normalize(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return "unknown"
	}

	head, last := "", key
	if idx := strings.LastIndexAny(key, " \t"); idx >= 0 {
		head, last = key[:idx+1], key[idx+1:]
	}
	if singular, ok := singularExceptions[last]; ok {
		return head + singular
	}

	for _, rule := range pluralRules {
		if strings.HasSuffix(key, rule.suffix) {
			if singular := strings.TrimSuffix(key, rule.suffix) + rule.replacement; singular != "" {
				return singular
			}
			return key
		}
	}
	return key
}

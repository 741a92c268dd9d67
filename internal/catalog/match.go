package catalog

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// maxLengthGap bounds which haystack tokens are worth an edit-distance check.
const maxLengthGap = 3

// maxEdits is the edit-distance threshold for a query token. Short tokens such
// as "4g" must be nearly exact; longer ones tolerate a typo or two.
func maxEdits(token string) int {
	if len(token) >= 6 {
		return 2
	}
	return 1
}

// fuzzyEqual reports whether a and b are within token's edit budget.
func fuzzyEqual(token, candidate string) bool {
	gap := len(token) - len(candidate)
	if gap < 0 {
		gap = -gap
	}
	if gap > maxLengthGap {
		return false
	}
	return fuzzy.LevenshteinDistance(token, candidate) <= maxEdits(token)
}

// TokenMatches reports whether token matches some haystack token, first by
// substring containment and then by bounded edit distance.
func TokenMatches(token string, hay []string) bool {
	for _, h := range hay {
		if strings.Contains(h, token) {
			return true
		}
	}
	for _, h := range hay {
		if fuzzyEqual(token, h) {
			return true
		}
	}
	return false
}

// MatchesQuery reports whether every token of at least one variant matches
// the haystack.
func MatchesQuery(hay []string, variants []string) bool {
	for _, v := range variants {
		if variantMatches(hay, v) {
			return true
		}
	}
	return false
}

func variantMatches(hay []string, variant string) bool {
	tokens := tokenize(variant)
	if len(tokens) == 0 {
		return false
	}
	for _, tok := range tokens {
		if !TokenMatches(tok, hay) {
			return false
		}
	}
	return true
}

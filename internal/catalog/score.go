package catalog

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Relevance weights.
const (
	phraseBonus     = 40
	bigramBonus     = 12
	exactTokenBonus = 10
	partialBonus    = 6
	fuzzyBonus      = 3

	numberExactBonus = 25
	numberNearBonus  = 10
	numberCloseBonus = 5

	extraTokenPenalty = 0.25
)

var numericToken = regexp.MustCompile(`^\d+(?:\.\d+)?$`)

// Score rates how well entry answers one normalized query variant. Higher is
// better; the value may be negative when the numbers in the query are far
// from those in the item.
func Score(entry SearchEntry, variant string) float64 {
	qTokens := tokenize(variant)
	if len(qTokens) == 0 {
		return 0
	}

	var score float64
	if strings.Contains(entry.Blob, variant) {
		score += phraseBonus
	}
	for i := 0; i+1 < len(qTokens); i++ {
		if strings.Contains(entry.Blob, qTokens[i]+" "+qTokens[i+1]) {
			score += bigramBonus
		}
	}
	for _, tok := range qTokens {
		score += tokenSignal(tok, entry.Tokens)
	}
	score += numericProximity(numbersIn(qTokens), numbersIn(entry.Tokens))

	if extra := len(entry.Tokens) - len(qTokens); extra > 0 {
		score -= extraTokenPenalty * float64(extra)
	}
	return score
}

// BestScore is the highest Score over all variants.
func BestScore(entry SearchEntry, variants []string) float64 {
	best := math.Inf(-1)
	for _, v := range variants {
		if s := Score(entry, v); s > best {
			best = s
		}
	}
	if math.IsInf(best, -1) {
		return 0
	}
	return best
}

// tokenSignal returns the single best per-token signal for tok.
func tokenSignal(tok string, hay []string) float64 {
	best := 0.0
	for _, h := range hay {
		switch {
		case h == tok:
			return exactTokenBonus
		case strings.Contains(h, tok):
			best = math.Max(best, partialBonus)
		case fuzzyEqual(tok, h):
			best = math.Max(best, fuzzyBonus)
		}
	}
	return best
}

func numbersIn(tokens []string) []float64 {
	var nums []float64
	for _, t := range tokens {
		if !numericToken.MatchString(t) {
			continue
		}
		n, err := strconv.ParseFloat(t, 64)
		if err != nil {
			continue
		}
		nums = append(nums, n)
	}
	return nums
}

func numericProximity(query, hay []float64) float64 {
	if len(query) == 0 || len(hay) == 0 {
		return 0
	}
	d := math.Inf(1)
	for _, q := range query {
		for _, h := range hay {
			d = math.Min(d, math.Abs(q-h))
		}
	}
	switch {
	case d == 0:
		return numberExactBonus
	case d <= 1:
		return numberNearBonus
	case d <= 2:
		return numberCloseBonus
	default:
		return -d
	}
}

// Package catalog builds the search corpus for a loaded catalog and turns a
// typed query into an ordered, priced list of matches.
package catalog

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// Inch marks become the word so 6.1" and 6.1 inch compare equal.
	inchMarks = strings.NewReplacer(`"`, " inch ", "“", " inch ", "”", " inch ", "″", " inch ")

	// Hyphen and dash family, including the ASCII hyphen-minus.
	hyphens = strings.NewReplacer(
		"-", " ", "‐", " ", "‑", " ", "‒", " ",
		"–", " ", "—", " ", "−", " ",
	)

	inchUnit    = regexp.MustCompile(`\b(\d+)\s*inch(?:es)?\b`)
	cellularGen = regexp.MustCompile(`\b([2-6])\s*g\b`)
	disallowed  = regexp.MustCompile(`[^a-z0-9. ]+`)
	brandWords  = regexp.MustCompile(`\b(?:ipad|iphone|apple|samsung)\b`)
)

// foldAccents strips combining marks so "é" compares as "e".
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Normalize canonicalizes an item name or query: lower case, inch marks and
// "N-inch" / "N inches" spelled as "N inch", dashes as spaces, "5 G" as "5g",
// everything but [a-z0-9. ] removed, whitespace collapsed. Normalize is
// idempotent.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	s := strings.ToLower(raw)
	s = inchMarks.Replace(s)
	s = foldAccents(s)
	s = hyphens.Replace(s)
	s = disallowed.ReplaceAllString(s, " ")
	s = collapse(s)

	// Unit rules run on the cleaned text so a second pass finds nothing new.
	s = inchUnit.ReplaceAllString(s, "$1 inch")
	s = cellularGen.ReplaceAllString(s, "${1}g")
	return collapse(s)
}

// BuildSearchBlob returns the searchable text for an item: its normalized
// name, the same name with common brand words removed, and the normalized
// group label, joined by spaces.
func BuildSearchBlob(name, group string) string {
	base := Normalize(name)
	stripped := collapse(brandWords.ReplaceAllString(base, " "))
	return collapse(base + " " + stripped + " " + Normalize(group))
}

// abbreviationGroups lists spellings that refer to the same thing, already in
// normalized form ("at&t" normalizes to "at t").
var abbreviationGroups = [][]string{
	{"att", "at t", "atnt"},
	{"tmobile", "t mobile"},
	{"verizon", "vz", "vzw"},
	{"wifi", "wi fi"},
}

type abbreviation struct {
	pattern *regexp.Regexp
	others  []string
}

var abbreviations = compileAbbreviations(abbreviationGroups)

// shortInch catches "13 in" typed for "13 inch".
var shortInch = regexp.MustCompile(`\b(\d+(?:\.\d+)?) in\b`)

func compileAbbreviations(groups [][]string) []abbreviation {
	var out []abbreviation
	for _, group := range groups {
		for i, member := range group {
			others := make([]string, 0, len(group)-1)
			others = append(others, group[:i]...)
			others = append(others, group[i+1:]...)
			out = append(out, abbreviation{
				pattern: regexp.MustCompile(`\b` + regexp.QuoteMeta(member) + `\b`),
				others:  others,
			})
		}
	}
	return out
}

// ExpandQuery normalizes q and returns it first, followed by alternate forms
// in which a carrier or wifi abbreviation is swapped for each of its other
// spellings. A query matches when any of the returned variants does. An empty
// query yields no variants.
func ExpandQuery(q string) []string {
	base := Normalize(q)
	if base == "" {
		return nil
	}

	variants := []string{base}
	seen := map[string]bool{base: true}
	add := func(v string) {
		v = Normalize(v)
		if v == "" || seen[v] {
			return
		}
		seen[v] = true
		variants = append(variants, v)
	}

	for _, abbr := range abbreviations {
		if !abbr.pattern.MatchString(base) {
			continue
		}
		for _, alt := range abbr.others {
			add(abbr.pattern.ReplaceAllLiteralString(base, alt))
		}
	}
	if shortInch.MatchString(base) {
		add(shortInch.ReplaceAllString(base, "$1 inch"))
	}
	return variants
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// tokenize splits normalized text on whitespace.
func tokenize(s string) []string {
	return strings.Fields(s)
}

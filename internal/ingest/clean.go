package ingest

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	inchMark      = regexp.MustCompile(`(\d)\s*["“”″]`)
	inchDash      = regexp.MustCompile(`(?i)\b(\d+)\s*-\s*inch(?:es)?\b`)
	inchWord      = regexp.MustCompile(`(?i)\b(\d+)\s*inch(?:es)?\b`)
	cellular      = regexp.MustCompile(`(?i)\b([2-6])\s*g\b`)
	gigabytes     = regexp.MustCompile(`(?i)\b(\d+)\s*(?:gb|gig|gigs)\b`)
	gigabytesBare = regexp.MustCompile(`(?i)\b(\d{2,})\s*g\b`)
	terabytes     = regexp.MustCompile(`(?i)\b(\d+)\s*(?:tb|terabytes?)\b`)
	longDashes    = regexp.MustCompile(`[–—]+`)
	spacedDash    = regexp.MustCompile(`\s*-\s*`)
	nameJunk      = regexp.MustCompile(`[^A-Za-z0-9.\-+/# ]+`)
	inchCapital   = regexp.MustCompile(`(\d)-Inch\b`)
)

// Words kept upper case regardless of input.
var upperWords = map[string]bool{
	"GB": true, "TB": true, "5G": true, "4G": true, "3G": true, "LTE": true,
	"SE": true, "XR": true, "XS": true, "S": true, "FE": true, "Z": true, "UHD": true,
}

// Words with a fixed spelling.
var brandSpelling = map[string]string{
	"iphone": "iPhone", "ipad": "iPad", "imac": "iMac", "ipod": "iPod",
	"macbook": "MacBook", "airpods": "AirPods",
}

// CleanName turns a raw catalog cell into a display name: inch marks as
// "-inch", storage as "128GB" / "1TB", "5 g" as "5G", stray punctuation
// removed, and words capitalized.
func CleanName(raw string) string {
	s := strings.TrimSpace(raw)
	s = inchMark.ReplaceAllString(s, "$1-inch ")
	s = inchDash.ReplaceAllString(s, "$1-inch")
	s = inchWord.ReplaceAllString(s, "$1-inch")
	s = cellular.ReplaceAllString(s, "${1}G")
	s = gigabytes.ReplaceAllString(s, "${1}GB")
	s = gigabytesBare.ReplaceAllString(s, "${1}GB")
	s = terabytes.ReplaceAllString(s, "${1}TB")
	s = longDashes.ReplaceAllString(s, "-")
	s = spacedDash.ReplaceAllString(s, "-")
	s = nameJunk.ReplaceAllString(s, " ")

	words := strings.Fields(s)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return inchCapital.ReplaceAllString(strings.Join(words, " "), "$1-inch")
}

func capitalize(word string) string {
	if upperWords[strings.ToUpper(word)] {
		return strings.ToUpper(word)
	}
	r, size := utf8.DecodeRuneInString(word)
	if unicode.IsDigit(r) {
		return word
	}
	lower := strings.ToLower(word)
	if fixed, ok := brandSpelling[lower]; ok {
		return fixed
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(word[size:])
}

var headerWords = map[string]bool{
	"device": true, "price": true, "prices": true, "model": true, "storage": true,
	"color": true, "note": true, "notes": true, "sealed": true, "open": true,
	"active": true, "natural": true, "locked carrier": true, "activation status": true,
}

var junkPhrase = regexp.MustCompile(`\b(?:header|total|sum of|subtotal|grand total|file|page|sheet)\b`)

// LooksLikeHeaderOrJunk reports whether a name cell is a header label, a
// totals row, or mostly punctuation.
func LooksLikeHeaderOrJunk(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	if utf8.RuneCountInString(t) <= 1 {
		return true
	}
	if headerWords[t] || junkPhrase.MatchString(t) {
		return true
	}

	var other int
	for _, r := range t {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			other++
		}
	}
	return float64(other) > float64(utf8.RuneCountInString(t))*0.6
}

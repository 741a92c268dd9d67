package ingest

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	exactNumber = regexp.MustCompile(`^-?\d+(?:\.\d+)?$`)
	anyNumber   = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
)

// firstText returns the first non-blank cell.
func firstText(cells []string) (string, bool) {
	for _, c := range cells {
		if s := strings.TrimSpace(c); s != "" {
			return s, true
		}
	}
	return "", false
}

// firstNumber returns the first cell that is or contains a number, ignoring
// thousands separators, so "$410" and "1,200" both parse.
func firstNumber(cells []string) (float64, bool) {
	for _, c := range cells {
		s := strings.ReplaceAll(strings.TrimSpace(c), ",", "")
		if s == "" {
			continue
		}
		if exactNumber.MatchString(s) {
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f, true
			}
		}
		if m := anyNumber.FindString(s); m != "" {
			if f, err := strconv.ParseFloat(m, 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

// parseRow extracts a raw name and price from one spreadsheet row. The name
// is the first non-blank cell, the price the first number after column one.
func parseRow(cells []string) (name string, price float64, ok bool) {
	name, ok = firstText(cells)
	if !ok || len(cells) < 2 {
		return "", 0, false
	}
	price, ok = firstNumber(cells[1:])
	if !ok || price <= 0 {
		return "", 0, false
	}
	if LooksLikeHeaderOrJunk(name) {
		return "", 0, false
	}
	return name, price, true
}

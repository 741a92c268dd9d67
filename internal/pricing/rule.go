package pricing

import "github.com/shopspring/decimal"

// Rule is a discount pair. An invalid NullDecimal means "unset", which is
// different from an explicit zero.
type Rule struct {
	Pct  decimal.NullDecimal
	Flat decimal.NullDecimal
}

// PercentRule builds the legacy percent-only rule.
func PercentRule(pct decimal.Decimal) Rule {
	return Rule{Pct: decimal.NewNullDecimal(pct)}
}

// IsUnset reports whether neither field carries a value.
func (r Rule) IsUnset() bool {
	return !r.Pct.Valid && !r.Flat.Valid
}

// LegacyPercents is the percent-only rule table that predates flat amounts.
// It is consulted only when neither the collection nor the defaults define a
// rule for a bucket label.
var LegacyPercents = map[string]decimal.Decimal{
	"1-100":   decimal.NewFromInt(30),
	"101-220": decimal.NewFromInt(20),
	"221-300": decimal.NewFromInt(15),
	"301-469": decimal.NewFromInt(13),
	"470+":    decimal.NewFromInt(10),
}

// ResolveRule picks the effective rule for a bucket label within a
// collection. Pct and Flat are resolved independently: a per-collection value
// wins over the default one. When both sources are entirely unset the legacy
// percent table is used (0 if the label is not in it). cfg is never modified.
func ResolveRule(label, collection string, cfg Config, legacy map[string]decimal.Decimal) Rule {
	page := cfg.PerSheet[collection][label]
	def := cfg.Defaults[label]

	if page.IsUnset() && def.IsUnset() {
		pct, ok := legacy[label]
		if !ok {
			pct = decimal.Zero
		}
		return PercentRule(pct)
	}

	resolved := def
	if page.Pct.Valid {
		resolved.Pct = page.Pct
	}
	if page.Flat.Valid {
		resolved.Flat = page.Flat
	}
	return resolved
}

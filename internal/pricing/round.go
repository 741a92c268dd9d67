package pricing

import "github.com/shopspring/decimal"

var (
	one     = decimal.NewFromInt(1)
	ten     = decimal.NewFromInt(10)
	hundred = decimal.NewFromInt(100)

	// Above this value prices ending in 10 or 90 are pushed to the nearest 00.
	evenHundredThreshold = decimal.NewFromInt(340)
)

// ApplyDiscount computes base*(1-pct/100) - flat, clamped at zero. Unset
// fields count as zero.
func ApplyDiscount(base decimal.Decimal, rule Rule) decimal.Decimal {
	pct := decimal.Zero
	if rule.Pct.Valid {
		pct = rule.Pct.Decimal
	}
	flat := decimal.Zero
	if rule.Flat.Valid {
		flat = rule.Flat.Decimal
	}

	p := base.Mul(one.Sub(pct.Div(hundred))).Sub(flat)
	if p.IsNegative() {
		return decimal.Zero
	}
	return p
}

// RoundPrice rounds half-up to the nearest 10. Results strictly above 340
// that end in 10 drop to the 00 below, and those ending in 90 rise to the 00
// above. Everything else is left as rounded.
func RoundPrice(p decimal.Decimal) decimal.Decimal {
	rounded := p.Round(-1)
	if !rounded.GreaterThan(evenHundredThreshold) {
		return rounded
	}

	switch rounded.Mod(hundred).IntPart() {
	case 10:
		rounded = rounded.Sub(ten)
	case 90:
		rounded = rounded.Add(ten)
	}
	return rounded
}

// FinalPrice runs the full pipeline for one item: bucket lookup, rule
// resolution, discount, rounding. A price outside every bucket is rounded
// without any discount.
func FinalPrice(cfg Config, collection string, base decimal.Decimal) decimal.Decimal {
	bucket, ok := ResolveBucket(base, cfg.Buckets)
	if !ok {
		return RoundPrice(base)
	}
	rule := ResolveRule(bucket.Label, collection, cfg, LegacyPercents)
	return RoundPrice(ApplyDiscount(base, rule))
}

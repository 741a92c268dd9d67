package pricing

import "github.com/shopspring/decimal"

// Bucket is a labeled, inclusive price range used to pick a discount rule.
// An Unbounded bucket has no upper limit and ignores High.
type Bucket struct {
	Label     string
	Low       decimal.Decimal
	High      decimal.Decimal
	Unbounded bool
}

// NewBucket creates a bounded bucket covering [low, high].
func NewBucket(label string, low, high int64) Bucket {
	return Bucket{
		Label: label,
		Low:   decimal.NewFromInt(low),
		High:  decimal.NewFromInt(high),
	}
}

// NewOpenBucket creates a bucket covering [low, +inf).
func NewOpenBucket(label string, low int64) Bucket {
	return Bucket{
		Label:     label,
		Low:       decimal.NewFromInt(low),
		Unbounded: true,
	}
}

// Contains reports whether price lies within the bucket's inclusive range.
func (b Bucket) Contains(price decimal.Decimal) bool {
	if price.LessThan(b.Low) {
		return false
	}
	return b.Unbounded || price.LessThanOrEqual(b.High)
}

// ResolveBucket returns the first bucket, in listed order, whose range
// contains price. Buckets may overlap or leave gaps; the first match wins and
// ok is false when nothing matches.
func ResolveBucket(price decimal.Decimal, buckets []Bucket) (b Bucket, ok bool) {
	for _, candidate := range buckets {
		if candidate.Contains(price) {
			return candidate, true
		}
	}
	return Bucket{}, false
}

// DefaultBuckets returns the compiled-in bucket table.
func DefaultBuckets() []Bucket {
	return []Bucket{
		NewBucket("1-100", 1, 100),
		NewBucket("101-220", 101, 220),
		NewBucket("221-300", 221, 300),
		NewBucket("301-469", 301, 469),
		NewOpenBucket("470+", 470),
	}
}

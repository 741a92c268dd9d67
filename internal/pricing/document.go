package pricing

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNotObject is returned when a configuration document is valid JSON but
// not an object.
var ErrNotObject = errors.New("configuration document is not a JSON object")

// unboundedHigh is how an open upper bound is written to the wire.
const unboundedHigh = "Infinity"

// defaultBucketLabel replaces blank labels, matching what the editor saves.
const defaultBucketLabel = "Bucket"

// Patch is a decoded configuration document. A nil field was absent or had the
// wrong shape in the source; Apply leaves the target's value in place for it.
type Patch struct {
	Defaults map[string]Rule
	PerSheet map[string]map[string]Rule
	Buckets  []Bucket
	Theme    string
}

// DecodePatch parses a configuration document. Only a body that is not a JSON
// object is an error; individual malformed fields are dropped.
func DecodePatch(data []byte) (Patch, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return Patch{}, fmt.Errorf("decode config: %w", err)
	}
	if raw == nil {
		return Patch{}, ErrNotObject
	}

	var p Patch
	if m, ok := raw["defaults"].(map[string]any); ok {
		p.Defaults = parseRules(m)
	}
	if m, ok := raw["perSheet"].(map[string]any); ok {
		p.PerSheet = make(map[string]map[string]Rule, len(m))
		for name, v := range m {
			if rules, ok := v.(map[string]any); ok {
				p.PerSheet[name] = parseRules(rules)
			}
		}
	}
	if arr, ok := raw["buckets"].([]any); ok {
		p.Buckets = make([]Bucket, 0, len(arr))
		for _, v := range arr {
			if b, ok := ParseBucket(v); ok {
				p.Buckets = append(p.Buckets, b)
			}
		}
	}
	if theme, ok := raw["uiTheme"].(string); ok {
		p.Theme = strings.TrimSpace(theme)
	}
	return p, nil
}

// Apply returns base with every present field of p replacing base's value.
func (p Patch) Apply(base Config) Config {
	out := base.Clone()
	if p.Defaults != nil {
		out.Defaults = cloneRules(p.Defaults)
	}
	if p.PerSheet != nil {
		out.PerSheet = make(map[string]map[string]Rule, len(p.PerSheet))
		for name, rules := range p.PerSheet {
			out.PerSheet[name] = cloneRules(rules)
		}
	}
	if p.Buckets != nil {
		out.Buckets = append(make([]Bucket, 0, len(p.Buckets)), p.Buckets...)
	}
	return out
}

// DecodeConfig parses a stored document into a Config, falling back to the
// compiled-in value for each field that is missing or malformed. It never
// fails; an unreadable document yields DefaultConfig.
func DecodeConfig(data []byte) Config {
	p, err := DecodePatch(data)
	if err != nil {
		return DefaultConfig()
	}
	// A stored table with no usable entry falls back like a missing one.
	if len(p.Buckets) == 0 {
		p.Buckets = nil
	}
	return p.Apply(DefaultConfig())
}

// ParseRule coerces one decoded rule value. A bare number is the legacy
// percent-only form. Objects carry pct and flat, each of which becomes unset
// when null, blank, or not numeric. Anything else is an unset rule.
func ParseRule(v any) Rule {
	switch val := v.(type) {
	case json.Number, float64:
		return Rule{Pct: coerceRuleValue(val)}
	case map[string]any:
		return Rule{
			Pct:  coerceRuleValue(val["pct"]),
			Flat: coerceRuleValue(val["flat"]),
		}
	default:
		return Rule{}
	}
}

// ParseBucket coerces one decoded bucket entry of the form
// [label, low, high]. A missing, null, blank, or "Infinity" high means the
// bucket is unbounded; non-numeric bounds become 0. ok is false when v is not
// an array.
func ParseBucket(v any) (b Bucket, ok bool) {
	arr, isArr := v.([]any)
	if !isArr || len(arr) == 0 {
		return Bucket{}, false
	}

	b.Label = bucketLabel(arr[0])
	if len(arr) > 1 {
		b.Low = coerceBound(arr[1])
	}
	if len(arr) < 3 {
		b.Unbounded = true
		return b, true
	}
	b.High, b.Unbounded = parseHigh(arr[2])
	return b, true
}

func parseRules(m map[string]any) map[string]Rule {
	rules := make(map[string]Rule, len(m))
	for label, v := range m {
		rules[label] = ParseRule(v)
	}
	return rules
}

func coerceRuleValue(v any) decimal.NullDecimal {
	d, ok := toDecimal(v)
	if !ok {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

func coerceBound(v any) decimal.Decimal {
	d, ok := toDecimal(v)
	if !ok {
		return decimal.Zero
	}
	return d
}

func parseHigh(v any) (decimal.Decimal, bool) {
	if v == nil {
		return decimal.Zero, true
	}
	if s, ok := v.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "", "infinity", "+infinity", "inf":
			return decimal.Zero, true
		}
	}
	return coerceBound(v), false
}

func toDecimal(v any) (decimal.Decimal, bool) {
	var d decimal.Decimal
	switch val := v.(type) {
	case json.Number:
		var err error
		if d, err = decimal.NewFromString(val.String()); err != nil {
			return decimal.Decimal{}, false
		}
	case float64:
		d = decimal.NewFromFloat(val)
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return decimal.Decimal{}, false
		}
		var err error
		if d, err = decimal.NewFromString(s); err != nil {
			return decimal.Decimal{}, false
		}
	default:
		return decimal.Decimal{}, false
	}
	return d, inRange(d)
}

// Limits on accepted document numbers. Comparing or rounding a decimal
// rescales it to the other operand's exponent, so an exponent such as 1e900000000
// would stall every later price computation.
const (
	maxExponent = 12
	minExponent = -16
)

var maxMagnitude = decimal.New(1, maxExponent)

// inRange reports whether d is small enough to price with. The exponent is
// checked before the magnitude so the comparison itself stays cheap.
func inRange(d decimal.Decimal) bool {
	exp := d.Exponent()
	if exp > maxExponent || exp < minExponent {
		return false
	}
	return !d.Abs().GreaterThan(maxMagnitude)
}

func bucketLabel(v any) string {
	var label string
	switch val := v.(type) {
	case string:
		label = strings.TrimSpace(val)
	case json.Number:
		label = val.String()
	case nil:
	default:
		label = fmt.Sprint(val)
	}
	if label == "" {
		return defaultBucketLabel
	}
	return label
}

// --- Encoding ---

type wireRule struct {
	Pct  *json.Number `json:"pct"`
	Flat *json.Number `json:"flat"`
}

type wireDocument struct {
	Defaults map[string]wireRule            `json:"defaults"`
	PerSheet map[string]map[string]wireRule `json:"perSheet"`
	Buckets  [][]any                        `json:"buckets"`
	UITheme  string                         `json:"uiTheme,omitempty"`
}

// EncodeConfig renders cfg as a configuration document. theme is written as
// uiTheme when non-empty.
func EncodeConfig(cfg Config, theme string) ([]byte, error) {
	doc := wireDocument{
		Defaults: encodeRules(cfg.Defaults),
		PerSheet: make(map[string]map[string]wireRule, len(cfg.PerSheet)),
		Buckets:  make([][]any, 0, len(cfg.Buckets)),
		UITheme:  theme,
	}
	for name, rules := range cfg.PerSheet {
		doc.PerSheet[name] = encodeRules(rules)
	}
	for _, b := range cfg.Buckets {
		var high any = unboundedHigh
		if !b.Unbounded {
			high = json.Number(b.High.String())
		}
		doc.Buckets = append(doc.Buckets, []any{b.Label, json.Number(b.Low.String()), high})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

func encodeRules(rules map[string]Rule) map[string]wireRule {
	out := make(map[string]wireRule, len(rules))
	for label, r := range rules {
		out[label] = wireRule{Pct: encodeValue(r.Pct), Flat: encodeValue(r.Flat)}
	}
	return out
}

func encodeValue(v decimal.NullDecimal) *json.Number {
	if !v.Valid {
		return nil
	}
	n := json.Number(v.Decimal.String())
	return &n
}

package pricing

// Config is the user-editable pricing configuration: default rules per bucket
// label, per-collection overrides, and the ordered bucket table.
type Config struct {
	Defaults map[string]Rule
	PerSheet map[string]map[string]Rule
	Buckets  []Bucket
}

// DefaultConfig returns the compiled-in configuration. Default rules are the
// legacy percentages; there are no per-collection overrides.
func DefaultConfig() Config {
	defaults := make(map[string]Rule, len(LegacyPercents))
	for label, pct := range LegacyPercents {
		defaults[label] = PercentRule(pct)
	}
	return Config{
		Defaults: defaults,
		PerSheet: map[string]map[string]Rule{},
		Buckets:  DefaultBuckets(),
	}
}

// Clone returns a deep copy so callers can edit without aliasing.
func (c Config) Clone() Config {
	out := Config{
		Defaults: cloneRules(c.Defaults),
		PerSheet: make(map[string]map[string]Rule, len(c.PerSheet)),
		Buckets:  append([]Bucket(nil), c.Buckets...),
	}
	for name, rules := range c.PerSheet {
		out.PerSheet[name] = cloneRules(rules)
	}
	return out
}

// WithRule returns a copy of c with rule stored under label. An empty
// collection targets the defaults.
func (c Config) WithRule(collection, label string, rule Rule) Config {
	out := c.Clone()
	if collection == "" {
		out.Defaults[label] = rule
		return out
	}
	if out.PerSheet[collection] == nil {
		out.PerSheet[collection] = map[string]Rule{}
	}
	out.PerSheet[collection][label] = rule
	return out
}

// Labels returns the bucket labels in listed order.
func (c Config) Labels() []string {
	labels := make([]string, len(c.Buckets))
	for i, b := range c.Buckets {
		labels[i] = b.Label
	}
	return labels
}

func cloneRules(in map[string]Rule) map[string]Rule {
	out := make(map[string]Rule, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

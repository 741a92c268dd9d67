package catalog

import (
	"errors"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/kiwari-pos/pricebook/internal/pricing"
)

var ErrUnknownCollection = errors.New("unknown collection")

// Item is one catalog row as loaded. BasePrice may be invalid (zero, negative,
// NaN); such items are kept in the catalog but never rendered.
type Item struct {
	ID        string
	Name      string
	BasePrice float64
}

// Collection is a named, ordered group of items. Item order is display order.
type Collection struct {
	Name  string
	Items []Item
}

// Catalog is the full ordered set of collections.
type Catalog struct {
	Collections []Collection
}

// Lookup returns the collection with the given name.
func (c Catalog) Lookup(name string) (Collection, bool) {
	for _, col := range c.Collections {
		if col.Name == name {
			return col, true
		}
	}
	return Collection{}, false
}

// Names returns collection names in catalog order.
func (c Catalog) Names() []string {
	names := make([]string, len(c.Collections))
	for i, col := range c.Collections {
		names[i] = col.Name
	}
	return names
}

// SearchEntry is the precomputed search form of one renderable item.
type SearchEntry struct {
	Index  int
	Item   Item
	Blob   string
	Tokens []string
}

// Match is one rendered result row.
type Match struct {
	Index      int
	ID         string
	Name       string
	FinalPrice decimal.Decimal
	Score      float64
}

// Engine renders collections of a catalog against a query and a pricing
// configuration. It caches the search corpus per collection until Reload.
// An Engine is not safe for concurrent use.
type Engine struct {
	catalog Catalog
	corpus  map[string][]SearchEntry
}

func NewEngine(c Catalog) *Engine {
	return &Engine{catalog: c, corpus: make(map[string][]SearchEntry)}
}

// Reload swaps in a new catalog and drops every cached corpus.
func (e *Engine) Reload(c Catalog) {
	e.catalog = c
	e.corpus = make(map[string][]SearchEntry)
}

// Collections returns collection names in catalog order.
func (e *Engine) Collections() []string {
	return e.catalog.Names()
}

// Catalog returns the loaded catalog.
func (e *Engine) Catalog() Catalog {
	return e.catalog
}

// Render filters, scores, and prices one collection. An empty query returns
// every renderable item in catalog order with a score of 0. Otherwise results
// are ordered by descending score, then ascending catalog index.
func (e *Engine) Render(collection, query string, cfg pricing.Config) ([]Match, error) {
	entries, err := e.entries(collection)
	if err != nil {
		return nil, err
	}

	variants := ExpandQuery(query)
	matches := make([]Match, 0, len(entries))
	for _, entry := range entries {
		var score float64
		if len(variants) > 0 {
			if !MatchesQuery(entry.Tokens, variants) {
				continue
			}
			score = BestScore(entry, variants)
		}
		base := decimal.NewFromFloat(entry.Item.BasePrice)
		matches = append(matches, Match{
			Index:      entry.Index,
			ID:         entry.Item.ID,
			Name:       entry.Item.Name,
			FinalPrice: pricing.FinalPrice(cfg, collection, base),
			Score:      score,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Index < matches[j].Index
	})
	return matches, nil
}

func (e *Engine) entries(collection string) ([]SearchEntry, error) {
	if cached, ok := e.corpus[collection]; ok {
		return cached, nil
	}
	col, ok := e.catalog.Lookup(collection)
	if !ok {
		return nil, ErrUnknownCollection
	}
	built := BuildCorpus(col)
	e.corpus[collection] = built
	return built, nil
}

// BuildCorpus computes search entries for the renderable items of col.
func BuildCorpus(col Collection) []SearchEntry {
	entries := make([]SearchEntry, 0, len(col.Items))
	for i, item := range col.Items {
		if !Renderable(item) {
			continue
		}
		blob := BuildSearchBlob(item.Name, col.Name)
		entries = append(entries, SearchEntry{
			Index:  i,
			Item:   item,
			Blob:   blob,
			Tokens: tokenize(blob),
		})
	}
	return entries
}

// Renderable reports whether item has a display name and a finite positive
// price.
func Renderable(item Item) bool {
	if Normalize(item.Name) == "" {
		return false
	}
	p := item.BasePrice
	return !math.IsNaN(p) && !math.IsInf(p, 0) && p > 0
}

package ingest

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kiwari-pos/pricebook/internal/catalog"
)

var ErrNotMapping = errors.New("catalog document must be a mapping of collection to items")

// ParseDocument reads a YAML (or JSON) catalog document: a mapping from
// collection name to a list of items. Collection order follows the document.
// Each item is either a mapping with name, price, and optional id, or a
// two-element [name, price] list.
//
//	Phones:
//	  - name: iPhone 15 Pro 256GB
//	    price: 1200
//	Tablets:
//	  - ["iPad 10.9-inch", 460]
func ParseDocument(data []byte) (catalog.Catalog, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return catalog.Catalog{}, fmt.Errorf("parse catalog document: %w", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return catalog.Catalog{}, nil
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return catalog.Catalog{}, ErrNotMapping
	}

	var c catalog.Catalog
	for i := 0; i+1 < len(doc.Content); i += 2 {
		name := strings.TrimSpace(doc.Content[i].Value)
		items := doc.Content[i+1]
		if name == "" || items.Kind != yaml.SequenceNode {
			continue
		}

		col := catalog.Collection{Name: name}
		for _, n := range items.Content {
			item, ok := decodeItem(n)
			if !ok {
				continue
			}
			if item.ID == "" {
				item.ID = itemID(name, len(col.Items), item.Name)
			}
			col.Items = append(col.Items, item)
		}
		if len(col.Items) > 0 {
			c.Collections = append(c.Collections, col)
		}
	}
	return c, nil
}

func decodeItem(n *yaml.Node) (catalog.Item, bool) {
	switch n.Kind {
	case yaml.MappingNode:
		var item catalog.Item
		var havePrice bool
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i].Value, n.Content[i+1]
			switch strings.ToLower(key) {
			case "id":
				item.ID = strings.TrimSpace(val.Value)
			case "name", "device", "display":
				if item.Name == "" {
					item.Name = CleanName(val.Value)
				}
			case "price":
				item.BasePrice, havePrice = scalarPrice(val)
			}
		}
		return item, item.Name != "" && havePrice
	case yaml.SequenceNode:
		cells := make([]string, 0, len(n.Content))
		for _, c := range n.Content {
			if c.Kind == yaml.ScalarNode {
				cells = append(cells, c.Value)
			}
		}
		raw, price, ok := parseRow(cells)
		if !ok {
			return catalog.Item{}, false
		}
		return catalog.Item{Name: CleanName(raw), BasePrice: price}, true
	default:
		return catalog.Item{}, false
	}
}

// scalarPrice accepts plain numbers and tolerant text such as "$410".
// Non-finite values are kept so the engine can reject them.
func scalarPrice(n *yaml.Node) (float64, bool) {
	if n.Kind != yaml.ScalarNode {
		return 0, false
	}
	switch strings.ToLower(strings.TrimSpace(n.Value)) {
	case ".nan":
		return math.NaN(), true
	case ".inf", "+.inf":
		return math.Inf(1), true
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(n.Value), 64); err == nil {
		return f, true
	}
	return firstNumber([]string{n.Value})
}

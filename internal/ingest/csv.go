package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/kiwari-pos/pricebook/internal/catalog"
)

// ParseCSV reads a headerless spreadsheet export into a single collection
// named name. Header, totals, and unpriced rows are skipped.
func ParseCSV(name string, data []byte) (catalog.Catalog, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	col := catalog.Collection{Name: name}
	skipped := 0
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return catalog.Catalog{}, fmt.Errorf("parse csv: %w", err)
		}

		raw, price, ok := parseRow(record)
		if !ok {
			skipped++
			continue
		}
		display := CleanName(raw)
		col.Items = append(col.Items, catalog.Item{
			ID:        itemID(name, len(col.Items), display),
			Name:      display,
			BasePrice: price,
		})
	}

	log.Printf("ingest %s: %d items, %d rows skipped", name, len(col.Items), skipped)
	if len(col.Items) == 0 {
		return catalog.Catalog{}, nil
	}
	return catalog.Catalog{Collections: []catalog.Collection{col}}, nil
}

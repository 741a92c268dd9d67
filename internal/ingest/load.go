// Package ingest loads catalogs from spreadsheets exported as CSV and from
// YAML or JSON catalog documents, and watches them for changes.
package ingest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/kiwari-pos/pricebook/internal/catalog"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported catalog format")
	ErrEmptyCatalog      = errors.New("no valid item rows found")
)

// itemNamespace seeds deterministic item IDs.
var itemNamespace = uuid.MustParse("6f1c1a52-3f0e-4d8e-9a7b-2c4d5e6f7a80")

// Load reads a catalog file, choosing the parser by extension.
func Load(path string) (catalog.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return catalog.Catalog{}, fmt.Errorf("read catalog: %w", err)
	}

	var c catalog.Catalog
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		c, err = ParseCSV(stem, data)
	case ".yaml", ".yml", ".json":
		c, err = ParseDocument(data)
	default:
		return catalog.Catalog{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return catalog.Catalog{}, err
	}
	if len(c.Collections) == 0 {
		return catalog.Catalog{}, ErrEmptyCatalog
	}
	return c, nil
}

// itemID derives a stable ID from an item's position and name.
func itemID(collection string, index int, name string) string {
	key := collection + "\x00" + strconv.Itoa(index) + "\x00" + name
	return uuid.NewSHA1(itemNamespace, []byte(key)).String()
}

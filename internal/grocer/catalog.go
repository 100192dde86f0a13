package grocer

import (
	"strings"
)

// Entry holds pricing for one ingredient at one store. Items are sold in
// whole packages of PackageQty PackageUnit at UnitPrice per package.
type Entry struct {
	UnitPrice   float64 `json:"unit_price"`
	PackageQty  float64 `json:"package_qty"`
	PackageUnit string  `json:"package_unit"`
}

// Catalog is a price catalog scoped to a single store for one planning run.
type Catalog struct {
	Store   string
	entries map[string]Entry
}

// NewCatalog creates an empty catalog for the given store.
func NewCatalog(store string) *Catalog {
	return &Catalog{
		Store:   store,
		entries: make(map[string]Entry),
	}
}

// normalizeName is the catalog's ingredient key: trimmed and lowercased,
// matching the aggregator's key so lookups line up.
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Put records pricing for an ingredient. Entries with a non-positive
// package quantity are dropped: they cannot be package-rounded.
func (c *Catalog) Put(name string, e Entry) {
	if e.PackageQty <= 0 || e.UnitPrice < 0 {
		return
	}
	c.entries[normalizeName(name)] = e
}

// Lookup resolves an ingredient name to its price entry.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	e, ok := c.entries[normalizeName(name)]
	return e, ok
}

// Len returns the number of priced ingredients.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Names returns the normalized ingredient names present in the catalog.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	return names
}

package shopping

import (
	"math"

	"dinner-planner/internal/grocer"
)

// Basket is the priced result of a shopping run at one store. ItemCosts
// are rounded to 2 decimals independently of Total, so they need not sum
// exactly to it.
type Basket struct {
	Store     string
	Total     float64
	ItemCosts map[string]float64
}

// round2 rounds to 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Price computes the cost of buying the netted needs at the catalog's
// store. Items can only be bought in whole packages, so each ingredient
// costs ceil(needed / package qty) packages, at least one when anything is
// needed at all. Ingredients with no catalog entry are skipped, which makes
// the total a lower-bound estimate rather than an error. Pure function over
// its inputs.
func Price(needs Needs, catalog *grocer.Catalog) Basket {
	basket := Basket{
		Store:     catalog.Store,
		ItemCosts: make(map[string]float64),
	}

	var total float64
	for key, need := range needs {
		if need.Quantity <= 0 {
			continue
		}
		entry, ok := catalog.Lookup(key)
		if !ok {
			continue
		}
		packages := math.Ceil(need.Quantity / entry.PackageQty)
		if packages < 1 {
			packages = 1
		}
		cost := packages * entry.UnitPrice
		basket.ItemCosts[key] = round2(cost)
		total += cost
	}

	basket.Total = round2(total)
	return basket
}

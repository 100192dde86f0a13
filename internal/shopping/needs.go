package shopping

import (
	"math"
	"strings"

	"dinner-planner/internal/recipe"
)

// Need is the total quantity of one ingredient required across a set of
// recipes. Created by Aggregate, reduced by Net, read by Price, discarded
// after the planning run.
type Need struct {
	Name     string
	Unit     string
	Quantity float64
}

// Needs maps a normalized ingredient key to its aggregated requirement.
type Needs map[string]*Need

// Key is the ingredient merge key: trimmed, lowercased name. Merging is
// name-only, so two requirements for the same ingredient in different units
// are summed under the first-seen unit. This is the single place to change
// if the key ever becomes (name, unit).
func Key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Aggregate merges ingredient requirements across recipes into total
// quantities per ingredient. Pure function; malformed quantities (negative,
// NaN, Inf) contribute zero.
func Aggregate(recipes []recipe.Recipe) Needs {
	needs := make(Needs)
	for _, r := range recipes {
		for _, ing := range r.Ingredients {
			key := Key(ing.Name)
			if key == "" {
				continue
			}
			qty := ing.Quantity
			if math.IsNaN(qty) || math.IsInf(qty, 0) || qty < 0 {
				qty = 0
			}
			if existing, ok := needs[key]; ok {
				// First-seen unit wins; later quantities are summed under it.
				existing.Quantity += qty
				continue
			}
			needs[key] = &Need{
				Name:     strings.TrimSpace(ing.Name),
				Unit:     ing.Unit,
				Quantity: qty,
			}
		}
	}
	return needs
}

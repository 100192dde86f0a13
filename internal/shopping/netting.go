package shopping

import (
	"dinner-planner/internal/pantry"
)

// Net subtracts on-hand pantry quantities from the aggregated needs,
// floored at zero. Pantry entries with no matching need are ignored; there
// is no waste tracking or negative carryover. The needs map is mutated in
// place and returned for chaining.
func Net(needs Needs, entries []pantry.Entry) Needs {
	for _, e := range entries {
		need, ok := needs[Key(e.Name)]
		if !ok {
			continue
		}
		if e.Quantity <= 0 {
			continue
		}
		need.Quantity -= e.Quantity
		if need.Quantity < 0 {
			need.Quantity = 0
		}
	}
	return needs
}

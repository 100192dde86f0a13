package planner

import (
	"sort"

	"dinner-planner/internal/grocer"
	"dinner-planner/internal/pantry"
	"dinner-planner/internal/recipe"
	"dinner-planner/internal/shopping"
)

// FillPolicy controls what happens when the catalog has fewer recipes than
// days to plan.
type FillPolicy string

const (
	// FillRepeat pads the plan by repeating the cheapest recipes.
	FillRepeat FillPolicy = "repeat"
	// FillCap caps the plan at the catalog size.
	FillCap FillPolicy = "cap"
)

// diversityFloor is the minimum number of distinct protein categories the
// selector insists on before cost alone decides.
const diversityFloor = 3

type candidate struct {
	rec            recipe.Recipe
	costPerServing float64
}

// Select chooses up to target recipes from the catalog for a week of
// dinners. Candidates are ranked by cost-per-serving at the given store
// (each costed against the full pantry independently), ties broken by
// catalog order. The walk only accepts new protein categories until
// diversityFloor distinct ones are selected, then takes the cheapest
// remaining regardless. Deterministic: identical inputs yield identical
// output.
func Select(catalog []recipe.Recipe, entries []pantry.Entry, prices *grocer.Catalog, target int, policy FillPolicy) []recipe.Recipe {
	if target <= 0 || len(catalog) == 0 {
		return nil
	}

	cands := make([]candidate, 0, len(catalog))
	for _, r := range catalog {
		needs := shopping.Aggregate([]recipe.Recipe{r})
		shopping.Net(needs, entries)
		basket := shopping.Price(needs, prices)
		cands = append(cands, candidate{
			rec:            r,
			costPerServing: basket.Total / float64(r.EffectiveServings()),
		})
	}

	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].costPerServing < cands[j].costPerServing
	})

	selected := make([]recipe.Recipe, 0, target)
	chosen := make([]bool, len(cands))
	proteins := make(map[string]bool)

	for i, c := range cands {
		if len(selected) == target {
			break
		}
		if len(proteins) < diversityFloor && proteins[c.rec.Protein] {
			continue
		}
		chosen[i] = true
		proteins[c.rec.Protein] = true
		selected = append(selected, c.rec)
	}

	// Fill pass: cheapest recipes skipped by the diversity walk.
	for i := range cands {
		if len(selected) == target {
			break
		}
		if chosen[i] {
			continue
		}
		selected = append(selected, cands[i].rec)
	}

	// Catalog exhausted. Repeat the cheapest recipes unless capped.
	if policy != FillCap {
		for i := 0; len(selected) < target; i = (i + 1) % len(cands) {
			selected = append(selected, cands[i].rec)
		}
	}

	return selected
}

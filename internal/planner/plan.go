package planner

import (
	"fmt"
	"strings"

	"dinner-planner/internal/grocer"
	"dinner-planner/internal/pantry"
	"dinner-planner/internal/recipe"
	"dinner-planner/internal/shopping"
)

// DayAssignment pins one recipe to one day of the plan. Day is a zero-based
// index into the week.
type DayAssignment struct {
	Day      int    `json:"day"`
	RecipeID string `json:"recipe_id"`
	Title    string `json:"title"`
}

// WeekPlan is the externally visible artifact of a planning run: the
// store the basket was priced at, the rounded total, one assignment per
// day, and a human-readable summary.
type WeekPlan struct {
	Store       string          `json:"store"`
	Total       float64         `json:"total"`
	Days        []DayAssignment `json:"days"`
	Explanation string          `json:"explanation"`
	Basket      shopping.Basket `json:"basket"`
}

// BuildWeekPlan runs the full planning pipeline for one store: select
// recipes, aggregate their ingredients, net out the pantry, price the
// basket, and assemble the plan. Pure in-memory computation; all inputs are
// materialized by the caller.
func BuildWeekPlan(catalog []recipe.Recipe, entries []pantry.Entry, prices *grocer.Catalog, target int, policy FillPolicy) WeekPlan {
	selected := Select(catalog, entries, prices, target, policy)

	needs := shopping.Aggregate(selected)
	shopping.Net(needs, entries)
	basket := shopping.Price(needs, prices)

	days := make([]DayAssignment, 0, len(selected))
	for i, r := range selected {
		days = append(days, DayAssignment{Day: i, RecipeID: r.ID, Title: r.Title})
	}

	return WeekPlan{
		Store:       prices.Store,
		Total:       basket.Total,
		Days:        days,
		Explanation: explain(prices.Store, basket.Total, selected),
		Basket:      basket,
	}
}

// explain summarizes the plan: day count, store, rounded total, and the
// protein tally of the selected set in selection order. "mixed" stands in
// when there is nothing to tally.
func explain(store string, total float64, selected []recipe.Recipe) string {
	counts := make(map[string]int)
	var order []string
	for _, r := range selected {
		if r.Protein == "" {
			continue
		}
		if counts[r.Protein] == 0 {
			order = append(order, r.Protein)
		}
		counts[r.Protein]++
	}

	mix := "mixed"
	if len(order) > 0 {
		parts := make([]string, 0, len(order))
		for _, p := range order {
			parts = append(parts, fmt.Sprintf("%s (%d)", p, counts[p]))
		}
		mix = strings.Join(parts, ", ")
	}

	return fmt.Sprintf("%d dinners at %s for $%.2f. Protein mix: %s.", len(selected), store, total, mix)
}

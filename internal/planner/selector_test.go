package planner

import (
	"reflect"
	"testing"

	"dinner-planner/internal/grocer"
	"dinner-planner/internal/pantry"
	"dinner-planner/internal/recipe"
)

// single builds a one-ingredient, one-serving recipe so its cost-per-serving
// equals the ingredient's package price.
func single(id, protein, ingredient string) recipe.Recipe {
	return recipe.Recipe{
		ID:       id,
		Title:    id,
		Protein:  protein,
		Servings: 1,
		Ingredients: []recipe.Ingredient{
			{Name: ingredient, Quantity: 1, Unit: "each"},
		},
	}
}

func syntheticCatalog() ([]recipe.Recipe, *grocer.Catalog) {
	recipes := []recipe.Recipe{
		single("r1", "chicken", "a"),
		single("r2", "chicken", "b"),
		single("r3", "chicken", "c"),
		single("r4", "fish", "d"),
		single("r5", "tofu", "e"),
	}
	prices := grocer.NewCatalog("Walmart")
	prices.Put("a", grocer.Entry{UnitPrice: 1.00, PackageQty: 1, PackageUnit: "each"})
	prices.Put("b", grocer.Entry{UnitPrice: 1.50, PackageQty: 1, PackageUnit: "each"})
	prices.Put("c", grocer.Entry{UnitPrice: 2.00, PackageQty: 1, PackageUnit: "each"})
	prices.Put("d", grocer.Entry{UnitPrice: 3.00, PackageQty: 1, PackageUnit: "each"})
	prices.Put("e", grocer.Entry{UnitPrice: 4.00, PackageQty: 1, PackageUnit: "each"})
	return recipes, prices
}

func ids(recipes []recipe.Recipe) []string {
	out := make([]string, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, r.ID)
	}
	return out
}

func TestSelect(t *testing.T) {
	t.Run("DiversityFloorBeforeCost", func(t *testing.T) {
		recipes, prices := syntheticCatalog()

		selected := Select(recipes, nil, prices, 5, FillCap)

		want := []string{"r1", "r4", "r5", "r2", "r3"}
		if !reflect.DeepEqual(ids(selected), want) {
			t.Errorf("Expected selection %v, got %v", want, ids(selected))
		}

		proteins := map[string]bool{}
		for _, r := range selected[:3] {
			proteins[r.Protein] = true
		}
		if len(proteins) < 3 {
			t.Errorf("Expected 3 distinct proteins in the first 3 picks, got %d", len(proteins))
		}
	})

	t.Run("Deterministic", func(t *testing.T) {
		recipes, prices := syntheticCatalog()
		pantryEntries := []pantry.Entry{{Name: "a", Quantity: 1, Unit: "each"}}

		first := Select(recipes, pantryEntries, prices, 7, FillRepeat)
		second := Select(recipes, pantryEntries, prices, 7, FillRepeat)

		if !reflect.DeepEqual(ids(first), ids(second)) {
			t.Errorf("Expected identical selections, got %v then %v", ids(first), ids(second))
		}
	})

	t.Run("RepeatPolicyFillsToTarget", func(t *testing.T) {
		recipes, prices := syntheticCatalog()

		selected := Select(recipes, nil, prices, 7, FillRepeat)
		if len(selected) != 7 {
			t.Fatalf("Expected 7 recipes, got %d", len(selected))
		}

		// Padding repeats the cheapest candidates in rank order.
		want := []string{"r1", "r4", "r5", "r2", "r3", "r1", "r2"}
		if !reflect.DeepEqual(ids(selected), want) {
			t.Errorf("Expected selection %v, got %v", want, ids(selected))
		}
	})

	t.Run("CapPolicyStopsAtCatalogSize", func(t *testing.T) {
		recipes, prices := syntheticCatalog()

		selected := Select(recipes[:3], nil, prices, 7, FillCap)
		if len(selected) != 3 {
			t.Errorf("Expected 3 recipes with cap policy, got %d", len(selected))
		}
	})

	t.Run("EmptyCatalog", func(t *testing.T) {
		_, prices := syntheticCatalog()
		if selected := Select(nil, nil, prices, 7, FillRepeat); len(selected) != 0 {
			t.Errorf("Expected empty selection, got %d recipes", len(selected))
		}
	})

	t.Run("PantryMakesRecipeCheaper", func(t *testing.T) {
		recipes, prices := syntheticCatalog()

		// Full pantry coverage of e zeroes r5's basket, making it cheapest.
		pantryEntries := []pantry.Entry{{Name: "e", Quantity: 1, Unit: "each"}}
		selected := Select(recipes, pantryEntries, prices, 5, FillCap)

		if selected[0].ID != "r5" {
			t.Errorf("Expected r5 first after pantry netting, got %s", selected[0].ID)
		}
	})

	t.Run("ServingsDivideCost", func(t *testing.T) {
		recipes, prices := syntheticCatalog()

		// r5 costs 4.00 but serves 8, so per-serving it beats everything.
		recipes[4].Servings = 8
		selected := Select(recipes, nil, prices, 5, FillCap)

		if selected[0].ID != "r5" {
			t.Errorf("Expected r5 first on cost-per-serving, got %s", selected[0].ID)
		}
	})

	t.Run("TiesKeepCatalogOrder", func(t *testing.T) {
		recipes := []recipe.Recipe{
			single("first", "beef", "x"),
			single("second", "pork", "x"),
		}
		prices := grocer.NewCatalog("Walmart")
		prices.Put("x", grocer.Entry{UnitPrice: 2.00, PackageQty: 1, PackageUnit: "each"})

		selected := Select(recipes, nil, prices, 2, FillCap)
		if selected[0].ID != "first" || selected[1].ID != "second" {
			t.Errorf("Expected stable tie order [first second], got %v", ids(selected))
		}
	})
}

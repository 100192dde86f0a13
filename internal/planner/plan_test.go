package planner

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"dinner-planner/internal/grocer"
	"dinner-planner/internal/pantry"
	"dinner-planner/internal/recipe"
)

func mockRecipes() []recipe.Recipe {
	return []recipe.Recipe{
		{ID: "chicken-rice", Title: "Chicken and Rice", Protein: "chicken", Servings: 4, Ingredients: []recipe.Ingredient{
			{Name: "chicken breast", Quantity: 1.5, Unit: "lb"},
			{Name: "rice", Quantity: 2, Unit: "cup"},
			{Name: "garlic", Quantity: 2, Unit: "clove"},
			{Name: "olive oil", Quantity: 0.25, Unit: "cup"},
		}},
		{ID: "black-bean-tacos", Title: "Black Bean Tacos", Protein: "legume", Servings: 4, Ingredients: []recipe.Ingredient{
			{Name: "black beans", Quantity: 2, Unit: "can"},
			{Name: "tortilla", Quantity: 8, Unit: "each"},
			{Name: "onion", Quantity: 1, Unit: "each"},
			{Name: "cheddar", Quantity: 0.5, Unit: "lb"},
		}},
		{ID: "baked-salmon", Title: "Baked Salmon", Protein: "fish", Servings: 2, Ingredients: []recipe.Ingredient{
			{Name: "salmon", Quantity: 1, Unit: "lb"},
			{Name: "lemon", Quantity: 1, Unit: "each"},
			{Name: "rice", Quantity: 1, Unit: "cup"},
		}},
		{ID: "tofu-stirfry", Title: "Tofu Stir Fry", Protein: "tofu", Servings: 4, Ingredients: []recipe.Ingredient{
			{Name: "tofu", Quantity: 1, Unit: "lb"},
			{Name: "broccoli", Quantity: 1, Unit: "lb"},
			{Name: "soy sauce", Quantity: 0.25, Unit: "cup"},
			{Name: "rice", Quantity: 1.5, Unit: "cup"},
		}},
		{ID: "turkey-chili", Title: "Turkey Chili", Protein: "turkey", Servings: 6, Ingredients: []recipe.Ingredient{
			{Name: "ground turkey", Quantity: 1, Unit: "lb"},
			{Name: "black beans", Quantity: 1, Unit: "can"},
			{Name: "tomato", Quantity: 2, Unit: "can"},
			{Name: "onion", Quantity: 1, Unit: "each"},
		}},
		{ID: "beef-stew", Title: "Beef Stew", Protein: "beef", Servings: 6, Ingredients: []recipe.Ingredient{
			{Name: "beef chuck", Quantity: 2, Unit: "lb"},
			{Name: "potato", Quantity: 2, Unit: "lb"},
			{Name: "carrot", Quantity: 1, Unit: "lb"},
			{Name: "onion", Quantity: 1, Unit: "each"},
		}},
		{ID: "veggie-omelette", Title: "Veggie Omelette", Protein: "egg", Servings: 2, Ingredients: []recipe.Ingredient{
			{Name: "eggs", Quantity: 6, Unit: "each"},
			{Name: "bell pepper", Quantity: 1, Unit: "each"},
			{Name: "cheddar", Quantity: 0.25, Unit: "lb"},
		}},
		{ID: "pork-fried-rice", Title: "Pork Fried Rice", Protein: "pork", Servings: 4, Ingredients: []recipe.Ingredient{
			{Name: "pork loin", Quantity: 1, Unit: "lb"},
			{Name: "rice", Quantity: 2, Unit: "cup"},
			{Name: "eggs", Quantity: 2, Unit: "each"},
			{Name: "soy sauce", Quantity: 0.25, Unit: "cup"},
		}},
		{ID: "lemon-chicken", Title: "Lemon Chicken Thighs", Protein: "chicken", Servings: 4, Ingredients: []recipe.Ingredient{
			{Name: "chicken thighs", Quantity: 2, Unit: "lb"},
			{Name: "lemon", Quantity: 2, Unit: "each"},
			{Name: "garlic", Quantity: 3, Unit: "clove"},
		}},
	}
}

func mockPantry() []pantry.Entry {
	return []pantry.Entry{
		{Name: "rice", Quantity: 2, Unit: "cup"},
		{Name: "black beans", Quantity: 1, Unit: "can"},
		{Name: "garlic", Quantity: 3, Unit: "clove"},
	}
}

func mockWalmartPrices() *grocer.Catalog {
	c := grocer.NewCatalog("Walmart")
	c.Put("chicken breast", grocer.Entry{UnitPrice: 5.97, PackageQty: 1.5, PackageUnit: "lb"})
	c.Put("rice", grocer.Entry{UnitPrice: 3.48, PackageQty: 5, PackageUnit: "cup"})
	c.Put("garlic", grocer.Entry{UnitPrice: 0.98, PackageQty: 3, PackageUnit: "clove"})
	c.Put("olive oil", grocer.Entry{UnitPrice: 7.48, PackageQty: 2, PackageUnit: "cup"})
	c.Put("black beans", grocer.Entry{UnitPrice: 0.98, PackageQty: 1, PackageUnit: "can"})
	c.Put("tortilla", grocer.Entry{UnitPrice: 2.98, PackageQty: 10, PackageUnit: "each"})
	c.Put("onion", grocer.Entry{UnitPrice: 0.78, PackageQty: 1, PackageUnit: "each"})
	c.Put("cheddar", grocer.Entry{UnitPrice: 2.47, PackageQty: 0.5, PackageUnit: "lb"})
	c.Put("salmon", grocer.Entry{UnitPrice: 8.97, PackageQty: 1, PackageUnit: "lb"})
	c.Put("lemon", grocer.Entry{UnitPrice: 0.58, PackageQty: 1, PackageUnit: "each"})
	c.Put("tofu", grocer.Entry{UnitPrice: 2.48, PackageQty: 1, PackageUnit: "lb"})
	c.Put("broccoli", grocer.Entry{UnitPrice: 1.98, PackageQty: 1, PackageUnit: "lb"})
	c.Put("soy sauce", grocer.Entry{UnitPrice: 2.28, PackageQty: 1, PackageUnit: "cup"})
	c.Put("ground turkey", grocer.Entry{UnitPrice: 4.97, PackageQty: 1, PackageUnit: "lb"})
	c.Put("tomato", grocer.Entry{UnitPrice: 0.88, PackageQty: 1, PackageUnit: "can"})
	c.Put("beef chuck", grocer.Entry{UnitPrice: 6.97, PackageQty: 1, PackageUnit: "lb"})
	c.Put("potato", grocer.Entry{UnitPrice: 3.47, PackageQty: 5, PackageUnit: "lb"})
	c.Put("carrot", grocer.Entry{UnitPrice: 1.48, PackageQty: 2, PackageUnit: "lb"})
	c.Put("eggs", grocer.Entry{UnitPrice: 2.52, PackageQty: 12, PackageUnit: "each"})
	c.Put("bell pepper", grocer.Entry{UnitPrice: 0.88, PackageQty: 1, PackageUnit: "each"})
	c.Put("pork loin", grocer.Entry{UnitPrice: 3.98, PackageQty: 1, PackageUnit: "lb"})
	c.Put("chicken thighs", grocer.Entry{UnitPrice: 4.44, PackageQty: 2, PackageUnit: "lb"})
	return c
}

func TestBuildWeekPlan(t *testing.T) {
	t.Run("ReferenceScenario", func(t *testing.T) {
		plan := BuildWeekPlan(mockRecipes(), mockPantry(), mockWalmartPrices(), 7, FillRepeat)

		if len(plan.Days) != 7 {
			t.Fatalf("Expected 7 day assignments, got %d", len(plan.Days))
		}
		for i, day := range plan.Days {
			if day.Day != i {
				t.Errorf("Expected day index %d, got %d", i, day.Day)
			}
			if day.RecipeID == "" || day.Title == "" {
				t.Errorf("Day %d has empty recipe reference", i)
			}
		}

		if plan.Store != "Walmart" {
			t.Errorf("Expected store 'Walmart', got '%s'", plan.Store)
		}
		if plan.Total <= 0 {
			t.Errorf("Expected positive total, got %v", plan.Total)
		}
		if r := math.Round(plan.Total*100) / 100; r != plan.Total {
			t.Errorf("Expected total rounded to 2 decimals, got %v", plan.Total)
		}

		// The explanation tallies at least 3 protein categories with counts
		// summing to 7.
		distinct, sum := parseProteinTally(t, plan.Explanation)
		if distinct < 3 {
			t.Errorf("Expected at least 3 protein categories in %q, got %d", plan.Explanation, distinct)
		}
		if sum != 7 {
			t.Errorf("Expected protein counts summing to 7 in %q, got %d", plan.Explanation, sum)
		}
	})

	t.Run("DeterministicAcrossRuns", func(t *testing.T) {
		first := BuildWeekPlan(mockRecipes(), mockPantry(), mockWalmartPrices(), 7, FillRepeat)
		second := BuildWeekPlan(mockRecipes(), mockPantry(), mockWalmartPrices(), 7, FillRepeat)

		if first.Total != second.Total {
			t.Errorf("Expected identical totals, got %v then %v", first.Total, second.Total)
		}
		if first.Explanation != second.Explanation {
			t.Errorf("Expected identical explanations:\n%q\n%q", first.Explanation, second.Explanation)
		}
		for i := range first.Days {
			if first.Days[i] != second.Days[i] {
				t.Errorf("Day %d differs: %+v vs %+v", i, first.Days[i], second.Days[i])
			}
		}
	})

	t.Run("EmptyCatalog", func(t *testing.T) {
		plan := BuildWeekPlan(nil, mockPantry(), mockWalmartPrices(), 7, FillRepeat)

		if len(plan.Days) != 0 {
			t.Errorf("Expected 0 day assignments, got %d", len(plan.Days))
		}
		if plan.Total != 0 {
			t.Errorf("Expected total 0, got %v", plan.Total)
		}
		if !strings.Contains(plan.Explanation, "mixed") {
			t.Errorf("Expected empty-state marker 'mixed' in %q", plan.Explanation)
		}
	})

	t.Run("CapPolicyReportsActualDayCount", func(t *testing.T) {
		plan := BuildWeekPlan(mockRecipes()[:4], mockPantry(), mockWalmartPrices(), 7, FillCap)

		if len(plan.Days) != 4 {
			t.Fatalf("Expected 4 day assignments with cap policy, got %d", len(plan.Days))
		}
		if !strings.HasPrefix(plan.Explanation, "4 dinners") {
			t.Errorf("Expected explanation to report 4 dinners, got %q", plan.Explanation)
		}
	})

	t.Run("PantryReducesBasket", func(t *testing.T) {
		withPantry := BuildWeekPlan(mockRecipes(), mockPantry(), mockWalmartPrices(), 7, FillRepeat)
		withoutPantry := BuildWeekPlan(mockRecipes(), nil, mockWalmartPrices(), 7, FillRepeat)

		if withPantry.Total > withoutPantry.Total {
			t.Errorf("Expected pantry to not increase cost: %v with, %v without",
				withPantry.Total, withoutPantry.Total)
		}
	})
}

// parseProteinTally extracts "name (count)" pairs from the explanation's
// protein mix segment.
func parseProteinTally(t *testing.T, explanation string) (distinct, sum int) {
	t.Helper()
	idx := strings.Index(explanation, "Protein mix: ")
	if idx < 0 {
		t.Fatalf("Explanation %q has no protein mix segment", explanation)
	}
	segment := strings.TrimSuffix(explanation[idx+len("Protein mix: "):], ".")
	for _, part := range strings.Split(segment, ", ") {
		open := strings.Index(part, "(")
		close := strings.Index(part, ")")
		if open < 0 || close < open {
			continue
		}
		n, err := strconv.Atoi(part[open+1 : close])
		if err != nil {
			t.Fatalf("Bad tally segment %q: %v", part, err)
		}
		distinct++
		sum += n
	}
	return distinct, sum
}

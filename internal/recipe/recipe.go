package recipe

import (
	"fmt"
	"math"
	"strings"
)

// Ingredient is a single ingredient requirement of a recipe.
// Name matching elsewhere in the pipeline is case-insensitive.
type Ingredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// Recipe is a dinner recipe as served by the household service.
// Immutable once loaded for a planning run.
type Recipe struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Protein     string       `json:"protein"`
	Servings    int          `json:"servings"`
	PrepTime    string       `json:"prep_time"`
	Ingredients []Ingredient `json:"ingredients"`
	UpdatedAt   string       `json:"updated_at,omitempty"`
}

// EffectiveServings returns the servings count used for cost-per-serving,
// defaulting to 1 when unset or non-positive.
func (r Recipe) EffectiveServings() int {
	if r.Servings <= 0 {
		return 1
	}
	return r.Servings
}

// Validate rejects structurally invalid recipes at the boundary. A recipe
// with no ingredient list at all never reaches the planning core.
func (r Recipe) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("recipe has no id")
	}
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("recipe %s has no title", r.ID)
	}
	if len(r.Ingredients) == 0 {
		return fmt.Errorf("recipe %s (%s) has no ingredients", r.ID, r.Title)
	}
	return nil
}

// Normalize cleans up malformed fields in place: ingredient names are
// trimmed and non-finite or negative quantities become zero so they
// contribute nothing downstream.
func (r *Recipe) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Protein = strings.ToLower(strings.TrimSpace(r.Protein))
	for i := range r.Ingredients {
		ing := &r.Ingredients[i]
		ing.Name = strings.TrimSpace(ing.Name)
		ing.Unit = strings.TrimSpace(ing.Unit)
		if math.IsNaN(ing.Quantity) || math.IsInf(ing.Quantity, 0) || ing.Quantity < 0 {
			ing.Quantity = 0
		}
	}
}

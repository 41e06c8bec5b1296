package recipe

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// DefaultAisle is used for ingredient lines the provider left uncategorized.
const DefaultAisle = "Other"

// Ingredient is a single ingredient line as returned by the recipe provider.
type Ingredient struct {
	Name      string  `json:"name"`
	NameClean string  `json:"nameClean,omitempty"`
	Original  string  `json:"original,omitempty"`
	Amount    float64 `json:"amount"`
	Unit      string  `json:"unit"`
	Aisle     string  `json:"aisle"`
}

// DisplayName returns the name shown on a shopping list.
func (i Ingredient) DisplayName() string {
	switch {
	case i.Name != "":
		return i.Name
	case i.NameClean != "":
		return i.NameClean
	default:
		return "Unknown"
	}
}

// AisleOrDefault returns the aisle label, falling back to DefaultAisle.
func (i Ingredient) AisleOrDefault() string {
	if i.Aisle == "" {
		return DefaultAisle
	}
	return i.Aisle
}

// Recipe is a provider recipe. It is read-only to the planning stores.
type Recipe struct {
	ID             int          `json:"id" validate:"gt=0"`
	Title          string       `json:"title" validate:"required"`
	Image          string       `json:"image,omitempty"`
	Servings       int          `json:"servings,omitempty"`
	ReadyInMinutes int          `json:"readyInMinutes,omitempty"`
	SourceURL      string       `json:"sourceUrl,omitempty"`
	Ingredients    []Ingredient `json:"extendedIngredients,omitempty"`
}

// Snapshot is the trimmed copy of a recipe kept in history. It leaves out the
// ingredient list to bound stored size.
type Snapshot struct {
	ID             int    `json:"id"`
	Title          string `json:"title"`
	Image          string `json:"image,omitempty"`
	Servings       int    `json:"servings,omitempty"`
	ReadyInMinutes int    `json:"readyInMinutes,omitempty"`
}

// Snapshot returns the minimal copy of r.
func (r Recipe) Snapshot() Snapshot {
	return Snapshot{
		ID:             r.ID,
		Title:          r.Title,
		Image:          r.Image,
		Servings:       r.Servings,
		ReadyInMinutes: r.ReadyInMinutes,
	}
}

var validate = validator.New()

// Validate reports whether r carries the fields the planning stores rely on.
func (r Recipe) Validate() error {
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid recipe %d: field %s failed %q", r.ID, verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("invalid recipe %d: %w", r.ID, err)
	}
	return nil
}

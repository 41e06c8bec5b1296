package recipe

import (
	"slices"
)

// Catalog is the id-keyed set of recipes the user has imported.
type Catalog struct {
	byID map[int]Recipe
}

// NewCatalog builds a catalog from a stored list. Later duplicates replace
// earlier ones.
func NewCatalog(recipes []Recipe) *Catalog {
	c := &Catalog{byID: make(map[int]Recipe, len(recipes))}
	for _, r := range recipes {
		c.Add(r)
	}
	return c
}

// Add inserts or replaces a recipe by id. It reports whether the id was new.
func (c *Catalog) Add(r Recipe) bool {
	_, exists := c.byID[r.ID]
	c.byID[r.ID] = r
	return !exists
}

// Get retrieves a recipe by its ID.
func (c *Catalog) Get(id int) (Recipe, bool) {
	r, ok := c.byID[id]
	return r, ok
}

// List returns every recipe ordered by id.
func (c *Catalog) List() []Recipe {
	out := make([]Recipe, 0, len(c.byID))
	for _, r := range c.byID {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b Recipe) int { return a.ID - b.ID })
	return out
}

// Count returns the number of recipes in the catalog.
func (c *Catalog) Count() int {
	return len(c.byID)
}

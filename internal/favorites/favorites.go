package favorites

import (
	"slices"

	"recipe-planner/internal/recipe"
)

// Store is the user's favorited recipes in the order they were added.
// Identity is the recipe id.
type Store struct {
	recipes []recipe.Recipe
}

// NewStore seeds the store from a saved list. Repeated ids keep the first
// occurrence.
func NewStore(saved []recipe.Recipe) *Store {
	s := &Store{}
	for _, r := range saved {
		if !s.IsFavorite(r.ID) {
			s.recipes = append(s.recipes, r)
		}
	}
	return s
}

// Toggle removes r if it is a favorite and appends it otherwise. It reports
// whether r is a favorite afterwards.
func (s *Store) Toggle(r recipe.Recipe) bool {
	if i := s.index(r.ID); i >= 0 {
		s.recipes = slices.Delete(slices.Clone(s.recipes), i, i+1)
		return false
	}
	s.recipes = append(s.recipes, r)
	return true
}

// IsFavorite reports whether a recipe with id is favorited.
func (s *Store) IsFavorite(id int) bool {
	return s.index(id) >= 0
}

// List returns the favorites in insertion order.
func (s *Store) List() []recipe.Recipe {
	return slices.Clone(s.recipes)
}

// Len returns the number of favorites.
func (s *Store) Len() int {
	return len(s.recipes)
}

func (s *Store) index(id int) int {
	return slices.IndexFunc(s.recipes, func(r recipe.Recipe) bool { return r.ID == id })
}

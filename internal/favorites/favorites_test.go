package favorites

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"recipe-planner/internal/recipe"
)

func TestToggle(t *testing.T) {
	soup := recipe.Recipe{ID: 1, Title: "Soup"}
	stew := recipe.Recipe{ID: 2, Title: "Stew"}

	t.Run("AddsThenRemoves", func(t *testing.T) {
		s := NewStore(nil)
		assert.True(t, s.Toggle(soup))
		assert.True(t, s.IsFavorite(1))
		assert.False(t, s.Toggle(soup))
		assert.False(t, s.IsFavorite(1))
		assert.Equal(t, 0, s.Len())
	})

	t.Run("ToggleTwiceIsIdentity", func(t *testing.T) {
		s := NewStore([]recipe.Recipe{stew})
		before := s.List()
		s.Toggle(soup)
		s.Toggle(soup)
		assert.Equal(t, before, s.List())

		s.Toggle(stew)
		s.Toggle(stew)
		assert.Equal(t, before, s.List())
	})

	t.Run("AppendsInOrder", func(t *testing.T) {
		s := NewStore(nil)
		s.Toggle(stew)
		s.Toggle(soup)
		assert.Equal(t, []recipe.Recipe{stew, soup}, s.List())
	})

	t.Run("IdentityIsExactID", func(t *testing.T) {
		s := NewStore([]recipe.Recipe{soup})
		renamed := recipe.Recipe{ID: 1, Title: "Different title"}
		assert.False(t, s.Toggle(renamed))
		assert.Equal(t, 0, s.Len())
	})

	t.Run("SavedDuplicatesCollapse", func(t *testing.T) {
		s := NewStore([]recipe.Recipe{soup, stew, soup})
		assert.Equal(t, 2, s.Len())
	})

	t.Run("ListIsACopy", func(t *testing.T) {
		s := NewStore([]recipe.Recipe{soup})
		list := s.List()
		list[0].Title = "changed"
		assert.Equal(t, "Soup", s.List()[0].Title)
	})
}

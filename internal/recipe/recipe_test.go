package recipe

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngredientDefaults(t *testing.T) {
	t.Run("DisplayNameFallbacks", func(t *testing.T) {
		assert.Equal(t, "Sugar", Ingredient{Name: "Sugar", NameClean: "sugar"}.DisplayName())
		assert.Equal(t, "sugar", Ingredient{NameClean: "sugar"}.DisplayName())
		assert.Equal(t, "Unknown", Ingredient{}.DisplayName())
	})

	t.Run("AisleFallback", func(t *testing.T) {
		assert.Equal(t, "Baking", Ingredient{Aisle: "Baking"}.AisleOrDefault())
		assert.Equal(t, DefaultAisle, Ingredient{}.AisleOrDefault())
	})
}

func TestSnapshotDropsIngredients(t *testing.T) {
	r := Recipe{
		ID: 7, Title: "Soup", Image: "soup.jpg", Servings: 4, ReadyInMinutes: 30,
		Ingredients: []Ingredient{{Name: "leek"}},
	}
	snap := r.Snapshot()
	assert.Equal(t, Snapshot{ID: 7, Title: "Soup", Image: "soup.jpg", Servings: 4, ReadyInMinutes: 30}, snap)
}

func TestDecodeProviderJSON(t *testing.T) {
	t.Run("Envelope", func(t *testing.T) {
		payload := `{"recipes": [
			{"id": 1, "title": "Pancakes", "servings": 2, "readyInMinutes": 20,
			 "extendedIngredients": [{"name": "flour", "amount": 1.5, "unit": "cups", "aisle": "Baking"}]},
			{"id": 0, "title": "Broken"}
		]}`
		res, err := DecodeProviderJSON([]byte(payload))
		require.NoError(t, err)
		require.Len(t, res.Recipes, 1)
		assert.Len(t, res.Skipped, 1)

		got := res.Recipes[0]
		assert.Equal(t, "Pancakes", got.Title)
		require.Len(t, got.Ingredients, 1)
		assert.Equal(t, 1.5, got.Ingredients[0].Amount)
		assert.Equal(t, "Baking", got.Ingredients[0].Aisle)
	})

	t.Run("BareArray", func(t *testing.T) {
		res, err := DecodeProviderJSON([]byte(`[{"id": 3, "title": "Toast"}, {"id": 4, "title": "Tea"}]`))
		require.NoError(t, err)
		assert.Len(t, res.Recipes, 2)
	})

	t.Run("SingleObject", func(t *testing.T) {
		res, err := DecodeProviderJSON([]byte(`{"id": 9, "title": "Salad"}`))
		require.NoError(t, err)
		require.Len(t, res.Recipes, 1)
		assert.Equal(t, 9, res.Recipes[0].ID)
	})

	t.Run("MissingTitleSkipped", func(t *testing.T) {
		res, err := DecodeProviderJSON([]byte(`[{"id": 3}]`))
		require.NoError(t, err)
		assert.Empty(t, res.Recipes)
		require.Len(t, res.Skipped, 1)
		assert.Contains(t, res.Skipped[0].Error(), "Title")
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := DecodeProviderJSON([]byte(`not json`))
		assert.Error(t, err)
		_, err = DecodeProviderJSON(nil)
		assert.Error(t, err)
	})
}

func TestParseIngredientLine(t *testing.T) {
	tests := []struct {
		line   string
		amount float64
		unit   string
		name   string
	}{
		{"2 cups sugar", 2, "cups", "sugar"},
		{"1 1/2 cups brown sugar, packed", 1.5, "cups", "brown sugar"},
		{"½ tsp salt", 0.5, "tsp", "salt"},
		{"1½ Tbsp. olive oil", 1.5, "tbsp", "olive oil"},
		{"3 eggs", 3, "", "eggs"},
		{"2-3 cloves of garlic", 2, "cloves", "garlic"},
		{"salt to taste", 0, "", "salt to taste"},
		{"", 0, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := ParseIngredientLine(tt.line)
			assert.InDelta(t, tt.amount, got.Amount, 1e-9)
			assert.Equal(t, tt.unit, got.Unit)
			assert.Equal(t, tt.name, got.Name)
			assert.Equal(t, strings.TrimSpace(tt.line), got.Original)
		})
	}
}

func TestImportHTML(t *testing.T) {
	t.Run("GraphRecipe", func(t *testing.T) {
		page := `<html><head>
			<script type="application/ld+json">{"@context":"https://schema.org","@type":"WebSite","name":"Blog"}</script>
			<script type="application/ld+json">{"@graph":[
				{"@type":"WebPage","name":"Page"},
				{"@type":["Recipe"],"name":" Lemon Cake ","image":[{"url":"cake.jpg"}],
				 "recipeYield":["8 slices"],"prepTime":"PT20M","cookTime":"PT1H",
				 "url":"https://example.test/cake",
				 "recipeIngredient":["2 cups flour","3 lemons","1/2 cup sugar"]}
			]}</script>
		</head><body></body></html>`

		rec, err := ImportHTML(strings.NewReader(page), 42)
		require.NoError(t, err)
		assert.Equal(t, 42, rec.ID)
		assert.Equal(t, "Lemon Cake", rec.Title)
		assert.Equal(t, "cake.jpg", rec.Image)
		assert.Equal(t, 8, rec.Servings)
		assert.Equal(t, 80, rec.ReadyInMinutes)
		assert.Equal(t, "https://example.test/cake", rec.SourceURL)
		require.Len(t, rec.Ingredients, 3)
		assert.Equal(t, "lemons", rec.Ingredients[1].Name)
		assert.Equal(t, 0.5, rec.Ingredients[2].Amount)
	})

	t.Run("TotalTimeWins", func(t *testing.T) {
		page := `<script type="application/ld+json">[{"@type":"Recipe","name":"Stew","totalTime":"PT2H15M","recipeYield":4,"prepTime":"PT5M"}]</script>`
		rec, err := ImportHTML(strings.NewReader(page), 1)
		require.NoError(t, err)
		assert.Equal(t, 135, rec.ReadyInMinutes)
		assert.Equal(t, 4, rec.Servings)
	})

	t.Run("NoRecipe", func(t *testing.T) {
		_, err := ImportHTML(strings.NewReader(`<html><script type="application/ld+json">{broken</script></html>`), 1)
		assert.ErrorIs(t, err, ErrNoRecipe)
	})

	t.Run("InvalidID", func(t *testing.T) {
		page := `<script type="application/ld+json">{"@type":"Recipe","name":"Stew"}</script>`
		_, err := ImportHTML(strings.NewReader(page), 0)
		assert.Error(t, err)
	})
}

func TestCatalog(t *testing.T) {
	c := NewCatalog([]Recipe{{ID: 5, Title: "B"}, {ID: 2, Title: "A"}})
	assert.Equal(t, 2, c.Count())

	assert.False(t, c.Add(Recipe{ID: 5, Title: "B2"}))
	assert.True(t, c.Add(Recipe{ID: 9, Title: "C"}))

	got, ok := c.Get(5)
	require.True(t, ok)
	assert.Equal(t, "B2", got.Title)

	_, ok = c.Get(100)
	assert.False(t, ok)

	list := c.List()
	require.Len(t, list, 3)
	assert.Equal(t, []int{2, 5, 9}, []int{list[0].ID, list[1].ID, list[2].ID})
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("ProviderJSON", func(t *testing.T) {
		path := filepath.Join(dir, "dump.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"recipes":[{"id":3,"title":"Soup"},{"id":0,"title":"Bad"}]}`), 0644))
		res, err := ReadFile(path)
		require.NoError(t, err)
		require.Len(t, res.Recipes, 1)
		assert.Len(t, res.Skipped, 1)
	})

	t.Run("HTMLTakesIDFromName", func(t *testing.T) {
		path := filepath.Join(dir, "716429-stew.html")
		page := `<script type="application/ld+json">{"@type":"Recipe","name":"Stew"}</script>`
		require.NoError(t, os.WriteFile(path, []byte(page), 0644))
		res, err := ReadFile(path)
		require.NoError(t, err)
		require.Len(t, res.Recipes, 1)
		assert.Equal(t, 716429, res.Recipes[0].ID)
	})

	t.Run("HTMLWithoutID", func(t *testing.T) {
		path := filepath.Join(dir, "stew.html")
		require.NoError(t, os.WriteFile(path, []byte("<html></html>"), 0644))
		_, err := ReadFile(path)
		assert.Error(t, err)
	})

	t.Run("Unsupported", func(t *testing.T) {
		path := filepath.Join(dir, "notes.txt")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
		_, err := ReadFile(path)
		assert.Error(t, err)
		assert.False(t, Importable(path))
		assert.True(t, Importable("A.JSON"))
	})
}

func TestIDFromFilename(t *testing.T) {
	tests := map[string]int{
		"/inbox/12-cake.html": 12,
		"7_soup.htm":          7,
		"99.html":             99,
	}
	for name, want := range tests {
		got, err := IDFromFilename(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got)
	}
	for _, bad := range []string{"cake.html", "0-cake.html", "-3-x.html"} {
		_, err := IDFromFilename(bad)
		assert.Error(t, err, bad)
	}
}

package app

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"recipe-planner/internal/history"
	"recipe-planner/internal/metrics"
	"recipe-planner/internal/planner"
	"recipe-planner/internal/recipe"
	"recipe-planner/internal/storage"
)

type testEnv struct {
	dir   string
	snaps *storage.Snapshots
	clock time.Time
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	b, err := storage.NewFileBackend(dir)
	require.NoError(t, err)
	return &testEnv{
		dir:   dir,
		snaps: storage.NewSnapshots(b, storage.DefaultKeyPrefix, zap.NewNop()),
		clock: time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC),
	}
}

func (e *testEnv) now() time.Time {
	e.clock = e.clock.Add(time.Minute)
	return e.clock
}

func (e *testEnv) open(t *testing.T, opts ...Option) *Session {
	t.Helper()
	opts = append([]Option{WithClock(e.now)}, opts...)
	s, err := Open(context.Background(), e.snaps, opts...)
	require.NoError(t, err)
	return s
}

var (
	cake = recipe.Recipe{ID: 1, Title: "R1 title", Servings: 2, Ingredients: []recipe.Ingredient{
		{Name: "sugar", Amount: 1, Unit: "cup", Aisle: "Baking"},
	}}
	pie = recipe.Recipe{ID: 2, Title: "R2 title", Servings: 4, Ingredients: []recipe.Ingredient{
		{Name: "sugar", Amount: 0.5, Unit: "cup", Aisle: "Baking"},
		{Name: "Apples", Amount: 3, Aisle: "Produce"},
	}}
)

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)
	rec := metrics.NewRecorder()
	s := env.open(t, WithRecorder(rec))

	added, err := s.ImportRecipes(ctx, []recipe.Recipe{cake, pie, {ID: 0, Title: "broken"}})
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	_, err = s.ViewRecipe(ctx, 1)
	require.NoError(t, err)
	fav, err := s.ToggleFavorite(ctx, 1)
	require.NoError(t, err)
	assert.True(t, fav)

	require.NoError(t, s.AddToDay(ctx, "2024-01-01", 1, 2))
	require.NoError(t, s.AddToDay(ctx, "2024-01-02", 2, 4))
	assert.Equal(t, 2, s.MealCount())
	require.NoError(t, s.SetDarkMode(ctx, true))

	t.Run("HistoryMerged", func(t *testing.T) {
		all := s.History(history.FilterAll)
		require.Len(t, all, 2)
		assert.Equal(t, 2, all[0].Recipe.ID)
		assert.Equal(t, []history.Action{history.Viewed, history.Favorited, history.Planned}, all[1].OrderedActions())
		assert.Len(t, s.History(string(history.Favorited)), 1)
	})

	t.Run("ShoppingList", func(t *testing.T) {
		list, err := s.ShoppingList(ctx)
		require.NoError(t, err)
		sugar := list.Items("Baking")
		require.Len(t, sugar, 1)
		assert.Equal(t, "1.5 cup", sugar[0].Quantity)
		assert.Equal(t, []string{"R1 title", "R2 title"}, sugar[0].Recipes)
	})

	t.Run("PersistsAcrossReopen", func(t *testing.T) {
		again := env.open(t)
		assert.Len(t, again.Recipes(), 2)
		assert.True(t, again.IsFavorite(1))
		assert.Equal(t, 2, again.MealCount())
		assert.Len(t, again.History(history.FilterAll), 2)
		assert.True(t, again.DarkMode())
	})

	t.Run("Metrics", func(t *testing.T) {
		w := httptest.NewRecorder()
		rec.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
		body := w.Body.String()
		assert.Contains(t, body, "recipe_planner_planned_meals 2")
		assert.Contains(t, body, `recipe_planner_operations_total{operation="add_to_day",result="ok"} 2`)
	})
}

func TestAddToDayDuplicate(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)
	s := env.open(t)
	_, err := s.ImportRecipes(ctx, []recipe.Recipe{cake})
	require.NoError(t, err)
	require.NoError(t, s.AddToDay(ctx, "2024-01-01", 1, 2))

	err = s.AddToDay(ctx, "2024-01-01", 1, 6)
	assert.ErrorIs(t, err, planner.ErrDuplicateMeal)
	assert.Equal(t, 1, s.MealCount())

	again := env.open(t)
	meals := again.Week(time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC))[0].Meals
	require.Len(t, meals, 1)
	assert.Equal(t, 2, meals[0].PlannedServings)
}

func TestAddToDayValidation(t *testing.T) {
	ctx := context.Background()
	s := newEnv(t).open(t)
	assert.ErrorIs(t, s.AddToDay(ctx, "2024-01-01", 42, 2), ErrUnknownRecipe)

	_, err := s.ImportRecipes(ctx, []recipe.Recipe{cake})
	require.NoError(t, err)
	assert.Error(t, s.AddToDay(ctx, "Monday", 1, 2))
	assert.Equal(t, 0, s.MealCount())
}

func TestRemoveMeal(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)
	s := env.open(t)
	_, err := s.ImportRecipes(ctx, []recipe.Recipe{cake})
	require.NoError(t, err)
	require.NoError(t, s.AddToDay(ctx, "2024-01-01", 1, 2))

	removed, err := s.RemoveMeal(ctx, "2024-01-01", 7)
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = s.RemoveMeal(ctx, "2024-01-01", 1)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, 0, env.open(t).MealCount())
}

func TestToggleFavoriteHistory(t *testing.T) {
	ctx := context.Background()
	s := newEnv(t).open(t)
	_, err := s.ImportRecipes(ctx, []recipe.Recipe{cake})
	require.NoError(t, err)

	on, err := s.ToggleFavorite(ctx, 1)
	require.NoError(t, err)
	assert.True(t, on)
	off, err := s.ToggleFavorite(ctx, 1)
	require.NoError(t, err)
	assert.False(t, off)
	assert.Empty(t, s.Favorites())

	entries := s.History(history.FilterAll)
	require.Len(t, entries, 1)
	assert.Equal(t, []history.Action{history.Favorited}, entries[0].Actions)
}

func TestCheckedStateReconciles(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)
	s := env.open(t)
	_, err := s.ImportRecipes(ctx, []recipe.Recipe{cake, pie})
	require.NoError(t, err)
	require.NoError(t, s.AddToDay(ctx, "2024-01-01", 1, 2))
	require.NoError(t, s.AddToDay(ctx, "2024-01-02", 2, 2))

	key, checked, err := s.ToggleChecked(ctx, "Apples")
	require.NoError(t, err)
	assert.Equal(t, "apple", key)
	assert.True(t, checked)
	_, _, err = s.ToggleChecked(ctx, "sugar")
	require.NoError(t, err)

	_, err = s.RemoveMeal(ctx, "2024-01-02", 2)
	require.NoError(t, err)
	list, err := s.ShoppingList(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Len())

	assert.False(t, s.Checked().IsChecked("apple"))
	assert.True(t, s.Checked().IsChecked("sugar"))
	assert.Equal(t, 1, env.open(t).Checked().Count(), "reconciled state is saved")
}

func TestOpenWithCorruptSnapshots(t *testing.T) {
	env := newEnv(t)
	for _, name := range []string{"mealPlan", "history", "favorites", "shoppingChecked", "darkMode", "recipes"} {
		path := filepath.Join(env.dir, storage.DefaultKeyPrefix+name+".json")
		require.NoError(t, os.WriteFile(path, []byte("{oops"), 0644))
	}

	s := env.open(t)
	assert.Equal(t, 0, s.MealCount())
	assert.Empty(t, s.History(history.FilterAll))
	assert.Empty(t, s.Favorites())
	assert.Empty(t, s.Recipes())
	assert.False(t, s.DarkMode())

	list, err := s.ShoppingList(context.Background())
	require.NoError(t, err)
	assert.True(t, list.IsEmpty())
}

func TestLegacyHistorySnapshot(t *testing.T) {
	env := newEnv(t)
	legacy := `[{"recipe":{"id":5,"title":"Old soup"},"action":"viewed","timestamp":1704100000000}]`
	path := filepath.Join(env.dir, storage.DefaultKeyPrefix+"history.json")
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0644))

	s := env.open(t)
	entries := s.History(string(history.Viewed))
	require.Len(t, entries, 1)
	assert.Equal(t, "Old soup", entries[0].Recipe.Title)

	// Favoriting a recipe known only from history is not possible; it must be
	// in the catalog, favorites or plan.
	_, err := s.ToggleFavorite(context.Background(), 5)
	assert.ErrorIs(t, err, ErrUnknownRecipe)
}

func TestHistoryLimit(t *testing.T) {
	ctx := context.Background()
	s := newEnv(t).open(t, WithHistoryLimit(2))
	_, err := s.ImportRecipes(ctx, []recipe.Recipe{cake, pie, {ID: 3, Title: "Soup"}})
	require.NoError(t, err)
	for _, id := range []int{1, 2, 3} {
		_, err := s.ViewRecipe(ctx, id)
		require.NoError(t, err)
	}
	entries := s.History(history.FilterAll)
	require.Len(t, entries, 2)
	assert.Equal(t, 3, entries[0].Recipe.ID)
}

func TestWeek(t *testing.T) {
	ctx := context.Background()
	s := newEnv(t).open(t)
	_, err := s.ImportRecipes(ctx, []recipe.Recipe{cake})
	require.NoError(t, err)
	require.NoError(t, s.AddToDay(ctx, "2024-01-03", 1, 3))

	week := s.Week(time.Date(2024, 1, 3, 18, 0, 0, 0, time.UTC))
	require.Len(t, week, 7)
	assert.True(t, week[2].IsToday)
	require.Len(t, week[2].Meals, 1)
	assert.InDelta(t, 1.5, week[2].Meals[0].ScaleFactor(), 1e-9)
	assert.Empty(t, week[0].Meals)
}

func TestToggleCheckedResolvesKeys(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)
	s := env.open(t)
	molasses := recipe.Recipe{ID: 3, Title: "Gingerbread", Servings: 2, Ingredients: []recipe.Ingredient{
		{Name: "molasses", Amount: 0.5, Unit: "cup", Aisle: "Baking"},
	}}
	_, err := s.ImportRecipes(ctx, []recipe.Recipe{molasses})
	require.NoError(t, err)
	require.NoError(t, s.AddToDay(ctx, "2024-01-01", 3, 2))

	list, err := s.ShoppingList(ctx)
	require.NoError(t, err)
	itemKey := list.Items("Baking")[0].Key
	require.Equal(t, "molass", itemKey)

	key, on, err := s.ToggleChecked(ctx, itemKey)
	require.NoError(t, err)
	assert.Equal(t, itemKey, key)
	assert.True(t, on)
	assert.True(t, env.open(t).Checked().IsChecked(itemKey))

	_, _, err = s.ToggleChecked(ctx, "saffron")
	assert.ErrorIs(t, err, ErrUnknownItem)
	assert.Equal(t, 1, s.Checked().Count())
}

func TestCheckAllAndClear(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)
	s := env.open(t)
	_, err := s.ImportRecipes(ctx, []recipe.Recipe{cake, pie})
	require.NoError(t, err)
	require.NoError(t, s.AddToDay(ctx, "2024-01-01", 1, 2))
	require.NoError(t, s.AddToDay(ctx, "2024-01-02", 2, 4))
	_, _, err = s.ToggleChecked(ctx, "sugar")
	require.NoError(t, err)

	n, err := s.CheckAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	list, err := s.ShoppingList(ctx)
	require.NoError(t, err)
	assert.True(t, env.open(t).Checked().AllChecked(list))

	require.NoError(t, s.ClearChecked(ctx))
	assert.Equal(t, 0, s.Checked().Count())
	assert.Equal(t, 0, env.open(t).Checked().Count())
}

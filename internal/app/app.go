package app

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"go.uber.org/zap"

	"recipe-planner/internal/favorites"
	"recipe-planner/internal/history"
	"recipe-planner/internal/metrics"
	"recipe-planner/internal/planner"
	"recipe-planner/internal/recipe"
	"recipe-planner/internal/shopping"
	"recipe-planner/internal/storage"
)

// ErrUnknownRecipe is returned when an id is not in the catalog, favorites or
// meal plan.
var ErrUnknownRecipe = errors.New("unknown recipe")

// ErrUnknownItem is returned when a shopping item is not on the current list.
var ErrUnknownItem = errors.New("item not on the shopping list")

// Session holds one user's planning state. Every mutation saves the stores it
// changed before returning.
type Session struct {
	snaps    *storage.Snapshots
	recorder *metrics.Recorder
	logger   *zap.Logger
	now      func() time.Time

	historyLimit int

	catalog   *recipe.Catalog
	favorites *favorites.Store
	plan      *planner.Store
	history   *history.Store
	checked   shopping.CheckedState
	darkMode  bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r *metrics.Recorder) Option {
	return func(s *Session) { s.recorder = r }
}

// WithClock replaces time.Now for history timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithHistoryLimit caps the history length.
func WithHistoryLimit(n int) Option {
	return func(s *Session) { s.historyLimit = n }
}

// Open loads every store from snaps. Missing or unreadable snapshots start
// empty.
func Open(ctx context.Context, snaps *storage.Snapshots, opts ...Option) (*Session, error) {
	s := &Session{
		snaps:        snaps,
		logger:       zap.NewNop(),
		now:          time.Now,
		historyLimit: history.DefaultLimit,
	}
	for _, opt := range opts {
		opt(s)
	}

	recipes, err := storage.Load[[]recipe.Recipe](ctx, snaps, storage.KeyRecipes, nil)
	if err != nil {
		return nil, err
	}
	favs, err := storage.Load[[]recipe.Recipe](ctx, snaps, storage.KeyFavorites, nil)
	if err != nil {
		return nil, err
	}
	plan, err := storage.Load(ctx, snaps, storage.KeyMealPlan, planner.MealPlan{})
	if err != nil {
		return nil, err
	}
	entries, err := storage.Load[[]history.Entry](ctx, snaps, storage.KeyHistory, nil)
	if err != nil {
		return nil, err
	}
	checked, err := storage.Load(ctx, snaps, storage.KeyShoppingChecked, shopping.CheckedState{})
	if err != nil {
		return nil, err
	}
	dark, err := storage.Load(ctx, snaps, storage.KeyDarkMode, false)
	if err != nil {
		return nil, err
	}
	if checked == nil {
		checked = shopping.CheckedState{}
	}

	s.catalog = recipe.NewCatalog(recipes)
	s.favorites = favorites.NewStore(favs)
	s.plan = planner.NewStore(plan)
	s.history = history.NewStore(entries, history.WithLimit(s.historyLimit), history.WithClock(s.now))
	s.checked = checked
	s.darkMode = dark

	s.recorder.SetPlannedMeals(s.plan.MealCount())
	s.logger.Debug("session opened",
		zap.Int("recipes", s.catalog.Count()),
		zap.Int("favorites", s.favorites.Len()),
		zap.Int("meals", s.plan.MealCount()),
		zap.Int("history", s.history.Len()),
	)
	return s, nil
}

// save writes the named stores, in order.
func (s *Session) save(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if err := s.snaps.Save(ctx, key, s.value(key)); err != nil {
			return fmt.Errorf("failed to save %s: %w", key, err)
		}
	}
	return nil
}

func (s *Session) value(key string) any {
	switch key {
	case storage.KeyRecipes:
		return s.catalog.List()
	case storage.KeyFavorites:
		return s.favorites.List()
	case storage.KeyMealPlan:
		return s.plan.Plan()
	case storage.KeyHistory:
		return s.history.Entries()
	case storage.KeyShoppingChecked:
		return s.checked
	case storage.KeyDarkMode:
		return s.darkMode
	}
	panic("app: unknown store " + key)
}

// lookup resolves id against the catalog, then favorites, then planned meals.
func (s *Session) lookup(id int) (recipe.Recipe, error) {
	if r, ok := s.catalog.Get(id); ok {
		return r, nil
	}
	for _, r := range s.favorites.List() {
		if r.ID == id {
			return r, nil
		}
	}
	plan := s.plan.Plan()
	for _, key := range plan.DateKeys() {
		for _, e := range plan[key] {
			if e.ID == id {
				return e.Recipe, nil
			}
		}
	}
	return recipe.Recipe{}, fmt.Errorf("%w: %d", ErrUnknownRecipe, id)
}

// ImportRecipes adds or replaces recipes in the catalog. Invalid recipes are
// skipped with a warning. It returns how many ids were new.
func (s *Session) ImportRecipes(ctx context.Context, recipes []recipe.Recipe) (int, error) {
	added := 0
	for _, r := range recipes {
		if err := r.Validate(); err != nil {
			s.logger.Warn("skipping invalid recipe", zap.Error(err))
			continue
		}
		if s.catalog.Add(r) {
			added++
		}
	}
	err := s.save(ctx, storage.KeyRecipes)
	s.recorder.Operation("import", err)
	if err != nil {
		return 0, err
	}
	s.logger.Info("recipes imported", zap.Int("received", len(recipes)), zap.Int("new", added), zap.Int("total", s.catalog.Count()))
	return added, nil
}

// ViewRecipe returns a recipe and records the view.
func (s *Session) ViewRecipe(ctx context.Context, id int) (recipe.Recipe, error) {
	r, err := s.lookup(id)
	if err != nil {
		return recipe.Recipe{}, err
	}
	s.history.Record(r, history.Viewed)
	err = s.save(ctx, storage.KeyHistory)
	s.recorder.Operation("view", err)
	return r, err
}

// ToggleFavorite flips the favorite state of a recipe and reports whether it
// is now a favorite. Adding a favorite is recorded in history.
func (s *Session) ToggleFavorite(ctx context.Context, id int) (bool, error) {
	r, err := s.lookup(id)
	if err != nil {
		return false, err
	}
	added := s.favorites.Toggle(r)
	keys := []string{storage.KeyFavorites}
	if added {
		s.history.Record(r, history.Favorited)
		keys = append(keys, storage.KeyHistory)
	}
	err = s.save(ctx, keys...)
	s.recorder.Operation("toggle_favorite", err)
	return added, err
}

// AddToDay plans a recipe on dateKey. A recipe already planned that day is
// rejected with planner.ErrDuplicateMeal and nothing is saved.
func (s *Session) AddToDay(ctx context.Context, dateKey string, id, servings int) error {
	if _, err := planner.ParseDateKey(dateKey); err != nil {
		return err
	}
	r, err := s.lookup(id)
	if err != nil {
		return err
	}
	if err := s.plan.AddToDay(dateKey, r, servings); err != nil {
		if errors.Is(err, planner.ErrDuplicateMeal) {
			s.recorder.Rejected("add_to_day")
		}
		return err
	}
	s.history.Record(r, history.Planned)
	err = s.save(ctx, storage.KeyMealPlan, storage.KeyHistory)
	s.recorder.Operation("add_to_day", err)
	s.recorder.SetPlannedMeals(s.plan.MealCount())
	return err
}

// RemoveMeal drops a recipe from dateKey. It reports whether anything was
// removed; nothing is saved otherwise.
func (s *Session) RemoveMeal(ctx context.Context, dateKey string, id int) (bool, error) {
	if !s.plan.RemoveFromDay(dateKey, id) {
		return false, nil
	}
	err := s.save(ctx, storage.KeyMealPlan)
	s.recorder.Operation("remove_meal", err)
	s.recorder.SetPlannedMeals(s.plan.MealCount())
	return true, err
}

// ToggleChecked flips the checked state of a shopping item. item may be an
// item key or a display name; it must be on the current list. It returns the
// resolved key and the new state.
func (s *Session) ToggleChecked(ctx context.Context, item string) (string, bool, error) {
	list, err := s.ShoppingList(ctx)
	if err != nil {
		return "", false, err
	}
	key, ok := list.Resolve(item)
	if !ok {
		s.recorder.Rejected("toggle_checked")
		return "", false, fmt.Errorf("%w: %q", ErrUnknownItem, item)
	}
	s.checked.Toggle(key)
	err = s.save(ctx, storage.KeyShoppingChecked)
	s.recorder.Operation("toggle_checked", err)
	return key, s.checked.IsChecked(key), err
}

// CheckAll ticks off every item on the current list and returns how many
// were newly checked.
func (s *Session) CheckAll(ctx context.Context) (int, error) {
	list, err := s.ShoppingList(ctx)
	if err != nil {
		return 0, err
	}
	n := s.checked.CheckAll(list)
	err = s.save(ctx, storage.KeyShoppingChecked)
	s.recorder.Operation("check_all", err)
	return n, err
}

// ClearChecked unchecks every shopping item.
func (s *Session) ClearChecked(ctx context.Context) error {
	s.checked.Clear()
	err := s.save(ctx, storage.KeyShoppingChecked)
	s.recorder.Operation("clear_checked", err)
	return err
}

// ClearHistory empties the history.
func (s *Session) ClearHistory(ctx context.Context) error {
	s.history.Clear()
	err := s.save(ctx, storage.KeyHistory)
	s.recorder.Operation("clear_history", err)
	return err
}

// SetDarkMode stores the display preference.
func (s *Session) SetDarkMode(ctx context.Context, on bool) error {
	s.darkMode = on
	return s.save(ctx, storage.KeyDarkMode)
}

// ShoppingList derives the list from the current meal plan and drops checked
// marks for items no longer on it, saving the checked state if that changed.
func (s *Session) ShoppingList(ctx context.Context) (shopping.List, error) {
	start := time.Now()
	list := shopping.Build(s.plan.Plan())
	s.recorder.ObserveShoppingBuild(time.Since(start))

	if s.checked.Reconcile(list) {
		if err := s.save(ctx, storage.KeyShoppingChecked); err != nil {
			return list, err
		}
	}
	return list, nil
}

// Checked returns a copy of the shopping checked state.
func (s *Session) Checked() shopping.CheckedState {
	return maps.Clone(s.checked)
}

// History returns the entries matching filter ("all" or an action), most
// recent first.
func (s *Session) History(filter string) []history.Entry {
	return slices.Collect(s.history.Filter(filter))
}

// Favorites returns the favorited recipes in the order they were added.
func (s *Session) Favorites() []recipe.Recipe {
	return s.favorites.List()
}

// IsFavorite reports whether id is favorited.
func (s *Session) IsFavorite(id int) bool {
	return s.favorites.IsFavorite(id)
}

// DayPlan is one day of the week view with its planned meals.
type DayPlan struct {
	planner.Day
	Meals []planner.Entry
}

// Week returns Monday..Sunday of the week containing today with the meals
// planned on each day.
func (s *Session) Week(today time.Time) []DayPlan {
	days := planner.Week(today)
	out := make([]DayPlan, len(days))
	for i, d := range days {
		out[i] = DayPlan{Day: d, Meals: s.plan.Entries(d.DateKey)}
	}
	return out
}

// MealCount returns the number of planned meals.
func (s *Session) MealCount() int {
	return s.plan.MealCount()
}

// DarkMode returns the stored display preference.
func (s *Session) DarkMode() bool {
	return s.darkMode
}

// Recipe returns a catalog recipe.
func (s *Session) Recipe(id int) (recipe.Recipe, bool) {
	return s.catalog.Get(id)
}

// Recipes lists the catalog sorted by id.
func (s *Session) Recipes() []recipe.Recipe {
	return s.catalog.List()
}

package planner

import (
	"errors"
	"slices"

	"recipe-planner/internal/recipe"
)

// Serving bounds for a planned entry.
const (
	MinServings = 1
	MaxServings = 99
)

// ErrDuplicateMeal is returned when a recipe is already planned for the day.
var ErrDuplicateMeal = errors.New("recipe already planned for this day")

// Entry is a recipe placed on a day, with the servings the user plans to
// cook. It serializes as the recipe fields plus the two serving counts.
type Entry struct {
	recipe.Recipe
	PlannedServings  int `json:"plannedServings"`
	OriginalServings int `json:"originalServings"`
}

// ScaleFactor is plannedServings / originalServings.
func (e Entry) ScaleFactor() float64 {
	if e.OriginalServings < 1 {
		return float64(e.PlannedServings)
	}
	return float64(e.PlannedServings) / float64(e.OriginalServings)
}

// MealPlan maps a date key (YYYY-MM-DD) to the entries planned that day.
// An empty day is a valid value and is kept.
type MealPlan map[string][]Entry

// DateKeys returns the plan's date keys in ascending order.
func (p MealPlan) DateKeys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Count returns the number of entries across all days.
func (p MealPlan) Count() int {
	n := 0
	for _, entries := range p {
		n += len(entries)
	}
	return n
}

// Clone copies the map and every day's slice.
func (p MealPlan) Clone() MealPlan {
	out := make(MealPlan, len(p))
	for k, entries := range p {
		out[k] = slices.Clone(entries)
	}
	return out
}

// Store owns the meal plan and enforces one entry per recipe per day.
type Store struct {
	plan MealPlan
}

// NewStore creates a Store seeded with a previously saved plan.
func NewStore(plan MealPlan) *Store {
	if plan == nil {
		return &Store{plan: MealPlan{}}
	}
	return &Store{plan: plan.Clone()}
}

// AddToDay appends r to dateKey with servings clamped to [1, 99]. It returns
// ErrDuplicateMeal, leaving the day untouched, when r is already planned there.
func (s *Store) AddToDay(dateKey string, r recipe.Recipe, servings int) error {
	entries := s.plan[dateKey]
	for _, e := range entries {
		if e.ID == r.ID {
			return ErrDuplicateMeal
		}
	}

	original := r.Servings
	if original < 1 {
		original = 1
	}
	s.plan[dateKey] = append(entries, Entry{
		Recipe:           r,
		PlannedServings:  ClampServings(servings),
		OriginalServings: original,
	})
	return nil
}

// RemoveFromDay drops the entry for recipeID on dateKey and reports whether
// one was removed. The date key stays in the plan even when emptied.
func (s *Store) RemoveFromDay(dateKey string, recipeID int) bool {
	entries, ok := s.plan[dateKey]
	if !ok {
		return false
	}
	kept := slices.DeleteFunc(slices.Clone(entries), func(e Entry) bool { return e.ID == recipeID })
	if len(kept) == len(entries) {
		return false
	}
	s.plan[dateKey] = kept
	return true
}

// MealCount returns the number of planned entries across all days.
func (s *Store) MealCount() int {
	return s.plan.Count()
}

// Entries returns a copy of the entries planned for dateKey.
func (s *Store) Entries(dateKey string) []Entry {
	return slices.Clone(s.plan[dateKey])
}

// Plan returns a copy of the whole plan, suitable for saving or building a
// shopping list.
func (s *Store) Plan() MealPlan {
	return s.plan.Clone()
}

// ClampServings bounds n to [MinServings, MaxServings].
func ClampServings(n int) int {
	return min(max(n, MinServings), MaxServings)
}

package history

import (
	"slices"
	"time"

	"recipe-planner/internal/recipe"
)

// Action is a kind of interaction tracked in history.
type Action string

const (
	Viewed    Action = "viewed"
	Favorited Action = "favorited"
	Planned   Action = "planned"
)

// FilterAll selects every entry in Store.Filter.
const FilterAll = "all"

// displayOrder is the order actions are listed in, independent of when they
// happened.
var displayOrder = []Action{Viewed, Favorited, Planned}

// ParseAction maps a string onto a known action.
func ParseAction(s string) (Action, bool) {
	a := Action(s)
	return a, slices.Contains(displayOrder, a)
}

// Entry is the merged history of one recipe.
type Entry struct {
	Recipe       recipe.Snapshot
	Actions      []Action
	Timestamps   map[Action]time.Time
	LastActivity time.Time
}

// Has reports whether action ever happened for this recipe.
func (e Entry) Has(action Action) bool {
	return slices.Contains(e.Actions, action)
}

// OrderedActions returns the entry's actions in display order: viewed,
// favorited, planned.
func (e Entry) OrderedActions() []Action {
	out := make([]Action, 0, len(e.Actions))
	for _, a := range displayOrder {
		if e.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

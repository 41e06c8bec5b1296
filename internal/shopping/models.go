package shopping

import "strings"

// Item is one consolidated purchase on the shopping list.
type Item struct {
	Key      string   `json:"id"`
	Name     string   `json:"name"`
	Quantity string   `json:"quantity"`
	Recipes  []string `json:"recipes"`
}

// AisleGroup holds the items of one aisle, sorted by name.
type AisleGroup struct {
	Aisle string `json:"aisle"`
	Items []Item `json:"items"`
}

// List is a shopping list grouped by aisle, aisles sorted by name. It is
// derived from a meal plan on demand and never persisted.
type List struct {
	Aisles []AisleGroup `json:"aisles"`
}

// Len returns the total number of items across all aisles.
func (l List) Len() int {
	n := 0
	for _, g := range l.Aisles {
		n += len(g.Items)
	}
	return n
}

// IsEmpty reports whether the list has no items.
func (l List) IsEmpty() bool {
	return l.Len() == 0
}

// Items returns the items filed under aisle, or nil.
func (l List) Items(aisle string) []Item {
	for _, g := range l.Aisles {
		if g.Aisle == aisle {
			return g.Items
		}
	}
	return nil
}

// Keys returns the set of item keys on the list.
func (l List) Keys() map[string]struct{} {
	keys := make(map[string]struct{}, l.Len())
	for _, g := range l.Aisles {
		for _, it := range g.Items {
			keys[it.Key] = struct{}{}
		}
	}
	return keys
}

// Resolve maps user input to an item key on the list. The input is tried as a
// key first, then normalized, then matched against display names ignoring
// case. Keys are not idempotent under Normalize ("molass"), so the exact key
// must win.
func (l List) Resolve(input string) (string, bool) {
	keys := l.Keys()
	if _, ok := keys[input]; ok {
		return input, true
	}
	if key := Normalize(input); key != input {
		if _, ok := keys[key]; ok {
			return key, true
		}
	}
	for _, g := range l.Aisles {
		for _, it := range g.Items {
			if strings.EqualFold(it.Name, strings.TrimSpace(input)) {
				return it.Key, true
			}
		}
	}
	return "", false
}

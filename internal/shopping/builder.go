package shopping

import (
	"cmp"
	"slices"
	"strings"

	"recipe-planner/internal/planner"
	"recipe-planner/internal/recipe"
)

type accumulator struct {
	name     string
	aisle    string
	measures []Measure
	recipes  []string
	seen     map[string]struct{}
}

// Build derives the shopping list for a meal plan. Every ingredient line of
// every planned entry lands in exactly one item; a recipe planned on two days
// contributes twice. Days are visited in ascending date order so the result
// does not depend on map iteration.
func Build(plan planner.MealPlan) List {
	byKey := make(map[string]*accumulator)
	var order []string

	for _, dateKey := range plan.DateKeys() {
		for _, entry := range plan[dateKey] {
			for _, ing := range entry.Ingredients {
				key := Normalize(keySource(ing))
				acc, ok := byKey[key]
				if !ok {
					acc = &accumulator{
						name:  ing.DisplayName(),
						aisle: ing.AisleOrDefault(),
						seen:  make(map[string]struct{}),
					}
					byKey[key] = acc
					order = append(order, key)
				}
				acc.measures = append(acc.measures, Measure{Amount: ing.Amount, Unit: ing.Unit})
				if _, dup := acc.seen[entry.Title]; !dup {
					acc.seen[entry.Title] = struct{}{}
					acc.recipes = append(acc.recipes, entry.Title)
				}
			}
		}
	}

	groups := make(map[string][]Item)
	var aisles []string
	for _, key := range order {
		acc := byKey[key]
		if _, ok := groups[acc.aisle]; !ok {
			aisles = append(aisles, acc.aisle)
		}
		groups[acc.aisle] = append(groups[acc.aisle], Item{
			Key:      key,
			Name:     acc.name,
			Quantity: Combine(acc.measures),
			Recipes:  acc.recipes,
		})
	}

	slices.Sort(aisles)
	list := List{Aisles: make([]AisleGroup, 0, len(aisles))}
	for _, aisle := range aisles {
		items := groups[aisle]
		slices.SortStableFunc(items, compareItems)
		list.Aisles = append(list.Aisles, AisleGroup{Aisle: aisle, Items: items})
	}
	return list
}

func keySource(ing recipe.Ingredient) string {
	if ing.Name != "" {
		return ing.Name
	}
	return ing.NameClean
}

// compareItems orders by name ignoring case, then by exact name.
func compareItems(a, b Item) int {
	return cmp.Or(
		strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)),
		strings.Compare(a.Name, b.Name),
	)
}

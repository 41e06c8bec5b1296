package recipe

import (
	"math"
	"strconv"
	"strings"
)

var vulgarFractions = map[rune]float64{
	'¼': 0.25, '½': 0.5, '¾': 0.75,
	'⅓': 1.0 / 3, '⅔': 2.0 / 3,
	'⅕': 0.2, '⅖': 0.4, '⅗': 0.6, '⅘': 0.8,
	'⅙': 1.0 / 6, '⅚': 5.0 / 6,
	'⅛': 0.125, '⅜': 0.375, '⅝': 0.625, '⅞': 0.875,
}

var knownUnits = map[string]struct{}{}

func init() {
	for _, u := range []string{
		"cup", "cups", "c",
		"tablespoon", "tablespoons", "tbsp", "tbsps", "tbs", "tbl",
		"teaspoon", "teaspoons", "tsp", "tsps",
		"g", "gram", "grams", "kg", "kilogram", "kilograms",
		"mg", "ml", "milliliter", "milliliters", "millilitre", "millilitres",
		"l", "liter", "liters", "litre", "litres",
		"oz", "ounce", "ounces", "lb", "lbs", "pound", "pounds",
		"pinch", "pinches", "dash", "dashes", "clove", "cloves",
		"can", "cans", "slice", "slices", "piece", "pieces",
		"bunch", "bunches", "handful", "handfuls", "package", "packages",
		"pkg", "stick", "sticks", "pint", "pints", "quart", "quarts",
		"serving", "servings", "sprig", "sprigs", "head", "heads",
	} {
		knownUnits[u] = struct{}{}
	}
}

// ParseIngredientLine splits free text such as "1 1/2 cups brown sugar, packed"
// into an Ingredient. Lines without a leading quantity keep a zero amount and
// an empty unit.
func ParseIngredientLine(line string) Ingredient {
	ing := Ingredient{Original: strings.TrimSpace(line)}
	tokens := strings.Fields(ing.Original)

	i := 0
	for i < len(tokens) {
		v, ok := parseQuantity(tokens[i])
		if !ok {
			break
		}
		ing.Amount += v
		i++
	}

	if i < len(tokens) && i > 0 {
		candidate := strings.ToLower(strings.TrimRight(tokens[i], ".,"))
		if _, ok := knownUnits[candidate]; ok {
			ing.Unit = candidate
			i++
		}
	}

	rest := tokens[i:]
	if len(rest) > 0 && strings.EqualFold(rest[0], "of") {
		rest = rest[1:]
	}
	name := strings.Join(rest, " ")
	if idx := strings.Index(name, ","); idx >= 0 {
		name = name[:idx]
	}
	name = strings.TrimSpace(name)
	ing.Name = name
	ing.NameClean = strings.ToLower(name)
	return ing
}

// parseQuantity understands "2", "0.5", "1/2", "½", "1½" and ranges like
// "2-3" (the lower bound is kept).
func parseQuantity(tok string) (float64, bool) {
	if tok == "" {
		return 0, false
	}
	if idx := strings.IndexAny(tok, "-–"); idx > 0 {
		tok = tok[:idx]
	}

	runes := []rune(tok)
	last := runes[len(runes)-1]
	if frac, ok := vulgarFractions[last]; ok {
		if len(runes) == 1 {
			return frac, true
		}
		whole, err := strconv.ParseFloat(string(runes[:len(runes)-1]), 64)
		if err != nil {
			return 0, false
		}
		return whole + frac, true
	}

	if num, den, ok := strings.Cut(tok, "/"); ok {
		n, err1 := strconv.ParseFloat(num, 64)
		d, err2 := strconv.ParseFloat(den, 64)
		if err1 != nil || err2 != nil || d == 0 {
			return 0, false
		}
		return n / d, true
	}

	v, err := strconv.ParseFloat(tok, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

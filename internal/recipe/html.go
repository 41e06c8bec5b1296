package recipe

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoRecipe is returned when a page carries no schema.org Recipe.
var ErrNoRecipe = errors.New("no schema.org recipe found")

// ImportHTML extracts the first schema.org Recipe published as JSON-LD in a
// saved recipe page. The page carries no provider id, so the caller supplies it.
func ImportHTML(r io.Reader, id int) (Recipe, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Recipe{}, fmt.Errorf("failed to parse html: %w", err)
	}

	var found map[string]any
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var payload any
		if err := json.Unmarshal([]byte(s.Text()), &payload); err != nil {
			return true
		}
		found = findRecipeNode(payload)
		return found == nil
	})
	if found == nil {
		return Recipe{}, ErrNoRecipe
	}

	rec := Recipe{
		ID:             id,
		Title:          strings.TrimSpace(stringField(found["name"])),
		Image:          imageURL(found["image"]),
		Servings:       parseYield(found["recipeYield"]),
		ReadyInMinutes: parseISODuration(stringField(found["totalTime"])),
		SourceURL:      stringField(found["url"]),
	}
	if rec.ReadyInMinutes == 0 {
		rec.ReadyInMinutes = parseISODuration(stringField(found["prepTime"])) +
			parseISODuration(stringField(found["cookTime"]))
	}
	if lines, ok := found["recipeIngredient"].([]any); ok {
		for _, l := range lines {
			if text := stringField(l); text != "" {
				rec.Ingredients = append(rec.Ingredients, ParseIngredientLine(text))
			}
		}
	}

	if err := rec.Validate(); err != nil {
		return Recipe{}, err
	}
	return rec, nil
}

func findRecipeNode(node any) map[string]any {
	switch v := node.(type) {
	case []any:
		for _, item := range v {
			if found := findRecipeNode(item); found != nil {
				return found
			}
		}
	case map[string]any:
		if isRecipeType(v["@type"]) {
			return v
		}
		if graph, ok := v["@graph"]; ok {
			return findRecipeNode(graph)
		}
	}
	return nil
}

func isRecipeType(t any) bool {
	switch v := t.(type) {
	case string:
		return v == "Recipe"
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == "Recipe" {
				return true
			}
		}
	}
	return false
}

func stringField(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	return ""
}

func imageURL(v any) string {
	switch img := v.(type) {
	case string:
		return img
	case []any:
		if len(img) > 0 {
			return imageURL(img[0])
		}
	case map[string]any:
		return stringField(img["url"])
	}
	return ""
}

var leadingInt = regexp.MustCompile(`\d+`)

func parseYield(v any) int {
	switch y := v.(type) {
	case float64:
		return int(y)
	case string:
		if m := leadingInt.FindString(y); m != "" {
			n, _ := strconv.Atoi(m)
			return n
		}
	case []any:
		for _, item := range y {
			if n := parseYield(item); n > 0 {
				return n
			}
		}
	}
	return 0
}

var isoDuration = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// parseISODuration converts durations like "PT1H30M" to whole minutes.
func parseISODuration(s string) int {
	m := isoDuration.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0
	}
	atoi := func(x string) int {
		n, _ := strconv.Atoi(x)
		return n
	}
	return atoi(m[1])*24*60 + atoi(m[2])*60 + atoi(m[3])
}

package recipe

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// providerResponse is the envelope the random-recipes endpoint returns.
type providerResponse struct {
	Recipes []Recipe `json:"recipes"`
}

// DecodeResult holds the recipes that passed validation and the reasons the
// rest were skipped.
type DecodeResult struct {
	Recipes []Recipe
	Skipped []error
}

// DecodeProviderJSON parses a provider payload. It accepts the
// {"recipes": [...]} envelope, a bare array, or a single recipe object.
func DecodeProviderJSON(data []byte) (DecodeResult, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return DecodeResult{}, fmt.Errorf("failed to decode recipes: empty payload")
	}

	var candidates []Recipe
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &candidates); err != nil {
			return DecodeResult{}, fmt.Errorf("failed to decode recipe array: %w", err)
		}
	case '{':
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &probe); err != nil {
			return DecodeResult{}, fmt.Errorf("failed to decode recipe payload: %w", err)
		}
		if _, ok := probe["recipes"]; ok {
			var resp providerResponse
			if err := json.Unmarshal(trimmed, &resp); err != nil {
				return DecodeResult{}, fmt.Errorf("failed to decode recipes envelope: %w", err)
			}
			candidates = resp.Recipes
		} else {
			var single Recipe
			if err := json.Unmarshal(trimmed, &single); err != nil {
				return DecodeResult{}, fmt.Errorf("failed to decode recipe: %w", err)
			}
			candidates = []Recipe{single}
		}
	default:
		return DecodeResult{}, fmt.Errorf("failed to decode recipes: unexpected payload starting with %q", trimmed[0])
	}

	var result DecodeResult
	for _, r := range candidates {
		if err := r.Validate(); err != nil {
			result.Skipped = append(result.Skipped, err)
			continue
		}
		result.Recipes = append(result.Recipes, r)
	}
	return result, nil
}

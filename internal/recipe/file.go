package recipe

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Importable reports whether path has an extension ReadFile understands.
func Importable(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".html", ".htm":
		return true
	}
	return false
}

// ReadFile loads recipes from a provider JSON dump or a saved recipe page.
// Pages carry no provider id, so the file name must start with one, as in
// "716429-lemon-cake.html".
func ReadFile(path string) (DecodeResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DecodeResult{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return DecodeProviderJSON(data)
	case ".html", ".htm":
		id, err := IDFromFilename(path)
		if err != nil {
			return DecodeResult{}, err
		}
		r, err := ImportHTML(bytes.NewReader(data), id)
		if err != nil {
			return DecodeResult{}, fmt.Errorf("failed to import %s: %w", path, err)
		}
		return DecodeResult{Recipes: []Recipe{r}}, nil
	default:
		return DecodeResult{}, fmt.Errorf("unsupported recipe file %s", path)
	}
}

// IDFromFilename parses the leading integer of a file's base name, up to the
// first '-', '_' or '.'.
func IDFromFilename(path string) (int, error) {
	base := filepath.Base(path)
	end := strings.IndexAny(base, "-_.")
	if end < 0 {
		end = len(base)
	}
	id, err := strconv.Atoi(base[:end])
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("file name %q does not start with a recipe id", base)
	}
	return id, nil
}

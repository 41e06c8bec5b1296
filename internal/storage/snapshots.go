package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Stable storage names of the persisted stores.
const (
	KeyFavorites       = "favorites"
	KeyMealPlan        = "mealPlan"
	KeyHistory         = "history"
	KeyShoppingChecked = "shoppingChecked"
	KeyDarkMode        = "darkMode"
	KeyRecipes         = "recipes"
)

// DefaultKeyPrefix namespaces every stored key.
const DefaultKeyPrefix = "recipeApp_"

// Snapshots reads and writes whole-store JSON values through a Backend.
type Snapshots struct {
	backend Backend
	prefix  string
	logger  *zap.Logger
}

// NewSnapshots creates a Snapshots over backend. Keys are stored as
// prefix+name.
func NewSnapshots(backend Backend, prefix string, logger *zap.Logger) *Snapshots {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Snapshots{backend: backend, prefix: prefix, logger: logger}
}

// Backend returns the underlying backend.
func (s *Snapshots) Backend() Backend {
	return s.backend
}

// Save serializes v and writes it under name.
func (s *Snapshots) Save(ctx context.Context, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	if err := s.backend.Put(ctx, s.prefix+name, data); err != nil {
		return err
	}
	s.logger.Debug("snapshot saved", zap.String("key", s.prefix+name), zap.Int("bytes", len(data)))
	return nil
}

// Load reads the value stored under name. A missing value yields def. A value
// that cannot be decoded also yields def and is logged; it is overwritten on
// the next Save. Only backend failures are returned as errors.
func Load[T any](ctx context.Context, s *Snapshots, name string, def T) (T, error) {
	key := s.prefix + name
	data, err := s.backend.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return def, nil
	}
	if err != nil {
		return def, fmt.Errorf("failed to load %s: %w", name, err)
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		s.logger.Warn("discarding unreadable snapshot", zap.String("key", key), zap.Error(err))
		return def, nil
	}
	return v, nil
}

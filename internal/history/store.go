package history

import (
	"iter"
	"maps"
	"slices"
	"time"

	"recipe-planner/internal/recipe"
)

// DefaultLimit is the number of entries kept when no limit is configured.
const DefaultLimit = 100

// Store is the recency-ordered interaction log, one entry per recipe, most
// recently active first.
type Store struct {
	entries []Entry
	limit   int
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLimit caps the number of entries kept. Values below 1 are ignored.
func WithLimit(n int) Option {
	return func(s *Store) {
		if n >= 1 {
			s.limit = n
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore builds a store from previously saved entries. Duplicate recipes are
// merged into their most recent entry, then the order and cap are restored.
func NewStore(saved []Entry, opts ...Option) *Store {
	s := &Store{limit: DefaultLimit, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	byID := make(map[int]int, len(saved))
	for _, e := range saved {
		if i, ok := byID[e.Recipe.ID]; ok {
			if e.LastActivity.After(s.entries[i].LastActivity) {
				s.entries[i] = e
			}
			continue
		}
		byID[e.Recipe.ID] = len(s.entries)
		s.entries = append(s.entries, e)
	}
	s.sortAndCap()
	return s
}

// Record merges action into the recipe's entry, creating it if needed, and
// moves the entry to the front. Unknown actions are ignored and reported as
// false.
func (s *Store) Record(r recipe.Recipe, action Action) bool {
	if _, ok := ParseAction(string(action)); !ok {
		return false
	}
	now := s.now()

	entry := Entry{Recipe: r.Snapshot(), Timestamps: map[Action]time.Time{}}
	if i := s.index(r.ID); i >= 0 {
		entry = s.entries[i]
		entry.Recipe = r.Snapshot()
		entry.Actions = slices.Clone(entry.Actions)
		entry.Timestamps = maps.Clone(entry.Timestamps)
		if entry.Timestamps == nil {
			entry.Timestamps = map[Action]time.Time{}
		}
		s.entries = slices.Delete(s.entries, i, i+1)
	}
	if !entry.Has(action) {
		entry.Actions = append(entry.Actions, action)
	}
	entry.Timestamps[action] = now
	entry.LastActivity = now

	s.entries = slices.Insert(s.entries, 0, entry)
	s.sortAndCap()
	return true
}

// Clear removes every entry.
func (s *Store) Clear() {
	s.entries = nil
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Entries returns the entries, most recent first.
func (s *Store) Entries() []Entry {
	return slices.Clone(s.entries)
}

// Filter yields the entries that include action, in recency order. FilterAll
// yields every entry; an unknown filter yields nothing.
func (s *Store) Filter(filter string) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		action, known := ParseAction(filter)
		if filter != FilterAll && !known {
			return
		}
		for _, e := range s.entries {
			if filter != FilterAll && !e.Has(action) {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

func (s *Store) index(id int) int {
	return slices.IndexFunc(s.entries, func(e Entry) bool { return e.Recipe.ID == id })
}

// sortAndCap orders by lastActivity descending, keeping the current order for
// ties, and drops the least recent entries beyond the limit.
func (s *Store) sortAndCap() {
	slices.SortStableFunc(s.entries, func(a, b Entry) int {
		return b.LastActivity.Compare(a.LastActivity)
	})
	if len(s.entries) > s.limit {
		s.entries = slices.Clip(s.entries[:s.limit])
	}
}

package history

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"recipe-planner/internal/recipe"
)

// millis is a time stored as Unix milliseconds. Older snapshots wrote RFC 3339
// strings, which are still accepted.
type millis time.Time

func (m millis) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, time.Time(m).UnixMilli(), 10), nil
}

func (m *millis) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*m = millis{}
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("invalid timestamp %q: %w", s, err)
		}
		*m = millis(t)
		return nil
	default:
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("invalid timestamp %s: %w", data, err)
		}
		*m = millis(time.UnixMilli(int64(f)))
		return nil
	}
}

// record is one stored history entry in any of its schema versions.
type record interface {
	upgrade() Entry
}

// recordV1 is the single-action shape written by early versions.
type recordV1 struct {
	Recipe    recipe.Snapshot `json:"recipe"`
	Action    string          `json:"action"`
	Timestamp millis          `json:"timestamp"`
}

func (r recordV1) upgrade() Entry {
	e := Entry{Recipe: r.Recipe, Timestamps: map[Action]time.Time{}, LastActivity: time.Time(r.Timestamp)}
	if a, ok := ParseAction(r.Action); ok {
		e.Actions = []Action{a}
		e.Timestamps[a] = e.LastActivity
	}
	return e
}

// recordV2 is the current shape.
type recordV2 struct {
	Recipe       recipe.Snapshot   `json:"recipe"`
	Actions      []string          `json:"actions"`
	Timestamps   map[string]millis `json:"timestamps"`
	LastActivity millis            `json:"lastActivity"`
}

func (r recordV2) upgrade() Entry {
	e := Entry{Recipe: r.Recipe, Timestamps: map[Action]time.Time{}, LastActivity: time.Time(r.LastActivity)}
	for _, s := range r.Actions {
		a, ok := ParseAction(s)
		if !ok || e.Has(a) {
			continue
		}
		e.Actions = append(e.Actions, a)
		if ts, ok := r.Timestamps[s]; ok {
			e.Timestamps[a] = time.Time(ts)
		}
	}
	for _, ts := range e.Timestamps {
		if ts.After(e.LastActivity) {
			e.LastActivity = ts
		}
	}
	return e
}

// decodeRecord picks the schema version from the fields present.
func decodeRecord(data []byte) (record, error) {
	var probe struct {
		Actions json.RawMessage `json:"actions"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}
	if probe.Actions != nil {
		var r recordV2
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("failed to decode history entry: %w", err)
		}
		return r, nil
	}
	var r recordV1
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode legacy history entry: %w", err)
	}
	return r, nil
}

// UnmarshalJSON reads either stored schema and upgrades it to Entry.
func (e *Entry) UnmarshalJSON(data []byte) error {
	r, err := decodeRecord(data)
	if err != nil {
		return err
	}
	*e = r.upgrade()
	return nil
}

// MarshalJSON always writes the current schema.
func (e Entry) MarshalJSON() ([]byte, error) {
	r := recordV2{
		Recipe:       e.Recipe,
		Actions:      make([]string, 0, len(e.Actions)),
		Timestamps:   make(map[string]millis, len(e.Timestamps)),
		LastActivity: millis(e.LastActivity),
	}
	for _, a := range e.Actions {
		r.Actions = append(r.Actions, string(a))
	}
	for a, ts := range e.Timestamps {
		r.Timestamps[string(a)] = millis(ts)
	}
	return json.Marshal(r)
}

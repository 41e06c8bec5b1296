package shopping

// CheckedState records which shopping items the user has ticked off, keyed by
// item key. It is persisted on its own and survives list rebuilds.
type CheckedState map[string]bool

// Toggle flips the checked flag for key.
func (c CheckedState) Toggle(key string) {
	if c[key] {
		delete(c, key)
		return
	}
	c[key] = true
}

// IsChecked reports whether key is ticked off.
func (c CheckedState) IsChecked(key string) bool {
	return c[key]
}

// Count returns the number of checked keys.
func (c CheckedState) Count() int {
	n := 0
	for _, v := range c {
		if v {
			n++
		}
	}
	return n
}

// Reconcile drops every key that is no longer on list, along with explicit
// false entries, and reports whether anything was removed.
func (c CheckedState) Reconcile(list List) bool {
	keys := list.Keys()
	changed := false
	for k, v := range c {
		if _, ok := keys[k]; ok && v {
			continue
		}
		delete(c, k)
		changed = true
	}
	return changed
}

// AllChecked reports whether a non-empty list has every item ticked off.
func (c CheckedState) AllChecked(list List) bool {
	if list.IsEmpty() {
		return false
	}
	for _, g := range list.Aisles {
		for _, it := range g.Items {
			if !c[it.Key] {
				return false
			}
		}
	}
	return true
}

// CheckAll ticks off every item on list and returns how many were newly
// checked.
func (c CheckedState) CheckAll(list List) int {
	n := 0
	for _, g := range list.Aisles {
		for _, it := range g.Items {
			if !c[it.Key] {
				c[it.Key] = true
				n++
			}
		}
	}
	return n
}

// Clear unchecks everything.
func (c CheckedState) Clear() {
	clear(c)
}

package model

import (
	"github.com/elliotchance/orderedmap/v2"
)

// Attributes is the ordered multi-map from attribute key to its ordered
// list of values. Key insertion order is preserved so that emission can
// round-trip the input's column-9 layout.
type Attributes struct {
	m *orderedmap.OrderedMap[string, []string]
}

// NewAttributes returns an empty, ready-to-use Attributes.
func NewAttributes() *Attributes {
	return &Attributes{m: orderedmap.NewOrderedMap[string, []string]()}
}

// Keys returns attribute keys in insertion order.
func (a *Attributes) Keys() []string {
	if a == nil || a.m == nil {
		return nil
	}
	return a.m.Keys()
}

// Get returns the value list for key, or nil if absent.
func (a *Attributes) Get(key string) []string {
	if a == nil || a.m == nil {
		return nil
	}
	v, ok := a.m.Get(key)
	if !ok {
		return nil
	}
	return v
}

// Has reports whether key has at least one value.
func (a *Attributes) Has(key string) bool {
	return len(a.Get(key)) > 0
}

// First returns the first value for key and whether it exists.
func (a *Attributes) First(key string) (string, bool) {
	v := a.Get(key)
	if len(v) == 0 {
		return "", false
	}
	return v[0], true
}

// Set replaces the value list for key, inserting the key at the end of
// the order if it is new.
func (a *Attributes) Set(key string, values []string) {
	if a.m == nil {
		a.m = orderedmap.NewOrderedMap[string, []string]()
	}
	if len(values) == 0 {
		a.m.Delete(key)
		return
	}
	a.m.Set(key, values)
}

// Append adds a single value to key's list, creating the key if needed.
func (a *Attributes) Append(key, value string) {
	a.Set(key, append(a.Get(key), value))
}

// Delete removes key and all of its values. A key with an empty value list
// is considered absent, per the invariant that a key with no values does
// not exist.
func (a *Attributes) Delete(key string) {
	if a.m != nil {
		a.m.Delete(key)
	}
}

// Len returns the number of distinct keys.
func (a *Attributes) Len() int {
	if a == nil || a.m == nil {
		return 0
	}
	return a.m.Len()
}

// Union merges other's values into a, de-duplicating per key while
// preserving a's existing values first, then other's new values in their
// original order. Used by the merge collision policy.
func (a *Attributes) Union(other *Attributes) {
	if other == nil {
		return
	}
	for _, k := range other.Keys() {
		existing := a.Get(k)
		seen := make(map[string]bool, len(existing))
		merged := make([]string, 0, len(existing))
		for _, v := range existing {
			if !seen[v] {
				seen[v] = true
				merged = append(merged, v)
			}
		}
		for _, v := range other.Get(k) {
			if !seen[v] {
				seen[v] = true
				merged = append(merged, v)
			}
		}
		a.Set(k, merged)
	}
}

// Clone returns a deep copy of a.
func (a *Attributes) Clone() *Attributes {
	out := NewAttributes()
	if a == nil {
		return out
	}
	for _, k := range a.Keys() {
		v := a.Get(k)
		cp := make([]string, len(v))
		copy(cp, v)
		out.Set(k, cp)
	}
	return out
}

// AsMap renders the attribute set as a plain map of string slices, for
// JSON marshalling into the store's attributes column. Key order is not
// preserved by a Go map; callers that need order should iterate Keys()
// directly.
func (a *Attributes) AsMap() map[string][]string {
	out := make(map[string][]string, a.Len())
	for _, k := range a.Keys() {
		out[k] = a.Get(k)
	}
	return out
}

// AttributesFromMap rebuilds an Attributes from a JSON-decoded map and an
// explicit key order (the dialect's recorded Order, falling back to
// whatever iteration order the map gives when order is empty or stale).
func AttributesFromMap(m map[string][]string, order []string) *Attributes {
	a := NewAttributes()
	seen := make(map[string]bool, len(order))
	for _, k := range order {
		if v, ok := m[k]; ok {
			a.Set(k, v)
			seen[k] = true
		}
	}
	for k, v := range m {
		if !seen[k] {
			a.Set(k, v)
		}
	}
	return a
}

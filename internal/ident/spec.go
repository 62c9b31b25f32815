// Package ident implements the ID synthesiser: resolving a feature's
// primary key from a user-supplied id_spec, falling back to per-type
// auto-increment counters.
package ident

import (
	"fmt"
	"strings"

	"github.com/gffarchive/gffarchive/internal/model"
)

// Resolver func(f) -> candidate. An empty return means "fall through to
// auto-increment"; a value prefixed "autoincrement:" requests a counter
// under the named key; anything else is used verbatim as the id.
type Resolver func(f *model.Feature) string

// AutoincrementPrefix marks a Resolver result that requests a named
// counter instead of a literal id.
const AutoincrementPrefix = "autoincrement:"

// Spec is the tagged variant of id_spec: exactly one field is set.
type Spec struct {
	Scalar   string
	Keys     []string
	ByType   map[string]*Spec
	Callable Resolver
}

// ScalarSpec builds a single-key Spec.
func ScalarSpec(key string) *Spec { return &Spec{Scalar: key} }

// KeysSpec builds a sequence Spec that tries each key in order.
func KeysSpec(keys ...string) *Spec { return &Spec{Keys: keys} }

// ByTypeSpec builds a feature-type dispatch Spec.
func ByTypeSpec(m map[string]*Spec) *Spec { return &Spec{ByType: m} }

// CallableSpec builds a function-backed Spec.
func CallableSpec(fn Resolver) *Spec { return &Spec{Callable: fn} }

// FromKey builds the Spec for a single configured id_spec key, the shape
// a config file or CLI flag can express directly. An empty key means
// "no id_spec": every feature falls through to auto-increment.
func FromKey(key string) *Spec {
	if key == "" {
		return nil
	}
	return ScalarSpec(key)
}

// Counters is the stateful per-key auto-increment allocator backing the
// fallback path and create_unique collision policy. It is write-through:
// callers persist Snapshot() to the store's autoincrements table at
// finalisation.
type Counters struct {
	next map[string]int
}

func NewCounters() *Counters { return &Counters{next: make(map[string]int)} }

// LoadCounters seeds a Counters from a persisted key->n mapping, such as
// the one Store.LoadCounters returns.
func LoadCounters(seed map[string]int) *Counters {
	c := NewCounters()
	for k, v := range seed {
		c.next[k] = v
	}
	return c
}

// Increment bumps key's counter and returns "<key>_<n>".
func (c *Counters) Increment(key string) string {
	c.next[key]++
	return fmt.Sprintf("%s_%d", key, c.next[key])
}

// Snapshot returns the current key->n mapping for persistence.
func (c *Counters) Snapshot() map[string]int {
	out := make(map[string]int, len(c.next))
	for k, v := range c.next {
		out[k] = v
	}
	return out
}

// sentinelFields maps a ":field:" candidate key to a column accessor.
var sentinelFields = map[string]func(*model.Feature) (string, bool){
	":seqid:":       func(f *model.Feature) (string, bool) { return f.Seqid, true },
	":start:":       func(f *model.Feature) (string, bool) { return f.Start.String(), true },
	":end:":         func(f *model.Feature) (string, bool) { return f.End.String(), true },
	":strand:":      func(f *model.Feature) (string, bool) { return f.Strand, true },
	":source:":      func(f *model.Feature) (string, bool) { return f.Source, true },
	":featuretype:": func(f *model.Feature) (string, bool) { return f.FeatureType, true },
	":score:":       func(f *model.Feature) (string, bool) { return f.Score, true },
	":frame:":       func(f *model.Feature) (string, bool) { return f.Frame, true },
}

// Resolve computes f's id per spec, mutating counters as needed. A nil
// spec falls straight through to auto-increment on feature type.
func Resolve(f *model.Feature, spec *Spec, counters *Counters) string {
	if spec == nil {
		return counters.Increment(f.FeatureType)
	}

	switch {
	case spec.Callable != nil:
		v := spec.Callable(f)
		if v == "" {
			return counters.Increment(f.FeatureType)
		}
		if strings.HasPrefix(v, AutoincrementPrefix) {
			return counters.Increment(strings.TrimPrefix(v, AutoincrementPrefix))
		}
		return v

	case spec.ByType != nil:
		sub, ok := spec.ByType[f.FeatureType]
		if !ok {
			return counters.Increment(f.FeatureType)
		}
		return Resolve(f, sub, counters)

	case len(spec.Keys) > 0:
		for _, k := range spec.Keys {
			if v, ok := resolveCandidate(f, k); ok {
				return v
			}
		}
		return counters.Increment(f.FeatureType)

	case spec.Scalar != "":
		if v, ok := resolveCandidate(f, spec.Scalar); ok {
			return v
		}
		return counters.Increment(f.FeatureType)
	}

	return counters.Increment(f.FeatureType)
}

// resolveCandidate resolves one key against sentinel fields or the
// attribute map. For attributes, an empty value list removes the key (it
// is no longer considered present for future lookups) and the candidate
// is skipped; a non-empty list returns its first value.
func resolveCandidate(f *model.Feature, key string) (string, bool) {
	if len(key) > 2 && strings.HasPrefix(key, ":") && strings.HasSuffix(key, ":") {
		if accessor, ok := sentinelFields[key]; ok {
			return accessor(f)
		}
	}
	v := f.Attributes.Get(key)
	if len(v) == 0 {
		f.Attributes.Delete(key)
		return "", false
	}
	return v[0], true
}

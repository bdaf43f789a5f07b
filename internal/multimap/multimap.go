// Package multimap provides an immutable, insertion-ordered multimap from
// string keys to string values.
//
// Unlike a plain map[string][]string, a Multimap keeps "key present with no
// values" distinct from "key absent". The bundle relies on that to emit an
// explicit empty dependency list for every component it has seen.
package multimap

import (
	"maps"
	"slices"
)

// Multimap is a value type. Every mutating method returns a new snapshot and
// leaves the receiver untouched, so earlier snapshots stay valid.
// The zero value is an empty multimap.
type Multimap struct {
	keys   []string
	values map[string][]string
}

// Touch returns a snapshot in which key is present, keeping its values if
// it already was.
func (m Multimap) Touch(key string) Multimap {
	if m.Has(key) {
		return m
	}
	return m.Append(key)
}

// Append returns a snapshot with vals added to the end of key's bucket.
// The key becomes present even when vals is empty.
func (m Multimap) Append(key string, vals ...string) Multimap {
	next := Multimap{
		keys:   m.keys,
		values: maps.Clone(m.values),
	}
	if next.values == nil {
		next.values = make(map[string][]string)
	}
	old, ok := next.values[key]
	if !ok {
		next.keys = append(slices.Clip(m.keys), key)
	}
	bucket := make([]string, 0, len(old)+len(vals))
	bucket = append(bucket, old...)
	next.values[key] = append(bucket, vals...)
	return next
}

// Get returns key's values and whether the key is present.
func (m Multimap) Get(key string) ([]string, bool) {
	vals, ok := m.values[key]
	return slices.Clone(vals), ok
}

// Has reports whether key is present.
func (m Multimap) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Keys returns the keys in insertion order.
func (m Multimap) Keys() []string {
	return slices.Clone(m.keys)
}

// Len returns the number of keys.
func (m Multimap) Len() int {
	return len(m.keys)
}

// Normalize returns a snapshot whose keys are sorted and whose buckets are
// sorted sets. It is idempotent.
func (m Multimap) Normalize() Multimap {
	next := Multimap{
		keys:   slices.Sorted(slices.Values(m.keys)),
		values: make(map[string][]string, len(m.values)),
	}
	for k, vals := range m.values {
		next.values[k] = SortedSet(vals)
	}
	return next
}

// SortedSet returns the sorted unique elements of vals. The result is never
// nil.
func SortedSet(vals []string) []string {
	out := append([]string{}, vals...)
	slices.Sort(out)
	return slices.Compact(out)
}

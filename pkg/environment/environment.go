// Package environment provides the insertion-ordered environment map passed
// to container launch requests, and the Provider interface implemented by
// each scoped value source.
package environment

import (
	"context"
	"fmt"
)

// Map is an insertion-ordered mapping from canonical environment variable
// name to string value. Setting an existing key overwrites its value but
// keeps its original position; merges are last-write-wins per key. The zero
// value is an empty map ready to use.
//
// A Map is built fresh per launch request and is not safe for concurrent
// use; each run owns its own map.
type Map struct {
	keys   []string
	values map[string]string
}

// NewMap creates an empty environment map.
func NewMap() *Map {
	return &Map{values: make(map[string]string)}
}

// FromPairs creates a map from alternating key, value arguments. A trailing
// key without a value is ignored.
func FromPairs(pairs ...string) *Map {
	m := NewMap()
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(pairs[i], pairs[i+1])
	}
	return m
}

// Set stores a value under the given name. A repeated name overwrites the
// previous value and retains the first insertion position.
func (m *Map) Set(name, value string) {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	if _, exists := m.values[name]; !exists {
		m.keys = append(m.keys, name)
	}
	m.values[name] = value
}

// Get returns the value for a name and whether it is present.
func (m *Map) Get(name string) (string, bool) {
	value, ok := m.values[name]
	return value, ok
}

// Len returns the number of entries.
func (m *Map) Len() int {
	return len(m.keys)
}

// Keys returns the names in insertion order.
func (m *Map) Keys() []string {
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Merge copies every entry of other into m in other's insertion order.
// Entries in other win on name collision.
func (m *Map) Merge(other *Map) {
	if other == nil {
		return
	}
	for _, name := range other.keys {
		m.Set(name, other.values[name])
	}
}

// Clone returns an independent copy of the map.
func (m *Map) Clone() *Map {
	clone := NewMap()
	clone.Merge(m)
	return clone
}

// Environ renders the map as a NAME=value slice in insertion order, the form
// consumed by container runtimes.
func (m *Map) Environ() []string {
	environ := make([]string, 0, len(m.keys))
	for _, name := range m.keys {
		environ = append(environ, fmt.Sprintf("%s=%s", name, m.values[name]))
	}
	return environ
}

// Lookup adapts the map to the envname.Lookup signature so that build-phase
// output can be read back with the run-phase accessors without touching the
// real process environment.
func (m *Map) Lookup(name string) (string, bool) {
	value, ok := m.values[name]
	return value, ok
}

// Provider is a source of scoped environment entries. Each scope kind
// (connection, run context, named variable) has one implementation. A
// provider either resolves all of its entries or fails as a whole.
type Provider interface {
	Produce(ctx context.Context) (*Map, error)
}

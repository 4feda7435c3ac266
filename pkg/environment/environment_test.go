package environment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap_SetAndGet(t *testing.T) {
	m := NewMap()
	m.Set("A", "1")

	value, ok := m.Get("A")
	assert.True(t, ok)
	assert.Equal(t, "1", value)

	_, ok = m.Get("B")
	assert.False(t, ok)
}

func TestMap_InsertionOrder(t *testing.T) {
	m := NewMap()
	m.Set("C", "3")
	m.Set("A", "1")
	m.Set("B", "2")

	assert.Equal(t, []string{"C", "A", "B"}, m.Keys())
	assert.Equal(t, []string{"C=3", "A=1", "B=2"}, m.Environ())
}

func TestMap_OverwriteKeepsPosition(t *testing.T) {
	m := NewMap()
	m.Set("A", "1")
	m.Set("B", "2")
	m.Set("A", "override")

	assert.Equal(t, []string{"A", "B"}, m.Keys())
	value, _ := m.Get("A")
	assert.Equal(t, "override", value)
	assert.Equal(t, 2, m.Len())
}

func TestMap_Merge_LastWriteWins(t *testing.T) {
	a := FromPairs("X", "1")
	b := FromPairs("X", "2")

	a.Merge(b)

	value, _ := a.Get("X")
	assert.Equal(t, "2", value)
	assert.Equal(t, 1, a.Len())
}

func TestMap_Merge_PreservesOtherOrder(t *testing.T) {
	a := FromPairs("A", "1")
	b := FromPairs("B", "2", "C", "3")

	a.Merge(b)

	assert.Equal(t, []string{"A", "B", "C"}, a.Keys())
}

func TestMap_Merge_Nil(t *testing.T) {
	a := FromPairs("A", "1")
	a.Merge(nil)
	assert.Equal(t, 1, a.Len())
}

func TestMap_Clone_Independent(t *testing.T) {
	a := FromPairs("A", "1")
	b := a.Clone()
	b.Set("B", "2")
	b.Set("A", "changed")

	assert.Equal(t, 1, a.Len())
	value, _ := a.Get("A")
	assert.Equal(t, "1", value)
	assert.Equal(t, 2, b.Len())
}

func TestMap_ZeroValueUsable(t *testing.T) {
	var m Map
	m.Set("A", "1")

	value, ok := m.Get("A")
	assert.True(t, ok)
	assert.Equal(t, "1", value)
	assert.Equal(t, []string{"A=1"}, m.Environ())
}

func TestFromPairs_TrailingKeyIgnored(t *testing.T) {
	m := FromPairs("A", "1", "dangling")

	assert.Equal(t, 1, m.Len())
	_, ok := m.Get("dangling")
	assert.False(t, ok)
}

func TestMap_Lookup(t *testing.T) {
	m := FromPairs("A", "1")

	value, ok := m.Lookup("A")
	assert.True(t, ok)
	assert.Equal(t, "1", value)

	_, ok = m.Lookup("missing")
	assert.False(t, ok)
}

// staticProvider returns a fixed map; used to exercise the Provider contract.
type staticProvider struct {
	env *Map
}

func (p staticProvider) Produce(context.Context) (*Map, error) {
	return p.env, nil
}

func TestProvider_MergeOrderAcrossProviders(t *testing.T) {
	first := staticProvider{env: FromPairs("X", "1", "A", "a")}
	second := staticProvider{env: FromPairs("X", "2")}

	merged := NewMap()
	for _, p := range []Provider{first, second} {
		env, err := p.Produce(context.Background())
		require.NoError(t, err)
		merged.Merge(env)
	}

	value, _ := merged.Get("X")
	assert.Equal(t, "2", value)
	assert.Equal(t, []string{"X", "A"}, merged.Keys())
}

package ordered

import (
	"fmt"
	"slices"
	"strings"
)

// Map is an insertion-ordered key/value container that can be re-sorted in place.
// It is array backed; lookups are linear, which is fine for the handful of
// windows and applications a panel tracks.
type Map[K comparable, V any] struct {
	keys  []K
	items []V
}

// New creates a Map pre-populated with the given keys and items.
// Extra entries in the longer slice are ignored.
func New[K comparable, V any](keys []K, items []V) *Map[K, V] {
	n := min(len(keys), len(items))
	return &Map[K, V]{
		keys:  slices.Clone(keys[:n]),
		items: slices.Clone(items[:n]),
	}
}

func (m *Map[K, V]) index(key K) int {
	return slices.Index(m.keys, key)
}

// Set inserts or overwrites. An existing key keeps its position.
func (m *Map[K, V]) Set(key K, val V) V {
	if i := m.index(key); i >= 0 {
		m.items[i] = val
		return val
	}
	m.keys = append(m.keys, key)
	m.items = append(m.items, val)
	return val
}

// SetKeys adds the entry key: init(key) for every key.
func (m *Map[K, V]) SetKeys(keys []K, init func(K) V) {
	for _, k := range keys {
		m.Set(k, init(k))
	}
}

// Get returns the value for key and whether it was present.
func (m *Map[K, V]) Get(key K) (V, bool) {
	if i := m.index(key); i >= 0 {
		return m.items[i], true
	}
	var zero V
	return zero, false
}

// At returns the pair at position i.
func (m *Map[K, V]) At(i int) (K, V, bool) {
	if i < 0 || i >= len(m.keys) {
		var (
			k K
			v V
		)
		return k, v, false
	}
	return m.keys[i], m.items[i], true
}

func (m *Map[K, V]) Contains(key K) bool {
	return m.index(key) >= 0
}

// Remove deletes key and returns the value it held.
func (m *Map[K, V]) Remove(key K) (V, bool) {
	i := m.index(key)
	if i < 0 {
		var zero V
		return zero, false
	}
	val := m.items[i]
	m.keys = slices.Delete(m.keys, i, i+1)
	m.items = slices.Delete(m.items, i, i+1)
	return val, true
}

func (m *Map[K, V]) Len() int {
	return len(m.keys)
}

// Keys returns a copy of the keys in iteration order.
func (m *Map[K, V]) Keys() []K {
	return slices.Clone(m.keys)
}

// Values returns a copy of the values in iteration order.
func (m *Map[K, V]) Values() []V {
	return slices.Clone(m.items)
}

// Each calls fn on a snapshot of the entries, so fn may mutate the map.
func (m *Map[K, V]) Each(fn func(K, V)) {
	keys, items := m.Keys(), m.Values()
	for i := range keys {
		fn(keys[i], items[i])
	}
}

type pair[K comparable, V any] struct {
	key K
	val V
}

func (m *Map[K, V]) sortPairs(cmp func(a, b pair[K, V]) int) {
	pairs := make([]pair[K, V], len(m.keys))
	for i := range m.keys {
		pairs[i] = pair[K, V]{m.keys[i], m.items[i]}
	}
	slices.SortStableFunc(pairs, cmp)
	for i, p := range pairs {
		m.keys[i] = p.key
		m.items[i] = p.val
	}
}

// SortByKey stably reorders the entries using cmp on keys.
func (m *Map[K, V]) SortByKey(cmp func(a, b K) int) {
	m.sortPairs(func(a, b pair[K, V]) int { return cmp(a.key, b.key) })
}

// SortByValue stably reorders the entries using cmp on values.
func (m *Map[K, V]) SortByValue(cmp func(a, b V) int) {
	m.sortPairs(func(a, b pair[K, V]) int { return cmp(a.val, b.val) })
}

func (m *Map[K, V]) String() string {
	parts := make([]string, len(m.keys))
	for i := range m.keys {
		parts[i] = fmt.Sprintf("%v: %v", m.keys[i], m.items[i])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

package lib

import (
	"sync"
)

// Map is a mutex based map. Safe for the concurrent use.
type Map[K comparable, V any] struct {
	sync.RWMutex
	m map[K]V
}

func (m *Map[K, V]) Load(key K) (V, bool) {
	m.RLock()
	v, found := m.m[key]
	m.RUnlock()
	return v, found
}

// LoadOrCreate returns the value stored under the key. If there is none, it
// stores the value produced by create and returns it. The create callback
// runs under the map lock, so insertion is atomic with the lookup.
func (m *Map[K, V]) LoadOrCreate(key K, create func() V) (V, bool) {
	m.Lock()
	v, found := m.m[key]
	if found == false {
		if m.m == nil {
			m.m = make(map[K]V)
		}
		v = create()
		m.m[key] = v
	}
	m.Unlock()
	return v, found
}

func (m *Map[K, V]) Store(key K, value V) {
	m.Lock()
	if m.m == nil {
		m.m = make(map[K]V)
	}
	m.m[key] = value
	m.Unlock()
}

// StoreNew stores the value only if the key is not taken yet. Returns false
// otherwise.
func (m *Map[K, V]) StoreNew(key K, value V) bool {
	m.Lock()
	if _, found := m.m[key]; found {
		m.Unlock()
		return false
	}
	if m.m == nil {
		m.m = make(map[K]V)
	}
	m.m[key] = value
	m.Unlock()
	return true
}

func (m *Map[K, V]) Delete(key K) {
	m.Lock()
	delete(m.m, key)
	m.Unlock()
}

func (m *Map[K, V]) Len() int {
	m.RLock()
	l := len(m.m)
	m.RUnlock()
	return l
}

// Range calls f for every key/value pair until f returns false.
func (m *Map[K, V]) Range(f func(key K, value V) bool) {
	m.RLock()
	defer m.RUnlock()
	for k, v := range m.m {
		if f(k, v) == false {
			return
		}
	}
}

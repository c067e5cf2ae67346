// Package cache provides the client-side query cache: keyed snapshots of
// server-owned resources with support for the optimistic mutation
// protocol (capture, patch, reconcile or roll back). The cache is
// eventually consistent with the server; every optimistic patch must be
// reversible from the snapshots captured before it.
package cache

import "sync"

// Cache is a string-keyed snapshot store. Values are stored as-is;
// patches must replace values rather than mutate them in place, or
// captured snapshots stop being trustworthy.
type Cache struct {
	mu      sync.Mutex
	entries map[string]any
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{entries: map[string]any{}}
}

// Get returns the value at key as a T. A missing key or a value of a
// different type reports false.
func Get[T any](c *Cache, key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if !ok {
		var zero T
		return zero, false
	}
	value, ok := raw.(T)
	return value, ok
}

// Set stores value at key.
func Set[T any](c *Cache, key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

// Update applies fn to the current value at key and stores the result.
// Missing keys are left untouched, mirroring how a query cache never
// invents entries for data it has not fetched.
func Update[T any](c *Cache, key string, fn func(T) T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if !ok {
		return
	}
	value, ok := raw.(T)
	if !ok {
		return
	}
	c.entries[key] = fn(value)
}

// Delete removes the entry at key.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Keys returns a snapshot of all present keys.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	return keys
}

type captured struct {
	value   any
	present bool
}

// Mutation is one optimistic mutation's captured context: the exact
// values (or absence) of every touched key, taken before any patch.
type Mutation struct {
	cache *Cache
	prev  map[string]captured
}

// Begin captures the listed keys for a later Rollback. Capture happens
// before any patch by construction.
func (c *Cache) Begin(keys ...string) *Mutation {
	c.mu.Lock()
	defer c.mu.Unlock()
	m := &Mutation{cache: c, prev: make(map[string]captured, len(keys))}
	for _, key := range keys {
		value, present := c.entries[key]
		m.prev[key] = captured{value: value, present: present}
	}
	return m
}

// Rollback restores every captured key verbatim, including restoring
// absence. Safe to call once; later calls repeat the same restore.
func (m *Mutation) Rollback() {
	m.cache.mu.Lock()
	defer m.cache.mu.Unlock()
	for key, prev := range m.prev {
		if prev.present {
			m.cache.entries[key] = prev.value
		} else {
			delete(m.cache.entries, key)
		}
	}
}

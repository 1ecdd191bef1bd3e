package caches

import (
	"sync"
)

// Cache is a thread safe memo. Concurrent calls for the same key share a
// single loader call; calls for different keys never wait on each other.
type Cache[K comparable, V any] struct {
	mutex sync.RWMutex
	m     map[K]*Lazy[V]
}

func NewCache[K comparable, V any]() *Cache[K, V] {
	result := &Cache[K, V]{
		m: make(map[K]*Lazy[V], 1000),
	}

	return result
}

func (c *Cache[K, V]) Get(key K, loader func(K) (V, error)) (V, error) {
	c.mutex.RLock()
	val, ok := c.m[key]
	c.mutex.RUnlock()

	if !ok {
		c.mutex.Lock()
		val, ok = c.m[key]
		if !ok {
			val = NewLazy[V](func() (V, error) { return loader(key) })
			c.m[key] = val
		}
		c.mutex.Unlock()
	}

	return val.Get()
}

func (c *Cache[K, V]) Put(key K, value V) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.m[key] = NewLazy[V](func() (V, error) { return value, nil })
}

func (c *Cache[K, V]) Has(key K) bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	_, ok := c.m[key]
	return ok
}

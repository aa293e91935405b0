package db

import (
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto"
)

// Cache kinds. Keys are tracked per kind so a whole kind can be cleared.
const (
	ConfigKind = "config"
	RatesKind  = "rates"
)

// Cache wraps ristretto with per-kind key bookkeeping.
type Cache struct {
	c *ristretto.Cache

	mu   sync.RWMutex
	keys map[string]map[string]struct{}
}

func NewCache() (*Cache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        10000, // number of keys to track frequency of
		MaxCost:            10000,
		BufferItems:        64, // number of keys per Get buffer
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	return &Cache{c: c, keys: make(map[string]map[string]struct{})}, nil
}

// Set stores value under kind/key. A zero ttl never expires.
func (c *Cache) Set(kind, key string, value interface{}, ttl time.Duration) {
	full := kind + ":" + key
	c.mu.Lock()
	if c.keys[kind] == nil {
		c.keys[kind] = make(map[string]struct{})
	}
	c.keys[kind][full] = struct{}{}
	c.mu.Unlock()

	c.c.SetWithTTL(full, value, 1, ttl)
	// Sets are buffered; wait so a following Get sees the value
	c.c.Wait()
}

func (c *Cache) Get(kind, key string) (interface{}, bool) {
	return c.c.Get(kind + ":" + key)
}

func (c *Cache) Del(kind, key string) {
	full := kind + ":" + key
	c.mu.Lock()
	delete(c.keys[kind], full)
	c.mu.Unlock()
	c.c.Del(full)
}

// Clear removes every entry of one kind.
func (c *Cache) Clear(kind string) {
	c.mu.Lock()
	for key := range c.keys[kind] {
		c.c.Del(key)
	}
	delete(c.keys, kind)
	c.mu.Unlock()
}

func (c *Cache) Close() {
	c.c.Close()
}

package ocr

import (
	"fmt"
	"os/exec"
	"sync"

	"github.com/gastosbot/receipts-engine/internal/common"
)

// Cache is an explicit per-engine resource cache. Each engine's binary is
// resolved at most once per process, concurrent lookups included, and Close
// releases the cached state instead of leaving it to garbage collection.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	once sync.Once
	path string
	err  error
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]*cacheEntry)}
}

// Resolve returns the absolute path for an engine binary, probing PATH only
// on the first call per engine. A missing binary is reported as
// ErrEngineUnavailable so callers can exclude the engine without aborting.
func (c *Cache) Resolve(engine, bin string) (string, error) {
	c.mu.Lock()
	e, ok := c.entries[engine]
	if !ok {
		e = &cacheEntry{}
		c.entries[engine] = e
	}
	c.mu.Unlock()

	e.once.Do(func() {
		path, err := exec.LookPath(bin)
		if err != nil {
			e.err = fmt.Errorf("%w: %s (%s): %v", common.ErrEngineUnavailable, engine, bin, err)
			return
		}
		e.path = path
	})
	return e.path, e.err
}

// Close drops all cached engine state. Safe to call more than once.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

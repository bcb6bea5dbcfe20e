package exec

import (
	"encoding/json"

	"nerdpad/internal/kv"
	"nerdpad/internal/logging"
)

// OutputCache keeps the last execution output per file path so the output
// panel can redisplay it without re-running. Strictly best effort: read and
// write failures degrade to cache misses.
type OutputCache struct {
	kv kv.Store
}

// NewOutputCache wraps the key-value store.
func NewOutputCache(store kv.Store) *OutputCache {
	return &OutputCache{kv: store}
}

// Get returns the cached output for path.
func (c *OutputCache) Get(path string) (string, bool) {
	m := c.load()
	out, ok := m[path]
	return out, ok
}

// Put records output for path.
func (c *OutputCache) Put(path, output string) {
	m := c.load()
	m[path] = output
	c.store(m)
}

// Drop removes the entry for path; called when the file is deleted.
func (c *OutputCache) Drop(path string) {
	m := c.load()
	if _, ok := m[path]; !ok {
		return
	}
	delete(m, path)
	c.store(m)
}

func (c *OutputCache) load() map[string]string {
	raw, err := c.kv.Get(kv.KeyOutputCache)
	if err != nil {
		return make(map[string]string)
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(raw), &m); err != nil || m == nil {
		return make(map[string]string)
	}
	return m
}

func (c *OutputCache) store(m map[string]string) {
	data, err := json.Marshal(m)
	if err != nil {
		return
	}
	if err := c.kv.Set(kv.KeyOutputCache, string(data)); err != nil {
		logging.Get(logging.CategoryExec).Warn("Failed to persist output cache: %v", err)
	}
}

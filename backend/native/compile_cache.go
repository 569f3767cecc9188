package native

import (
	"crypto/sha256"
	"slices"
	"sync"

	"github.com/gogpu/naga"
)

// DefaultCompileCacheSize is the number of compiled WGSL modules kept by
// default.
const DefaultCompileCacheSize = 64

// compileKey identifies a WGSL compilation by source digest and options.
type compileKey struct {
	sum  [sha256.Size]byte
	opts naga.CompileOptions
}

type compiled struct {
	words []uint32
	atime int64
}

// compileCache keeps SPIR-V produced from WGSL so a reload of unchanged
// sources skips naga. When it grows past limit the least recently used
// quarter is evicted. A limit of 0 disables caching.
type compileCache struct {
	mu      sync.Mutex
	entries map[compileKey]*compiled
	limit   int
	tick    int64

	hits, misses uint64
}

func newCompileCache(limit int) *compileCache {
	return &compileCache{entries: make(map[compileKey]*compiled), limit: limit}
}

// compile returns cached words for src or compiles and caches them.
// Failures are not cached.
func (c *compileCache) compile(label string, src []byte, opts naga.CompileOptions) ([]uint32, error) {
	if c.limit <= 0 {
		return compileWGSL(label, src, opts)
	}
	key := compileKey{sum: sha256.Sum256(src), opts: opts}

	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		c.tick++
		e.atime = c.tick
		c.hits++
		c.mu.Unlock()
		return e.words, nil
	}
	c.misses++
	c.mu.Unlock()

	words, err := compileWGSL(label, src, opts)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.tick++
	c.entries[key] = &compiled{words: words, atime: c.tick}
	if len(c.entries) > c.limit {
		c.evictOldest()
	}
	return words, nil
}

// evictOldest shrinks the cache to three quarters of its limit.
// Caller holds c.mu.
func (c *compileCache) evictOldest() {
	target := max(c.limit*3/4, 1)
	if len(c.entries) <= target {
		return
	}

	type aged struct {
		key   compileKey
		atime int64
	}
	all := make([]aged, 0, len(c.entries))
	for k, e := range c.entries {
		all = append(all, aged{k, e.atime})
	}
	slices.SortFunc(all, func(a, b aged) int { return int(a.atime - b.atime) })
	for _, a := range all[:len(all)-target] {
		delete(c.entries, a.key)
	}
}

// CompileStats reports WGSL compile cache usage.
type CompileStats struct {
	Len    int
	Limit  int
	Hits   uint64
	Misses uint64
}

func (c *compileCache) stats() CompileStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CompileStats{Len: len(c.entries), Limit: c.limit, Hits: c.hits, Misses: c.misses}
}

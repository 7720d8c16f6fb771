package parser

import (
	"slices"
	"sync"

	"github.com/golang/groupcache/lru"

	"github.com/fatwin/paradoxdriver/internal/ast"
)

// DefaultCacheSize is the entry bound used when NewCache gets size <= 0.
const DefaultCacheSize = 256

// Cache memoizes successful parses keyed by source text. Failed parses are
// not cached. A Cache is safe for concurrent use.
type Cache struct {
	parser *Parser

	mu     sync.Mutex
	lru    *lru.Cache
	hits   uint64
	misses uint64
}

// CacheStats is a point-in-time snapshot of cache counters.
type CacheStats struct {
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
	Entries int    `json:"entries"`
}

// NewCache creates a Cache holding up to size parse results produced by p.
// A nil p parses with DefaultLimits.
func NewCache(p *Parser, size int) *Cache {
	if p == nil {
		p = New(DefaultLimits())
	}
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &Cache{parser: p, lru: lru.New(size)}
}

// Parse returns the statements for src, parsing on a miss. The returned
// slice is a fresh copy; the statements it points to are shared and must
// not be modified.
func (c *Cache) Parse(src string) ([]ast.Statement, error) {
	c.mu.Lock()
	if v, ok := c.lru.Get(src); ok {
		c.hits++
		c.mu.Unlock()
		return slices.Clone(v.([]ast.Statement)), nil
	}
	c.misses++
	c.mu.Unlock()

	stmts, err := c.parser.Parse(src)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.lru.Add(src, stmts)
	c.mu.Unlock()
	return slices.Clone(stmts), nil
}

// Stats returns the current counters.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{Hits: c.hits, Misses: c.misses, Entries: c.lru.Len()}
}

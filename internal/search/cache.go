package search

import (
	"fmt"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of cached result lists.
const DefaultCacheSize = 256

type cacheKey struct {
	generation uint64
	topK       int
	query      string
}

// CachedSearcher memoizes results per index generation. Swapping the index
// changes the generation, so results of a replaced index are never served.
type CachedSearcher struct {
	next  Searcher
	cache *lru.Cache[cacheKey, []Result]
}

// NewCachedSearcher wraps next with an LRU cache of size entries.
func NewCachedSearcher(next Searcher, size int) (*CachedSearcher, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[cacheKey, []Result](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create query cache: %w", err)
	}
	return &CachedSearcher{next: next, cache: cache}, nil
}

// Search returns cached results for the current generation or computes them.
func (c *CachedSearcher) Search(query string, topK int) []Result {
	key := cacheKey{generation: c.next.Generation(), topK: topK, query: query}
	if results, ok := c.cache.Get(key); ok {
		return slices.Clone(results)
	}
	results := c.next.Search(query, topK)
	c.cache.Add(key, results)
	return slices.Clone(results)
}

// Generation returns the generation of the wrapped searcher.
func (c *CachedSearcher) Generation() uint64 {
	return c.next.Generation()
}

// Len returns the number of cached entries.
func (c *CachedSearcher) Len() int {
	return c.cache.Len()
}

package search

import (
	"sync/atomic"

	"docsearch/internal/index"
	"docsearch/internal/tokenizer"
)

// Searcher answers ranked queries against the current index.
type Searcher interface {
	Search(query string, topK int) []Result
	// Generation identifies the index currently served.
	Generation() uint64
}

type snapshot struct {
	ix         *index.Index
	norms      []float64
	generation uint64
}

// Engine serves queries from an immutable index that can be replaced while
// queries are running. Each query sees exactly one index.
type Engine struct {
	tokenizer  *tokenizer.Tokenizer
	current    atomic.Pointer[snapshot]
	generation atomic.Uint64
}

// NewEngine creates an Engine serving ix. A nil ix serves an empty index.
func NewEngine(tok *tokenizer.Tokenizer, ix *index.Index) *Engine {
	e := &Engine{tokenizer: tok}
	e.Swap(ix)
	return e
}

// Swap replaces the served index and returns its generation.
func (e *Engine) Swap(ix *index.Index) uint64 {
	if ix == nil {
		ix = index.Empty()
	}
	gen := e.generation.Add(1)
	e.current.Store(&snapshot{
		ix:         ix,
		norms:      norms(ix.Vectors),
		generation: gen,
	})
	return gen
}

// Index returns the index currently served.
func (e *Engine) Index() *index.Index {
	return e.current.Load().ix
}

// Generation returns the generation of the index currently served.
func (e *Engine) Generation() uint64 {
	return e.current.Load().generation
}

// Search ranks the served index against query.
func (e *Engine) Search(query string, topK int) []Result {
	snap := e.current.Load()
	return rank(snap.ix, snap.norms, Vectorize(snap.ix, e.tokenizer, query), topK)
}

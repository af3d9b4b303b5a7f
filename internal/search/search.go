package search

import (
	"math"
	"sort"

	"docsearch/internal/index"
	"docsearch/internal/tokenizer"
)

// DefaultTopK is the number of results returned when the caller does not ask
// for a specific count.
const DefaultTopK = 5

// Result is one ranked document.
type Result struct {
	Doc   index.DocumentChunkRecord `json:"doc"`
	Score float64                   `json:"score"`
}

// Vectorize maps query onto the vocabulary of ix. Component i is the query's
// term frequency of vocabulary[i] times the persisted idf[i]. Terms outside
// the vocabulary are ignored; an empty query yields the zero vector.
func Vectorize(ix *index.Index, tok *tokenizer.Tokenizer, query string) []float64 {
	if ix == nil {
		return nil
	}
	vec := make([]float64, len(ix.Vocabulary))
	tokens := tok.Tokenize(query)
	if len(tokens) == 0 {
		return vec
	}

	termIndex := make(map[string]int, len(ix.Vocabulary))
	for i, term := range ix.Vocabulary {
		termIndex[term] = i
	}
	for _, term := range tokens {
		if i, ok := termIndex[term]; ok {
			vec[i]++
		}
	}

	total := float64(len(tokens))
	for i, count := range vec {
		if count != 0 {
			vec[i] = count / total * ix.IDF[i]
		}
	}
	return vec
}

// Search ranks every document of ix against query by cosine similarity and
// returns the best topK (all when topK <= 0). Equal scores keep document
// order. It never fails: an empty query or index ranks everything at zero.
func Search(ix *index.Index, tok *tokenizer.Tokenizer, query string, topK int) []Result {
	if ix == nil {
		return []Result{}
	}
	return rank(ix, norms(ix.Vectors), Vectorize(ix, tok, query), topK)
}

func rank(ix *index.Index, docNorms []float64, queryVec []float64, topK int) []Result {
	queryNorm := magnitude(queryVec)

	results := make([]Result, len(ix.Documents))
	for i, doc := range ix.Documents {
		results[i] = Result{Doc: doc, Score: cosine(queryVec, ix.Vectors[i], queryNorm, docNorms[i])}
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})

	if topK > 0 && topK < len(results) {
		results = results[:topK]
	}
	return results
}

// cosine is 0 when either vector has zero magnitude. Weights are non-negative,
// so the result is clamped to [0, 1] against rounding.
func cosine(a, b []float64, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	s := dot(a, b) / (normA * normB)
	if math.IsNaN(s) || s < 0 {
		return 0
	}
	return math.Min(s, 1)
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func magnitude(v []float64) float64 {
	return math.Sqrt(dot(v, v))
}

func norms(vectors [][]float64) []float64 {
	out := make([]float64, len(vectors))
	for i, v := range vectors {
		out[i] = magnitude(v)
	}
	return out
}

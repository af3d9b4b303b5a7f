package index

import (
	"math"

	"docsearch/internal/tokenizer"
)

// Build derives the vocabulary, IDF vector and dense TF-IDF vectors for texts.
//
// Vocabulary order is first-seen order across texts. Weights use
//
//	tf(t, d) = count(t, d) / len(tokens(d))
//	idf(t)   = ln(N / df(t))
//
// with no smoothing, so a term present in every chunk weighs zero. A corpus of
// a single chunk therefore has an all-zero model and every query scores 0
// against it. Query time reads IDF from the built model and never recomputes it.
// Zero texts yield an empty model.
func Build(texts []string, tok *tokenizer.Tokenizer) Model {
	tokenized := make([][]string, len(texts))
	termIndex := make(map[string]int)
	vocabulary := []string{}

	for i, text := range texts {
		tokens := tok.Tokenize(text)
		tokenized[i] = tokens
		for _, term := range tokens {
			if _, ok := termIndex[term]; !ok {
				termIndex[term] = len(vocabulary)
				vocabulary = append(vocabulary, term)
			}
		}
	}

	// Document frequency: number of chunks containing the term at least once.
	df := make([]int, len(vocabulary))
	for _, tokens := range tokenized {
		seen := make(map[int]struct{}, len(tokens))
		for _, term := range tokens {
			idx := termIndex[term]
			if _, ok := seen[idx]; ok {
				continue
			}
			seen[idx] = struct{}{}
			df[idx]++
		}
	}

	n := float64(len(texts))
	idf := make([]float64, len(vocabulary))
	for i, count := range df {
		idf[i] = math.Log(n / float64(count))
	}

	vectors := make([][]float64, len(texts))
	for i, tokens := range tokenized {
		vec := make([]float64, len(vocabulary))
		if len(tokens) > 0 {
			total := float64(len(tokens))
			for _, term := range tokens {
				vec[termIndex[term]]++
			}
			for j, count := range vec {
				if count != 0 {
					vec[j] = count / total * idf[j]
				}
			}
		}
		vectors[i] = vec
	}

	return Model{
		Vocabulary: vocabulary,
		IDF:        idf,
		Vectors:    vectors,
	}
}

// BuildIndex tokenizes the documents' chunk texts and assembles a full Index
// stamped with the tokenizer's version.
func BuildIndex(docs []DocumentChunkRecord, tok *tokenizer.Tokenizer) *Index {
	if docs == nil {
		docs = []DocumentChunkRecord{}
	}
	ix := New(docs, Build(Texts(docs), tok))
	ix.TokenizerVersion = tok.Version()
	return ix
}

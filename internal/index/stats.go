package index

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Stats summarizes a built index.
type Stats struct {
	// Documents is the number of chunk records.
	Documents int `json:"documents"`
	// Files is the number of distinct source paths.
	Files int `json:"files"`
	// VocabularySize is the number of distinct terms (vector dimension).
	VocabularySize int `json:"vocabulary_size"`
	// ChunkWordStats describes chunk lengths in words.
	ChunkWordStats ChunkWordStats `json:"chunk_word_stats"`
	// TokenizerVersion is the normalization version the index was built with.
	TokenizerVersion string `json:"tokenizer_version,omitempty"`
	// IndexVersion is a hash over tokenizer version and chunking parameters.
	IndexVersion string `json:"index_version,omitempty"`
}

// ChunkWordStats contains word-count statistics over chunks.
type ChunkWordStats struct {
	Min  int     `json:"min"`
	Max  int     `json:"max"`
	Mean float64 `json:"mean"`
	P95  int     `json:"p95"`
}

// BuildParams are the inputs that change index contents for the same corpus.
type BuildParams struct {
	TokenizerVersion string
	MaxWords         int
	OverlapWords     int
}

// Version returns a 16 hex character identifier for the parameters.
func (p BuildParams) Version() string {
	input := fmt.Sprintf("%s|maxWords=%d|overlapWords=%d", p.TokenizerVersion, p.MaxWords, p.OverlapWords)
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])[:16]
}

// ComputeStats derives statistics from ix.
func ComputeStats(ix *Index, params BuildParams) Stats {
	stats := Stats{
		TokenizerVersion: params.TokenizerVersion,
		IndexVersion:     params.Version(),
	}
	if ix == nil {
		return stats
	}

	stats.Documents = len(ix.Documents)
	stats.VocabularySize = len(ix.Vocabulary)

	files := make(map[string]struct{})
	wordCounts := make([]int, 0, len(ix.Documents))
	for _, d := range ix.Documents {
		files[d.Path] = struct{}{}
		wordCounts = append(wordCounts, len(strings.Fields(d.Chunk.Text)))
	}
	stats.Files = len(files)
	stats.ChunkWordStats = computeWordStats(wordCounts)

	return stats
}

// computeWordStats computes min, max, mean, and p95 from word counts.
func computeWordStats(counts []int) ChunkWordStats {
	if len(counts) == 0 {
		return ChunkWordStats{}
	}

	sorted := make([]int, len(counts))
	copy(sorted, counts)
	sort.Ints(sorted)

	sum := 0
	for _, c := range counts {
		sum += c
	}
	mean := float64(sum) / float64(len(counts))

	p95Index := int(math.Ceil(float64(len(sorted))*0.95)) - 1
	if p95Index < 0 {
		p95Index = 0
	}

	return ChunkWordStats{
		Min:  sorted[0],
		Max:  sorted[len(sorted)-1],
		Mean: math.Round(mean*100) / 100,
		P95:  sorted[p95Index],
	}
}

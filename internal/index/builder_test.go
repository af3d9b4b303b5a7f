package index

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsearch/internal/tokenizer"
)

func TestBuild_Empty(t *testing.T) {
	m := Build(nil, tokenizer.Default())

	assert.Empty(t, m.Vocabulary)
	assert.Empty(t, m.IDF)
	assert.Empty(t, m.Vectors)
	assert.NotNil(t, m.Vocabulary)
}

func TestBuild_VocabularyFirstSeenOrder(t *testing.T) {
	tok, err := tokenizer.New(tokenizer.StemmerNone)
	require.NoError(t, err)

	m := Build([]string{"zebra apple zebra", "mango apple"}, tok)

	assert.Equal(t, []string{"zebra", "apple", "mango"}, m.Vocabulary)
}

func TestBuild_Dimensions(t *testing.T) {
	texts := []string{
		"Kubernetes schedules pods onto nodes.",
		"The scheduler binds pods.",
		"",
		"Nodes report status to the control plane.",
	}
	m := Build(texts, tokenizer.Default())

	require.Len(t, m.Vectors, len(texts))
	assert.Len(t, m.IDF, len(m.Vocabulary))
	for i, vec := range m.Vectors {
		assert.Len(t, vec, len(m.Vocabulary), "vector %d", i)
	}
}

func TestBuild_Weights(t *testing.T) {
	tok, err := tokenizer.New(tokenizer.StemmerNone)
	require.NoError(t, err)

	// "alpha" appears in both chunks, "beta" only in the first.
	m := Build([]string{"alpha beta beta", "alpha gamma"}, tok)
	require.Equal(t, []string{"alpha", "beta", "gamma"}, m.Vocabulary)

	assert.InDelta(t, 0, m.IDF[0], 1e-12)
	assert.InDelta(t, math.Log(2), m.IDF[1], 1e-12)
	assert.InDelta(t, math.Log(2), m.IDF[2], 1e-12)

	// tf(beta, d0) = 2/3
	assert.InDelta(t, 2.0/3.0*math.Log(2), m.Vectors[0][1], 1e-12)
	assert.InDelta(t, 0, m.Vectors[0][2], 1e-12)
	// tf(gamma, d1) = 1/2
	assert.InDelta(t, 0.5*math.Log(2), m.Vectors[1][2], 1e-12)
}

func TestBuild_NonNegative(t *testing.T) {
	texts := []string{
		strings.Repeat("kubernetes ", 5),
		"docker images and containers",
		"containers run kubernetes workloads",
	}
	m := Build(texts, tokenizer.Default())

	for i, vec := range m.Vectors {
		for j, w := range vec {
			assert.GreaterOrEqual(t, w, 0.0, "vector %d component %d", i, j)
		}
	}
}

func TestBuildIndex(t *testing.T) {
	docs := []DocumentChunkRecord{
		{Path: "a.md", Chunk: Chunk{Text: "Hello world.", HeadingPath: []string{"Intro"}, StartLine: 1}},
		{Path: "b.md", Chunk: Chunk{Text: "Goodbye world.", HeadingPath: []string{"Intro"}, StartLine: 1}},
	}

	ix := BuildIndex(docs, tokenizer.Default())

	assert.Equal(t, 2, ix.Len())
	assert.Len(t, ix.Vectors, 2)
	assert.Equal(t, docs, ix.Documents)
	assert.Equal(t, "v1+porter", ix.TokenizerVersion)

	empty := BuildIndex(nil, tokenizer.Default())
	assert.Equal(t, 0, empty.Len())
	assert.NotNil(t, empty.Documents)
}

func TestBuild_SingleChunkWeighsZero(t *testing.T) {
	m := Build([]string{"kubernetes pods kubernetes"}, tokenizer.Default())

	require.Len(t, m.IDF, 2)
	assert.Equal(t, []float64{0, 0}, m.IDF)
	assert.Equal(t, [][]float64{{0, 0}}, m.Vectors)
}

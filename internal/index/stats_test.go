package index

import (
	"testing"
)

func TestComputeStats(t *testing.T) {
	params := BuildParams{TokenizerVersion: "v1+porter", MaxWords: 120, OverlapWords: 30}

	empty := ComputeStats(Empty(), params)
	if empty.Documents != 0 || empty.Files != 0 || empty.VocabularySize != 0 {
		t.Errorf("ComputeStats(empty) = %+v, want zero counts", empty)
	}
	if empty.IndexVersion == "" {
		t.Error("IndexVersion should not be empty")
	}

	ix := &Index{
		Documents: []DocumentChunkRecord{
			{Path: "a.md", Chunk: Chunk{Text: "one two three"}},
			{Path: "a.md", Chunk: Chunk{Text: "one two three four five"}},
			{Path: "b.md", Chunk: Chunk{Text: "one"}},
		},
		Model: Model{Vocabulary: []string{"one", "two", "three", "four", "five"}},
	}
	stats := ComputeStats(ix, params)

	if stats.Documents != 3 {
		t.Errorf("Documents = %d, want 3", stats.Documents)
	}
	if stats.Files != 2 {
		t.Errorf("Files = %d, want 2", stats.Files)
	}
	if stats.VocabularySize != 5 {
		t.Errorf("VocabularySize = %d, want 5", stats.VocabularySize)
	}
	if stats.ChunkWordStats.Min != 1 || stats.ChunkWordStats.Max != 5 {
		t.Errorf("ChunkWordStats = %+v, want min 1 max 5", stats.ChunkWordStats)
	}
	if stats.ChunkWordStats.Mean != 3 {
		t.Errorf("Mean = %v, want 3", stats.ChunkWordStats.Mean)
	}
	if stats.ChunkWordStats.P95 != 5 {
		t.Errorf("P95 = %d, want 5", stats.ChunkWordStats.P95)
	}
	if stats.TokenizerVersion != "v1+porter" {
		t.Errorf("TokenizerVersion = %q", stats.TokenizerVersion)
	}
}

func TestBuildParams_Version(t *testing.T) {
	a := BuildParams{TokenizerVersion: "v1+porter", MaxWords: 120, OverlapWords: 30}
	b := BuildParams{TokenizerVersion: "v1+porter", MaxWords: 10, OverlapWords: 30}

	if len(a.Version()) != 16 {
		t.Errorf("Version() length = %d, want 16", len(a.Version()))
	}
	if a.Version() != (BuildParams{TokenizerVersion: "v1+porter", MaxWords: 120, OverlapWords: 30}).Version() {
		t.Error("Version() should be deterministic")
	}
	if a.Version() == b.Version() {
		t.Error("Version() should change with chunking params")
	}
}

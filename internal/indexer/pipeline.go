package indexer

import (
	"context"
	"fmt"
	"log/slog"

	"docsearch/internal/content"
	"docsearch/internal/contextutil"
	"docsearch/internal/index"
	"docsearch/internal/storage"
	"docsearch/internal/tokenizer"
)

// Walker yields the content files of a site.
type Walker interface {
	Walk(ctx context.Context) ([]content.File, error)
}

// BuildResult is the outcome of one full build pass.
type BuildResult struct {
	Index *index.Index
	// Files lists every file read, including files that produced no chunks.
	Files []storage.FileRecord
}

// Pipeline turns a content root into an in-memory index:
// walk, chunk each file, then build vocabulary, IDF and vectors.
type Pipeline struct {
	walker    Walker
	chunker   *Chunker
	tokenizer *tokenizer.Tokenizer
	logger    *slog.Logger
}

// NewPipeline creates a new indexing pipeline.
func NewPipeline(walker Walker, chunker *Chunker, tok *tokenizer.Tokenizer) *Pipeline {
	return &Pipeline{
		walker:    walker,
		chunker:   chunker,
		tokenizer: tok,
		logger:    slog.Default(),
	}
}

// Tokenizer returns the tokenizer the pipeline builds with.
func (p *Pipeline) Tokenizer() *tokenizer.Tokenizer {
	return p.tokenizer
}

// Params returns the parameters that determine the index contents.
func (p *Pipeline) Params() index.BuildParams {
	opts := p.chunker.Options()
	return index.BuildParams{
		TokenizerVersion: p.tokenizer.Version(),
		MaxWords:         opts.MaxWords,
		OverlapWords:     opts.OverlapWords,
	}
}

// Build walks all content and builds a fresh index. Files are chunked in walk
// order, so document order is stable across builds of the same tree.
// An empty corpus is not an error; it yields an empty index.
func (p *Pipeline) Build(ctx context.Context) (*BuildResult, error) {
	logger := contextutil.Logger(ctx, p.logger)

	files, err := p.walker.Walk(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to walk content: %w", err)
	}

	logger.InfoContext(ctx, "starting indexing", "total_files", len(files))

	var docs []index.DocumentChunkRecord
	records := make([]storage.FileRecord, 0, len(files))
	var emptyFiles int

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		chunks := p.chunker.Chunk(file.Content)
		if len(chunks) == 0 {
			emptyFiles++
			logger.DebugContext(ctx, "no chunks generated", "rel_path", file.RelPath)
		}
		for _, chunk := range chunks {
			docs = append(docs, index.DocumentChunkRecord{Path: file.RelPath, Chunk: chunk})
		}
		records = append(records, storage.FileRecord{
			RelPath:    file.RelPath,
			Hash:       file.Hash,
			ChunkCount: len(chunks),
		})
	}

	if len(docs) == 0 {
		logger.WarnContext(ctx, "content produced no chunks; index will be empty", "total_files", len(files))
	}

	ix := index.BuildIndex(docs, p.tokenizer)

	logger.InfoContext(ctx, "indexing completed",
		"total_files", len(files),
		"files_without_chunks", emptyFiles,
		"chunks", ix.Len(),
		"vocabulary_size", len(ix.Vocabulary),
	)

	return &BuildResult{Index: ix, Files: records}, nil
}

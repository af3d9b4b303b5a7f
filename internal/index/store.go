package index

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_store.go -package=mocks docsearch/internal/index Store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/renameio"
)

var (
	// ErrNotFound is returned by Load when no index file exists at the path.
	ErrNotFound = errors.New("index not found")
	// ErrParse is returned by Load when the file is not a valid index.
	ErrParse = errors.New("index parse error")
)

// Store persists and loads a whole index.
type Store interface {
	// Load reads the persisted index. Errors wrap ErrNotFound or ErrParse.
	Load(ctx context.Context) (*Index, error)
	// Save replaces the persisted index atomically.
	Save(ctx context.Context, ix *Index) error
	// Path returns the location of the index artifact.
	Path() string
}

// FileStore keeps the index as a single JSON file.
type FileStore struct {
	path   string
	logger *slog.Logger
}

// NewFileStore creates a FileStore for the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path:   path,
		logger: slog.Default(),
	}
}

// Path returns the index file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads and validates the index file.
func (s *FileStore) Load(ctx context.Context) (*Index, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return load(s.path, s.logger)
}

// Save writes the index file atomically.
func (s *FileStore) Save(ctx context.Context, ix *Index) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return Save(s.path, ix)
}

// fileIndex is the on-disk shape:
// {"docs": [...], "vocabulary": [...], "idf": [...], "tfidf": [[...]], "tokenizerVersion": "v1+porter"}.
// Files written before tokenizerVersion existed load with an empty version.
type fileIndex struct {
	Docs             []fileDoc   `json:"docs"`
	Vocabulary       []string    `json:"vocabulary"`
	IDF              []float64   `json:"idf"`
	TFIDF            [][]float64 `json:"tfidf"`
	TokenizerVersion string      `json:"tokenizerVersion"`
}

// fileDoc uses pointers so absent fields can be told apart from zero values.
type fileDoc struct {
	Path  *string    `json:"path"`
	Chunk *fileChunk `json:"chunk"`
}

type fileChunk struct {
	Text        *string  `json:"text"`
	HeadingPath []string `json:"headingPath"`
	StartLine   *int     `json:"startLine"`
	EndLine     int      `json:"endLine,omitempty"`
}

// Save writes ix to path as JSON. The file is written to a temporary name and
// renamed into place, so readers never observe a partial index.
func Save(path string, ix *Index) error {
	if ix == nil {
		ix = Empty()
	}
	if len(ix.Vectors) != len(ix.Documents) {
		return fmt.Errorf("index has %d documents but %d vectors", len(ix.Documents), len(ix.Vectors))
	}

	out := fileIndex{
		Docs:       make([]fileDoc, len(ix.Documents)),
		Vocabulary: nonNilStrings(ix.Vocabulary),
		IDF:        nonNilFloats(ix.IDF),
		TFIDF:      make([][]float64, len(ix.Vectors)),

		TokenizerVersion: ix.TokenizerVersion,
	}
	for i, d := range ix.Documents {
		docPath, text, start := d.Path, d.Chunk.Text, d.Chunk.StartLine
		out.Docs[i] = fileDoc{
			Path: &docPath,
			Chunk: &fileChunk{
				Text:        &text,
				HeadingPath: nonNilStrings(d.Chunk.HeadingPath),
				StartLine:   &start,
				EndLine:     d.Chunk.EndLine,
			},
		}
		out.TFIDF[i] = nonNilFloats(ix.Vectors[i])
	}

	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create index directory: %w", err)
		}
	}
	if err := renameio.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write index %s: %w", path, err)
	}
	return nil
}

// Load reads and validates the index at path.
func Load(path string) (*Index, error) {
	return load(path, slog.Default())
}

func load(path string, logger *slog.Logger) (*Index, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read index %s: %w", path, err)
	}

	var in fileIndex
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
	}
	return decode(in, logger)
}

// decode validates the file shape and converts it to an Index. Structural
// violations fail the whole load. Individual records missing required fields
// are logged and dropped together with their vector.
func decode(in fileIndex, logger *slog.Logger) (*Index, error) {
	switch {
	case in.Docs == nil:
		return nil, fmt.Errorf("%w: missing docs", ErrParse)
	case in.Vocabulary == nil:
		return nil, fmt.Errorf("%w: missing vocabulary", ErrParse)
	case in.IDF == nil:
		return nil, fmt.Errorf("%w: missing idf", ErrParse)
	case in.TFIDF == nil:
		return nil, fmt.Errorf("%w: missing tfidf", ErrParse)
	}
	if len(in.IDF) != len(in.Vocabulary) {
		return nil, fmt.Errorf("%w: idf has %d entries, vocabulary has %d", ErrParse, len(in.IDF), len(in.Vocabulary))
	}
	if len(in.TFIDF) != len(in.Docs) {
		return nil, fmt.Errorf("%w: tfidf has %d vectors, docs has %d", ErrParse, len(in.TFIDF), len(in.Docs))
	}

	dim := len(in.Vocabulary)
	ix := &Index{
		Documents: make([]DocumentChunkRecord, 0, len(in.Docs)),
		Model: Model{
			Vocabulary: in.Vocabulary,
			IDF:        in.IDF,
			Vectors:    make([][]float64, 0, len(in.TFIDF)),
		},
		TokenizerVersion: in.TokenizerVersion,
	}
	for i, d := range in.Docs {
		if len(in.TFIDF[i]) != dim {
			return nil, fmt.Errorf("%w: vector %d has %d components, want %d", ErrParse, i, len(in.TFIDF[i]), dim)
		}
		if reason := missingField(d); reason != "" {
			logger.Warn("skipping invalid index record", "position", i, "reason", reason)
			continue
		}
		ix.Documents = append(ix.Documents, DocumentChunkRecord{
			Path: *d.Path,
			Chunk: Chunk{
				Text:        *d.Chunk.Text,
				HeadingPath: d.Chunk.HeadingPath,
				StartLine:   *d.Chunk.StartLine,
				EndLine:     d.Chunk.EndLine,
			},
		})
		ix.Vectors = append(ix.Vectors, in.TFIDF[i])
	}
	return ix, nil
}

func missingField(d fileDoc) string {
	switch {
	case d.Path == nil || *d.Path == "":
		return "missing path"
	case d.Chunk == nil:
		return "missing chunk"
	case d.Chunk.Text == nil:
		return "missing chunk text"
	case len(d.Chunk.HeadingPath) == 0:
		return "missing heading path"
	case d.Chunk.StartLine == nil:
		return "missing start line"
	}
	return ""
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilFloats(f []float64) []float64 {
	if f == nil {
		return []float64{}
	}
	return f
}

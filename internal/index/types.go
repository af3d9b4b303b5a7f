package index

// Chunk is a heading-tagged slice of a document's prose.
type Chunk struct {
	Text        string   `json:"text"`              // Joined sentences
	HeadingPath []string `json:"headingPath"`       // Outermost to innermost, never empty
	StartLine   int      `json:"startLine"`         // Estimated 1-based source line
	EndLine     int      `json:"endLine,omitempty"` // Estimated last source line, 0 if unknown
}

// DocumentChunkRecord ties a chunk to the file it came from.
type DocumentChunkRecord struct {
	Path  string `json:"path"` // Relative to the content root, forward slashes
	Chunk Chunk  `json:"chunk"`
}

// Model is the numeric part of an index.
// Every vector in Vectors has len(Vocabulary) components, as does IDF.
type Model struct {
	Vocabulary []string
	IDF        []float64
	Vectors    [][]float64
}

// Index is an immutable, query-ready index. Vectors[i] belongs to Documents[i].
type Index struct {
	Documents []DocumentChunkRecord
	Model
	// TokenizerVersion names the normalization the vocabulary was built with.
	// Queries must be tokenized the same way.
	TokenizerVersion string
}

// New assembles an Index from documents and a model built over their texts.
func New(docs []DocumentChunkRecord, m Model) *Index {
	return &Index{Documents: docs, Model: m}
}

// Empty returns an index with no documents and no vocabulary.
func Empty() *Index {
	return &Index{
		Documents: []DocumentChunkRecord{},
		Model: Model{
			Vocabulary: []string{},
			IDF:        []float64{},
			Vectors:    [][]float64{},
		},
	}
}

// Len returns the number of documents.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.Documents)
}

// Texts returns the chunk texts of docs in order.
func Texts(docs []DocumentChunkRecord) []string {
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Chunk.Text
	}
	return texts
}

package indexer

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"

	"docsearch/internal/index"
)

const (
	// DefaultMaxWords is the word budget of a chunk.
	DefaultMaxWords = 120
	// DefaultOverlapWords is how many trailing words of a chunk seed the next.
	DefaultOverlapWords = 30
	// DefaultHeadingPlaceholder labels chunks with no enclosing heading.
	DefaultHeadingPlaceholder = "Introduction"
)

// englishSentences loads the punkt model once; it is read-only afterwards.
var englishSentences = sync.OnceValues(func() (*sentences.DefaultSentenceTokenizer, error) {
	return english.NewSentenceTokenizer(nil)
})

// ChunkerOptions configures a Chunker.
type ChunkerOptions struct {
	// MaxWords bounds the words per chunk. Zero or negative disables splitting.
	MaxWords int
	// OverlapWords is the number of trailing words carried into the next chunk.
	// Values above MaxWords are accepted but make every chunk repeat most of
	// its predecessor.
	OverlapWords int
	// Placeholder is the heading path used when no heading encloses a chunk.
	Placeholder string
}

// Chunker splits documents into word-bounded, heading-tagged chunks.
// It holds no per-document state and is safe for concurrent use.
type Chunker struct {
	opts  ChunkerOptions
	split func(string) []string
}

// NewChunker creates a Chunker with an English sentence tokenizer.
func NewChunker(opts ChunkerOptions) (*Chunker, error) {
	tokenizer, err := englishSentences()
	if err != nil {
		return nil, fmt.Errorf("failed to load sentence tokenizer: %w", err)
	}
	return newChunker(opts, func(s string) []string {
		var out []string
		for _, sentence := range tokenizer.Tokenize(s) {
			if text := strings.TrimSpace(sentence.Text); text != "" {
				out = append(out, text)
			}
		}
		return out
	}), nil
}

func newChunker(opts ChunkerOptions, split func(string) []string) *Chunker {
	if opts.OverlapWords < 0 {
		opts.OverlapWords = 0
	}
	if opts.Placeholder == "" {
		opts.Placeholder = DefaultHeadingPlaceholder
	}
	return &Chunker{opts: opts, split: split}
}

// Options returns the effective options.
func (c *Chunker) Options() ChunkerOptions {
	return c.opts
}

// Chunk splits content into chunks.
//
// Headings are read from the raw content so line numbers match the file.
// Sentences of the cleaned prose are accumulated until the next one would
// push the chunk past MaxWords; the chunk is then closed and its last
// OverlapWords words seed the next one. Line numbers are estimated by mapping
// sentence positions proportionally onto the raw line count. Content with no
// sentences yields no chunks.
func (c *Chunker) Chunk(content []byte) []index.Chunk {
	headings := ExtractHeadings(content)
	sents := c.split(CleanContent(content))
	if len(sents) == 0 {
		return []index.Chunk{}
	}

	totalLines := countLines(content)
	var chunks []index.Chunk
	var buf []string // overlap seed followed by whole sentences
	bufWords := 0
	firstIdx := 0   // index of the first whole sentence in buf
	hasNew := false // buf holds at least one sentence, not only a seed

	closeChunk := func(endIdx int) {
		text := strings.Join(buf, " ")
		chunks = append(chunks, c.newChunk(text, headings, firstIdx, endIdx, len(sents), totalLines))

		buf, bufWords, hasNew = nil, 0, false
		if seed := lastWords(text, c.opts.OverlapWords); len(seed) > 0 {
			buf = append(buf, strings.Join(seed, " "))
			bufWords = len(seed)
		}
	}

	for i, sentence := range sents {
		words := len(strings.Fields(sentence))
		if c.opts.MaxWords > 0 && hasNew && bufWords+words > c.opts.MaxWords {
			closeChunk(i)
		}
		if !hasNew {
			firstIdx = i
		}
		buf = append(buf, sentence)
		bufWords += words
		hasNew = true
	}
	if hasNew {
		closeChunk(len(sents))
	}

	return chunks
}

// newChunk builds a chunk covering sentences [first, end).
func (c *Chunker) newChunk(text string, headings []HeadingInfo, first, end, total, totalLines int) index.Chunk {
	start := estimateLine(first, total, totalLines, math.Floor) + 1
	if totalLines > 0 && start > totalLines {
		start = totalLines
	}
	last := estimateLine(end, total, totalLines, math.Ceil)
	if last < start {
		last = start
	}

	return index.Chunk{
		Text:        text,
		HeadingPath: headingPath(headings, start, c.opts.Placeholder),
		StartLine:   start,
		EndLine:     last,
	}
}

// estimateLine maps sentence position idx of total onto totalLines.
func estimateLine(idx, total, totalLines int, round func(float64) float64) int {
	if total == 0 {
		return 0
	}
	return int(round(float64(idx) / float64(total) * float64(totalLines)))
}

// lastWords returns up to n trailing words of text.
func lastWords(text string, n int) []string {
	if n <= 0 {
		return nil
	}
	words := strings.Fields(text)
	if len(words) > n {
		words = words[len(words)-n:]
	}
	return words
}

// Package tokenizer holds the text normalization shared by index building and
// query vectorization. Both sides must call the same Tokenizer with the same
// stemmer, otherwise query terms silently miss the vocabulary.
package tokenizer

import (
	"fmt"
	"strings"

	porterstemmer "github.com/blevesearch/go-porterstemmer"
	"github.com/blevesearch/segment"
	"github.com/blevesearch/snowballstem"
	"github.com/blevesearch/snowballstem/english"
)

// Version identifies the normalization rules. Bump it whenever Tokenize
// output can change for the same input; persisted indexes built with another
// version must be rebuilt.
const Version = "v1"

// MinTokenLength is the shortest token kept after stripping.
const MinTokenLength = 3

// Stemmer names accepted by New.
const (
	StemmerPorter   = "porter"
	StemmerSnowball = "snowball"
	StemmerNone     = "none"
)

// Tokenizer lower-cases, segments, strips and stems text.
// It is stateless and safe for concurrent use.
type Tokenizer struct {
	stemmer string
	stem    func(string) string
}

// New returns a Tokenizer using the named stemmer. An empty name selects the
// Porter stemmer.
func New(stemmer string) (*Tokenizer, error) {
	switch strings.ToLower(strings.TrimSpace(stemmer)) {
	case "", StemmerPorter:
		return &Tokenizer{stemmer: StemmerPorter, stem: porterstemmer.StemString}, nil
	case StemmerSnowball:
		return &Tokenizer{stemmer: StemmerSnowball, stem: snowballStem}, nil
	case StemmerNone:
		return &Tokenizer{stemmer: StemmerNone, stem: func(s string) string { return s }}, nil
	default:
		return nil, fmt.Errorf("unknown stemmer %q", stemmer)
	}
}

// Default returns the Porter-stemming tokenizer.
func Default() *Tokenizer {
	t, _ := New(StemmerPorter)
	return t
}

// Stemmer returns the configured stemmer name.
func (t *Tokenizer) Stemmer() string {
	return t.stemmer
}

// Version returns the rule version combined with the stemmer name, e.g. "v1+porter".
func (t *Tokenizer) Version() string {
	return Version + "+" + t.stemmer
}

// Tokenize normalizes text into stemmed terms.
//
// Steps: lower-case, split on Unicode word boundaries, drop every character
// outside [a-z0-9], drop tokens shorter than MinTokenLength, stem.
func (t *Tokenizer) Tokenize(text string) []string {
	if text == "" {
		return nil
	}

	seg := segment.NewWordSegmenterDirect([]byte(strings.ToLower(text)))
	var tokens []string
	for seg.Segment() {
		if seg.Type() == segment.None {
			continue
		}
		word := strip(seg.Bytes())
		if len(word) < MinTokenLength {
			continue
		}
		tokens = append(tokens, t.stem(word))
	}
	return tokens
}

// strip keeps only ASCII lower-case letters and digits.
func strip(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func snowballStem(word string) string {
	env := snowballstem.NewEnv(word)
	english.Stem(env)
	return env.Current()
}

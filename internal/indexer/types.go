package indexer

// HeadingInfo is a heading found in raw document text.
type HeadingInfo struct {
	Level int    // 1..6
	Text  string // Heading text without markers
	Line  int    // 1-based line in the raw document
}

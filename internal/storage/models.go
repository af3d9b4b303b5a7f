package storage

import "time"

// Build is one completed or in-progress index build of a site.
type Build struct {
	ID               string // UUID
	Site             string
	StartedAt        time.Time
	FinishedAt       time.Time // zero while the build is running
	Documents        int       // content files that produced chunks
	Chunks           int       // chunk records in the index
	VocabularySize   int
	TokenizerVersion string
	IndexVersion     string // index.BuildParams.Version()
}

// Finished reports whether the build completed.
func (b Build) Finished() bool {
	return !b.FinishedAt.IsZero()
}

// FileRecord is one content file that went into a build.
type FileRecord struct {
	RelPath    string // Relative path from the content root
	Hash       string // SHA256 hex string of file content
	ChunkCount int
}

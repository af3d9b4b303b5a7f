package content

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"docsearch/internal/contextutil"
)

// DefaultConcurrency bounds parallel file reads.
const DefaultConcurrency = 8

// ScannedFile is a regular file found under the content root.
type ScannedFile struct {
	RelPath string // Relative path from the content root, forward slashes (e.g., "guide/install.mdx")
	AbsPath string // Path as walked, rooted at the content root
}

// File is a scanned file together with its bytes.
type File struct {
	ScannedFile
	Content []byte
	Hash    string // hex sha256 of Content
}

// ReadError reports a file that was found but could not be read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read content file %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// Scanner enumerates and reads every regular file under a content root.
type Scanner struct {
	root        string
	concurrency int
	excluded    []string // absolute paths
	logger      *slog.Logger
}

// NewScanner creates a Scanner. A non-positive concurrency uses DefaultConcurrency.
func NewScanner(root string, concurrency int) *Scanner {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Scanner{
		root:        root,
		concurrency: concurrency,
		logger:      slog.Default(),
	}
}

// Exclude skips the given paths during scans. A path also excludes its
// siblings that extend its name (index.json.lock, docsearch.db-wal) and the
// hidden temporary files written while replacing it (.index.json123).
// Empty paths are ignored.
func (s *Scanner) Exclude(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		s.excluded = append(s.excluded, filepath.Clean(p))
	}
}

func (s *Scanner) isExcluded(path string) bool {
	if len(s.excluded) == 0 {
		return false
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	dir, base := filepath.Split(path)
	for _, ex := range s.excluded {
		exDir, exBase := filepath.Split(ex)
		if dir != exDir {
			continue
		}
		if strings.HasPrefix(base, exBase) || strings.HasPrefix(base, "."+exBase) {
			return true
		}
	}
	return false
}

// Scan walks the content root recursively in lexical order and returns every
// regular file regardless of extension. Entries that cannot be accessed are
// logged and skipped; only an inaccessible root is an error.
func (s *Scanner) Scan(ctx context.Context) ([]ScannedFile, error) {
	logger := contextutil.Logger(ctx, s.logger)

	var scannedFiles []ScannedFile
	err := filepath.Walk(s.root, func(path string, info os.FileInfo, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == s.root {
				return fmt.Errorf("failed to access content root %s: %w", path, err)
			}
			logger.WarnContext(ctx, "skipping inaccessible path", "path", path, "error", err)
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !info.Mode().IsRegular() {
			return nil
		}
		if s.isExcluded(path) {
			logger.DebugContext(ctx, "skipping excluded file", "path", path)
			return nil
		}

		relPath, err := filepath.Rel(s.root, path)
		if err != nil {
			return fmt.Errorf("failed to compute relative path for %s: %w", path, err)
		}

		scannedFiles = append(scannedFiles, ScannedFile{
			RelPath: filepath.ToSlash(relPath),
			AbsPath: path,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return scannedFiles, nil
}

// ReadAll reads files concurrently and returns them in input order. A file
// that fails to read is logged as a ReadError and left out.
func (s *Scanner) ReadAll(ctx context.Context, files []ScannedFile) ([]File, error) {
	logger := contextutil.Logger(ctx, s.logger)

	results := make([]File, len(files))
	ok := make([]bool, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(f.AbsPath)
			if err != nil {
				readErr := &ReadError{Path: f.RelPath, Err: err}
				logger.WarnContext(ctx, "skipping unreadable file", "path", f.RelPath, "error", readErr)
				return nil
			}
			sum := sha256.Sum256(data)
			results[i] = File{ScannedFile: f, Content: data, Hash: hex.EncodeToString(sum[:])}
			ok[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]File, 0, len(files))
	for i := range results {
		if ok[i] {
			out = append(out, results[i])
		}
	}
	return out, nil
}

// Walk scans the content root and reads every file found.
func (s *Scanner) Walk(ctx context.Context) ([]File, error) {
	scanned, err := s.Scan(ctx)
	if err != nil {
		return nil, err
	}
	return s.ReadAll(ctx, scanned)
}

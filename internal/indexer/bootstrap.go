package indexer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"docsearch/internal/contextutil"
	"docsearch/internal/index"
	"docsearch/internal/storage"
)

const lockRetryDelay = 100 * time.Millisecond

// BootstrapOptions configures a Bootstrapper.
type BootstrapOptions struct {
	// Site names the manifest rows of this index.
	Site string
	// Manifest records builds. Nil disables build records and stale checks.
	Manifest storage.ManifestStore
	// CheckStale rebuilds a loaded index whose recorded files or build
	// parameters differ from the current content.
	CheckStale bool
}

// Bootstrapper makes an index available before queries are served: it loads
// the persisted index, or builds and saves a fresh one.
type Bootstrapper struct {
	pipeline *Pipeline
	store    index.Store
	opts     BootstrapOptions
	lockPath string
	logger   *slog.Logger
}

// NewBootstrapper creates a Bootstrapper. Builds of the same index path are
// serialized across processes by a lock file next to the index.
func NewBootstrapper(pipeline *Pipeline, store index.Store, opts BootstrapOptions) *Bootstrapper {
	return &Bootstrapper{
		pipeline: pipeline,
		store:    store,
		opts:     opts,
		lockPath: store.Path() + ".lock",
		logger:   slog.Default(),
	}
}

// Bootstrap returns the persisted index when it loads cleanly, was built with
// the pipeline's tokenizer, and is fresh (if stale checks are on). Otherwise it
// rebuilds. The tokenizer check needs no manifest.
func (b *Bootstrapper) Bootstrap(ctx context.Context) (*index.Index, error) {
	logger := contextutil.Logger(ctx, b.logger).With("site", b.opts.Site)

	ix, err := b.store.Load(ctx)
	switch {
	case err == nil:
		if want := b.pipeline.Tokenizer().Version(); ix.TokenizerVersion != want {
			logger.InfoContext(ctx, "index tokenizer differs; rebuilding", "index_tokenizer", ix.TokenizerVersion, "tokenizer", want)
			break
		}
		if !b.opts.CheckStale || b.opts.Manifest == nil {
			logger.InfoContext(ctx, "loaded index", "path", b.store.Path(), "documents", ix.Len())
			return ix, nil
		}
		reason, staleErr := b.staleReason(ctx)
		if staleErr != nil {
			logger.WarnContext(ctx, "stale check failed; serving loaded index", "error", staleErr)
			return ix, nil
		}
		if reason == "" {
			logger.InfoContext(ctx, "loaded index", "path", b.store.Path(), "documents", ix.Len())
			return ix, nil
		}
		logger.InfoContext(ctx, "index is stale; rebuilding", "reason", reason)
	case errors.Is(err, index.ErrNotFound):
		logger.InfoContext(ctx, "no index found; building", "path", b.store.Path())
	default:
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logger.WarnContext(ctx, "failed to load index; rebuilding", "path", b.store.Path(), "error", err)
	}

	return b.Rebuild(ctx)
}

// Rebuild runs a full build, saves it and returns the new index. The
// persisted index is replaced only after the build succeeds.
func (b *Bootstrapper) Rebuild(ctx context.Context) (*index.Index, error) {
	logger := contextutil.Logger(ctx, b.logger).With("site", b.opts.Site)

	if err := os.MkdirAll(filepath.Dir(b.lockPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	lock := flock.New(b.lockPath)
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire build lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("failed to acquire build lock %s", b.lockPath)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.WarnContext(ctx, "failed to release build lock", "error", err)
		}
	}()

	params := b.pipeline.Params()

	var build storage.Build
	recording := b.opts.Manifest != nil
	if recording {
		build, err = b.opts.Manifest.StartBuild(ctx, b.opts.Site, params.TokenizerVersion)
		if err != nil {
			logger.WarnContext(ctx, "failed to record build start", "error", err)
			recording = false
		}
	}

	result, err := b.pipeline.Build(ctx)
	if err != nil {
		return nil, err
	}

	if err := b.store.Save(ctx, result.Index); err != nil {
		return nil, fmt.Errorf("failed to save index: %w", err)
	}

	if recording {
		build.Documents = countProducing(result.Files)
		build.Chunks = result.Index.Len()
		build.VocabularySize = len(result.Index.Vocabulary)
		build.IndexVersion = params.Version()
		if err := b.opts.Manifest.FinishBuild(ctx, build, result.Files); err != nil {
			logger.WarnContext(ctx, "failed to record build", "build_id", build.ID, "error", err)
		}
	}

	logger.InfoContext(ctx, "index saved", "path", b.store.Path(), "documents", result.Index.Len())
	return result.Index, nil
}

// staleReason compares the last recorded build with the current content.
// An empty reason means the persisted index is current.
func (b *Bootstrapper) staleReason(ctx context.Context) (string, error) {
	build, err := b.opts.Manifest.LatestBuild(ctx, b.opts.Site)
	if errors.Is(err, storage.ErrNotFound) {
		return "no recorded build", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get latest build: %w", err)
	}

	if build.IndexVersion != b.pipeline.Params().Version() {
		return "build parameters changed", nil
	}

	recorded, err := b.opts.Manifest.ListFiles(ctx, build.ID)
	if err != nil {
		return "", fmt.Errorf("failed to list recorded files: %w", err)
	}
	current, err := b.pipeline.walker.Walk(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to walk content: %w", err)
	}

	if len(recorded) != len(current) {
		return "file set changed", nil
	}
	hashes := make(map[string]string, len(recorded))
	for _, f := range recorded {
		hashes[f.RelPath] = f.Hash
	}
	for _, f := range current {
		hash, ok := hashes[f.RelPath]
		if !ok {
			return "file set changed", nil
		}
		if hash != f.Hash {
			return "content changed", nil
		}
	}

	return "", nil
}

func countProducing(files []storage.FileRecord) int {
	n := 0
	for _, f := range files {
		if f.ChunkCount > 0 {
			n++
		}
	}
	return n
}

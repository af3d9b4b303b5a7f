package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_manifest_store.go -package=mocks docsearch/internal/storage ManifestStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// ManifestStore records index builds and the files they covered.
type ManifestStore interface {
	// StartBuild inserts a running build for site and returns it with a fresh ID.
	StartBuild(ctx context.Context, site, tokenizerVersion string) (Build, error)
	// FinishBuild stores the totals of build and replaces its file list.
	FinishBuild(ctx context.Context, build Build, files []FileRecord) error
	// LatestBuild returns the most recently finished build of site.
	// Returns ErrNotFound if the site has never finished a build.
	LatestBuild(ctx context.Context, site string) (Build, error)
	// ListFiles returns the files of a build ordered by path.
	ListFiles(ctx context.Context, buildID string) ([]FileRecord, error)
}

// ManifestRepo provides methods for build manifest operations.
// It implements the ManifestStore interface.
type ManifestRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewManifestRepo creates a new ManifestRepo.
func NewManifestRepo(db *sql.DB) *ManifestRepo {
	return &ManifestRepo{db: db, now: time.Now}
}

// StartBuild inserts a running build for site.
func (r *ManifestRepo) StartBuild(ctx context.Context, site, tokenizerVersion string) (Build, error) {
	build := Build{
		ID:               uuid.New().String(),
		Site:             site,
		StartedAt:        r.now().UTC(),
		TokenizerVersion: tokenizerVersion,
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO builds (id, site, started_at, tokenizer_version) VALUES (?, ?, ?, ?)",
		build.ID, build.Site, formatTime(build.StartedAt), build.TokenizerVersion,
	)
	if err != nil {
		return Build{}, fmt.Errorf("failed to insert build: %w", err)
	}

	return build, nil
}

// FinishBuild marks build finished, stores its totals and file list in one
// transaction. A zero FinishedAt is set to the current time.
func (r *ManifestRepo) FinishBuild(ctx context.Context, build Build, files []FileRecord) error {
	if build.FinishedAt.IsZero() {
		build.FinishedAt = r.now().UTC()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx,
		`UPDATE builds SET finished_at = ?, documents = ?, chunks = ?, vocabulary_size = ?, index_version = ?
		 WHERE id = ?`,
		formatTime(build.FinishedAt), build.Documents, build.Chunks, build.VocabularySize, build.IndexVersion,
		build.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update build: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("build %s: %w", build.ID, ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM files WHERE build_id = ?", build.ID); err != nil {
		return fmt.Errorf("failed to clear build files: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO files (build_id, rel_path, hash, chunk_count) VALUES (?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("failed to prepare file insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for _, f := range files {
		if _, err := stmt.ExecContext(ctx, build.ID, f.RelPath, f.Hash, f.ChunkCount); err != nil {
			return fmt.Errorf("failed to insert file %s: %w", f.RelPath, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit build: %w", err)
	}
	return nil
}

// LatestBuild returns the most recently finished build of site.
func (r *ManifestRepo) LatestBuild(ctx context.Context, site string) (Build, error) {
	var build Build
	var startedAt, finishedAt string

	err := r.db.QueryRowContext(ctx,
		`SELECT id, site, started_at, finished_at, documents, chunks, vocabulary_size, tokenizer_version, index_version
		 FROM builds WHERE site = ? AND finished_at IS NOT NULL
		 ORDER BY finished_at DESC, started_at DESC LIMIT 1`,
		site,
	).Scan(&build.ID, &build.Site, &startedAt, &finishedAt, &build.Documents, &build.Chunks,
		&build.VocabularySize, &build.TokenizerVersion, &build.IndexVersion)

	if err == sql.ErrNoRows {
		return Build{}, ErrNotFound
	}
	if err != nil {
		return Build{}, fmt.Errorf("failed to query build: %w", err)
	}

	if build.StartedAt, err = parseTime(startedAt); err != nil {
		return Build{}, fmt.Errorf("failed to parse started_at timestamp: %w", err)
	}
	if build.FinishedAt, err = parseTime(finishedAt); err != nil {
		return Build{}, fmt.Errorf("failed to parse finished_at timestamp: %w", err)
	}

	return build, nil
}

// ListFiles returns the files of a build ordered by path.
func (r *ManifestRepo) ListFiles(ctx context.Context, buildID string) ([]FileRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT rel_path, hash, chunk_count FROM files WHERE build_id = ? ORDER BY rel_path",
		buildID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var files []FileRecord
	for rows.Next() {
		var f FileRecord
		if err := rows.Scan(&f.RelPath, &f.Hash, &f.ChunkCount); err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		files = append(files, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate files: %w", err)
	}

	return files, nil
}

// Fixed-width UTC timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

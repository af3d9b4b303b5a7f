package storage

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"testing"
	"time"
)

func newTestManifestRepo(t *testing.T) (*ManifestRepo, *sql.DB) {
	t.Helper()

	db, err := New(MemoryPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	return NewManifestRepo(db), db
}

// fixedClock returns a clock that advances one second per call.
func fixedClock() func() time.Time {
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func TestManifestRepo_StartBuild(t *testing.T) {
	repo, db := newTestManifestRepo(t)
	ctx := context.Background()

	build, err := repo.StartBuild(ctx, "docs", "v1+porter")
	if err != nil {
		t.Fatalf("StartBuild() error = %v", err)
	}

	if len(build.ID) != 36 {
		t.Errorf("StartBuild() ID = %q, want UUID", build.ID)
	}
	if build.Finished() {
		t.Error("StartBuild() build should not be finished")
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM builds WHERE id = ?", build.ID).Scan(&count); err != nil {
		t.Fatalf("Failed to count builds: %v", err)
	}
	if count != 1 {
		t.Errorf("StartBuild() inserted %d rows, want 1", count)
	}

	// An unfinished build is never the latest.
	if _, err := repo.LatestBuild(ctx, "docs"); !errors.Is(err, ErrNotFound) {
		t.Errorf("LatestBuild() error = %v, want ErrNotFound", err)
	}
}

func TestManifestRepo_FinishBuild(t *testing.T) {
	repo, _ := newTestManifestRepo(t)
	repo.now = fixedClock()
	ctx := context.Background()

	build, err := repo.StartBuild(ctx, "docs", "v1+porter")
	if err != nil {
		t.Fatalf("StartBuild() error = %v", err)
	}

	build.Documents = 2
	build.Chunks = 5
	build.VocabularySize = 40
	build.IndexVersion = "0123456789abcdef"
	files := []FileRecord{
		{RelPath: "guide/b.md", Hash: "bbb", ChunkCount: 3},
		{RelPath: "a.md", Hash: "aaa", ChunkCount: 2},
	}

	if err := repo.FinishBuild(ctx, build, files); err != nil {
		t.Fatalf("FinishBuild() error = %v", err)
	}

	latest, err := repo.LatestBuild(ctx, "docs")
	if err != nil {
		t.Fatalf("LatestBuild() error = %v", err)
	}

	if latest.ID != build.ID {
		t.Errorf("LatestBuild().ID = %q, want %q", latest.ID, build.ID)
	}
	if latest.Documents != 2 || latest.Chunks != 5 || latest.VocabularySize != 40 {
		t.Errorf("LatestBuild() totals = %+v", latest)
	}
	if latest.IndexVersion != "0123456789abcdef" || latest.TokenizerVersion != "v1+porter" {
		t.Errorf("LatestBuild() versions = %q, %q", latest.IndexVersion, latest.TokenizerVersion)
	}
	if !latest.StartedAt.Equal(build.StartedAt) {
		t.Errorf("LatestBuild().StartedAt = %v, want %v", latest.StartedAt, build.StartedAt)
	}
	if !latest.FinishedAt.After(latest.StartedAt) {
		t.Errorf("LatestBuild().FinishedAt = %v, want after %v", latest.FinishedAt, latest.StartedAt)
	}

	got, err := repo.ListFiles(ctx, build.ID)
	if err != nil {
		t.Fatalf("ListFiles() error = %v", err)
	}
	want := []FileRecord{files[1], files[0]}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListFiles() = %+v, want %+v", got, want)
	}
}

func TestManifestRepo_FinishBuild_ReplacesFiles(t *testing.T) {
	repo, _ := newTestManifestRepo(t)
	ctx := context.Background()

	build, err := repo.StartBuild(ctx, "docs", "v1+porter")
	if err != nil {
		t.Fatalf("StartBuild() error = %v", err)
	}

	if err := repo.FinishBuild(ctx, build, []FileRecord{{RelPath: "old.md", Hash: "x", ChunkCount: 1}}); err != nil {
		t.Fatalf("FinishBuild() first error = %v", err)
	}
	if err := repo.FinishBuild(ctx, build, []FileRecord{{RelPath: "new.md", Hash: "y", ChunkCount: 1}}); err != nil {
		t.Fatalf("FinishBuild() second error = %v", err)
	}

	files, err := repo.ListFiles(ctx, build.ID)
	if err != nil {
		t.Fatalf("ListFiles() error = %v", err)
	}
	if len(files) != 1 || files[0].RelPath != "new.md" {
		t.Errorf("ListFiles() = %+v, want only new.md", files)
	}
}

func TestManifestRepo_FinishBuild_UnknownBuild(t *testing.T) {
	repo, _ := newTestManifestRepo(t)

	err := repo.FinishBuild(context.Background(), Build{ID: "missing"}, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("FinishBuild() error = %v, want ErrNotFound", err)
	}
}

func TestManifestRepo_LatestBuild(t *testing.T) {
	repo, _ := newTestManifestRepo(t)
	repo.now = fixedClock()
	ctx := context.Background()

	var lastDocs string
	for _, site := range []string{"docs", "docs", "blog"} {
		build, err := repo.StartBuild(ctx, site, "v1+porter")
		if err != nil {
			t.Fatalf("StartBuild() error = %v", err)
		}
		if err := repo.FinishBuild(ctx, build, nil); err != nil {
			t.Fatalf("FinishBuild() error = %v", err)
		}
		if site == "docs" {
			lastDocs = build.ID
		}
	}

	latest, err := repo.LatestBuild(ctx, "docs")
	if err != nil {
		t.Fatalf("LatestBuild() error = %v", err)
	}
	if latest.ID != lastDocs {
		t.Errorf("LatestBuild() = %s, want %s", latest.ID, lastDocs)
	}

	if _, err := repo.LatestBuild(ctx, "unknown"); !errors.Is(err, ErrNotFound) {
		t.Errorf("LatestBuild(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestManifestRepo_ListFiles_Empty(t *testing.T) {
	repo, _ := newTestManifestRepo(t)

	files, err := repo.ListFiles(context.Background(), "none")
	if err != nil {
		t.Fatalf("ListFiles() error = %v", err)
	}
	if len(files) != 0 {
		t.Errorf("ListFiles() = %+v, want empty", files)
	}
}

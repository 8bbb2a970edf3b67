package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/pders01/vidr/internal/video"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "test.db"), 0)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_LoadSessionAbsent(t *testing.T) {
	store := setupTestStore(t)

	blob, err := store.LoadSession()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if blob != nil {
		t.Errorf("expected no session, got %q", blob)
	}
}

func TestStore_SaveAndLoadSession(t *testing.T) {
	store := setupTestStore(t)

	if err := store.SaveSession([]byte(`{"current":2}`)); err != nil {
		t.Fatalf("failed to save session: %v", err)
	}
	if err := store.SaveSession([]byte(`{"current":3}`)); err != nil {
		t.Fatalf("failed to overwrite session: %v", err)
	}

	blob, err := store.LoadSession()
	if err != nil {
		t.Fatalf("failed to load session: %v", err)
	}
	if string(blob) != `{"current":3}` {
		t.Errorf("expected latest session, got %q", blob)
	}

	if err := store.ClearSession(); err != nil {
		t.Fatalf("failed to clear session: %v", err)
	}
	blob, _ = store.LoadSession()
	if blob != nil {
		t.Errorf("expected cleared session, got %q", blob)
	}
}

func TestStore_SessionSurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewStore(dbPath, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.SaveSession([]byte("blob")); err != nil {
		t.Fatal(err)
	}
	store.Close()

	store, err = NewStore(dbPath, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	blob, err := store.LoadSession()
	if err != nil {
		t.Fatal(err)
	}
	if string(blob) != "blob" {
		t.Errorf("expected blob, got %q", blob)
	}
}

func TestStore_Uploads(t *testing.T) {
	store := setupTestStore(t)

	u := &Uploads{
		Uploader:     "alice",
		ETag:         `"abc123"`,
		LastModified: "Wed, 01 Jan 2025 00:00:00 GMT",
		LastFetched:  time.Now(),
		Videos:       []*video.Video{{ID: "v1", Title: "First", Uploader: "alice"}},
	}
	if err := store.SaveUploads(u); err != nil {
		t.Fatalf("failed to save uploads: %v", err)
	}

	got, err := store.GetUploads("alice")
	if err != nil {
		t.Fatalf("failed to get uploads: %v", err)
	}
	if got == nil || got.ETag != u.ETag || len(got.Videos) != 1 || got.Videos[0].ID != "v1" {
		t.Errorf("unexpected uploads: %+v", got)
	}

	missing, err := store.GetUploads("bob")
	if err != nil || missing != nil {
		t.Errorf("expected nil for unknown uploader, got %+v, %v", missing, err)
	}

	all, err := store.GetAllUploads()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all["alice"] == nil {
		t.Errorf("expected alice only, got %v", all)
	}

	if err := store.DeleteUploads("alice"); err != nil {
		t.Fatalf("failed to delete uploads: %v", err)
	}
	got, _ = store.GetUploads("alice")
	if got != nil {
		t.Errorf("expected uploads to be deleted")
	}
}

func TestStore_PruneUploads(t *testing.T) {
	store := setupTestStore(t)
	old := time.Now().Add(-30 * 24 * time.Hour)

	for _, u := range []*Uploads{
		{Uploader: "kept", LastFetched: old},
		{Uploader: "stale", LastFetched: old},
		{Uploader: "recent", LastFetched: time.Now()},
	} {
		if err := store.SaveUploads(u); err != nil {
			t.Fatalf("failed to save uploads: %v", err)
		}
	}

	removed, err := store.PruneUploads([]string{"kept"}, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("prune failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 removed, got %d", removed)
	}

	all, err := store.GetAllUploads()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if _, ok := all["stale"]; ok {
		t.Error("stale feed should be pruned")
	}
	if len(all) != 2 {
		t.Errorf("expected 2 cached feeds, got %d", len(all))
	}
}

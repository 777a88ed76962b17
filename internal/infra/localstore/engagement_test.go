package localstore

import (
	"testing"
)

func TestEngagementStoreCopyCounts(t *testing.T) {
	store, err := NewEngagementStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store failed: %v", err)
	}

	for want := 1; want <= 3; want++ {
		got, err := store.IncrementCopy("c1")
		if err != nil {
			t.Fatalf("increment failed: %v", err)
		}
		if got != want {
			t.Fatalf("expected count %d, got %d", want, got)
		}
	}

	counts := store.CopyCounts()
	if counts["c1"] != 3 {
		t.Fatalf("expected snapshot count 3, got %d", counts["c1"])
	}
	if counts["missing"] != 0 {
		t.Fatalf("missing id should read as zero")
	}
}

func TestEngagementStoreToggleLike(t *testing.T) {
	store, err := NewEngagementStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store failed: %v", err)
	}

	liked, err := store.ToggleLike("c1")
	if err != nil || !liked {
		t.Fatalf("first toggle should like: %v %v", liked, err)
	}
	liked, err = store.ToggleLike("c1")
	if err != nil || liked {
		t.Fatalf("second toggle should unlike: %v %v", liked, err)
	}

	if ids := store.LikedIDs(); len(ids) != 0 {
		t.Fatalf("expected empty like set, got %v", ids)
	}
}

func TestEngagementStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewEngagementStore(dir)
	if err != nil {
		t.Fatalf("new store failed: %v", err)
	}
	if _, err := store.IncrementCopy("c1"); err != nil {
		t.Fatalf("increment failed: %v", err)
	}
	if _, err := store.IncrementCopy("c1"); err != nil {
		t.Fatalf("increment failed: %v", err)
	}
	if _, err := store.ToggleLike("c2"); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	reopened, err := NewEngagementStore(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if got := reopened.CopyCounts()["c1"]; got != 2 {
		t.Fatalf("expected persisted count 2, got %d", got)
	}
	if !reopened.LikedIDs()["c2"] {
		t.Fatalf("expected persisted like for c2")
	}
}

package out

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"checkpoint/internal/modules/session/domain"
)

func newTestStore(t *testing.T) *SQLiteSessionStore {
	t.Helper()
	store, err := NewSQLiteSessionStore(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func strptr(s string) *string { return &s }

func TestPutAndListOrdering(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	for _, s := range []domain.Session{
		{ID: "old", Game: "Hades", Start: 100, End: 200},
		{ID: "new", Game: "Celeste", Start: 900, End: 950, Intent: strptr("one clean run")},
		{ID: "mid", Game: "Hades", Start: 500, End: 600, Outcome: strptr("cleared")},
	} {
		if err := store.Put(ctx, s); err != nil {
			t.Fatalf("put %s: %v", s.ID, err)
		}
	}

	sessions, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(sessions))
	}
	for i, want := range []string{"new", "mid", "old"} {
		if sessions[i].ID != want {
			t.Fatalf("expected %s at position %d, got %s", want, i, sessions[i].ID)
		}
	}
	if sessions[0].Intent == nil || *sessions[0].Intent != "one clean run" {
		t.Fatalf("intent lost in round trip: %+v", sessions[0])
	}
	if sessions[2].Intent != nil || sessions[2].Outcome != nil {
		t.Fatalf("absent notes must stay nil: %+v", sessions[2])
	}
}

func TestPutUpsertsByID(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, domain.Session{ID: "a", Game: "Hades", Start: 1, End: 2, Outcome: strptr("died")}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Put(ctx, domain.Session{ID: "a", Game: "Hades II", Start: 1, End: 3}); err != nil {
		t.Fatalf("second put: %v", err)
	}

	sessions, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected one row after upsert, got %d", len(sessions))
	}
	if sessions[0].Game != "Hades II" || sessions[0].End != 3 {
		t.Fatalf("upsert did not replace fields: %+v", sessions[0])
	}
	if sessions[0].Outcome != nil {
		t.Fatalf("upsert must clear a removed outcome, got %q", *sessions[0].Outcome)
	}
}

func TestBulkPutIsAtomicUpsert(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, domain.Session{ID: "a", Game: "Old", Start: 1, End: 2}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	err := store.BulkPut(ctx, []domain.Session{
		{ID: "a", Game: "New", Start: 1, End: 2},
		{ID: "b", Game: "Celeste", Start: 3, End: 4},
	})
	if err != nil {
		t.Fatalf("bulk put: %v", err)
	}

	sessions, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(sessions))
	}
	for _, s := range sessions {
		if s.ID == "a" && s.Game != "New" {
			t.Fatalf("bulk upsert must replace existing row: %+v", s)
		}
	}
}

func TestDeleteRemovesRow(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, domain.Session{ID: "a", Game: "G", Start: 1, End: 2}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, "a"); err != nil {
		t.Fatalf("repeat delete must be a no-op: %v", err)
	}
	sessions, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 0 {
		t.Fatalf("expected empty store, got %d rows", len(sessions))
	}
}

func TestSerializedWritesLastWriteWins(t *testing.T) {
	t.Parallel()
	store := NewSerializedWrites(newTestStore(t))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int64) {
			defer wg.Done()
			_ = store.Put(ctx, domain.Session{ID: "contended", Game: "G", Start: n, End: n + 1})
		}(int64(i))
	}
	wg.Wait()

	if err := store.Put(ctx, domain.Session{ID: "contended", Game: "G", Start: 100, End: 200}); err != nil {
		t.Fatalf("final put: %v", err)
	}
	sessions, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Start != 100 || sessions[0].End != 200 {
		t.Fatalf("last write must win: %+v", sessions)
	}
}

func TestSerializedWritesBulkCoexistsWithSingles(t *testing.T) {
	t.Parallel()
	store := NewSerializedWrites(newTestStore(t))
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = store.BulkPut(ctx, []domain.Session{
			{ID: "a", Game: "A", Start: 1, End: 2},
			{ID: "b", Game: "B", Start: 3, End: 4},
			{ID: "a", Game: "A", Start: 1, End: 2},
		})
	}()
	go func() {
		defer wg.Done()
		_ = store.Put(ctx, domain.Session{ID: "a", Game: "A2", Start: 5, End: 6})
	}()
	wg.Wait()

	sessions, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(sessions))
	}
}

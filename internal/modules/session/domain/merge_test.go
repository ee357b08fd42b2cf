package domain_test

import (
	"reflect"
	"testing"

	"checkpoint/internal/modules/session/domain"
)

func sess(id string, start, end int64) domain.Session {
	return domain.Session{ID: id, Game: "G", Start: start, End: end}
}

func TestMergeIncomingWins(t *testing.T) {
	t.Parallel()
	current := []domain.Session{{ID: "1", Game: "Old", Start: 5, End: 6}}
	incoming := []domain.Session{{ID: "1", Game: "New", Start: 9, End: 10}}
	out := domain.Merge(current, incoming)
	if len(out) != 1 {
		t.Fatalf("expected one record, got %d", len(out))
	}
	if out[0].Game != "New" || out[0].Start != 9 {
		t.Fatalf("expected incoming fields to win, got %+v", out[0])
	}
}

func TestMergeKeepsCurrentRecordsAbsentFromIncoming(t *testing.T) {
	t.Parallel()
	current := []domain.Session{sess("a", 1, 2), sess("b", 3, 4)}
	incoming := []domain.Session{sess("c", 5, 6)}
	out := domain.Merge(current, incoming)
	if len(out) != 3 {
		t.Fatalf("expected 3 records, got %d", len(out))
	}
}

func TestMergeSortsByStartDescending(t *testing.T) {
	t.Parallel()
	out := domain.Merge(
		[]domain.Session{sess("a", 10, 11), sess("b", 30, 31)},
		[]domain.Session{sess("c", 20, 21)},
	)
	for i := 1; i < len(out); i++ {
		if out[i-1].Start < out[i].Start {
			t.Fatalf("output not sorted by start descending: %+v", out)
		}
	}
}

func TestMergeIdempotent(t *testing.T) {
	t.Parallel()
	a := []domain.Session{sess("a", 1, 2), sess("b", 3, 4)}
	b := []domain.Session{sess("b", 7, 8), sess("c", 5, 6)}
	once := domain.Merge(a, b)
	twice := domain.Merge(once, b)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("merge not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestUpsertReplacesById(t *testing.T) {
	t.Parallel()
	out := domain.Upsert([]domain.Session{sess("a", 1, 2)}, sess("a", 9, 12))
	if len(out) != 1 || out[0].End != 12 {
		t.Fatalf("expected replacement, got %+v", out)
	}
}

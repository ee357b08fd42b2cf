package domain_test

import (
	"testing"
	"time"

	"checkpoint/internal/modules/session/domain"
)

func TestDayKeyGroupsByLocalDate(t *testing.T) {
	t.Parallel()
	loc := time.FixedZone("UTC+2", 2*3600)
	morning := time.Date(2026, 3, 14, 0, 5, 0, 0, loc)
	night := time.Date(2026, 3, 14, 23, 55, 0, 0, loc)
	nextDay := time.Date(2026, 3, 15, 0, 5, 0, 0, loc)

	if domain.DayKey(morning) != domain.DayKey(night) {
		t.Fatalf("same local date should share a day key")
	}
	if domain.DayKey(night) == domain.DayKey(nextDay) {
		t.Fatalf("different local dates must not share a day key")
	}
}

func TestShiftDayRoundTrip(t *testing.T) {
	t.Parallel()
	loc := time.FixedZone("UTC-5", -5*3600)
	key := domain.DayKey(time.Date(2026, 12, 31, 18, 0, 0, 0, loc))

	forward := domain.ShiftDay(key, 1, loc)
	if forward == key {
		t.Fatalf("shift by one day must change the key")
	}
	if back := domain.ShiftDay(forward, -1, loc); back != key {
		t.Fatalf("round trip mismatch: %d != %d", back, key)
	}

	// Crossing the year boundary must land on Jan 1.
	next := time.UnixMilli(forward).In(loc)
	if next.Year() != 2027 || next.Month() != time.January || next.Day() != 1 {
		t.Fatalf("expected 2027-01-01, got %v", next)
	}
}

func TestShiftDayAcrossDSTTransition(t *testing.T) {
	t.Parallel()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tz database unavailable: %v", err)
	}

	// 2026-03-08 is a 23-hour day in America/New_York.
	before := domain.DayKey(time.Date(2026, 3, 7, 12, 0, 0, 0, loc))
	during := domain.ShiftDay(before, 1, loc)
	after := domain.ShiftDay(during, 1, loc)

	if got := time.UnixMilli(during).In(loc); got.Day() != 8 || got.Hour() != 0 {
		t.Fatalf("expected midnight Mar 8, got %v", got)
	}
	if got := time.UnixMilli(after).In(loc); got.Day() != 9 || got.Hour() != 0 {
		t.Fatalf("expected midnight Mar 9, got %v", got)
	}
	if back := domain.ShiftDay(after, -2, loc); back != before {
		t.Fatalf("DST round trip mismatch: %d != %d", back, before)
	}
}

func TestSameDay(t *testing.T) {
	t.Parallel()
	loc := time.FixedZone("UTC+9", 9*3600)
	key := domain.DayKey(time.Date(2026, 6, 1, 10, 0, 0, 0, loc))
	inside := time.Date(2026, 6, 1, 23, 59, 59, 0, loc).UnixMilli()
	outside := time.Date(2026, 6, 2, 0, 0, 1, 0, loc).UnixMilli()

	if !domain.SameDay(key, inside, loc) {
		t.Fatalf("expected %d to fall inside the bucket", inside)
	}
	if domain.SameDay(key, outside, loc) {
		t.Fatalf("expected %d to fall outside the bucket", outside)
	}
}

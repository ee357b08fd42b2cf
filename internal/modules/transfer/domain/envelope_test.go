package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	sessiondomain "checkpoint/internal/modules/session/domain"
	"checkpoint/internal/modules/transfer/domain"
)

func note(s string) *string { return &s }

func TestExportEnvelopeShape(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	sessions := []sessiondomain.Session{
		{ID: "a", Game: "Hades", Start: 100, End: 200, Intent: note("one run")},
	}
	payload, err := domain.Export(sessions, now)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if string(decoded["version"]) != "1" {
		t.Fatalf("expected version 1, got %s", decoded["version"])
	}
	var exportedAt int64
	if err := json.Unmarshal(decoded["exportedAt"], &exportedAt); err != nil || exportedAt != now.UnixMilli() {
		t.Fatalf("unexpected exportedAt: %s", decoded["exportedAt"])
	}
}

func TestExportEmptyCollectionSucceeds(t *testing.T) {
	t.Parallel()
	payload, err := domain.Export(nil, time.UnixMilli(0))
	if err != nil {
		t.Fatalf("export empty: %v", err)
	}
	var envelope domain.Envelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if envelope.Sessions == nil || len(envelope.Sessions) != 0 {
		t.Fatalf("sessions must serialize as an empty list, got %+v", envelope.Sessions)
	}
}

func TestExportOmitsAbsentNotes(t *testing.T) {
	t.Parallel()
	payload, err := domain.Export([]sessiondomain.Session{{ID: "a", Game: "G", Start: 1, End: 2}}, time.UnixMilli(0))
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	var envelope struct {
		Sessions []map[string]any `json:"sessions"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if _, ok := envelope.Sessions[0]["intent"]; ok {
		t.Fatalf("absent intent must be omitted, not null")
	}
	if _, ok := envelope.Sessions[0]["outcome"]; ok {
		t.Fatalf("absent outcome must be omitted, not null")
	}
}

func TestExportExtractRoundTrip(t *testing.T) {
	t.Parallel()
	sessions := []sessiondomain.Session{
		{ID: "b", Game: "Celeste", Start: 300, End: 400, Outcome: note("cleared 4A")},
		{ID: "a", Game: "Hades", Start: 100, End: 200, Intent: note("one run")},
	}
	payload, err := domain.Export(sessions, time.UnixMilli(1234))
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	result := domain.ExtractSessions(payload)
	if result == nil {
		t.Fatalf("extract of an export must find a session list")
	}
	if result.Total != len(sessions) || result.InvalidCount != 0 {
		t.Fatalf("round trip lost records: %+v", result)
	}
	got := map[string]sessiondomain.Session{}
	for _, s := range result.Sessions {
		got[s.ID] = s
	}
	for _, want := range sessions {
		have, ok := got[want.ID]
		if !ok || !sessionEqual(have, want) {
			t.Fatalf("round trip mismatch for %s: %+v vs %+v", want.ID, have, want)
		}
	}
}

func sessionEqual(a, b sessiondomain.Session) bool {
	return a.ID == b.ID && a.Game == b.Game && a.Start == b.Start && a.End == b.End &&
		noteEqual(a.Intent, b.Intent) && noteEqual(a.Outcome, b.Outcome)
}

func noteEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func TestDigestStableAcrossWhitespace(t *testing.T) {
	t.Parallel()
	a, err := domain.Digest([]byte(`{"b":1,"a":2}`))
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	b, err := domain.Digest([]byte("{\n  \"a\": 2,\n  \"b\": 1\n}"))
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	if a != b {
		t.Fatalf("canonical digests must match: %s vs %s", a, b)
	}
}

package domain_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"checkpoint/internal/modules/session/domain"
)

func TestIsSessionLike(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		raw  string
		want bool
	}{
		{"full record", `{"id":"a","game":"G","start":1,"end":2,"intent":"i","outcome":"o"}`, true},
		{"required only", `{"id":"a","game":"G","start":1,"end":2}`, true},
		{"end before start tolerated", `{"id":"a","game":"G","start":9,"end":2}`, true},
		{"extra fields ignored", `{"id":"a","game":"G","start":1,"end":2,"color":"red"}`, true},
		{"fractional timestamps", `{"id":"a","game":"G","start":1.5,"end":2.5}`, true},
		{"missing id", `{"game":"G","start":1,"end":2}`, false},
		{"numeric id", `{"id":7,"game":"G","start":1,"end":2}`, false},
		{"string start", `{"id":"a","game":"G","start":"1","end":2}`, false},
		{"null intent", `{"id":"a","game":"G","start":1,"end":2,"intent":null}`, false},
		{"numeric outcome", `{"id":"a","game":"G","start":1,"end":2,"outcome":3}`, false},
		{"not an object", `[1,2,3]`, false},
		{"null", `null`, false},
		{"bare string", `"session"`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := domain.IsSessionLike([]byte(tc.raw)); got != tc.want {
				t.Fatalf("IsSessionLike(%s) = %t, want %t", tc.raw, got, tc.want)
			}
		})
	}
}

func TestTrimNote(t *testing.T) {
	t.Parallel()
	if domain.TrimNote("  ") != nil {
		t.Fatalf("whitespace-only note must become absent")
	}
	if got := domain.TrimNote("  beat the boss  "); got == nil || *got != "beat the boss" {
		t.Fatalf("expected trimmed note, got %v", got)
	}
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}
	if got := domain.TrimNote(string(long)); got == nil || len(*got) != domain.NoteLimit {
		t.Fatalf("expected note capped at %d chars", domain.NoteLimit)
	}
}

func TestTrimNoteCountsRunesNotBytes(t *testing.T) {
	t.Parallel()
	within := strings.Repeat("日", domain.NoteLimit)
	if got := domain.TrimNote(within); got == nil || *got != within {
		t.Fatalf("a %d-rune note must survive untouched", domain.NoteLimit)
	}

	over := strings.Repeat("日", domain.NoteLimit+60)
	got := domain.TrimNote(over)
	if got == nil || utf8.RuneCountInString(*got) != domain.NoteLimit {
		t.Fatalf("expected cap at %d runes, got %d", domain.NoteLimit, utf8.RuneCountInString(*got))
	}

	// A multi-byte rune straddling the limit must not be cut mid-rune.
	straddling := strings.Repeat("x", domain.NoteLimit-1) + strings.Repeat("é", 10)
	got = domain.TrimNote(straddling)
	if got == nil || !utf8.ValidString(*got) {
		t.Fatalf("truncated note must stay valid UTF-8: %q", *got)
	}
	if utf8.RuneCountInString(*got) != domain.NoteLimit {
		t.Fatalf("expected %d runes, got %d", domain.NoteLimit, utf8.RuneCountInString(*got))
	}
}

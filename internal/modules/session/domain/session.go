package domain

import (
	"strings"
	"time"
)

// NoteLimit caps intent/outcome text captured at entry surfaces. Imported
// records are taken as-is.
const NoteLimit = 240

// Session is a finished interval of recorded play. Start and End are epoch
// milliseconds; End > Start holds for anything created through the lifecycle
// or manual entry, but imported legacy records may violate it.
type Session struct {
	ID      string  `json:"id"`
	Game    string  `json:"game"`
	Start   int64   `json:"start"`
	End     int64   `json:"end"`
	Intent  *string `json:"intent,omitempty"`
	Outcome *string `json:"outcome,omitempty"`
}

// ActiveSession is the in-progress projection of a Session: no End, no
// Outcome yet. At most one exists at a time.
type ActiveSession struct {
	ID     string  `json:"id"`
	Game   string  `json:"game"`
	Start  int64   `json:"start"`
	Intent *string `json:"intent,omitempty"`
}

// Finish closes an active session at end (epoch ms), carrying the intent over.
func (a ActiveSession) Finish(end int64) Session {
	return Session{
		ID:     a.ID,
		Game:   a.Game,
		Start:  a.Start,
		End:    end,
		Intent: a.Intent,
	}
}

func (s Session) Duration() time.Duration {
	return time.Duration(s.End-s.Start) * time.Millisecond
}

// TrimNote normalizes free-text note input: trimmed, capped at NoteLimit
// runes, empty becomes absent. The cap counts runes, not bytes, so multi-byte
// text is never cut mid-rune.
func TrimNote(s string) *string {
	t := strings.TrimSpace(s)
	if t == "" {
		return nil
	}
	if r := []rune(t); len(r) > NoteLimit {
		t = string(r[:NoteLimit])
	}
	return &t
}

package domain

import (
	"bytes"
	"encoding/json"

	sessiondomain "checkpoint/internal/modules/session/domain"
)

// ExtractResult reports what a transfer payload contained. Total counts raw
// candidates before filtering, so a caller can tell "zero candidates" apart
// from "all candidates invalid".
type ExtractResult struct {
	Sessions     []sessiondomain.Session
	Total        int
	InvalidCount int
}

// wireSession is the projection target for a validated entry. Timestamps
// decode as float64 because the shape contract accepts any finite number;
// unknown extra fields are dropped here.
type wireSession struct {
	ID      string  `json:"id"`
	Game    string  `json:"game"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Intent  *string `json:"intent"`
	Outcome *string `json:"outcome"`
}

// ExtractSessions pulls session records out of an arbitrary JSON payload:
// either a bare array, or an object with a "sessions" array field. Any other
// shape returns nil, a distinct outcome from an empty array. Entries failing
// the shape contract are skipped and counted.
func ExtractSessions(payload []byte) *ExtractResult {
	raw, ok := candidateList(payload)
	if !ok {
		return nil
	}
	result := &ExtractResult{Sessions: []sessiondomain.Session{}, Total: len(raw)}
	for _, entry := range raw {
		if !sessiondomain.IsSessionLike(entry) {
			continue
		}
		var w wireSession
		if err := json.Unmarshal(entry, &w); err != nil {
			continue
		}
		result.Sessions = append(result.Sessions, sessiondomain.Session{
			ID:      w.ID,
			Game:    w.Game,
			Start:   int64(w.Start),
			End:     int64(w.End),
			Intent:  w.Intent,
			Outcome: w.Outcome,
		})
	}
	result.InvalidCount = result.Total - len(result.Sessions)
	return result
}

func candidateList(payload []byte) ([]json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil, false
	}
	switch trimmed[0] {
	case '[':
		var list []json.RawMessage
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, false
		}
		return list, true
	case '{':
		var envelope struct {
			Sessions json.RawMessage `json:"sessions"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, false
		}
		field := bytes.TrimSpace(envelope.Sessions)
		if len(field) == 0 || field[0] != '[' {
			return nil, false
		}
		var list []json.RawMessage
		if err := json.Unmarshal(field, &list); err != nil {
			return nil, false
		}
		return list, true
	default:
		return nil, false
	}
}

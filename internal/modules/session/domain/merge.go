package domain

import "sort"

// Merge reconciles two session collections by identity. incoming wins
// unconditionally for a shared id; nothing in current is dropped unless
// incoming replaces it. The result is ordered by start descending, ties
// broken by id so the output is deterministic.
func Merge(current, incoming []Session) []Session {
	merged := make(map[string]Session, len(current)+len(incoming))
	for _, s := range current {
		merged[s.ID] = s
	}
	for _, s := range incoming {
		merged[s.ID] = s
	}
	out := make([]Session, 0, len(merged))
	for _, s := range merged {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start > out[j].Start
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Upsert is the single-record form of Merge, used for edit and create.
func Upsert(current []Session, s Session) []Session {
	return Merge(current, []Session{s})
}

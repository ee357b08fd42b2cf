package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gowebpki/jcs"

	sessiondomain "checkpoint/internal/modules/session/domain"
)

const FormatVersion = 1

// Envelope is the transfer file format. Import never checks version; it is
// written for forward compatibility only.
type Envelope struct {
	Version    int                     `json:"version"`
	ExportedAt int64                   `json:"exportedAt"`
	Sessions   []sessiondomain.Session `json:"sessions"`
}

// Export wraps the collection as held, in order, with no filtering or
// re-validation. It succeeds for any collection, including an empty one.
func Export(sessions []sessiondomain.Session, now time.Time) ([]byte, error) {
	if sessions == nil {
		sessions = []sessiondomain.Session{}
	}
	envelope := Envelope{
		Version:    FormatVersion,
		ExportedAt: now.UnixMilli(),
		Sessions:   sessions,
	}
	payload, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export envelope: %w", err)
	}
	return payload, nil
}

// Digest returns the sha256 hex digest of the RFC 8785 canonical form of a
// JSON payload. Canonicalizing first makes the digest stable across
// re-serialization that only changes field order or whitespace.
func Digest(payload []byte) (string, error) {
	canonical, err := jcs.Transform(payload)
	if err != nil {
		return "", fmt.Errorf("canonicalize payload: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

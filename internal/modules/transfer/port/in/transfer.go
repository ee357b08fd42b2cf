package in

import (
	"context"

	"checkpoint/internal/modules/transfer/dto"
)

type Usecase interface {
	// Import merges sessions from a transfer payload. Failure modes are the
	// sentinel errors ErrMalformedPayload, ErrNoSessionList and
	// ErrNoValidSessions; a payload with zero candidates returns a zero
	// Total and no error.
	Import(ctx context.Context, payload []byte) (dto.ImportOutput, error)
	// Export serializes the full collection as the versioned envelope, with
	// a canonical digest of the payload.
	Export(ctx context.Context) (dto.ExportOutput, error)
}

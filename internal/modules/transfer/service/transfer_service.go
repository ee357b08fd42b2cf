package service

import (
	"encoding/json"

	sessiondomain "checkpoint/internal/modules/session/domain"
	"checkpoint/internal/modules/transfer/domain"
	"checkpoint/internal/platform/clock"
	apperrors "checkpoint/internal/platform/errors"
)

type TransferService struct {
	clock clock.Clock
}

func NewTransferService(clk clock.Clock) *TransferService {
	return &TransferService{clock: clk}
}

// Parse applies the import taxonomy to a raw payload, in priority order:
// malformed JSON, then no session list, then the extraction counts. A result
// with Total == 0 is informational, not a failure; that is for the caller.
func (s *TransferService) Parse(payload []byte) (*domain.ExtractResult, error) {
	if !json.Valid(payload) {
		return nil, apperrors.ErrMalformedPayload
	}
	result := domain.ExtractSessions(payload)
	if result == nil {
		return nil, apperrors.ErrNoSessionList
	}
	if result.Total > 0 && len(result.Sessions) == 0 {
		return nil, apperrors.ErrNoValidSessions
	}
	return result, nil
}

func (s *TransferService) BuildExport(sessions []sessiondomain.Session) ([]byte, string, error) {
	payload, err := domain.Export(sessions, s.clock.Now())
	if err != nil {
		return nil, "", err
	}
	digest, err := domain.Digest(payload)
	if err != nil {
		return nil, "", err
	}
	return payload, digest, nil
}

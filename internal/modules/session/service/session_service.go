package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"checkpoint/internal/modules/session/domain"
	"checkpoint/internal/platform/clock"
	apperrors "checkpoint/internal/platform/errors"
	"checkpoint/internal/platform/id"
)

// manualTimeLayouts are the accepted textual timestamp forms for manual
// entry, tried in order; bare integers are read as epoch milliseconds.
var manualTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

type SessionService struct {
	clock clock.Clock
	idGen id.Generator
}

func NewSessionService(clock clock.Clock, idGen id.Generator) *SessionService {
	return &SessionService{clock: clock, idGen: idGen}
}

// Begin creates an active session with a fresh id and start = now.
func (s *SessionService) Begin(game, intent string) (domain.ActiveSession, error) {
	title := strings.TrimSpace(game)
	if title == "" {
		return domain.ActiveSession{}, fmt.Errorf("%w: game title is required", apperrors.ErrInvalidInput)
	}
	return domain.ActiveSession{
		ID:     s.idGen.New(),
		Game:   title,
		Start:  s.clock.Now().UnixMilli(),
		Intent: domain.TrimNote(intent),
	}, nil
}

// Finish closes the active session at now.
func (s *SessionService) Finish(active domain.ActiveSession) domain.Session {
	return active.Finish(s.clock.Now().UnixMilli())
}

// ComposeManual builds a fully formed session from raw user input. Rules are
// checked in fixed priority order: title, then time parse, then ordering.
// This is the only path that enforces end > start.
func (s *SessionService) ComposeManual(game, start, end, intent, outcome string) (domain.Session, error) {
	title := strings.TrimSpace(game)
	if title == "" {
		return domain.Session{}, fmt.Errorf("%w: game title is required", apperrors.ErrInvalidInput)
	}
	startMS, err := s.parseTimestamp(start)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%w: start and end times are required", apperrors.ErrInvalidInput)
	}
	endMS, err := s.parseTimestamp(end)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%w: start and end times are required", apperrors.ErrInvalidInput)
	}
	if endMS <= startMS {
		return domain.Session{}, fmt.Errorf("%w: end time must be after start time", apperrors.ErrInvalidInput)
	}
	return domain.Session{
		ID:      s.idGen.New(),
		Game:    title,
		Start:   startMS,
		End:     endMS,
		Intent:  domain.TrimNote(intent),
		Outcome: domain.TrimNote(outcome),
	}, nil
}

func (s *SessionService) parseTimestamp(raw string) (int64, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		return ms, nil
	}
	loc := s.clock.Now().Location()
	for _, layout := range manualTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t.UnixMilli(), nil
		}
	}
	return 0, fmt.Errorf("unparseable timestamp %q", raw)
}

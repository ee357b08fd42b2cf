package in

import (
	"context"

	"checkpoint/internal/modules/session/dto"
)

type Usecase interface {
	// Start begins a timed session. Returns ErrSessionActive when a session
	// is already active or awaiting checkout; callers decide whether that is
	// silent (TUI) or a message (CLI).
	Start(ctx context.Context, input dto.StartInput) (dto.ActiveOutput, error)
	// Stop finishes the active session and persists it immediately; the
	// record then awaits an optional outcome.
	Stop(ctx context.Context) (dto.SessionRecord, error)
	// Checkout settles the pending session: save attaches a trimmed outcome
	// and re-persists, skip leaves the stored record untouched.
	Checkout(ctx context.Context, input dto.CheckoutInput) (dto.SessionRecord, error)
	// ManualAdd creates a fully formed session, bypassing the timer states.
	ManualAdd(ctx context.Context, input dto.ManualAddInput) (dto.SessionRecord, error)
	Edit(ctx context.Context, input dto.EditInput) (dto.SessionRecord, error)
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]dto.SessionRecord, error)
	ListDay(ctx context.Context, dayKey int64) (dto.DayOutput, error)
	Active(ctx context.Context) (dto.ActiveOutput, error)
	Pending(ctx context.Context) (dto.SessionRecord, error)
	// ImportMerge reconciles externally validated records into the
	// collection, incoming winning by id, and bulk-persists them.
	ImportMerge(ctx context.Context, incoming []dto.SessionRecord) (dto.ImportMergeOutput, error)
}

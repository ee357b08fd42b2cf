package out

import (
	"context"

	"checkpoint/internal/modules/session/domain"
)

// SessionStore is the durable keyed store of finished sessions. Writes are
// idempotent upserts by id; callers must always write the latest value for
// an id, never a stale snapshot.
type SessionStore interface {
	ListAll(ctx context.Context) ([]domain.Session, error)
	Put(ctx context.Context, session domain.Session) error
	BulkPut(ctx context.Context, sessions []domain.Session) error
	Delete(ctx context.Context, id string) error
}

// LifecycleStateStore persists the at-most-one active session and the
// at-most-one pending checkout across process restarts.
type LifecycleStateStore interface {
	SaveActive(ctx context.Context, session domain.ActiveSession) error
	LoadActive(ctx context.Context) (domain.ActiveSession, error)
	ClearActive(ctx context.Context) error
	SavePending(ctx context.Context, session domain.Session) error
	LoadPending(ctx context.Context) (domain.Session, error)
	ClearPending(ctx context.Context) error
}

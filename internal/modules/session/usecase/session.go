package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"checkpoint/internal/modules/session/domain"
	"checkpoint/internal/modules/session/dto"
	sessionin "checkpoint/internal/modules/session/port/in"
	sessionout "checkpoint/internal/modules/session/port/out"
	"checkpoint/internal/modules/session/service"
	"checkpoint/internal/platform/clock"
	apperrors "checkpoint/internal/platform/errors"
)

// Interactor owns the lifecycle state machine and the in-memory collection.
// The collection is authoritative for the process lifetime; the durable
// store is a write-through cache of it. Store-write failures on single
// upserts and deletes are logged, never rolled back.
type Interactor struct {
	svc        *service.SessionService
	clock      clock.Clock
	store      sessionout.SessionStore
	stateStore sessionout.LifecycleStateStore
	log        *slog.Logger

	mu         sync.Mutex
	loaded     bool
	collection []domain.Session
	active     *domain.ActiveSession
	pending    *domain.Session
}

func NewInteractor(
	svc *service.SessionService,
	clk clock.Clock,
	store sessionout.SessionStore,
	stateStore sessionout.LifecycleStateStore,
	log *slog.Logger,
) sessionin.Usecase {
	return &Interactor{svc: svc, clock: clk, store: store, stateStore: stateStore, log: log}
}

// ensureLoaded hydrates the collection and any persisted active/pending
// state. Called under i.mu.
func (i *Interactor) ensureLoaded(ctx context.Context) error {
	if i.loaded {
		return nil
	}
	sessions, err := i.store.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("load sessions: %w", err)
	}
	i.collection = sessions

	active, err := i.stateStore.LoadActive(ctx)
	switch {
	case err == nil:
		i.active = &active
	case !errors.Is(err, apperrors.ErrNoActiveSession):
		return err
	}

	pending, err := i.stateStore.LoadPending(ctx)
	switch {
	case err == nil:
		i.pending = &pending
	case !errors.Is(err, apperrors.ErrNoPendingCheckout):
		return err
	}

	i.loaded = true
	return nil
}

func (i *Interactor) Start(ctx context.Context, input dto.StartInput) (dto.ActiveOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if err := i.ensureLoaded(ctx); err != nil {
		return dto.ActiveOutput{}, err
	}
	if i.active != nil || i.pending != nil {
		return dto.ActiveOutput{}, apperrors.ErrSessionActive
	}

	active, err := i.svc.Begin(input.Game, input.Intent)
	if err != nil {
		return dto.ActiveOutput{}, err
	}
	if err := i.stateStore.SaveActive(ctx, active); err != nil {
		return dto.ActiveOutput{}, err
	}
	i.active = &active
	return i.activeOutput(active), nil
}

func (i *Interactor) Stop(ctx context.Context) (dto.SessionRecord, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if err := i.ensureLoaded(ctx); err != nil {
		return dto.SessionRecord{}, err
	}
	if i.active == nil {
		return dto.SessionRecord{}, apperrors.ErrNoActiveSession
	}

	finished := i.svc.Finish(*i.active)
	i.collection = domain.Upsert(i.collection, finished)
	// Persist before checkout so a crash here still keeps the session.
	if err := i.store.Put(ctx, finished); err != nil {
		i.log.Error("persist stopped session", "id", finished.ID, "err", err)
	}
	if err := i.stateStore.SavePending(ctx, finished); err != nil {
		i.log.Error("save pending checkout", "id", finished.ID, "err", err)
	}
	if err := i.stateStore.ClearActive(ctx); err != nil {
		i.log.Error("clear active session", "id", finished.ID, "err", err)
	}
	i.active = nil
	i.pending = &finished
	return record(finished), nil
}

func (i *Interactor) Checkout(ctx context.Context, input dto.CheckoutInput) (dto.SessionRecord, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if err := i.ensureLoaded(ctx); err != nil {
		return dto.SessionRecord{}, err
	}
	if i.pending == nil {
		return dto.SessionRecord{}, apperrors.ErrNoPendingCheckout
	}

	settled := *i.pending
	if !input.Skip {
		settled.Outcome = domain.TrimNote(input.Outcome)
		i.collection = domain.Upsert(i.collection, settled)
		if err := i.store.Put(ctx, settled); err != nil {
			i.log.Error("persist checkout outcome", "id", settled.ID, "err", err)
		}
	}
	if err := i.stateStore.ClearPending(ctx); err != nil {
		i.log.Error("clear pending checkout", "id", settled.ID, "err", err)
	}
	i.pending = nil
	return record(settled), nil
}

func (i *Interactor) ManualAdd(ctx context.Context, input dto.ManualAddInput) (dto.SessionRecord, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if err := i.ensureLoaded(ctx); err != nil {
		return dto.SessionRecord{}, err
	}

	session, err := i.svc.ComposeManual(input.Game, input.Start, input.End, input.Intent, input.Outcome)
	if err != nil {
		return dto.SessionRecord{}, err
	}
	i.collection = domain.Upsert(i.collection, session)
	if err := i.store.Put(ctx, session); err != nil {
		i.log.Error("persist manual session", "id", session.ID, "err", err)
	}
	return record(session), nil
}

func (i *Interactor) Edit(ctx context.Context, input dto.EditInput) (dto.SessionRecord, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if err := i.ensureLoaded(ctx); err != nil {
		return dto.SessionRecord{}, err
	}

	idx := i.indexOf(input.ID)
	if idx < 0 {
		return dto.SessionRecord{}, apperrors.ErrNotFound
	}
	session := i.collection[idx]
	if input.Game != nil {
		title := strings.TrimSpace(*input.Game)
		if title == "" {
			return dto.SessionRecord{}, fmt.Errorf("%w: game title is required", apperrors.ErrInvalidInput)
		}
		session.Game = title
	}
	if input.Intent != nil {
		session.Intent = domain.TrimNote(*input.Intent)
	}
	if input.Outcome != nil {
		session.Outcome = domain.TrimNote(*input.Outcome)
	}

	i.collection = domain.Upsert(i.collection, session)
	if err := i.store.Put(ctx, session); err != nil {
		i.log.Error("persist edited session", "id", session.ID, "err", err)
	}
	if i.pending != nil && i.pending.ID == session.ID {
		i.pending = &session
		if err := i.stateStore.SavePending(ctx, session); err != nil {
			i.log.Error("refresh pending checkout", "id", session.ID, "err", err)
		}
	}
	return record(session), nil
}

func (i *Interactor) Delete(ctx context.Context, id string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if err := i.ensureLoaded(ctx); err != nil {
		return err
	}

	idx := i.indexOf(id)
	if idx < 0 {
		return apperrors.ErrNotFound
	}
	i.collection = append(i.collection[:idx], i.collection[idx+1:]...)
	if err := i.store.Delete(ctx, id); err != nil {
		i.log.Error("delete session", "id", id, "err", err)
	}
	if i.pending != nil && i.pending.ID == id {
		i.pending = nil
		if err := i.stateStore.ClearPending(ctx); err != nil {
			i.log.Error("clear pending checkout", "id", id, "err", err)
		}
	}
	return nil
}

func (i *Interactor) ListAll(ctx context.Context) ([]dto.SessionRecord, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if err := i.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return records(i.collection), nil
}

func (i *Interactor) ListDay(ctx context.Context, dayKey int64) (dto.DayOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if err := i.ensureLoaded(ctx); err != nil {
		return dto.DayOutput{}, err
	}

	loc := i.clock.Now().Location()
	out := dto.DayOutput{DayKey: dayKey, Sessions: []dto.SessionRecord{}}
	for _, s := range i.collection {
		if !domain.SameDay(dayKey, s.Start, loc) {
			continue
		}
		out.Sessions = append(out.Sessions, record(s))
		out.TotalMS += s.End - s.Start
	}
	return out, nil
}

func (i *Interactor) Active(ctx context.Context) (dto.ActiveOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if err := i.ensureLoaded(ctx); err != nil {
		return dto.ActiveOutput{}, err
	}
	if i.active == nil {
		return dto.ActiveOutput{}, apperrors.ErrNoActiveSession
	}
	return i.activeOutput(*i.active), nil
}

func (i *Interactor) Pending(ctx context.Context) (dto.SessionRecord, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if err := i.ensureLoaded(ctx); err != nil {
		return dto.SessionRecord{}, err
	}
	if i.pending == nil {
		return dto.SessionRecord{}, apperrors.ErrNoPendingCheckout
	}
	return record(*i.pending), nil
}

func (i *Interactor) ImportMerge(ctx context.Context, incoming []dto.SessionRecord) (dto.ImportMergeOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if err := i.ensureLoaded(ctx); err != nil {
		return dto.ImportMergeOutput{}, err
	}

	sessions := make([]domain.Session, 0, len(incoming))
	for _, r := range incoming {
		sessions = append(sessions, domain.Session{
			ID:      r.ID,
			Game:    r.Game,
			Start:   r.Start,
			End:     r.End,
			Intent:  r.Intent,
			Outcome: r.Outcome,
		})
	}
	i.collection = domain.Merge(i.collection, sessions)
	if err := i.store.BulkPut(ctx, sessions); err != nil {
		// Memory stays merged; the failure is surfaced as one error.
		i.log.Error("bulk persist imported sessions", "count", len(sessions), "err", err)
		return dto.ImportMergeOutput{}, fmt.Errorf("persist imported sessions: %w", err)
	}
	return dto.ImportMergeOutput{Merged: len(sessions), Collection: len(i.collection)}, nil
}

func (i *Interactor) indexOf(id string) int {
	for idx, s := range i.collection {
		if s.ID == id {
			return idx
		}
	}
	return -1
}

func (i *Interactor) activeOutput(active domain.ActiveSession) dto.ActiveOutput {
	out := dto.ActiveOutput{
		ID:        active.ID,
		Game:      active.Game,
		Start:     active.Start,
		ElapsedMS: i.clock.Now().UnixMilli() - active.Start,
	}
	if active.Intent != nil {
		out.Intent = *active.Intent
	}
	return out
}

func record(s domain.Session) dto.SessionRecord {
	return dto.SessionRecord{
		ID:      s.ID,
		Game:    s.Game,
		Start:   s.Start,
		End:     s.End,
		Intent:  s.Intent,
		Outcome: s.Outcome,
	}
}

func records(sessions []domain.Session) []dto.SessionRecord {
	out := make([]dto.SessionRecord, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, record(s))
	}
	return out
}

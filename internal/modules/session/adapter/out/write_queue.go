package out

import (
	"context"
	"sync"

	"checkpoint/internal/modules/session/domain"
	sessionout "checkpoint/internal/modules/session/port/out"
)

// SerializedWrites wraps a SessionStore so that writes to the same record id
// are applied in caller order. Without this, a slow write holding a stale
// snapshot could land after a newer edit and silently clobber it.
type SerializedWrites struct {
	inner sessionout.SessionStore

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewSerializedWrites(inner sessionout.SessionStore) *SerializedWrites {
	return &SerializedWrites{inner: inner, locks: map[string]*sync.Mutex{}}
}

func (s *SerializedWrites) lockFor(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}

func (s *SerializedWrites) ListAll(ctx context.Context) ([]domain.Session, error) {
	return s.inner.ListAll(ctx)
}

func (s *SerializedWrites) Put(ctx context.Context, session domain.Session) error {
	lock := s.lockFor(session.ID)
	lock.Lock()
	defer lock.Unlock()
	return s.inner.Put(ctx, session)
}

// BulkPut takes every per-id lock it touches so a bulk import cannot
// interleave with single-record writes for the same ids.
func (s *SerializedWrites) BulkPut(ctx context.Context, sessions []domain.Session) error {
	seen := map[string]bool{}
	var held []*sync.Mutex
	for _, session := range sessions {
		if seen[session.ID] {
			continue
		}
		seen[session.ID] = true
		lock := s.lockFor(session.ID)
		lock.Lock()
		held = append(held, lock)
	}
	defer func() {
		for _, lock := range held {
			lock.Unlock()
		}
	}()
	return s.inner.BulkPut(ctx, sessions)
}

func (s *SerializedWrites) Delete(ctx context.Context, id string) error {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()
	return s.inner.Delete(ctx, id)
}

var _ sessionout.SessionStore = (*SerializedWrites)(nil)

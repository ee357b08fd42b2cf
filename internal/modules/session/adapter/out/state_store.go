package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"checkpoint/internal/modules/session/domain"
	sessionout "checkpoint/internal/modules/session/port/out"
	apperrors "checkpoint/internal/platform/errors"
)

// FileLifecycleStateStore keeps the active session and the pending checkout
// as JSON files under the data dir so both survive a process restart.
type FileLifecycleStateStore struct {
	activePath  string
	pendingPath string
}

func NewFileLifecycleStateStore(dataDir string) *FileLifecycleStateStore {
	return &FileLifecycleStateStore{
		activePath:  filepath.Join(dataDir, "active-session.json"),
		pendingPath: filepath.Join(dataDir, "pending-checkout.json"),
	}
}

func (s *FileLifecycleStateStore) SaveActive(_ context.Context, session domain.ActiveSession) error {
	return writeJSON(s.activePath, session)
}

func (s *FileLifecycleStateStore) LoadActive(_ context.Context) (domain.ActiveSession, error) {
	active := domain.ActiveSession{}
	if err := readJSON(s.activePath, &active, apperrors.ErrNoActiveSession); err != nil {
		return domain.ActiveSession{}, err
	}
	if active.ID == "" {
		return domain.ActiveSession{}, apperrors.ErrNoActiveSession
	}
	return active, nil
}

func (s *FileLifecycleStateStore) ClearActive(_ context.Context) error {
	return remove(s.activePath)
}

func (s *FileLifecycleStateStore) SavePending(_ context.Context, session domain.Session) error {
	return writeJSON(s.pendingPath, session)
}

func (s *FileLifecycleStateStore) LoadPending(_ context.Context) (domain.Session, error) {
	pending := domain.Session{}
	if err := readJSON(s.pendingPath, &pending, apperrors.ErrNoPendingCheckout); err != nil {
		return domain.Session{}, err
	}
	if pending.ID == "" {
		return domain.Session{}, apperrors.ErrNoPendingCheckout
	}
	return pending, nil
}

func (s *FileLifecycleStateStore) ClearPending(_ context.Context) error {
	return remove(s.pendingPath)
}

func writeJSON(path string, value any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

func readJSON(path string, value any, missing error) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return missing
		}
		return fmt.Errorf("read state: %w", err)
	}
	if err := json.Unmarshal(payload, value); err != nil {
		return fmt.Errorf("decode state: %w", err)
	}
	return nil
}

func remove(path string) error {
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("clear state: %w", err)
	}
	return nil
}

var _ sessionout.LifecycleStateStore = (*FileLifecycleStateStore)(nil)

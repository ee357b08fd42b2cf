package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"checkpoint/internal/modules/session/domain"
	sessionout "checkpoint/internal/modules/session/port/out"

	_ "modernc.org/sqlite"
)

type SQLiteSessionStore struct {
	db *sql.DB
}

func NewSQLiteSessionStore(dbPath string) (*SQLiteSessionStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLiteSessionStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteSessionStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  game TEXT NOT NULL,
  start_ms INTEGER NOT NULL,
  end_ms INTEGER NOT NULL,
  intent TEXT,
  outcome TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_start ON sessions (start_ms DESC);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	return nil
}

func (s *SQLiteSessionStore) ListAll(ctx context.Context) ([]domain.Session, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, game, start_ms, end_ms, intent, outcome FROM sessions ORDER BY start_ms DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	sessions := []domain.Session{}
	for rows.Next() {
		var (
			session         domain.Session
			intent, outcome sql.NullString
		)
		if err := rows.Scan(&session.ID, &session.Game, &session.Start, &session.End, &intent, &outcome); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if intent.Valid {
			session.Intent = &intent.String
		}
		if outcome.Valid {
			session.Outcome = &outcome.String
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

const upsertStmt = `
INSERT INTO sessions (id, game, start_ms, end_ms, intent, outcome)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  game=excluded.game,
  start_ms=excluded.start_ms,
  end_ms=excluded.end_ms,
  intent=excluded.intent,
  outcome=excluded.outcome;
`

func (s *SQLiteSessionStore) Put(ctx context.Context, session domain.Session) error {
	if _, err := s.db.ExecContext(ctx, upsertStmt, session.ID, session.Game, session.Start, session.End, noteValue(session.Intent), noteValue(session.Outcome)); err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (s *SQLiteSessionStore) BulkPut(ctx context.Context, sessions []domain.Session) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bulk upsert: %w", err)
	}
	for _, session := range sessions {
		if _, err := tx.ExecContext(ctx, upsertStmt, session.ID, session.Game, session.Start, session.End, noteValue(session.Intent), noteValue(session.Outcome)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("bulk upsert session %s: %w", session.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bulk upsert: %w", err)
	}
	return nil
}

func (s *SQLiteSessionStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SQLiteSessionStore) Close() error {
	return s.db.Close()
}

func noteValue(note *string) any {
	if note == nil {
		return nil
	}
	return *note
}

var _ sessionout.SessionStore = (*SQLiteSessionStore)(nil)

package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/diillson/aws-cost-analyzer-go/internal/domain/repository"
)

const schema = `CREATE TABLE IF NOT EXISTS session_store (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// SessionRepositoryImpl guarda os dados da sessão em um arquivo SQLite.
type SessionRepositoryImpl struct {
	db *sql.DB
}

// NewSessionRepository abre (ou cria) o banco de sessão em path.
func NewSessionRepository(ctx context.Context, path string) (repository.SessionRepository, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("error creating session directory '%s': %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening session store: %w", err)
	}
	// SQLite aceita um único escritor; uma conexão evita SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("error initializing session store: %w", err)
	}
	return &SessionRepositoryImpl{db: db}, nil
}

// Get devolve o valor da chave; ok é falso quando a chave não existe.
func (r *SessionRepositoryImpl) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM session_store WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("error reading session key %q: %w", key, err)
	}
	return value, true, nil
}

func (r *SessionRepositoryImpl) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO session_store (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("error writing session key %q: %w", key, err)
	}
	return nil
}

func (r *SessionRepositoryImpl) Remove(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM session_store WHERE key = ?`, key); err != nil {
		return fmt.Errorf("error removing session key %q: %w", key, err)
	}
	return nil
}

func (r *SessionRepositoryImpl) Close() error {
	return r.db.Close()
}

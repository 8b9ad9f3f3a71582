package repository

import "context"

// Chaves usadas no armazenamento de sessão.
const (
	SessionKeyAccounts       = "awsCostAccounts"
	SessionKeyAggregatedData = "awsCostAggregatedData"
)

// InMemorySessionPath abre uma sessão que não sobrevive ao processo.
const InMemorySessionPath = ":memory:"

// SessionRepository is a string key/value store that survives between runs.
// Get reports ok=false for a missing key.
type SessionRepository interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

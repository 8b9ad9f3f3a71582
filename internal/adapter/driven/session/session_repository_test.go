package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/aws-cost-analyzer-go/internal/domain/repository"
)

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.db")

	repo, err := NewSessionRepository(ctx, path)
	require.NoError(t, err)

	_, ok, err := repo.Get(ctx, repository.SessionKeyAccounts)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Set(ctx, repository.SessionKeyAccounts, `[{"name":"dev"}]`))
	require.NoError(t, repo.Set(ctx, repository.SessionKeyAccounts, `[{"name":"prod"}]`))
	value, ok, err := repo.Get(ctx, repository.SessionKeyAccounts)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"name":"prod"}]`, value)

	require.NoError(t, repo.Set(ctx, repository.SessionKeyAggregatedData, "{}"))
	require.NoError(t, repo.Remove(ctx, repository.SessionKeyAccounts))
	_, ok, err = repo.Get(ctx, repository.SessionKeyAccounts)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Remove(ctx, "missing"))
	require.NoError(t, repo.Close())

	reopened, err := NewSessionRepository(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()
	value, ok, err = reopened.Get(ctx, repository.SessionKeyAggregatedData)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "{}", value)
}

func TestSessionRepositoryClosed(t *testing.T) {
	ctx := context.Background()
	repo, err := NewSessionRepository(ctx, filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	assert.Error(t, repo.Set(ctx, "k", "v"))
	_, _, err = repo.Get(ctx, "k")
	assert.Error(t, err)
}

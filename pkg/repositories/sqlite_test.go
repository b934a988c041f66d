package repositories

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/cbodonnell/huntboard/pkg/repositories/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteRepository(t *testing.T) Repository {
	t.Helper()
	ctx := context.Background()

	dbPath := filepath.Join(t.TempDir(), "huntboard_test.db")
	repo, err := NewSQLiteRepository(ctx, dbPath, filepath.Join("..", "..", "migrations", "sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close(ctx)
	})

	err = repo.ReloadCatalog(ctx, []models.CatalogRecord{
		{Name: "A", Points: 10},
		{Name: "B", Points: 5},
		{Name: "C", Points: 5},
	})
	require.NoError(t, err)

	err = repo.CreateGame(ctx, models.Game{
		ID:        "g1",
		Name:      "Game One",
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	return repo
}

func itemIDByName(t *testing.T, repo Repository, gameID string, name string) int64 {
	t.Helper()
	progress, err := repo.Progress(context.Background(), gameID)
	require.NoError(t, err)
	for _, item := range progress {
		if item.Name == name {
			return item.ItemID
		}
	}
	t.Fatalf("item %s not found in progress", name)
	return 0
}

func TestSQLiteRepository_CreateGame(t *testing.T) {
	repo := newTestSQLiteRepository(t)
	ctx := context.Background()

	game, err := repo.GetGame(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "g1", game.ID)
	assert.Equal(t, "Game One", game.Name)

	err = repo.CreateGame(ctx, models.Game{ID: "g1", Name: "Again", CreatedAt: time.Now().UTC()})
	require.Error(t, err)
	assert.True(t, IsDuplicateID(err))

	_, err = repo.GetGame(ctx, "missing-game")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestSQLiteRepository_ToggleItem(t *testing.T) {
	repo := newTestSQLiteRepository(t)
	ctx := context.Background()
	itemA := itemIDByName(t, repo, "g1", "A")

	completed, err := repo.ToggleItem(ctx, "g1", itemA)
	require.NoError(t, err)
	assert.True(t, completed)

	total, err := repo.TotalPoints(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, 10, total)

	completed, err = repo.ToggleItem(ctx, "g1", itemA)
	require.NoError(t, err)
	assert.False(t, completed)

	total, err = repo.TotalPoints(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestSQLiteRepository_ToggleItem_NotFound(t *testing.T) {
	repo := newTestSQLiteRepository(t)
	ctx := context.Background()

	_, err := repo.ToggleItem(ctx, "missing-game", 1)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	_, err = repo.ToggleItem(ctx, "g1", 9999)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestSQLiteRepository_TotalPoints_UnknownGame(t *testing.T) {
	repo := newTestSQLiteRepository(t)

	total, err := repo.TotalPoints(context.Background(), "missing-game")
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestSQLiteRepository_Progress(t *testing.T) {
	repo := newTestSQLiteRepository(t)
	ctx := context.Background()
	itemB := itemIDByName(t, repo, "g1", "B")

	_, err := repo.ToggleItem(ctx, "g1", itemB)
	require.NoError(t, err)

	progress, err := repo.Progress(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, progress, 3)

	// points descending, ties broken by item id ascending
	assert.Equal(t, "A", progress[0].Name)
	assert.Equal(t, "B", progress[1].Name)
	assert.Equal(t, "C", progress[2].Name)
	assert.False(t, progress[0].Completed)
	assert.True(t, progress[1].Completed)
	assert.False(t, progress[2].Completed)
}

func TestSQLiteRepository_ListGames(t *testing.T) {
	repo := newTestSQLiteRepository(t)
	ctx := context.Background()
	itemA := itemIDByName(t, repo, "g1", "A")

	err := repo.CreateGame(ctx, models.Game{
		ID:        "g2",
		Name:      "Game Two",
		CreatedAt: time.Now().UTC().Add(time.Second),
	})
	require.NoError(t, err)

	_, err = repo.ToggleItem(ctx, "g1", itemA)
	require.NoError(t, err)

	games, err := repo.ListGames(ctx)
	require.NoError(t, err)
	require.Len(t, games, 2)

	// newest game first
	assert.Equal(t, "g2", games[0].ID)
	assert.Equal(t, 0, games[0].TotalPoints)
	assert.Equal(t, "g1", games[1].ID)
	assert.Equal(t, 10, games[1].TotalPoints)
}

func TestSQLiteRepository_ReloadCatalog(t *testing.T) {
	repo := newTestSQLiteRepository(t)
	ctx := context.Background()

	err := repo.ReloadCatalog(ctx, []models.CatalogRecord{
		{Name: "D", Points: 42},
	})
	require.NoError(t, err)

	progress, err := repo.Progress(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, progress, 1)
	assert.Equal(t, "D", progress[0].Name)
	assert.Equal(t, 42, progress[0].Points)
}

func TestSQLiteRepository_ClearGamesAndStats(t *testing.T) {
	repo := newTestSQLiteRepository(t)
	ctx := context.Background()
	itemA := itemIDByName(t, repo, "g1", "A")

	_, err := repo.ToggleItem(ctx, "g1", itemA)
	require.NoError(t, err)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Games)
	assert.Equal(t, 3, stats.HuntItems)
	assert.Equal(t, 1, stats.Completions)

	err = repo.ClearCompletions(ctx)
	require.NoError(t, err)
	stats, err = repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Games)
	assert.Equal(t, 0, stats.Completions)

	err = repo.ClearGames(ctx)
	require.NoError(t, err)
	stats, err = repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Games)
	assert.Equal(t, 3, stats.HuntItems)
}

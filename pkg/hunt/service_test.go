package hunt

import (
	"context"
	"testing"

	"github.com/cbodonnell/huntboard/pkg/repositories"
	"github.com/cbodonnell/huntboard/pkg/repositories/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *fakeRepository) {
	t.Helper()
	repo := newTestRepository(t)
	coordinator := NewCoordinator(NewCoordinatorOptions{Repository: repo})
	service := NewService(NewServiceOptions{
		Repository:  repo,
		Coordinator: coordinator,
	})
	return service, repo
}

func TestService_CreateGame(t *testing.T) {
	service, _ := newTestService(t)

	game, err := service.CreateGame(context.Background(), "g2", "Game Two")
	require.NoError(t, err)
	assert.Equal(t, "g2", game.ID)
	assert.Equal(t, "Game Two", game.Name)
	assert.False(t, game.CreatedAt.IsZero())

	_, err = service.CreateGame(context.Background(), "g2", "Again")
	require.Error(t, err)
	assert.True(t, repositories.IsDuplicateID(err))
}

func TestService_CreateGame_GeneratesID(t *testing.T) {
	service, _ := newTestService(t)

	game, err := service.CreateGame(context.Background(), "", "Anonymous")
	require.NoError(t, err)
	assert.NotEmpty(t, game.ID)
}

func TestService_GameData(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Toggle(context.Background(), "g1", 1)
	require.NoError(t, err)

	gameData, err := service.GameData(context.Background(), "g1")
	require.NoError(t, err)
	assert.Len(t, gameData.Items, 2)
	assert.Equal(t, 10, gameData.TotalPoints)

	_, err = service.GameData(context.Background(), "missing-game")
	require.Error(t, err)
	assert.True(t, repositories.IsNotFound(err))
}

func TestService_TotalMatchesProgress(t *testing.T) {
	service, repo := newTestService(t)

	_, err := service.Toggle(context.Background(), "g1", 1)
	require.NoError(t, err)
	_, err = service.Toggle(context.Background(), "g1", 2)
	require.NoError(t, err)

	gameData, err := service.GameData(context.Background(), "g1")
	require.NoError(t, err)

	sum := 0
	for _, item := range gameData.Items {
		if item.Completed {
			sum += item.Points
		}
	}
	assert.Equal(t, sum, gameData.TotalPoints)

	total, err := repo.TotalPoints(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, sum, total)
}

func TestService_ToggleScenario(t *testing.T) {
	service, _ := newTestService(t)

	result, err := service.Toggle(context.Background(), "g1", 1)
	require.NoError(t, err)
	assert.True(t, result.Completed)
	assert.Equal(t, 10, result.TotalPoints)

	result, err = service.Toggle(context.Background(), "g1", 2)
	require.NoError(t, err)
	assert.True(t, result.Completed)
	assert.Equal(t, 15, result.TotalPoints)

	result, err = service.Toggle(context.Background(), "g1", 1)
	require.NoError(t, err)
	assert.False(t, result.Completed)
	assert.Equal(t, 5, result.TotalPoints)
}

func TestService_ReloadCatalog(t *testing.T) {
	service, repo := newTestService(t)

	err := service.ReloadCatalog(context.Background(), []models.CatalogRecord{
		{Name: "C", Points: 20},
	})
	require.NoError(t, err)

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.HuntItems)
}

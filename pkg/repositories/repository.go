package repositories

import (
	"context"

	"github.com/cbodonnell/huntboard/pkg/repositories/models"
)

type Repository interface {
	Close(ctx context.Context) error
	// ReloadCatalog atomically discards the previous catalog and installs the new one.
	ReloadCatalog(ctx context.Context, records []models.CatalogRecord) error
	CreateGame(ctx context.Context, game models.Game) error
	GetGame(ctx context.Context, gameID string) (*models.Game, error)
	ListGames(ctx context.Context) ([]models.GameSummary, error)
	// ToggleItem flips the completion of (gameID, itemID) in a single
	// transaction and reports whether the item is now completed.
	ToggleItem(ctx context.Context, gameID string, itemID int64) (bool, error)
	TotalPoints(ctx context.Context, gameID string) (int, error)
	Progress(ctx context.Context, gameID string) ([]models.ItemProgress, error)
	Stats(ctx context.Context) (*models.Stats, error)
	ClearGames(ctx context.Context) error
	ClearCompletions(ctx context.Context) error
}

package hunt

import (
	"context"
	"time"

	"github.com/cbodonnell/huntboard/pkg/repositories"
	"github.com/cbodonnell/huntboard/pkg/repositories/models"
	"github.com/google/uuid"
)

// GameData is a game's full progress view.
type GameData struct {
	Items       []models.ItemProgress `json:"items"`
	TotalPoints int                   `json:"total_points"`
}

// Service is the request surface consumed by both the HTTP API and the
// WebSocket message worker. All toggles route through its Coordinator.
type Service struct {
	repository  repositories.Repository
	coordinator *Coordinator
}

type NewServiceOptions struct {
	Repository  repositories.Repository
	Coordinator *Coordinator
}

func NewService(opts NewServiceOptions) *Service {
	return &Service{
		repository:  opts.Repository,
		coordinator: opts.Coordinator,
	}
}

// CreateGame creates a game. A blank id gets a generated UUID.
func (s *Service) CreateGame(ctx context.Context, gameID string, name string) (*models.Game, error) {
	if gameID == "" {
		gameID = uuid.NewString()
	}

	game := models.Game{
		ID:        gameID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repository.CreateGame(ctx, game); err != nil {
		return nil, err
	}

	return &game, nil
}

func (s *Service) ListGames(ctx context.Context) ([]models.GameSummary, error) {
	return s.repository.ListGames(ctx)
}

// GameData returns a game's progress rows and current total.
func (s *Service) GameData(ctx context.Context, gameID string) (*GameData, error) {
	if _, err := s.repository.GetGame(ctx, gameID); err != nil {
		return nil, err
	}

	items, err := s.repository.Progress(ctx, gameID)
	if err != nil {
		return nil, err
	}

	totalPoints, err := s.repository.TotalPoints(ctx, gameID)
	if err != nil {
		return nil, err
	}

	return &GameData{
		Items:       items,
		TotalPoints: totalPoints,
	}, nil
}

// TotalPoints returns a game's current total. Unknown games report 0.
func (s *Service) TotalPoints(ctx context.Context, gameID string) (int, error) {
	return s.repository.TotalPoints(ctx, gameID)
}

// Toggle flips an item's completion and returns the committed result.
func (s *Service) Toggle(ctx context.Context, gameID string, itemID int64) (*ToggleResult, error) {
	return s.coordinator.ApplyToggle(ctx, gameID, itemID)
}

// ReloadCatalog atomically replaces the hunt item catalog.
func (s *Service) ReloadCatalog(ctx context.Context, records []models.CatalogRecord) error {
	return s.repository.ReloadCatalog(ctx, records)
}

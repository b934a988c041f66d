// Package hunt implements the shared checklist state machine: game
// creation, progress reads, and the serialized item toggle path.
package hunt

import (
	"context"
	"fmt"
	"sync"

	"github.com/cbodonnell/huntboard/pkg/log"
	"github.com/cbodonnell/huntboard/pkg/repositories"
)

// ToggleResult is the outcome of one committed toggle.
type ToggleResult struct {
	GameID      string `json:"game_id"`
	ItemID      int64  `json:"item_id"`
	Completed   bool   `json:"completed"`
	TotalPoints int    `json:"total_points"`
}

// Publisher receives committed toggle results for broadcast. It must not
// block; the coordinator calls it while holding the game's toggle lock.
type Publisher func(result *ToggleResult)

// Coordinator serializes toggles per game. It is the only component that
// calls the repository's ToggleItem.
type Coordinator struct {
	repository repositories.Repository
	publisher  Publisher

	lock  sync.Mutex
	games map[string]*sync.Mutex
}

type NewCoordinatorOptions struct {
	Repository repositories.Repository
	Publisher  Publisher
}

func NewCoordinator(opts NewCoordinatorOptions) *Coordinator {
	return &Coordinator{
		repository: opts.Repository,
		publisher:  opts.Publisher,
		games:      make(map[string]*sync.Mutex),
	}
}

// ApplyToggle flips the completion of (gameID, itemID), recomputes the
// game's total, and publishes the result. At most one toggle is in flight
// per game; toggles on different games proceed concurrently.
func (c *Coordinator) ApplyToggle(ctx context.Context, gameID string, itemID int64) (*ToggleResult, error) {
	gameLock := c.gameLock(gameID)
	gameLock.Lock()
	defer gameLock.Unlock()

	completed, err := c.repository.ToggleItem(ctx, gameID, itemID)
	if err != nil {
		if repositories.IsConflict(err) {
			// A uniqueness violation under the game lock means the
			// serialization contract was broken somewhere.
			log.Error("Completion conflict survived toggle serialization for game %s item %d", gameID, itemID)
		}
		return nil, err
	}

	totalPoints, err := c.repository.TotalPoints(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get total points: %v", err)
	}

	result := &ToggleResult{
		GameID:      gameID,
		ItemID:      itemID,
		Completed:   completed,
		TotalPoints: totalPoints,
	}

	// Published under the game lock so broadcast order matches toggle order.
	if c.publisher != nil {
		c.publisher(result)
	}

	return result, nil
}

func (c *Coordinator) gameLock(gameID string) *sync.Mutex {
	c.lock.Lock()
	defer c.lock.Unlock()

	gameLock, ok := c.games[gameID]
	if !ok {
		gameLock = &sync.Mutex{}
		c.games[gameID] = gameLock
	}
	return gameLock
}

package workers

import (
	"context"
	"encoding/json"

	"github.com/cbodonnell/huntboard/pkg/hunt"
	"github.com/cbodonnell/huntboard/pkg/log"
	"github.com/cbodonnell/huntboard/pkg/messages"
	"github.com/cbodonnell/huntboard/pkg/rooms"
)

// BroadcastEventWorker fans committed toggle results out to every
// connection in the game's room. A single worker drains the channel, so
// events for one game are delivered in the order they were committed.
type BroadcastEventWorker struct {
	registry           *rooms.Registry
	broadcastEventChan <-chan *hunt.ToggleResult
}

type NewBroadcastEventWorkerOptions struct {
	Registry           *rooms.Registry
	BroadcastEventChan <-chan *hunt.ToggleResult
}

func NewBroadcastEventWorker(opts NewBroadcastEventWorkerOptions) *BroadcastEventWorker {
	return &BroadcastEventWorker{
		registry:           opts.Registry,
		broadcastEventChan: opts.BroadcastEventChan,
	}
}

func (w *BroadcastEventWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case result := <-w.broadcastEventChan:
			w.broadcastItemToggled(result)
		}
	}
}

func (w *BroadcastEventWorker) broadcastItemToggled(result *hunt.ToggleResult) {
	payload, err := json.Marshal(&messages.ServerItemToggled{
		GameID:      result.GameID,
		ItemID:      result.ItemID,
		Completed:   result.Completed,
		TotalPoints: result.TotalPoints,
	})
	if err != nil {
		log.Error("Failed to marshal item toggled event: %v", err)
		return
	}

	msg := &messages.Message{
		Type:    messages.MessageTypeServerItemToggled,
		Payload: payload,
	}

	// Delivery is best-effort per connection. A dead or slow connection
	// must not block delivery to the rest of the room.
	for _, conn := range w.registry.Members(result.GameID) {
		if err := conn.Send(msg); err != nil {
			log.Error("Failed to deliver item toggled event for game %s: %v", result.GameID, err)
		}
	}
}

package workers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cbodonnell/huntboard/pkg/hunt"
	"github.com/cbodonnell/huntboard/pkg/log"
	"github.com/cbodonnell/huntboard/pkg/messages"
	"github.com/cbodonnell/huntboard/pkg/network"
	"github.com/cbodonnell/huntboard/pkg/queue"
	"github.com/cbodonnell/huntboard/pkg/repositories"
	"github.com/cbodonnell/huntboard/pkg/rooms"
)

// ClientMessageWorker consumes inbound connection messages and dispatches
// them to the room registry and the hunt service.
type ClientMessageWorker struct {
	messageQueue queue.Queue
	registry     *rooms.Registry
	service      *hunt.Service
}

type NewClientMessageWorkerOptions struct {
	MessageQueue queue.Queue
	Registry     *rooms.Registry
	Service      *hunt.Service
}

func NewClientMessageWorker(opts NewClientMessageWorkerOptions) *ClientMessageWorker {
	return &ClientMessageWorker{
		messageQueue: opts.MessageQueue,
		registry:     opts.Registry,
		service:      opts.Service,
	}
}

// Start processes messages until the queue is closed.
func (w *ClientMessageWorker) Start(ctx context.Context) {
	for {
		item, err := w.messageQueue.Dequeue()
		if err != nil {
			log.Info("Client message worker stopped: %v", err)
			return
		}

		msg, ok := item.(*network.ConnectionMessage)
		if !ok {
			log.Error("Failed to cast queue item to connection message")
			continue
		}

		w.handleMessage(ctx, msg)
	}
}

func (w *ClientMessageWorker) handleMessage(ctx context.Context, msg *network.ConnectionMessage) {
	switch msg.Message.Type {
	case messages.MessageTypeClientJoinGame:
		w.handleJoinGame(msg)
	case messages.MessageTypeClientLeaveGame:
		w.handleLeaveGame(msg)
	case messages.MessageTypeClientToggleItem:
		// Toggles run concurrently; the coordinator serializes per game.
		go w.handleToggleItem(ctx, msg)
	default:
		log.Warn("Unknown client message type %q from connection %d", msg.Message.Type, msg.Connection.ID)
		w.sendError(msg.Connection, messages.ErrorKindBadRequest, fmt.Sprintf("unknown message type %q", msg.Message.Type))
	}
}

func (w *ClientMessageWorker) handleJoinGame(msg *network.ConnectionMessage) {
	joinGame := &messages.ClientJoinGame{}
	if err := json.Unmarshal(msg.Message.Payload, joinGame); err != nil || joinGame.GameID == "" {
		w.sendError(msg.Connection, messages.ErrorKindBadRequest, "join_game requires a game_id")
		return
	}

	w.registry.Join(msg.Connection, joinGame.GameID)
	log.Debug("Connection %d joined game room %s", msg.Connection.ID, joinGame.GameID)
}

func (w *ClientMessageWorker) handleLeaveGame(msg *network.ConnectionMessage) {
	leaveGame := &messages.ClientLeaveGame{}
	if err := json.Unmarshal(msg.Message.Payload, leaveGame); err != nil || leaveGame.GameID == "" {
		w.sendError(msg.Connection, messages.ErrorKindBadRequest, "leave_game requires a game_id")
		return
	}

	w.registry.Leave(msg.Connection, leaveGame.GameID)
	log.Debug("Connection %d left game room %s", msg.Connection.ID, leaveGame.GameID)
}

func (w *ClientMessageWorker) handleToggleItem(ctx context.Context, msg *network.ConnectionMessage) {
	toggleItem := &messages.ClientToggleItem{}
	if err := json.Unmarshal(msg.Message.Payload, toggleItem); err != nil {
		w.sendError(msg.Connection, messages.ErrorKindBadRequest, "invalid toggle_item payload")
		return
	}
	if toggleItem.GameID == "" || toggleItem.ItemID == 0 {
		w.sendError(msg.Connection, messages.ErrorKindBadRequest, "toggle_item requires game_id and item_id")
		return
	}

	// The committed result reaches this connection through the room
	// broadcast, so there is nothing to send on success.
	if _, err := w.service.Toggle(ctx, toggleItem.GameID, toggleItem.ItemID); err != nil {
		w.sendError(msg.Connection, errorKind(err), err.Error())
	}
}

func (w *ClientMessageWorker) sendError(conn *network.Connection, kind string, message string) {
	payload, err := json.Marshal(&messages.ServerError{
		Kind:    kind,
		Message: message,
	})
	if err != nil {
		log.Error("Failed to marshal server error: %v", err)
		return
	}

	msg := &messages.Message{
		Type:    messages.MessageTypeServerError,
		Payload: payload,
	}
	if err := conn.Send(msg); err != nil {
		log.Error("Failed to send error to connection %d: %v", conn.ID, err)
	}
}

// errorKind maps repository errors to wire error kinds.
func errorKind(err error) string {
	switch {
	case repositories.IsNotFound(err):
		return messages.ErrorKindNotFound
	case repositories.IsDuplicateID(err):
		return messages.ErrorKindDuplicateID
	case repositories.IsConflict(err):
		return messages.ErrorKindConflict
	default:
		return messages.ErrorKindInternal
	}
}

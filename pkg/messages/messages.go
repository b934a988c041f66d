package messages

import "encoding/json"

// Client message types
const (
	MessageTypeClientJoinGame   = "join_game"
	MessageTypeClientLeaveGame  = "leave_game"
	MessageTypeClientToggleItem = "toggle_item"
)

// Server message types
const (
	MessageTypeServerItemToggled = "item_toggled"
	MessageTypeServerError       = "error"
)

// Error kinds carried by ServerError
const (
	ErrorKindBadRequest  = "bad_request"
	ErrorKindNotFound    = "not_found"
	ErrorKindDuplicateID = "duplicate_id"
	ErrorKindConflict    = "conflict"
	ErrorKindInternal    = "internal"
)

// Message represents a generic message for serialization/deserialization
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type ClientJoinGame struct {
	GameID string `json:"game_id"`
}

type ClientLeaveGame struct {
	GameID string `json:"game_id"`
}

type ClientToggleItem struct {
	GameID string `json:"game_id"`
	ItemID int64  `json:"item_id"`
}

// ServerItemToggled is broadcast to every connection in a game's room
// after a toggle commits, including the connection that requested it.
type ServerItemToggled struct {
	GameID      string `json:"game_id"`
	ItemID      int64  `json:"item_id"`
	Completed   bool   `json:"completed"`
	TotalPoints int    `json:"total_points"`
}

type ServerError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

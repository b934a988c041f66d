package repositories

import "fmt"

// ErrNotFound indicates a toggle or read referenced an unknown game or item.
type ErrNotFound struct {
	Kind string
	ID   string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func IsNotFound(err error) bool {
	_, ok := err.(*ErrNotFound)
	return ok
}

// ErrDuplicateID indicates a game was created with an id already in use.
type ErrDuplicateID struct {
	ID string
}

func (e *ErrDuplicateID) Error() string {
	return fmt.Sprintf("game id %s already exists", e.ID)
}

func IsDuplicateID(err error) bool {
	_, ok := err.(*ErrDuplicateID)
	return ok
}

// ErrConflict indicates a completion uniqueness violation that survived
// toggle serialization. It signals a coordinator bug, not a normal path.
type ErrConflict struct {
	GameID string
	ItemID int64
}

func (e *ErrConflict) Error() string {
	return fmt.Sprintf("completion conflict for game %s item %d", e.GameID, e.ItemID)
}

func IsConflict(err error) bool {
	_, ok := err.(*ErrConflict)
	return ok
}

// Package rooms tracks which live connections are subscribed to which game.
package rooms

import (
	"sync"

	"github.com/cbodonnell/huntboard/pkg/messages"
)

// Connection is the handle the registry tracks for fan-out. Implementations
// must be pointer types so they are usable as map keys.
type Connection interface {
	Send(msg *messages.Message) error
}

// Registry maintains, for each game id, the set of subscribed connections.
type Registry struct {
	lock  sync.RWMutex
	rooms map[string]map[Connection]struct{}
	conns map[Connection]map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]map[Connection]struct{}),
		conns: make(map[Connection]map[string]struct{}),
	}
}

// Join adds a connection to a game's room. Joining a room the connection
// is already in is a no-op.
func (r *Registry) Join(conn Connection, gameID string) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.rooms[gameID]; !ok {
		r.rooms[gameID] = make(map[Connection]struct{})
	}
	r.rooms[gameID][conn] = struct{}{}

	if _, ok := r.conns[conn]; !ok {
		r.conns[conn] = make(map[string]struct{})
	}
	r.conns[conn][gameID] = struct{}{}
}

// Leave removes a connection from a game's room. Leaving a room the
// connection is not in is a no-op.
func (r *Registry) Leave(conn Connection, gameID string) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.removeLocked(conn, gameID)
}

// LeaveAll removes a connection from every room it joined. It is called
// on disconnect so dead connections never linger in fan-out sets.
func (r *Registry) LeaveAll(conn Connection) {
	r.lock.Lock()
	defer r.lock.Unlock()

	for gameID := range r.conns[conn] {
		r.removeLocked(conn, gameID)
	}
}

// Members returns a snapshot of the connections currently in a game's room.
func (r *Registry) Members(gameID string) []Connection {
	r.lock.RLock()
	defer r.lock.RUnlock()

	members := make([]Connection, 0, len(r.rooms[gameID]))
	for conn := range r.rooms[gameID] {
		members = append(members, conn)
	}
	return members
}

func (r *Registry) removeLocked(conn Connection, gameID string) {
	if room, ok := r.rooms[gameID]; ok {
		delete(room, conn)
		if len(room) == 0 {
			delete(r.rooms, gameID)
		}
	}
	if games, ok := r.conns[conn]; ok {
		delete(games, gameID)
		if len(games) == 0 {
			delete(r.conns, conn)
		}
	}
}

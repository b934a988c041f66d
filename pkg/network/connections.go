package network

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/cbodonnell/huntboard/pkg/messages"
	"github.com/gorilla/websocket"
)

const (
	// ConnectionIDMaxRetries represents the maximum number of retries when generating a unique ID
	ConnectionIDMaxRetries = 1024
	// ConnectionEventChannelSize represents the size of the connection event channel
	ConnectionEventChannelSize = 1024
)

// Connection represents one live WebSocket connection.
type Connection struct {
	ID uint32

	ws        *websocket.Conn
	writeLock sync.Mutex
}

// Send serializes a message and writes it to the connection. It is safe
// for concurrent use.
func (c *Connection) Send(msg *messages.Message) error {
	b, err := messages.SerializeMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to serialize message: %v", err)
	}

	c.writeLock.Lock()
	defer c.writeLock.Unlock()
	if err := c.ws.WriteMessage(websocket.BinaryMessage, b); err != nil {
		return fmt.Errorf("failed to write message to WebSocket connection: %v", err)
	}

	return nil
}

// RemoteAddr returns the remote address of the connection.
func (c *Connection) RemoteAddr() string {
	return c.ws.RemoteAddr().String()
}

// ConnectionMessage pairs an inbound message with the connection it came from.
type ConnectionMessage struct {
	Connection *Connection
	Message    *messages.Message
}

// ConnectionEvent represents a connection lifecycle event
type ConnectionEvent struct {
	Connection *Connection
	Type       ConnectionEventType
}

// ConnectionEventType represents the type of a connection event
type ConnectionEventType int

const (
	ConnectionEventTypeConnect ConnectionEventType = iota
	ConnectionEventTypeDisconnect
)

// ConnectionManager manages live connections
type ConnectionManager struct {
	connections         map[uint32]*Connection
	connectionsLock     sync.RWMutex
	connectionEventChan chan ConnectionEvent
}

// NewConnectionManager creates a new ConnectionManager
func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		connections:         make(map[uint32]*Connection),
		connectionEventChan: make(chan ConnectionEvent, ConnectionEventChannelSize),
	}
}

// GetConnectionEventChan returns a one-way channel for receiving connection events
func (cm *ConnectionManager) GetConnectionEventChan() <-chan ConnectionEvent {
	return cm.connectionEventChan
}

// AddConnection registers a new connection and returns it
func (cm *ConnectionManager) AddConnection(ws *websocket.Conn) (*Connection, error) {
	cm.connectionsLock.Lock()
	defer cm.connectionsLock.Unlock()

	connectionID, err := cm.generateUniqueID(ConnectionIDMaxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to generate a unique ID: %v", err)
	}
	conn := &Connection{
		ID: connectionID,
		ws: ws,
	}
	cm.connections[connectionID] = conn

	cm.connectionEventChan <- ConnectionEvent{
		Connection: conn,
		Type:       ConnectionEventTypeConnect,
	}

	return conn, nil
}

// RemoveConnection removes a connection from the manager
func (cm *ConnectionManager) RemoveConnection(conn *Connection) {
	cm.connectionsLock.Lock()
	defer cm.connectionsLock.Unlock()

	if _, ok := cm.connections[conn.ID]; !ok {
		return
	}
	delete(cm.connections, conn.ID)

	cm.connectionEventChan <- ConnectionEvent{
		Connection: conn,
		Type:       ConnectionEventTypeDisconnect,
	}
}

// Exists reports whether a connection is still registered
func (cm *ConnectionManager) Exists(connectionID uint32) bool {
	cm.connectionsLock.RLock()
	defer cm.connectionsLock.RUnlock()
	_, ok := cm.connections[connectionID]
	return ok
}

// generateUniqueID generates a unique connection ID with a maximum number of retries.
// It reads from the connections map, so the lock must be held before calling.
func (cm *ConnectionManager) generateUniqueID(maxRetries int) (uint32, error) {
	for attempt := 0; attempt < maxRetries; attempt++ {
		id := rand.Uint32()
		if id == 0 {
			continue
		}
		if _, ok := cm.connections[id]; !ok {
			return id, nil
		}
	}

	return 0, fmt.Errorf("failed to generate a unique ID after %d attempts", maxRetries)
}

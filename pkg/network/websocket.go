package network

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cbodonnell/huntboard/pkg/log"
	"github.com/cbodonnell/huntboard/pkg/messages"
	"github.com/cbodonnell/huntboard/pkg/queue"
	"github.com/gorilla/websocket"
)

// WSServer represents a WebSocket server.
type WSServer struct {
	port              int
	tls               *TLSConfig
	connectionManager *ConnectionManager
	messageQueue      queue.Queue
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type NewWSServerOptions struct {
	Port              int
	TLS               *TLSConfig
	ConnectionManager *ConnectionManager
	MessageQueue      queue.Queue
}

// NewWSServer creates a new WebSocket server.
func NewWSServer(opts NewWSServerOptions) *WSServer {
	return &WSServer{
		port:              opts.Port,
		tls:               opts.TLS,
		connectionManager: opts.ConnectionManager,
		messageQueue:      opts.MessageQueue,
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Start starts the WebSocket server.
func (s *WSServer) Start(ctx context.Context) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("Failed to upgrade to WebSocket: %v", err)
			return
		}
		log.Debug("New WebSocket connection from %s", ws.RemoteAddr().String())
		go s.handleWSConnection(ws)
	})

	addr := fmt.Sprintf(":%d", s.port)
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		server.Shutdown(ctx)
	}()

	var listenAndServe func() error
	if s.tls != nil {
		log.Info("WebSocket server listening on %s with TLS", addr)
		listenAndServe = func() error {
			return server.ListenAndServeTLS(s.tls.CertFile, s.tls.KeyFile)
		}
	} else {
		log.Info("WebSocket server listening on %s", addr)
		listenAndServe = server.ListenAndServe
	}
	if err := listenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("WebSocket server closed")
			return
		}
		log.Error("WebSocket server error: %v", err)
	}
}

// handleWSConnection registers a WebSocket connection and feeds its
// messages into the message queue until the transport closes.
func (s *WSServer) handleWSConnection(ws *websocket.Conn) {
	conn, err := s.connectionManager.AddConnection(ws)
	if err != nil {
		log.Error("Failed to add connection: %v", err)
		ws.Close()
		return
	}

	defer func() {
		s.connectionManager.RemoveConnection(conn)
		ws.Close()
	}()

	for {
		message, err := ReadMessageFromWS(ws)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error("Error reading WebSocket message from %s: %v", ws.RemoteAddr().String(), err)
			}
			log.Trace("Connection closed for %s", ws.RemoteAddr().String())
			return
		}

		if err := s.messageQueue.Enqueue(&ConnectionMessage{
			Connection: conn,
			Message:    message,
		}); err != nil {
			log.Error("Failed to enqueue message from connection %d: %v", conn.ID, err)
		}
	}
}

// ReadMessageFromWS reads a Message from a WebSocket connection
func ReadMessageFromWS(ws *websocket.Conn) (*messages.Message, error) {
	_, b, err := ws.ReadMessage()
	if err != nil {
		return nil, err
	}

	msg, err := messages.DeserializeMessage(b)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize message: %v", err)
	}

	return msg, nil
}

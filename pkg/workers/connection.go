package workers

import (
	"context"

	"github.com/cbodonnell/huntboard/pkg/log"
	"github.com/cbodonnell/huntboard/pkg/network"
	"github.com/cbodonnell/huntboard/pkg/rooms"
)

// ConnectionEventWorker processes connection lifecycle events. Its main
// job is clearing room memberships when a connection goes away.
type ConnectionEventWorker struct {
	connectionEventChan <-chan network.ConnectionEvent
	registry            *rooms.Registry
}

type NewConnectionEventWorkerOptions struct {
	ConnectionEventChan <-chan network.ConnectionEvent
	Registry            *rooms.Registry
}

func NewConnectionEventWorker(opts NewConnectionEventWorkerOptions) *ConnectionEventWorker {
	return &ConnectionEventWorker{
		connectionEventChan: opts.ConnectionEventChan,
		registry:            opts.Registry,
	}
}

func (w *ConnectionEventWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-w.connectionEventChan:
			switch event.Type {
			case network.ConnectionEventTypeConnect:
				// Nothing is joined automatically on connect.
				log.Info("Connection %d connected", event.Connection.ID)
			case network.ConnectionEventTypeDisconnect:
				w.registry.LeaveAll(event.Connection)
				log.Info("Connection %d disconnected", event.Connection.ID)
			default:
				log.Error("Unknown connection event type: %v", event.Type)
			}
		}
	}
}

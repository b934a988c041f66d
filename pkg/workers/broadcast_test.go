package workers

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/cbodonnell/huntboard/pkg/hunt"
	"github.com/cbodonnell/huntboard/pkg/messages"
	"github.com/cbodonnell/huntboard/pkg/rooms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConnection struct {
	lock    sync.Mutex
	sent    []*messages.Message
	sendErr error
}

func (c *fakeConnection) Send(msg *messages.Message) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.sendErr != nil {
		return c.sendErr
	}
	c.sent = append(c.sent, msg)
	return nil
}

func (c *fakeConnection) received(t *testing.T) []*messages.ServerItemToggled {
	t.Helper()
	c.lock.Lock()
	defer c.lock.Unlock()
	events := []*messages.ServerItemToggled{}
	for _, msg := range c.sent {
		require.Equal(t, messages.MessageTypeServerItemToggled, msg.Type)
		event := &messages.ServerItemToggled{}
		require.NoError(t, json.Unmarshal(msg.Payload, event))
		events = append(events, event)
	}
	return events
}

func TestBroadcastEventWorker_DeliversToRoom(t *testing.T) {
	registry := rooms.NewRegistry()
	conn1 := &fakeConnection{}
	conn2 := &fakeConnection{}
	outsider := &fakeConnection{}
	registry.Join(conn1, "g1")
	registry.Join(conn2, "g1")
	registry.Join(outsider, "g2")

	worker := NewBroadcastEventWorker(NewBroadcastEventWorkerOptions{
		Registry: registry,
	})

	worker.broadcastItemToggled(&hunt.ToggleResult{
		GameID:      "g1",
		ItemID:      2,
		Completed:   true,
		TotalPoints: 15,
	})

	for _, conn := range []*fakeConnection{conn1, conn2} {
		events := conn.received(t)
		require.Len(t, events, 1)
		assert.Equal(t, "g1", events[0].GameID)
		assert.Equal(t, int64(2), events[0].ItemID)
		assert.True(t, events[0].Completed)
		assert.Equal(t, 15, events[0].TotalPoints)
	}
	assert.Empty(t, outsider.received(t))
}

func TestBroadcastEventWorker_DeadConnectionDoesNotBlockOthers(t *testing.T) {
	registry := rooms.NewRegistry()
	dead := &fakeConnection{sendErr: errors.New("connection reset")}
	live := &fakeConnection{}
	registry.Join(dead, "g1")
	registry.Join(live, "g1")

	worker := NewBroadcastEventWorker(NewBroadcastEventWorkerOptions{
		Registry: registry,
	})

	worker.broadcastItemToggled(&hunt.ToggleResult{
		GameID:      "g1",
		ItemID:      1,
		Completed:   true,
		TotalPoints: 10,
	})

	assert.Len(t, live.received(t), 1)
}

func TestBroadcastEventWorker_PreservesEventOrder(t *testing.T) {
	registry := rooms.NewRegistry()
	conn := &fakeConnection{}
	registry.Join(conn, "g1")

	worker := NewBroadcastEventWorker(NewBroadcastEventWorkerOptions{
		Registry: registry,
	})

	results := []*hunt.ToggleResult{
		{GameID: "g1", ItemID: 1, Completed: true, TotalPoints: 10},
		{GameID: "g1", ItemID: 2, Completed: true, TotalPoints: 15},
		{GameID: "g1", ItemID: 1, Completed: false, TotalPoints: 5},
	}
	for _, result := range results {
		worker.broadcastItemToggled(result)
	}

	events := conn.received(t)
	require.Len(t, events, 3)
	for i, result := range results {
		assert.Equal(t, result.ItemID, events[i].ItemID)
		assert.Equal(t, result.Completed, events[i].Completed)
		assert.Equal(t, result.TotalPoints, events[i].TotalPoints)
	}
}

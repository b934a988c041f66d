package rooms

import (
	"testing"

	"github.com/cbodonnell/huntboard/pkg/messages"
	"github.com/stretchr/testify/assert"
)

type fakeConnection struct {
	sent []*messages.Message
}

func (c *fakeConnection) Send(msg *messages.Message) error {
	c.sent = append(c.sent, msg)
	return nil
}

func TestRegistry_JoinAndMembers(t *testing.T) {
	registry := NewRegistry()
	conn1 := &fakeConnection{}
	conn2 := &fakeConnection{}

	registry.Join(conn1, "g1")
	registry.Join(conn2, "g1")
	registry.Join(conn2, "g2")

	assert.Len(t, registry.Members("g1"), 2)
	assert.Len(t, registry.Members("g2"), 1)
	assert.Empty(t, registry.Members("g3"))
}

func TestRegistry_JoinIsIdempotent(t *testing.T) {
	registry := NewRegistry()
	conn := &fakeConnection{}

	registry.Join(conn, "g1")
	registry.Join(conn, "g1")

	assert.Len(t, registry.Members("g1"), 1)
}

func TestRegistry_Leave(t *testing.T) {
	registry := NewRegistry()
	conn1 := &fakeConnection{}
	conn2 := &fakeConnection{}

	registry.Join(conn1, "g1")
	registry.Join(conn2, "g1")
	registry.Leave(conn1, "g1")

	members := registry.Members("g1")
	assert.Len(t, members, 1)
	assert.Same(t, conn2, members[0].(*fakeConnection))

	// leaving a room the connection is not in is a no-op
	registry.Leave(conn1, "g1")
	registry.Leave(conn1, "g9")
	assert.Len(t, registry.Members("g1"), 1)
}

func TestRegistry_LeaveAll(t *testing.T) {
	registry := NewRegistry()
	conn := &fakeConnection{}
	other := &fakeConnection{}

	registry.Join(conn, "g1")
	registry.Join(conn, "g2")
	registry.Join(other, "g1")

	registry.LeaveAll(conn)

	assert.Len(t, registry.Members("g1"), 1)
	assert.Empty(t, registry.Members("g2"))

	// no memberships leak after a second LeaveAll
	registry.LeaveAll(conn)
	assert.Len(t, registry.Members("g1"), 1)
}

package messages

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeDeserializeMessage(t *testing.T) {
	payload, err := json.Marshal(&ServerItemToggled{
		GameID:      "g1",
		ItemID:      2,
		Completed:   true,
		TotalPoints: 15,
	})
	require.NoError(t, err)

	msg := &Message{
		Type:    MessageTypeServerItemToggled,
		Payload: payload,
	}

	b, err := SerializeMessage(msg)
	require.NoError(t, err)

	got, err := DeserializeMessage(b)
	require.NoError(t, err)
	assert.Equal(t, msg.Type, got.Type)

	event := &ServerItemToggled{}
	require.NoError(t, json.Unmarshal(got.Payload, event))
	assert.Equal(t, "g1", event.GameID)
	assert.Equal(t, int64(2), event.ItemID)
	assert.True(t, event.Completed)
	assert.Equal(t, 15, event.TotalPoints)
}

func TestDeserializeMessage_BadData(t *testing.T) {
	_, err := DeserializeMessage([]byte("not a zstd frame"))
	require.Error(t, err)
}

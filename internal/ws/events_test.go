package ws

import (
	"encoding/json"
	"testing"

	"github.com/chiptally/chiptally-backend/internal/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJoinTableMessage(t *testing.T) {
	raw := []byte(`{"event":"join-table","data":{"tableId":"table-1","playerId":"player-1"}}`)

	var msg inboundMessage
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, eventJoinTable, msg.Event)

	payload, err := utils.JsonDecodeByteStream[joinTablePayload](msg.Data)
	require.NoError(t, err)
	assert.Equal(t, "table-1", payload.TableId)
	assert.Equal(t, "player-1", payload.PlayerId)
}

func TestDecodeLeaveTableMessageWithoutPayload(t *testing.T) {
	raw := []byte(`{"event":"leave-table"}`)

	var msg inboundMessage
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, eventLeaveTable, msg.Event)
	assert.Nil(t, msg.Data)
}

func TestDecodeJoinTableRejectsMalformedPayload(t *testing.T) {
	payload, err := utils.JsonDecodeByteStream[joinTablePayload]([]byte(`"not an object"`))
	assert.Error(t, err)
	assert.Nil(t, payload)
}

func TestPresenceEventWireShape(t *testing.T) {
	raw, err := json.Marshal(playerJoinedEvent{
		PlayerId:   "player-1",
		PlayerName: "Alice",
		Chips:      1000,
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{"playerId":"player-1","playerName":"Alice","chips":1000}`, string(raw))
}

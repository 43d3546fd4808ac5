package ws

import (
	"encoding/json"
)

// Inbound client messages share the outbound envelope shape.
type inboundMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

const (
	eventJoinTable  = "join-table"
	eventLeaveTable = "leave-table"
)

type joinTablePayload struct {
	TableId  string `json:"tableId"`
	PlayerId string `json:"playerId"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type playerJoinedEvent struct {
	PlayerId   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Chips      int64  `json:"chips"`
}

type playerLeftEvent struct {
	PlayerId   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

type playerDisconnectedEvent struct {
	PlayerId   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

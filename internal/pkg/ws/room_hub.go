package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// writeTimeout bounds how long a single stalled client can hold up a write.
const writeTimeout = 5 * time.Second

// Envelope is the wire shape of every event sent to a client.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// PresenceInfo binds a live connection to the player it speaks for.
type PresenceInfo struct {
	PlayerId string
	TableId  string
}

// member wraps a connection with its own write mutex. Writes to one
// connection never interleave, and never happen under the hub mutex, so a
// client that stops reading cannot stall broadcasts to other connections.
type member struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

// write pushes one envelope with a deadline. A failed or timed-out write
// closes the connection; the reader loop picks that up and runs the normal
// disconnect path, which removes the member from the hub.
func (m *member) write(env Envelope) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := m.conn.WriteJSON(env); err != nil {
		m.conn.Close()
	}
}

// RoomHub tracks which connections sit in which table room and fans events
// out to them. It owns the connection-to-player mapping exclusively; nothing
// durable lives here, the map is rebuilt as clients re-join after a restart.
// One instance per process, passed by reference to the handlers that need it.
//
// The hub mutex guards the maps only. Socket writes go through each member's
// own mutex against a snapshot taken under the hub mutex, so rooms never
// block each other.
type RoomHub struct {
	mu       sync.Mutex
	rooms    map[string]map[*websocket.Conn]*member
	presence map[*websocket.Conn]PresenceInfo
	members  map[*websocket.Conn]*member
}

func NewRoomHub() *RoomHub {
	return &RoomHub{
		rooms:    make(map[string]map[*websocket.Conn]*member),
		presence: make(map[*websocket.Conn]PresenceInfo),
		members:  make(map[*websocket.Conn]*member),
	}
}

// Join puts conn into the table's room. A second join from the same
// connection overwrites its mapping, leaving the previous room first.
func (hub *RoomHub) Join(conn *websocket.Conn, tableId string, playerId string) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	if prev, ok := hub.presence[conn]; ok {
		hub.removeLocked(conn, prev.TableId)
	}

	m := hub.members[conn]
	if m == nil {
		m = &member{conn: conn}
		hub.members[conn] = m
	}

	room := hub.rooms[tableId]
	if room == nil {
		room = make(map[*websocket.Conn]*member)
		hub.rooms[tableId] = room
	}
	room[conn] = m
	hub.presence[conn] = PresenceInfo{PlayerId: playerId, TableId: tableId}
}

// Leave clears the connection's mapping and returns what it was, so the
// caller can notify the room it left.
func (hub *RoomHub) Leave(conn *websocket.Conn) (PresenceInfo, bool) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	info, ok := hub.presence[conn]
	if !ok {
		return PresenceInfo{}, false
	}
	hub.removeLocked(conn, info.TableId)
	return info, true
}

func (hub *RoomHub) Presence(conn *websocket.Conn) (PresenceInfo, bool) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	info, ok := hub.presence[conn]
	return info, ok
}

func (hub *RoomHub) RoomSize(tableId string) int {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	return len(hub.rooms[tableId])
}

// roomSnapshot copies the room's members so writes can proceed without the
// hub mutex. Members removed after the snapshot still get the event; that is
// within the best-effort delivery contract.
func (hub *RoomHub) roomSnapshot(tableId string, skip *websocket.Conn) []*member {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	room := hub.rooms[tableId]
	targets := make([]*member, 0, len(room))
	for conn, m := range room {
		if conn == skip {
			continue
		}
		targets = append(targets, m)
	}
	return targets
}

// Broadcast sends the event to every connection in the table's room.
// Delivery is best-effort; a failed write closes the connection and the
// reader loop cleans up.
func (hub *RoomHub) Broadcast(tableId string, event string, payload any) {
	env := Envelope{Event: event, Data: payload}
	for _, m := range hub.roomSnapshot(tableId, nil) {
		m.write(env)
	}
}

// BroadcastExcept sends the event to everyone in the room but the sender.
func (hub *RoomHub) BroadcastExcept(tableId string, sender *websocket.Conn, event string, payload any) {
	env := Envelope{Event: event, Data: payload}
	for _, m := range hub.roomSnapshot(tableId, sender) {
		m.write(env)
	}
}

// Send writes an event to a single connection. Connections that never joined
// a room, like one rejected before its first join, have no member entry yet;
// only their own reader loop writes to them, so a throwaway member is safe.
func (hub *RoomHub) Send(conn *websocket.Conn, event string, payload any) {
	hub.mu.Lock()
	m := hub.members[conn]
	hub.mu.Unlock()

	if m == nil {
		m = &member{conn: conn}
	}
	m.write(Envelope{Event: event, Data: payload})
}

func (hub *RoomHub) removeLocked(conn *websocket.Conn, tableId string) {
	room := hub.rooms[tableId]
	if room != nil {
		delete(room, conn)
		if len(room) == 0 {
			delete(hub.rooms, tableId)
		}
	}
	delete(hub.presence, conn)
	delete(hub.members, conn)
}

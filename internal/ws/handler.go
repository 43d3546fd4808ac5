package ws

import (
	"net/http"

	"github.com/chiptally/chiptally-backend/internal/pkg/utils"
	pkgws "github.com/chiptally/chiptally-backend/internal/pkg/ws"
	"github.com/chiptally/chiptally-backend/internal/player"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

type wsHandler struct {
	hub     *pkgws.RoomHub
	players *player.PlayerService
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func RegisterRoutes(rg *gin.RouterGroup, hub *pkgws.RoomHub, players *player.PlayerService) {
	handler := wsHandler{
		hub:     hub,
		players: players,
	}

	rg.GET("/ws", handler.serveWs)
}

// serveWs runs the connection's read loop. The loop ending, gracefully or
// not, is the one place abrupt network loss is handled: the player is marked
// inactive and the room told, whether or not a leave-table ever arrived.
func (wsh *wsHandler) serveWs(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("Error upgrading websocket connection")
		return
	}
	defer wsh.handleDisconnect(conn)

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Event {
		case eventJoinTable:
			wsh.handleJoinTable(conn, msg)
		case eventLeaveTable:
			wsh.handleLeaveTable(conn)
		default:
			log.Warn().Str("event", msg.Event).Msg("Unknown websocket event")
		}
	}
}

// handleJoinTable is the presence-layer join: it puts the connection in the
// table's room and tells the others. The durable is_active flag is not
// touched here, that belongs to the session join/rejoin flow.
func (wsh *wsHandler) handleJoinTable(conn *websocket.Conn, msg inboundMessage) {
	payload, err := utils.JsonDecodeByteStream[joinTablePayload](msg.Data)
	if err != nil || payload.TableId == "" || payload.PlayerId == "" {
		wsh.hub.Send(conn, "error", errorPayload{Message: "Invalid join-table payload"})
		return
	}

	p, err := wsh.players.GetById(payload.PlayerId)
	if err != nil {
		wsh.hub.Send(conn, "error", errorPayload{Message: "Player not found"})
		return
	}

	wsh.hub.Join(conn, payload.TableId, payload.PlayerId)
	wsh.hub.BroadcastExcept(payload.TableId, conn, "player-joined", playerJoinedEvent{
		PlayerId:   p.Id,
		PlayerName: p.Name,
		Chips:      p.MoneyCount,
	})

	log.Info().Str("playerName", p.Name).Str("tableId", payload.TableId).Msg("Player joined table room")
}

func (wsh *wsHandler) handleLeaveTable(conn *websocket.Conn) {
	info, ok := wsh.hub.Presence(conn)
	if !ok {
		return
	}

	p, problem := wsh.players.Deactivate(info.PlayerId)
	if problem != nil {
		wsh.hub.Send(conn, "error", errorPayload{Message: "Failed to leave table"})
		return
	}

	wsh.hub.BroadcastExcept(info.TableId, conn, "player-left", playerLeftEvent{
		PlayerId:   p.Id,
		PlayerName: p.Name,
	})
	wsh.hub.Leave(conn)
}

func (wsh *wsHandler) handleDisconnect(conn *websocket.Conn) {
	defer conn.Close()

	info, ok := wsh.hub.Leave(conn)
	if !ok {
		return
	}

	p, problem := wsh.players.Deactivate(info.PlayerId)
	if problem != nil {
		log.Warn().Err(problem.Cause).Str("playerId", info.PlayerId).Msg("Error handling websocket disconnect")
		return
	}

	wsh.hub.Broadcast(info.TableId, "player-disconnected", playerDisconnectedEvent{
		PlayerId:   p.Id,
		PlayerName: p.Name,
	})
}

package player

import (
	"net/http"

	"github.com/chiptally/chiptally-backend/internal/activity"
	"github.com/chiptally/chiptally-backend/internal/pkg/reject"
	"github.com/chiptally/chiptally-backend/internal/pkg/tablelock"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type playerHandler struct {
	player *PlayerService
}

func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB, activityService *activity.Service, locks *tablelock.KeyedMutex) *PlayerService {
	service := &PlayerService{
		Db:       db,
		Activity: activityService,
		Locks:    locks,
	}
	handler := playerHandler{player: service}

	rg.POST("/tables/:tableId/players", handler.joinTable)
	rg.GET("/tables/:tableId/players", handler.getPlayers)
	rg.POST("/players/:playerId/leave", handler.leaveTable)
	rg.PATCH("/players/:playerId/chips", handler.updateChips)

	return service
}

type joinTableRequest struct {
	Name         string `json:"name"`
	InitialChips *int64 `json:"initialChips"`
}

func (h *playerHandler) joinTable(c *gin.Context) {
	tableId := c.Param("tableId")

	body := joinTableRequest{}
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, reject.BodyParseProblem())
		return
	}
	if body.Name == "" {
		c.JSON(http.StatusBadRequest, reject.ValidationProblem("Player name is required"))
		return
	}

	result, err := h.player.Join(tableId, body.Name, body.InitialChips)
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Player joined successfully",
		"player":    result.Player,
		"sessionId": result.SessionId,
	})
}

func (h *playerHandler) getPlayers(c *gin.Context) {
	tableId := c.Param("tableId")

	players, err := h.player.ActiveByTable(tableId)
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusOK, players)
}

func (h *playerHandler) leaveTable(c *gin.Context) {
	playerId := c.Param("playerId")

	if _, err := h.player.Deactivate(playerId); err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Player left the table"})
}

type updateChipsRequest struct {
	Amount *int64 `json:"amount"`
}

func (h *playerHandler) updateChips(c *gin.Context) {
	playerId := c.Param("playerId")

	body := updateChipsRequest{}
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, reject.BodyParseProblem())
		return
	}
	if body.Amount == nil || *body.Amount < 0 {
		c.JSON(http.StatusBadRequest, reject.ValidationProblem("Valid chip amount required"))
		return
	}

	player, err := h.player.SetChips(playerId, *body.Amount)
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusOK, player)
}

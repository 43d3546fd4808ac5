package ledger

import (
	"net/http"

	"github.com/chiptally/chiptally-backend/internal/activity"
	"github.com/chiptally/chiptally-backend/internal/pkg/reject"
	"github.com/chiptally/chiptally-backend/internal/pkg/tablelock"
	ws "github.com/chiptally/chiptally-backend/internal/pkg/ws"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ledgerHandler struct {
	ledger ledgerService
}

func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB, hub *ws.RoomHub, activityService *activity.Service, locks *tablelock.KeyedMutex) {
	handler := ledgerHandler{
		ledger: ledgerService{
			db:       db,
			hub:      hub,
			activity: activityService,
			locks:    locks,
		},
	}

	rg.POST("/tables/:tableId/bet", handler.placeBet)
	rg.POST("/tables/:tableId/take", handler.takeFromPot)
	rg.POST("/tables/:tableId/reset-pot", handler.resetPot)
	rg.PATCH("/tables/:tableId/admin/player/:targetPlayerId/chips", handler.adminUpdateChips)
}

type mutationRequest struct {
	PlayerId string `json:"playerId"`
	Amount   *int64 `json:"amount"`
}

func (h *ledgerHandler) placeBet(c *gin.Context) {
	tableId := c.Param("tableId")

	body := mutationRequest{}
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, reject.BodyParseProblem())
		return
	}
	if body.PlayerId == "" || body.Amount == nil {
		c.JSON(http.StatusBadRequest, reject.ValidationProblem("Valid playerId and amount required"))
		return
	}

	result, err := h.ledger.placeBet(tableId, body.PlayerId, *body.Amount)
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Bet placed successfully",
		"newPot":      result.NewPot,
		"playerChips": result.PlayerChips,
	})
}

func (h *ledgerHandler) takeFromPot(c *gin.Context) {
	tableId := c.Param("tableId")

	body := mutationRequest{}
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, reject.BodyParseProblem())
		return
	}
	if body.PlayerId == "" || body.Amount == nil {
		c.JSON(http.StatusBadRequest, reject.ValidationProblem("Valid playerId and amount required"))
		return
	}

	result, err := h.ledger.takeFromPot(tableId, body.PlayerId, *body.Amount)
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Took from pot successfully",
		"newPot":      result.NewPot,
		"playerChips": result.PlayerChips,
	})
}

type resetPotRequest struct {
	PlayerId string `json:"playerId"`
}

func (h *ledgerHandler) resetPot(c *gin.Context) {
	tableId := c.Param("tableId")

	body := resetPotRequest{}
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, reject.BodyParseProblem())
		return
	}
	if body.PlayerId == "" {
		c.JSON(http.StatusBadRequest, reject.ValidationProblem("playerId required"))
		return
	}

	if err := h.ledger.resetPot(tableId, body.PlayerId); err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Pot reset successfully",
		"newPot":  0,
	})
}

type adminUpdateChipsRequest struct {
	Amount        *int64 `json:"amount"`
	AdminPlayerId string `json:"adminPlayerId"`
}

func (h *ledgerHandler) adminUpdateChips(c *gin.Context) {
	tableId := c.Param("tableId")
	targetPlayerId := c.Param("targetPlayerId")

	body := adminUpdateChipsRequest{}
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, reject.BodyParseProblem())
		return
	}
	if body.AdminPlayerId == "" || body.Amount == nil {
		c.JSON(http.StatusBadRequest, reject.ValidationProblem("Valid amount and adminPlayerId required"))
		return
	}

	player, err := h.ledger.adminSetChips(tableId, body.AdminPlayerId, targetPlayerId, *body.Amount)
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Chips updated successfully",
		"player":  player,
	})
}

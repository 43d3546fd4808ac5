package session

import (
	"net/http"

	"github.com/chiptally/chiptally-backend/internal/activity"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type sessionHandler struct {
	session sessionService
}

func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB, activityService *activity.Service) {
	cache, err := newSessionCache()
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot initialize session cache")
	}

	handler := sessionHandler{
		session: sessionService{
			db:       db,
			cache:    cache,
			activity: activityService,
		},
	}

	rg.POST("/sessions/:sessionId/rejoin", handler.rejoin)
	rg.POST("/sessions/:sessionId/heartbeat", handler.heartbeat)
}

func (h *sessionHandler) rejoin(c *gin.Context) {
	sessionId := c.Param("sessionId")

	result, err := h.session.rejoin(sessionId)
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Rejoined successfully",
		"player":    result.Player,
		"sessionId": result.SessionId,
		"tableId":   result.TableId,
	})
}

func (h *sessionHandler) heartbeat(c *gin.Context) {
	sessionId := c.Param("sessionId")

	if err := h.session.heartbeat(sessionId); err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Session updated"})
}

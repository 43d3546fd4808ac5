package activity

import (
	"net/http"

	"github.com/chiptally/chiptally-backend/internal/pkg/utils"
	ws "github.com/chiptally/chiptally-backend/internal/pkg/ws"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	defaultFeedLimit = 50
	maxFeedLimit     = 200
)

type activityHandler struct {
	activity *Service
}

func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB, hub *ws.RoomHub) *Service {
	service := &Service{Db: db, Hub: hub}
	handler := activityHandler{activity: service}

	rg.GET("/tables/:tableId/activities", handler.getActivities)

	return service
}

func (h *activityHandler) getActivities(c *gin.Context) {
	tableId := c.Param("tableId")
	limit := utils.LimitQuery(c, defaultFeedLimit, maxFeedLimit)

	items, err := h.activity.Recent(tableId, limit)
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusOK, items)
}

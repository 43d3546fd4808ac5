package table

import (
	"net/http"

	"github.com/chiptally/chiptally-backend/internal/activity"
	"github.com/chiptally/chiptally-backend/internal/pkg/reject"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type tableHandler struct {
	table tableService
}

func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB, activityService *activity.Service) {
	handler := tableHandler{
		table: tableService{
			db:       db,
			activity: activityService,
		},
	}

	rg.POST("/tables", handler.createTable)
	rg.GET("/tables/:tableId", handler.getTable)
}

type createTableRequest struct {
	TableName    string `json:"tableName"`
	PlayerName   string `json:"playerName"`
	InitialChips *int64 `json:"initialChips"`
}

func (h *tableHandler) createTable(c *gin.Context) {
	body := createTableRequest{}
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, reject.BodyParseProblem())
		return
	}
	if body.TableName == "" || body.PlayerName == "" {
		c.JSON(http.StatusBadRequest, reject.ValidationProblem("tableName and playerName are required"))
		return
	}

	result, err := h.table.createTable(body.TableName, body.PlayerName, body.InitialChips)
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Table created successfully",
		"table":     result.Table,
		"player":    result.Player,
		"sessionId": result.SessionId,
	})
}

func (h *tableHandler) getTable(c *gin.Context) {
	tableId := c.Param("tableId")

	tbl, err := h.table.getTable(tableId)
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusOK, tbl)
}

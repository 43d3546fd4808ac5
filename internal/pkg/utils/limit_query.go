package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// LimitQuery reads a ?limit=N query parameter, falling back to def and
// clamping to max. Absent or malformed values fall back rather than fail;
// feed endpoints treat the limit as a hint, not a contract.
func LimitQuery(c *gin.Context, def int, max int) int {
	raw := c.Query("limit")
	if raw == "" {
		return def
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

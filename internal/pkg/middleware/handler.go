package middleware

import (
	"fmt"

	"github.com/chiptally/chiptally-backend/internal/pkg/reject"
	"github.com/gin-gonic/gin"
)

func RegisterGlobalMiddleware(router *gin.Engine) {
	router.Use(recovery(), CORS())
}

// recovery turns a handler panic into the same problem body every other
// failure path produces, instead of gin's empty 500.
func recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		problem := reject.UnexpectedProblem(fmt.Errorf("panic: %v", recovered))
		c.AbortWithStatusJSON(problem.Status, problem)
	})
}

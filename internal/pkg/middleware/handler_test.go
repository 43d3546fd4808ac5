package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestPanicRecoveryReturnsProblemBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterGlobalMiddleware(router)
	router.GET("/boom", func(c *gin.Context) {
		panic("kaboom")
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{
		"title": "Unexpected error",
		"status": 500,
		"message": "error.generic.unexpected"
	}`, rec.Body.String())
}

func TestHealthyRequestPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterGlobalMiddleware(router)
	router.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message": "ok"}`, rec.Body.String())
}

package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func limitFor(t *testing.T, rawQuery string) int {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/tables/t1/activities?"+rawQuery, nil)
	return LimitQuery(c, 50, 200)
}

func TestLimitQuery(t *testing.T) {
	testCases := []struct {
		query    string
		expected int
	}{
		{query: "", expected: 50},
		{query: "limit=25", expected: 25},
		{query: "limit=200", expected: 200},
		{query: "limit=5000", expected: 200},
		{query: "limit=0", expected: 50},
		{query: "limit=-3", expected: 50},
		{query: "limit=abc", expected: 50},
	}

	for _, tc := range testCases {
		if got := limitFor(t, tc.query); got != tc.expected {
			t.Errorf("LimitQuery(%q) = %d, expected %d", tc.query, got, tc.expected)
		}
	}
}

package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newLimitedRouter(maxAttempts int, window time.Duration) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/submit", SubmitRateLimit(maxAttempts, window), func(c *gin.Context) {
		c.JSON(200, gin.H{"success": true})
	})
	return r
}

func TestSubmitRateLimit_AllowsWithinWindow(t *testing.T) {
	r := newLimitedRouter(3, time.Minute)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/submit", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, 200, w.Code)
	}
}

func TestSubmitRateLimit_BlocksOverLimit(t *testing.T) {
	r := newLimitedRouter(2, time.Minute)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("POST", "/submit", nil))
		assert.Equal(t, 200, w.Code)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/submit", nil))
	assert.Equal(t, 429, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestSubmitRateLimit_WindowSlides(t *testing.T) {
	r := newLimitedRouter(1, 30*time.Millisecond)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/submit", nil))
	assert.Equal(t, 200, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/submit", nil))
	assert.Equal(t, 429, w.Code)

	// 窗口滑过后恢复放行
	time.Sleep(50 * time.Millisecond)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/submit", nil))
	assert.Equal(t, 200, w.Code)
}

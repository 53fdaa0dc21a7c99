package router

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"donation/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) *gin.Engine {
	t.Helper()
	return Setup(&config.Config{
		Server: config.ServerConfig{Mode: gin.TestMode},
	})
}

func TestOptionsPreflight(t *testing.T) {
	r := newEngine(t)

	// 任意路径的 OPTIONS 都在路由前短路
	for _, path := range []string{"/api/donations", "/api/test", "/no/such/path"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("OPTIONS", path, nil))

		assert.Equal(t, 204, w.Code, path)
		assert.Empty(t, w.Body.String())
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Content-Type, Authorization", w.Header().Get("Access-Control-Allow-Headers"))
		assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))
	}
}

func TestCORSHeadersOnNormalRequests(t *testing.T) {
	r := newEngine(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/no/such/path", nil))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestNotFoundListsEndpoints(t *testing.T) {
	r := newEngine(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/unknown", nil))

	assert.Equal(t, 404, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "Not Found", resp["error"])
	assert.Equal(t, "/api/unknown", resp["path"])
	assert.ElementsMatch(t, []any{"/api/test", "/api/donations", "/health"},
		resp["availableEndpoints"])
}

func TestMethodNotAllowed(t *testing.T) {
	r := newEngine(t)

	// 已匹配路径上的未声明方法
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("PUT", "/api/donations", nil))

	assert.Equal(t, 405, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "Method Not Allowed", resp["error"])
}

func TestRecoveryProducesEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery())
	r.GET("/boom", func(c *gin.Context) {
		panic("unexpected failure")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/boom", nil))

	assert.Equal(t, 500, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "unexpected failure", resp["error"])
	assert.NotEmpty(t, resp["timestamp"])
}

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ServiceName 对外上报的服务标识
const ServiceName = "donation-collection-system"

// HealthFunc 数据库连通性探测，返回是否可用和说明文字
type HealthFunc func(ctx context.Context) (bool, string)

// StatusHandler 连通性与存活检测处理器
type StatusHandler struct {
	checkHealth HealthFunc
}

// NewStatusHandler 创建状态处理器
func NewStatusHandler(check HealthFunc) *StatusHandler {
	return &StatusHandler{checkHealth: check}
}

// Test 连通性检测报告
// @Summary 连通性检测
// @Tags 状态
// @Produce json
// @Param detailed query string false "保留参数，暂未使用"
// @Router /api/test [get]
func (h *StatusHandler) Test(c *gin.Context) {
	connected, message := h.checkHealth(c.Request.Context())

	statusMessage := "服务器运行正常"
	if !connected {
		statusMessage = "服务器连接异常"
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   connected,
		"message":   statusMessage,
		"service":   ServiceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"mongodb": gin.H{
			"connected": connected,
			"message":   message,
		},
	})
}

// Health 存活检测
// @Summary 存活检测
// @Tags 状态
// @Produce json
// @Router /health [get]
func (h *StatusHandler) Health(c *gin.Context) {
	connected, message := h.checkHealth(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   ServiceName,
		"mongodb": gin.H{
			"connected": connected,
			"message":   message,
		},
	})
}

package router

import (
	"fmt"
	"net/http"
	"time"

	"donation/api"
	"donation/config"
	"donation/database"
	"donation/middleware"

	"github.com/gin-gonic/gin"
)

// 404 响应中向客户端公布的端点清单
var availableEndpoints = []string{
	"/api/test",
	"/api/donations",
	"/health",
}

// Setup 设置路由
func Setup(cfg *config.Config) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Logger(), Recovery(), CORSMiddleware())

	// 已匹配路径上的未声明方法返回 405 而不是 404
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		api.Fail(c, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success":            false,
			"error":              "Not Found",
			"path":               c.Request.URL.Path,
			"availableEndpoints": availableEndpoints,
		})
	})

	store := database.NewStore()
	donationHandler := api.NewDonationHandler(store, cfg)
	statusHandler := api.NewStatusHandler(database.Health)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/test", statusHandler.Test)

		donations := apiGroup.Group("/donations")
		{
			donations.GET("", donationHandler.List)

			// 公开提交接口按配置限流
			if cfg.RateLimit.Enabled {
				window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
				donations.POST("", middleware.SubmitRateLimit(cfg.RateLimit.MaxAttempts, window), donationHandler.Create)
			} else {
				donations.POST("", donationHandler.Create)
			}

			// 不带 ID 的删除由处理器报 400
			donations.DELETE("", donationHandler.Delete)
			donations.DELETE("/:id", donationHandler.Delete)
		}

		apiGroup.GET("/stats", donationHandler.Stats)

		export := apiGroup.Group("/export")
		{
			export.GET("/csv", donationHandler.ExportCSV)
			export.GET("/json", donationHandler.ExportJSON)
			export.GET("/excel", donationHandler.ExportExcel)
		}
	}

	// 健康检查
	r.GET("/health", statusHandler.Health)

	return r
}

// CORSMiddleware CORS 跨域中间件
// OPTIONS 预检在进入路由前短路：204 空响应体，放行头固定
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.Writer.Header().Set("Access-Control-Max-Age", "86400")
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Recovery 路由边界的兜底恢复
// 处理器抛出的任何异常都转成 500 信封，不向上冒泡
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		api.InternalError(c, fmt.Errorf("%v", recovered))
		c.Abort()
	})
}

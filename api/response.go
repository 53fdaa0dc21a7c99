package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// 所有响应都是 {success: bool, ...} 信封，成功和失败只在边界处
// 转换为状态码和响应体

// OK 成功响应，payload 中的字段平铺在信封里
func OK(c *gin.Context, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// Fail 失败响应
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   message,
	})
}

// BadRequest 400 失败响应
func BadRequest(c *gin.Context, message string) {
	Fail(c, http.StatusBadRequest, message)
}

// Unauthorized 401 失败响应
func Unauthorized(c *gin.Context, message string) {
	Fail(c, http.StatusUnauthorized, message)
}

// InternalError 500 失败响应，附带时间戳便于对账日志
// 存储层错误信息原样透出
func InternalError(c *gin.Context, err error) {
	message := "Internal Server Error"
	if err != nil {
		message = err.Error()
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"success":   false,
		"error":     message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// SubmitRateLimit 提交接口限流中间件
// 每 IP 在滑动窗口 window 内最多 maxAttempts 次提交，超过返回 429
// 窗口上限要照顾离线端批量同步的场景，默认值给得比较宽松
func SubmitRateLimit(maxAttempts int, window time.Duration) gin.HandlerFunc {
	var (
		mu    sync.Mutex
		store = make(map[string][]time.Time)
	)

	prune := func(timestamps []time.Time, cutoff time.Time) []time.Time {
		kept := timestamps[:0]
		for _, t := range timestamps {
			if t.After(cutoff) {
				kept = append(kept, t)
			}
		}
		return kept
	}

	// 定期清理过期数据
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			mu.Lock()
			cutoff := time.Now().Add(-window)
			for ip, timestamps := range store {
				kept := prune(timestamps, cutoff)
				if len(kept) == 0 {
					delete(store, ip)
				} else {
					store[ip] = kept
				}
			}
			mu.Unlock()
		}
	}()

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		timestamps := prune(store[ip], now.Add(-window))
		if len(timestamps) >= maxAttempts {
			store[ip] = timestamps
			mu.Unlock()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "提交过于频繁，请稍后再试",
			})
			c.Abort()
			return
		}
		store[ip] = append(timestamps, now)
		mu.Unlock()

		c.Next()
	}
}

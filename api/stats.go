package api

import (
	"github.com/gin-gonic/gin"
)

// Stats 获取捐赠数据统计
// @Summary 获取捐赠数据统计
// @Description 返回总记录数、两币种总额、项目清单和缴费状态分布
// @Tags 统计
// @Produce json
// @Router /api/stats [get]
func (h *DonationHandler) Stats(c *gin.Context) {
	stats, err := h.store.Stats(c.Request.Context())
	if err != nil {
		InternalError(c, err)
		return
	}

	OK(c, gin.H{
		"data": stats,
	})
}

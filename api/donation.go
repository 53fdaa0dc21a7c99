package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"

	"donation/config"
	"donation/database"
	"donation/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DonationStore 捐赠记录的存储访问接口，由 database.Store 实现
type DonationStore interface {
	Find(ctx context.Context, filter bson.M, opts database.ListOptions) ([]models.Donation, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	InsertOne(ctx context.Context, d *models.Donation) (string, error)
	InsertMany(ctx context.Context, ds []models.Donation) ([]string, error)
	DeleteOne(ctx context.Context, filter bson.M) (int64, error)
	Stats(ctx context.Context) (*models.DonationStats, error)
}

// DonationHandler 捐赠记录处理器
type DonationHandler struct {
	store         DonationStore
	adminPassword string
}

// NewDonationHandler 创建捐赠记录处理器
func NewDonationHandler(store DonationStore, cfg *config.Config) *DonationHandler {
	return &DonationHandler{
		store:         store,
		adminPassword: cfg.Admin.Password,
	}
}

// List 获取捐赠记录列表
// @Summary 获取捐赠记录列表
// @Description 支持搜索、项目/缴费状态筛选、日期范围和分页排序
// @Tags 捐赠记录
// @Produce json
// @Param search query string false "全文搜索"
// @Param project query string false "项目筛选"
// @Param payment query string false "缴费状态筛选"
// @Param startDate query string false "开始日期 (2024-01-01)"
// @Param endDate query string false "结束日期 (2024-12-31)"
// @Param page query string false "页码" default(1)
// @Param limit query string false "每页数量，最大 100" default(50)
// @Param sortBy query string false "排序字段" default(submittedAt)
// @Param sortOrder query string false "asc 为升序，其余为降序"
// @Router /api/donations [get]
func (h *DonationHandler) List(c *gin.Context) {
	var q ListQuery
	// 参数全是可选字符串，绑定不会失败
	_ = c.ShouldBindQuery(&q)

	filter := BuildFilter(q)
	page, limit, skip := ResolvePage(q.Page, q.Limit)
	sort := ResolveSort(q.SortBy, q.SortOrder)

	ctx := c.Request.Context()

	total, err := h.store.Count(ctx, filter)
	if err != nil {
		InternalError(c, err)
		return
	}

	donations, err := h.store.Find(ctx, filter, database.ListOptions{
		Sort:  sort,
		Skip:  skip,
		Limit: limit,
	})
	if err != nil {
		InternalError(c, err)
		return
	}
	if donations == nil {
		donations = []models.Donation{}
	}

	OK(c, gin.H{
		"data":       donations,
		"pagination": NewPagination(total, page, limit),
	})
}

// Create 新增捐赠记录，支持单条提交和 {data:[...]} 批量导入
// @Summary 新增捐赠记录
// @Description 单条提交必填姓名和护持项目；批量导入静默丢弃无效行并返回计数
// @Tags 捐赠记录
// @Accept json
// @Produce json
// @Router /api/donations [post]
func (h *DonationHandler) Create(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		BadRequest(c, "Invalid JSON format")
		return
	}

	var input models.DonationInput
	if err := json.Unmarshal(raw, &input); err != nil {
		BadRequest(c, "Invalid JSON format")
		return
	}

	// 批量导入走单独的校验路径
	if input.IsBatch() {
		h.createBatch(c, input.Data)
		return
	}

	// 单条提交快速失败，缺哪个字段报哪个字段
	d := models.NewDonation(input)
	if d.Name == "" {
		BadRequest(c, "姓名为必填项")
		return
	}
	if d.Project == "" {
		BadRequest(c, "护持项目为必填项")
		return
	}

	id, err := h.store.InsertOne(c.Request.Context(), &d)
	if err != nil {
		InternalError(c, err)
		return
	}
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		d.ID = oid
	}

	OK(c, gin.H{
		"message": "数据保存成功",
		"id":      id,
		"data":    d,
	})
}

// createBatch 批量导入：逐条规范化后只保留姓名和项目都非空的行
func (h *DonationHandler) createBatch(c *gin.Context, inputs []models.DonationInput) {
	valid := make([]models.Donation, 0, len(inputs))
	for _, in := range inputs {
		d := models.NewDonation(in)
		if d.Valid() {
			valid = append(valid, d)
		}
	}

	if len(valid) == 0 {
		BadRequest(c, "没有有效的捐赠数据")
		return
	}

	ids, err := h.store.InsertMany(c.Request.Context(), valid)
	if err != nil {
		InternalError(c, err)
		return
	}

	OK(c, gin.H{
		"message":       fmt.Sprintf("成功插入 %d 条记录", len(ids)),
		"insertedCount": len(ids),
		"insertedIds":   ids,
	})
}

// Delete 删除捐赠记录，需要管理密码
// @Summary 删除捐赠记录
// @Description 密码校验在任何存储访问之前执行；标识符非法的 ObjectID 时
// @Description 回退为按 localId/serverId/deviceId 匹配
// @Tags 捐赠记录
// @Produce json
// @Param id path string true "记录标识"
// @Param adminPassword query string true "管理密码"
// @Router /api/donations/{id} [delete]
func (h *DonationHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" || id == "donations" {
		BadRequest(c, "未指定要删除的记录ID")
		return
	}

	// 鉴权先于一切存储访问，避免泄露记录是否存在
	if !h.authorizeAdmin(c.Query("adminPassword")) {
		Unauthorized(c, "管理员密码错误或未提供")
		return
	}

	deleted, err := h.store.DeleteOne(c.Request.Context(), DeleteFilter(id))
	if err != nil {
		InternalError(c, err)
		return
	}

	message := "删除成功"
	if deleted == 0 {
		message = "未找到记录"
	}
	c.JSON(200, gin.H{
		"success":      deleted > 0,
		"deletedCount": deleted,
		"message":      message,
	})
}

// authorizeAdmin 校验管理密码
// 未配置密码时任何输入都不通过
func (h *DonationHandler) authorizeAdmin(supplied string) bool {
	if supplied == "" || h.adminPassword == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(supplied), []byte(h.adminPassword)) == 1
}

// DeleteFilter 根据记录标识构建删除条件
// 合法的 ObjectID 按主键匹配；否则按客户端关联键回退匹配，
// 离线端可能只知道自己生成的 localId 或 deviceId
func DeleteFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": oid}
	}
	return bson.M{"$or": []bson.M{
		{"localId": id},
		{"serverId": id},
		{"deviceId": id},
	}}
}

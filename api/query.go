package api

import (
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// ListQuery 列表接口的原始查询参数，全部按不可信字符串接收
type ListQuery struct {
	Search    string `form:"search"`
	Project   string `form:"project"`
	Payment   string `form:"payment"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
	Page      string `form:"page"`
	Limit     string `form:"limit"`
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder"`
}

// BuildFilter 把查询参数转换为存储层过滤条件
// 各条件独立可选，同时出现时取逻辑与；没有任何条件时匹配全部记录
func BuildFilter(q ListQuery) bson.M {
	filter := bson.M{}

	// 全文搜索
	if search := strings.TrimSpace(q.Search); search != "" {
		filter["$text"] = bson.M{"$search": search}
	}

	// 项目筛选
	if project := strings.TrimSpace(q.Project); project != "" {
		filter["project"] = project
	}

	// 缴费状态筛选
	if payment := strings.TrimSpace(q.Payment); payment != "" {
		filter["payment"] = payment
	}

	// 日期范围筛选，边界可单独给出
	if q.StartDate != "" || q.EndDate != "" {
		submittedAt := bson.M{}
		if q.StartDate != "" {
			submittedAt["$gte"] = dayStart(q.StartDate)
		}
		if q.EndDate != "" {
			submittedAt["$lte"] = dayEnd(q.EndDate)
		}
		filter["submittedAt"] = submittedAt
	}

	return filter
}

// dayStart 解析为该日 UTC 零点
// 非法日期不报错，返回一个永不匹配的下界
func dayStart(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	}
	return t
}

// dayEnd 解析为该日 UTC 23:59:59.999
// 非法日期不报错，返回一个永不匹配的上界
func dayEnd(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t.Add(24*time.Hour - time.Millisecond)
}

const (
	defaultLimit = 50
	maxLimit     = 100
)

// ResolvePage 解析分页参数
// page 至少为 1；limit 非数字时取 50，并收敛到 [1, 100]
func ResolvePage(pageStr, limitStr string) (page, limit, skip int64) {
	page, err := strconv.ParseInt(strings.TrimSpace(pageStr), 10, 64)
	if err != nil || page < 1 {
		page = 1
	}

	limit, err = strconv.ParseInt(strings.TrimSpace(limitStr), 10, 64)
	if err != nil {
		limit = defaultLimit
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return page, limit, (page - 1) * limit
}

// ResolveSort 解析排序参数
// sortBy 缺省为 submittedAt，字段名不做白名单校验，客户端传什么用什么；
// sortOrder 仅 "asc" 为升序，其余一律降序
func ResolveSort(sortBy, sortOrder string) bson.D {
	field := strings.TrimSpace(sortBy)
	if field == "" {
		field = "submittedAt"
	}
	order := -1
	if sortOrder == "asc" {
		order = 1
	}
	return bson.D{{Key: field, Value: order}}
}

// Pagination 随结果集返回的分页信息
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int64 `json:"page"`
	Limit      int64 `json:"limit"`
	TotalPages int64 `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// NewPagination 计算分页信息，total 是匹配条件的全量记录数
func NewPagination(total, page, limit int64) Pagination {
	return Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
		HasNext:    page*limit < total,
		HasPrev:    page > 1,
	}
}

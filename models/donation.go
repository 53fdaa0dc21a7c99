package models

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Donation 捐赠记录模型，系统中唯一的实体
// 记录创建后不再修改，只能被管理员删除
type Donation struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Project     string             `bson:"project" json:"project"`
	Method      string             `bson:"method" json:"method"`
	AmountTWD   float64            `bson:"amountTWD" json:"amountTWD"`
	AmountRMB   float64            `bson:"amountRMB" json:"amountRMB"`
	Content     string             `bson:"content" json:"content"`
	Payment     string             `bson:"payment" json:"payment"`
	Contact     string             `bson:"contact" json:"contact"`
	DeviceID    string             `bson:"deviceId" json:"deviceId"`
	BatchID     string             `bson:"batchId" json:"batchId"`
	LocalID     string             `bson:"localId" json:"localId"`
	ServerID    string             `bson:"serverId,omitempty" json:"serverId,omitempty"`
	SubmittedAt time.Time          `bson:"submittedAt" json:"submittedAt"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Valid 批量导入时的最小有效性判定：姓名和项目都非空
func (d *Donation) Valid() bool {
	return d.Name != "" && d.Project != ""
}

// Payment 缴费状态常量
const (
	PaymentUnpaid   = "未缴费"
	PaymentPaid     = "已缴费"
	PaymentGoodwill = "随喜"
)

// DonationInput 客户端提交的原始数据
// 金额字段用 any 接收，客户端可能传数字也可能传字符串
type DonationInput struct {
	Name        string          `json:"name"`
	Project     string          `json:"project"`
	Method      string          `json:"method"`
	AmountTWD   any             `json:"amountTWD"`
	AmountRMB   any             `json:"amountRMB"`
	Content     string          `json:"content"`
	Payment     string          `json:"payment"`
	Contact     string          `json:"contact"`
	DeviceID    string          `json:"deviceId"`
	BatchID     string          `json:"batchId"`
	LocalID     string          `json:"localId"`
	SubmittedAt string          `json:"submittedAt"`
	Data        []DonationInput `json:"data"`
}

// IsBatch 请求体携带 data 数组时走批量导入路径（空数组也算批量）
func (in *DonationInput) IsBatch() bool {
	return in.Data != nil
}

// NewDonation 将任意提交对象规范化为标准捐赠记录
// 不做任何拒绝，必填字段校验由调用方负责；
// createdAt/updatedAt 使用本次调用内捕获的同一时刻
func NewDonation(in DonationInput) Donation {
	now := time.Now()

	localID := strings.TrimSpace(in.LocalID)
	if localID == "" {
		localID = GenerateLocalID()
	}

	payment := in.Payment
	if payment == "" {
		payment = PaymentUnpaid
	}

	return Donation{
		Name:        strings.TrimSpace(in.Name),
		Project:     strings.TrimSpace(in.Project),
		Method:      in.Method,
		AmountTWD:   ParseAmount(in.AmountTWD),
		AmountRMB:   ParseAmount(in.AmountRMB),
		Content:     in.Content,
		Payment:     payment,
		Contact:     in.Contact,
		DeviceID:    in.DeviceID,
		BatchID:     in.BatchID,
		LocalID:     localID,
		SubmittedAt: parseSubmittedAt(in.SubmittedAt, now),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ParseAmount 金额类型强制转换
// 数字直接用，数字字符串解析，其余一律归 0；负数和非有限值也归 0
func ParseAmount(v any) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// 客户端时间格式不统一，按常见格式依次尝试，都解析不了则用服务器当前时间
var submittedAtLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseSubmittedAt(s string, now time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return now
	}
	for _, layout := range submittedAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return now
}

const localIDCharset = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateLocalID 生成本地去重标识，格式 local_<毫秒时间戳>_<9位随机后缀>
func GenerateLocalID() string {
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = localIDCharset[rand.Intn(len(localIDCharset))]
	}
	return fmt.Sprintf("local_%d_%s", time.Now().UnixMilli(), suffix)
}

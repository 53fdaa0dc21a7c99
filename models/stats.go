package models

// PaymentCount 按缴费状态聚合的记录数
type PaymentCount struct {
	Payment string `bson:"_id" json:"payment"`
	Count   int64  `bson:"count" json:"count"`
}

// DonationStats 捐赠数据统计结果
type DonationStats struct {
	TotalRecords   int64          `bson:"totalRecords" json:"totalRecords"`
	TotalAmountTWD float64        `bson:"totalAmountTWD" json:"totalAmountTWD"`
	TotalAmountRMB float64        `bson:"totalAmountRMB" json:"totalAmountRMB"`
	Projects       []string       `bson:"-" json:"projects"`
	PaymentStats   []PaymentCount `bson:"-" json:"paymentStats"`
}

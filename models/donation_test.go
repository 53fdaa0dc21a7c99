package models

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDonation_Defaults(t *testing.T) {
	before := time.Now()
	d := NewDonation(DonationInput{Name: "  王大明  ", Project: " 供灯祈福 "})
	after := time.Now()

	assert.Equal(t, "王大明", d.Name)
	assert.Equal(t, "供灯祈福", d.Project)
	assert.Equal(t, "", d.Method)
	assert.Zero(t, d.AmountTWD)
	assert.Zero(t, d.AmountRMB)
	assert.Equal(t, PaymentUnpaid, d.Payment)

	// 未提供 localId 时自动生成 local_<时间戳>_<随机后缀>
	assert.Regexp(t, regexp.MustCompile(`^local_\d+_[0-9a-z]{9}$`), d.LocalID)

	// createdAt 和 updatedAt 必须是同一时刻
	assert.True(t, d.CreatedAt.Equal(d.UpdatedAt))
	assert.False(t, d.CreatedAt.Before(before))
	assert.False(t, d.CreatedAt.After(after))
	// 未提供 submittedAt 时取服务器当前时间
	assert.True(t, d.SubmittedAt.Equal(d.CreatedAt))
}

func TestNewDonation_ClientFields(t *testing.T) {
	d := NewDonation(DonationInput{
		Name:        "李小花",
		Project:     "常年光明灯",
		Method:      "佛龕供灯一年",
		AmountTWD:   6000,
		AmountRMB:   "1428.57",
		Content:     "祈求身体健康",
		Payment:     PaymentPaid,
		Contact:     "0923456789",
		DeviceID:    "device_002",
		BatchID:     "batch_7",
		LocalID:     "local_002",
		SubmittedAt: "2024-01-14",
	})

	assert.Equal(t, float64(6000), d.AmountTWD)
	assert.Equal(t, 1428.57, d.AmountRMB)
	assert.Equal(t, PaymentPaid, d.Payment)
	assert.Equal(t, "local_002", d.LocalID)
	assert.Equal(t, "device_002", d.DeviceID)
	assert.Equal(t, "batch_7", d.BatchID)

	want := time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC)
	assert.True(t, d.SubmittedAt.Equal(want))
}

func TestNewDonation_BadSubmittedAtFallsBackToNow(t *testing.T) {
	d := NewDonation(DonationInput{Name: "A", Project: "P", SubmittedAt: "not-a-date"})
	assert.True(t, d.SubmittedAt.Equal(d.CreatedAt))
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"数字", 300000.0, 300000},
		{"整数", 42, 42},
		{"数字字符串", "1428.57", 1428.57},
		{"带空格字符串", " 100 ", 100},
		{"非数字字符串", "abc", 0},
		{"空字符串", "", 0},
		{"nil", nil, 0},
		{"布尔", true, 0},
		{"负数归零", -5.0, 0},
		{"负数字符串归零", "-5", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAmount(tt.in))
		})
	}
}

func TestGenerateLocalID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateLocalID()
		require.Regexp(t, regexp.MustCompile(`^local_\d+_[0-9a-z]{9}$`), id)
		assert.False(t, seen[id], "生成的 localId 不应重复: %s", id)
		seen[id] = true
	}
}

func TestDonationValid(t *testing.T) {
	assert.True(t, (&Donation{Name: "A", Project: "P"}).Valid())
	assert.False(t, (&Donation{Name: "", Project: "P"}).Valid())
	assert.False(t, (&Donation{Name: "A", Project: ""}).Valid())
}

func TestIsBatch(t *testing.T) {
	assert.False(t, (&DonationInput{}).IsBatch())
	// 空数组也走批量路径，由批量校验器报"没有有效数据"
	assert.True(t, (&DonationInput{Data: []DonationInput{}}).IsBatch())
}

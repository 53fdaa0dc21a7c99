package api

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"donation/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson"
)

func sampleDonations() []models.Donation {
	submitted := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	return []models.Donation{
		{
			Name: "王大明", Project: "供灯祈福", Method: "供灯七天",
			AmountTWD: 300000, AmountRMB: 71428.57,
			Payment: models.PaymentPaid, Contact: "0912345678",
			SubmittedAt: submitted,
		},
		{
			Name: "李小花", Project: "常年光明灯",
			Payment: models.PaymentUnpaid, SubmittedAt: submitted.Add(-24 * time.Hour),
		},
	}
}

func TestExportCSV(t *testing.T) {
	store := &fakeStore{donations: sampleDonations()}
	r := newTestRouter(store, "")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/export/csv?payment=%E5%B7%B2%E7%BC%B4%E8%B4%B9", nil))

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	body := w.Body.String()
	// BOM 前缀保证 Excel 正确识别中文
	assert.True(t, strings.HasPrefix(body, "\xEF\xBB\xBF"))
	assert.Contains(t, body, "姓名")
	assert.Contains(t, body, "王大明")
	assert.Contains(t, body, "300000.00")

	// 筛选参数传到了存储层
	assert.Equal(t, "已缴费", store.lastFilter["payment"])
	// 导出不分页
	assert.Zero(t, store.lastOpts.Limit)
	assert.Equal(t, bson.D{{Key: "submittedAt", Value: -1}}, store.lastOpts.Sort)
}

func TestExportJSON(t *testing.T) {
	store := &fakeStore{donations: sampleDonations()}
	r := newTestRouter(store, "")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/export/json", nil))

	assert.Equal(t, 200, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, float64(2), resp["count"])
	assert.Len(t, resp["data"], 2)
}

func TestExportExcel(t *testing.T) {
	store := &fakeStore{donations: sampleDonations()}
	r := newTestRouter(store, "")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/export/excel", nil))

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")

	// 响应体应当是合法的 xlsx
	f, err := excelize.OpenReader(w.Body)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("捐赠记录")
	require.NoError(t, err)
	require.Len(t, rows, 3) // 表头 + 2 行数据
	assert.Equal(t, "姓名", rows[0][0])
	assert.Equal(t, "王大明", rows[1][0])
	assert.Equal(t, "李小花", rows[2][0])
}

func TestStats(t *testing.T) {
	store := &fakeStore{stats: &models.DonationStats{
		TotalRecords:   4,
		TotalAmountTWD: 307000,
		TotalAmountRMB: 73095.24,
		Projects:       []string{"供灯祈福", "常年光明灯"},
		PaymentStats: []models.PaymentCount{
			{Payment: models.PaymentPaid, Count: 2},
			{Payment: models.PaymentUnpaid, Count: 2},
		},
	}}
	r := newTestRouter(store, "")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/stats", nil))

	assert.Equal(t, 200, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, true, resp["success"])

	data := resp["data"].(map[string]any)
	assert.Equal(t, float64(4), data["totalRecords"])
	assert.Equal(t, float64(307000), data["totalAmountTWD"])
	assert.Len(t, data["projects"], 2)
	assert.Len(t, data["paymentStats"], 2)
}

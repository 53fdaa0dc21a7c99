package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"donation/database"
	"donation/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson"
)

// 导出接口复用列表接口的筛选参数，不分页，按提交时间倒序

var exportHeaders = []string{
	"姓名", "护持项目", "方式", "金额(新台币)", "金额(人民币)",
	"内容", "缴费状态", "联系方式", "提交时间",
}

func exportRow(d *models.Donation) []string {
	return []string{
		d.Name,
		d.Project,
		d.Method,
		fmt.Sprintf("%.2f", d.AmountTWD),
		fmt.Sprintf("%.2f", d.AmountRMB),
		d.Content,
		d.Payment,
		d.Contact,
		d.SubmittedAt.UTC().Format("2006-01-02 15:04:05"),
	}
}

// findForExport 按筛选条件取全量记录
func (h *DonationHandler) findForExport(c *gin.Context) ([]models.Donation, bool) {
	var q ListQuery
	_ = c.ShouldBindQuery(&q)

	donations, err := h.store.Find(c.Request.Context(), BuildFilter(q), database.ListOptions{
		Sort: bson.D{{Key: "submittedAt", Value: -1}},
	})
	if err != nil {
		InternalError(c, err)
		return nil, false
	}
	return donations, true
}

// ExportCSV 导出捐赠记录为 CSV
// @Summary 导出捐赠记录为 CSV
// @Description 支持与列表接口相同的筛选参数
// @Tags 导出
// @Produce text/csv
// @Router /api/export/csv [get]
func (h *DonationHandler) ExportCSV(c *gin.Context) {
	donations, ok := h.findForExport(c)
	if !ok {
		return
	}

	buf := new(bytes.Buffer)
	// 添加 BOM 以支持 Excel 中文显示
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)
	if err := writer.Write(exportHeaders); err != nil {
		InternalError(c, err)
		return
	}
	for i := range donations {
		if err := writer.Write(exportRow(&donations[i])); err != nil {
			InternalError(c, err)
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, err)
		return
	}

	filename := fmt.Sprintf("donations_%s.csv", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportJSON 导出捐赠记录为 JSON 附件
// @Summary 导出捐赠记录为 JSON
// @Tags 导出
// @Produce json
// @Router /api/export/json [get]
func (h *DonationHandler) ExportJSON(c *gin.Context) {
	donations, ok := h.findForExport(c)
	if !ok {
		return
	}
	if donations == nil {
		donations = []models.Donation{}
	}

	filename := fmt.Sprintf("donations_%s.json", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	OK(c, gin.H{
		"count": len(donations),
		"data":  donations,
	})
}

// ExportExcel 导出捐赠记录为 Excel
// @Summary 导出捐赠记录为 Excel
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Router /api/export/excel [get]
func (h *DonationHandler) ExportExcel(c *gin.Context) {
	donations, ok := h.findForExport(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "捐赠记录"
	f.SetSheetName("Sheet1", sheetName)

	// 设置表头样式
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	// 数据样式
	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	// 设置列宽
	f.SetColWidth(sheetName, "A", "B", 20)
	f.SetColWidth(sheetName, "C", "C", 30)
	f.SetColWidth(sheetName, "D", "E", 15)
	f.SetColWidth(sheetName, "F", "F", 30)
	f.SetColWidth(sheetName, "G", "H", 14)
	f.SetColWidth(sheetName, "I", "I", 20)

	// 写入表头
	for i, header := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	// 写入数据
	for rowIdx := range donations {
		row := exportRow(&donations[rowIdx])
		for colIdx, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIdx, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
			f.SetCellStyle(sheetName, cell, cell, dataStyle)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		InternalError(c, err)
		return
	}

	filename := fmt.Sprintf("donations_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

package excel

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/nurpe/balance-ledger/internal/model"
)

const (
	summarySheet     = "Summary"
	professionsSheet = "Professions"
	clientsSheet     = "Clients"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(report model.EarningsReport) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := file.NewSheet(professionsSheet); err != nil {
		return nil, err
	}
	if _, err := file.NewSheet(clientsSheet); err != nil {
		return nil, err
	}

	g.writeSummary(file, report)
	g.writeProfessions(file, report.Professions)
	g.writeClients(file, report.Clients)

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, report model.EarningsReport) {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(summarySheet, cell, value)
	}

	set("A1", "Period start")
	set("B1", formatDate(report.PeriodStart))
	set("A2", "Period end")
	set("B2", formatDate(report.PeriodEnd))
	set("A3", "Generated at")
	set("B3", formatDateTime(report.GeneratedAt))
	set("A4", "Total paid")
	set("B4", formatAmount(totalEarnings(report.Professions)))
	set("A5", "Best profession")
	if len(report.Professions) > 0 {
		set("B5", report.Professions[0].Profession)
	} else {
		set("B5", "-")
	}

	_ = file.SetColWidth(summarySheet, "A", "A", 20)
	_ = file.SetColWidth(summarySheet, "B", "B", 28)
}

func (g *Generator) writeProfessions(file *excelize.File, rows []model.ProfessionEarnings) {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(professionsSheet, cell, value)
	}

	headers := []string{"Profession", "Paid jobs", "Total"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}
	for i, row := range rows {
		line := i + 2
		set(fmt.Sprintf("A%d", line), row.Profession)
		set(fmt.Sprintf("B%d", line), row.JobCount)
		set(fmt.Sprintf("C%d", line), formatAmount(row.Total))
	}

	_ = file.SetColWidth(professionsSheet, "A", "A", 32)
	_ = file.SetColWidth(professionsSheet, "B", "C", 16)
}

func (g *Generator) writeClients(file *excelize.File, rows []model.ClientSpend) {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(clientsSheet, cell, value)
	}

	headers := []string{"Profile", "Client", "Paid"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}
	for i, row := range rows {
		line := i + 2
		set(fmt.Sprintf("A%d", line), row.ID)
		set(fmt.Sprintf("B%d", line), row.FullName)
		set(fmt.Sprintf("C%d", line), formatAmount(row.Paid))
	}

	_ = file.SetColWidth(clientsSheet, "A", "A", 10)
	_ = file.SetColWidth(clientsSheet, "B", "B", 40)
	_ = file.SetColWidth(clientsSheet, "C", "C", 16)
}

func totalEarnings(rows []model.ProfessionEarnings) decimal.Decimal {
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.Total)
	}
	return total
}

func formatAmount(value decimal.Decimal) string {
	return value.StringFixed(2)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}

package excel

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/nurpe/balance-ledger/internal/model"
)

func TestGenerateWritesAllSheets(t *testing.T) {
	report := model.EarningsReport{
		PeriodStart: time.Date(2020, 8, 15, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2020, 8, 17, 23, 59, 59, 0, time.UTC),
		Professions: []model.ProfessionEarnings{
			{Profession: "Programmer", Total: decimal.NewFromInt(2562), JobCount: 5},
			{Profession: "Fighter", Total: decimal.NewFromInt(200), JobCount: 1},
		},
		Clients: []model.ClientSpend{
			{ID: 4, FullName: "Ash Kethcum", Paid: decimal.NewFromInt(2020)},
		},
	}

	content, err := NewGenerator().Generate(report)
	require.NoError(t, err)

	file, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer file.Close()

	assert.Equal(t, []string{summarySheet, professionsSheet, clientsSheet}, file.GetSheetList())

	total, err := file.GetCellValue(summarySheet, "B4")
	require.NoError(t, err)
	assert.Equal(t, "2762.00", total)

	best, err := file.GetCellValue(summarySheet, "B5")
	require.NoError(t, err)
	assert.Equal(t, "Programmer", best)

	client, err := file.GetCellValue(clientsSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Ash Kethcum", client)
}

package services

import (
	"bytes"
	"encoding/csv"
	"fintrack-server/src/models"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func exportFixture() []models.Transaction {
	note := `Dinner, "the usual"`
	return []models.Transaction{
		{
			ID:          7,
			Name:        "Restaurant",
			Amount:      decimal.RequireFromString("45.5"),
			Description: &note,
			Category:    "Food & Dining",
			Type:        models.TransactionTypeExpense,
			Date:        time.Date(2024, 3, 10, 19, 30, 0, 0, time.UTC),
			CreatedAt:   time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC),
		},
		{
			ID:        8,
			Name:      "Paycheck",
			Amount:    decimal.NewFromInt(3000),
			Category:  "Salary",
			Type:      models.TransactionTypeIncome,
			Date:      time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
			CreatedAt: time.Date(2024, 3, 1, 9, 5, 0, 0, time.UTC),
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, exportFixture()))

	assert.Contains(t, buf.String(), `"Dinner, ""the usual"""`)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, exportHeader, records[0])
	assert.Equal(t, []string{
		"7", "Restaurant", "45.50", `Dinner, "the usual"`, "Food & Dining", "EXPENSE",
		"2024-03-10T19:30:00Z", "2024-03-10T20:00:00Z",
	}, records[1])
	assert.Equal(t, "", records[2][3])
	assert.Equal(t, "3000.00", records[2][2])
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "ID,Name,Amount,Description,Category,Type,Date,Created At\n", buf.String())
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, exportFixture()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{exportSheet}, f.GetSheetList())
	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, exportHeader, rows[0])
	assert.Equal(t, "Restaurant", rows[1][1])
	assert.Equal(t, "45.5", rows[1][2])
	assert.Equal(t, "Paycheck", rows[2][1])
}

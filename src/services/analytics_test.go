package services

import (
	"context"
	"fintrack-server/src/db/memory"
	"fintrack-server/src/models"
	"fintrack-server/src/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func march(day, hour int) time.Time {
	return time.Date(2024, 3, day, hour, 0, 0, 0, time.UTC)
}

// seedLedger gives user 1 a month of activity around fixedNow.
func seedLedger(t *testing.T) (*memory.Store, *AnalyticsService) {
	t.Helper()
	store := memory.New()
	_, err := NewCategoryService(store).EnsureDefaults(context.Background(), 1)
	require.NoError(t, err)

	addTxn(t, store, 1, models.TransactionTypeIncome, "Salary", "3000", march(1, 9))
	addTxn(t, store, 1, models.TransactionTypeExpense, "Food & Dining", "120", march(10, 12))
	addTxn(t, store, 1, models.TransactionTypeExpense, "Pets", "30", march(15, 12))
	addTxn(t, store, 1, models.TransactionTypeExpense, "Travel", "50", march(20, 10))
	addTxn(t, store, 1, models.TransactionTypeExpense, "Travel", "999", time.Date(2024, 2, 15, 12, 0, 0, 0, time.UTC))
	// Dated after fixedNow, so outside every window.
	addTxn(t, store, 1, models.TransactionTypeExpense, "Travel", "10", march(21, 9))

	svc := NewAnalyticsService(store)
	svc.now = clock
	return store, svc
}

func TestResolveWindow(t *testing.T) {
	tests := []struct {
		period string
		start  time.Time
		label  string
	}{
		{"week", time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC), PeriodWeek},
		{"month", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), PeriodMonth},
		{"YEAR", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), PeriodYear},
		{"decade", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), PeriodMonth},
		{"", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), PeriodMonth},
	}
	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			start, label := ResolveWindow(tt.period, fixedNow)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.label, label)
		})
	}
}

func TestDashboard(t *testing.T) {
	_, svc := seedLedger(t)

	summary, err := svc.Dashboard(context.Background(), 1, "")
	require.NoError(t, err)
	assert.Equal(t, PeriodMonth, summary.Summary.Period)
	assert.Equal(t, "3000", summary.Summary.Income.String())
	assert.Equal(t, "200", summary.Summary.Expenses.String())
	assert.Equal(t, "2800", summary.Summary.Balance.String())
	assert.Len(t, summary.RecentTransactions, 5)

	yearly, err := svc.Dashboard(context.Background(), 1, "year")
	require.NoError(t, err)
	assert.Equal(t, "1199", yearly.Summary.Expenses.String())

	empty, err := svc.Dashboard(context.Background(), 2, "week")
	require.NoError(t, err)
	assert.True(t, empty.Summary.Balance.IsZero())
	assert.NotNil(t, empty.RecentTransactions)
	assert.Empty(t, empty.RecentTransactions)
}

func TestExpensesByCategory(t *testing.T) {
	store, svc := seedLedger(t)
	ctx := context.Background()

	breakdown, err := svc.ExpensesByCategory(ctx, 1, "month")
	require.NoError(t, err)
	assert.False(t, breakdown.IsEmpty)
	assert.Equal(t, "200", breakdown.Total.String())
	require.Len(t, breakdown.ChartData, 3)

	food, travel, pets := breakdown.ChartData[0], breakdown.ChartData[1], breakdown.ChartData[2]
	assert.Equal(t, "Food & Dining", food.Category)
	assert.Equal(t, "#FF6B6B", food.Color)
	assert.Equal(t, "Travel", travel.Category)
	assert.Equal(t, "50", travel.Amount.String())
	assert.Equal(t, "Pets", pets.Category)
	assert.Equal(t, fallbackPalette[2], pets.Color)
	assert.Equal(t, DefaultCategoryIcon, pets.Icon)
	assert.Nil(t, food.Percentage)

	t.Run("placeholders when nothing was spent", func(t *testing.T) {
		_, err := NewCategoryService(store).EnsureDefaults(ctx, 2)
		require.NoError(t, err)

		empty, err := svc.ExpensesByCategory(ctx, 2, "month")
		require.NoError(t, err)
		assert.True(t, empty.IsEmpty)
		assert.True(t, empty.Total.IsZero())
		require.Len(t, empty.ChartData, 3)
		assert.Equal(t, "Bills & Utilities", empty.ChartData[0].Category)
		for _, slice := range empty.ChartData {
			assert.True(t, slice.Amount.IsZero())
		}
	})

	t.Run("no categories at all", func(t *testing.T) {
		empty, err := svc.ExpensesByCategory(ctx, 3, "month")
		require.NoError(t, err)
		assert.True(t, empty.IsEmpty)
		assert.NotNil(t, empty.ChartData)
		assert.Empty(t, empty.ChartData)
	})
}

func TestTopSpendingCategories(t *testing.T) {
	_, svc := seedLedger(t)
	ctx := context.Background()

	top, err := svc.TopSpendingCategories(ctx, 1, "month", "2")
	require.NoError(t, err)
	require.Len(t, top.ChartData, 2)
	assert.Equal(t, "200", top.Total.String())
	require.NotNil(t, top.ChartData[0].Percentage)
	assert.Equal(t, "60", top.ChartData[0].Percentage.String())
	assert.Equal(t, "25", top.ChartData[1].Percentage.String())

	all, err := svc.TopSpendingCategories(ctx, 1, "month", "500")
	require.NoError(t, err)
	assert.Len(t, all.ChartData, 3)

	_, err = svc.TopSpendingCategories(ctx, 1, "month", "0")
	assert.ErrorIs(t, err, util.ErrValidation)

	none, err := svc.TopSpendingCategories(ctx, 2, "week", "")
	require.NoError(t, err)
	assert.True(t, none.IsEmpty)
	assert.Empty(t, none.ChartData)
}

func TestMonthlyTrends(t *testing.T) {
	_, svc := seedLedger(t)
	ctx := context.Background()

	trends, err := svc.MonthlyTrends(ctx, 1, "")
	require.NoError(t, err)
	require.Len(t, trends, DefaultTrendMonths)

	months := make([]string, len(trends))
	for i, m := range trends {
		months[i] = m.Month
	}
	assert.Equal(t, []string{"2023-10", "2023-11", "2023-12", "2024-01", "2024-02", "2024-03"}, months)

	assert.True(t, trends[0].Income.IsZero())
	assert.True(t, trends[0].Balance.IsZero())
	assert.Equal(t, "999", trends[4].Expenses.String())
	assert.Equal(t, "-999", trends[4].Balance.String())
	assert.Equal(t, "3000", trends[5].Income.String())
	assert.Equal(t, "200", trends[5].Expenses.String())
	assert.Equal(t, "2800", trends[5].Balance.String())

	one, err := svc.MonthlyTrends(ctx, 1, "1")
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "2024-03", one[0].Month)

	_, err = svc.MonthlyTrends(ctx, 1, "61")
	assert.ErrorIs(t, err, util.ErrValidation)
	_, err = svc.MonthlyTrends(ctx, 1, "abc")
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestCumulativeBalance(t *testing.T) {
	_, svc := seedLedger(t)

	balance, err := svc.CumulativeBalance(context.Background(), 1, "week")
	require.NoError(t, err)
	assert.Equal(t, PeriodWeek, balance.Period)
	assert.Equal(t, "1881", balance.OpeningBalance.String())
	assert.Equal(t, "1801", balance.ClosingBalance.String())

	require.Len(t, balance.ChartData, 8)
	assert.Equal(t, "2024-03-13", balance.ChartData[0].Date)
	assert.Equal(t, "1881", balance.ChartData[0].Balance.String())
	assert.Equal(t, "2024-03-15", balance.ChartData[2].Date)
	assert.Equal(t, "30", balance.ChartData[2].Expenses.String())
	assert.Equal(t, "1851", balance.ChartData[2].Balance.String())
	assert.Equal(t, "2024-03-20", balance.ChartData[7].Date)
}

func TestExport(t *testing.T) {
	_, svc := seedLedger(t)
	ctx := context.Background()

	format, txns, err := svc.Export(ctx, 1, "", "", "")
	require.NoError(t, err)
	assert.Equal(t, models.ExportFormatJSON, format)
	assert.Len(t, txns, 6)

	format, txns, err = svc.Export(ctx, 1, "CSV", "2024-03-01", "2024-03-20")
	require.NoError(t, err)
	assert.Equal(t, models.ExportFormatCSV, format)
	assert.Len(t, txns, 4)

	_, _, err = svc.Export(ctx, 1, "pdf", "", "")
	assert.ErrorIs(t, err, util.ErrValidation)
	_, _, err = svc.Export(ctx, 1, "json", "March", "")
	assert.ErrorIs(t, err, util.ErrValidation)

	_, txns, err = svc.Export(ctx, 2, "json", "", "")
	require.NoError(t, err)
	assert.NotNil(t, txns)
	assert.Empty(t, txns)
}

package services

import (
	"context"
	"fintrack-server/src/models"
	"fintrack-server/src/util"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"

	recentTransactionCount = 5
	emptyChartPlaceholders = 3
	DefaultTopCategories   = 5
	MaxTopCategories       = 50
	DefaultTrendMonths     = 6
	MaxTrendMonths         = 60
)

// fallbackPalette colors categories the user has no entry for.
var fallbackPalette = []string{
	"#FF6384", "#36A2EB", "#FFCE56", "#4BC0C0", "#9966FF",
	"#FF9F40", "#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4",
	"#FFEAA7", "#DDA0DD", "#98D8C8", "#F7DC6F", "#BB8FCE",
}

type AnalyticsService struct {
	repo AnalyticsRepository
	now  func() time.Time
}

func NewAnalyticsService(repo AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{repo: repo, now: time.Now}
}

// ResolveWindow returns the start of the analytics window ending at now.
// Unknown periods fall back to the current month.
func ResolveWindow(period string, now time.Time) (time.Time, string) {
	now = now.UTC()
	switch strings.ToLower(period) {
	case PeriodWeek:
		return util.StartOfDay(now).AddDate(0, 0, -7), PeriodWeek
	case PeriodYear:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), PeriodYear
	default:
		return util.StartOfMonth(now), PeriodMonth
	}
}

func (s *AnalyticsService) Dashboard(ctx context.Context, userID int64, period string) (*models.DashboardSummary, error) {
	now := s.now().UTC()
	start, label := ResolveWindow(period, now)

	var (
		income, expenses decimal.Decimal
		recent           []models.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		income, err = s.repo.SumTransactions(gctx, userID, models.SumQuery{Type: models.TransactionTypeIncome, From: &start, To: &now})
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = s.repo.SumTransactions(gctx, userID, models.SumQuery{Type: models.TransactionTypeExpense, From: &start, To: &now})
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.repo.RecentTransactions(gctx, userID, recentTransactionCount)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if recent == nil {
		recent = []models.Transaction{}
	}
	return &models.DashboardSummary{
		Summary: models.Summary{
			Income:   income,
			Expenses: expenses,
			Balance:  income.Sub(expenses),
			Period:   label,
		},
		RecentTransactions: recent,
	}, nil
}

// ExpensesByCategory groups the window's expenses by category, largest first.
// With no expenses it returns a few of the user's categories at zero and
// sets IsEmpty.
func (s *AnalyticsService) ExpensesByCategory(ctx context.Context, userID int64, period string) (*models.CategoryBreakdown, error) {
	slices, total, label, categories, err := s.expenseSlices(ctx, userID, period)
	if err != nil {
		return nil, err
	}
	if len(slices) > 0 {
		return &models.CategoryBreakdown{ChartData: slices, Period: label, Total: total}, nil
	}

	placeholders := make([]models.CategorySlice, 0, emptyChartPlaceholders)
	for _, c := range categories {
		if len(placeholders) == emptyChartPlaceholders {
			break
		}
		placeholders = append(placeholders, models.CategorySlice{
			Category: c.Name,
			Amount:   decimal.Zero,
			Color:    c.Color,
			Icon:     c.Icon,
		})
	}
	return &models.CategoryBreakdown{ChartData: placeholders, Period: label, Total: decimal.Zero, IsEmpty: true}, nil
}

// TopSpendingCategories returns the largest expense categories with their
// share of the window total.
func (s *AnalyticsService) TopSpendingCategories(ctx context.Context, userID int64, period, limit string) (*models.CategoryBreakdown, error) {
	n, err := parsePositiveInt(limit, DefaultTopCategories, "Limit")
	if err != nil {
		return nil, err
	}
	if n > MaxTopCategories {
		n = MaxTopCategories
	}

	slices, total, label, _, err := s.expenseSlices(ctx, userID, period)
	if err != nil {
		return nil, err
	}
	if len(slices) > n {
		slices = slices[:n]
	}
	for i := range slices {
		share := decimal.Zero
		if total.IsPositive() {
			share = slices[i].Amount.Div(total).Mul(hundred).Round(2)
		}
		slices[i].Percentage = &share
	}
	return &models.CategoryBreakdown{ChartData: slices, Period: label, Total: total, IsEmpty: len(slices) == 0}, nil
}

func (s *AnalyticsService) expenseSlices(ctx context.Context, userID int64, period string) ([]models.CategorySlice, decimal.Decimal, string, []models.Category, error) {
	now := s.now().UTC()
	start, label := ResolveWindow(period, now)

	var (
		totals     []models.CategoryTotal
		categories []models.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = s.repo.SumByCategory(gctx, userID, models.TransactionTypeExpense, start, now)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.repo.ListCategories(gctx, userID, models.TransactionTypeExpense)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, decimal.Zero, "", nil, err
	}

	byName := make(map[string]models.Category, len(categories))
	for _, c := range categories {
		byName[c.Name] = c
	}

	total := decimal.Zero
	slices := make([]models.CategorySlice, 0, len(totals))
	for i, row := range totals {
		slice := models.CategorySlice{
			Category: row.Category,
			Amount:   row.Total,
			Color:    fallbackPalette[i%len(fallbackPalette)],
			Icon:     DefaultCategoryIcon,
		}
		if c, ok := byName[row.Category]; ok {
			slice.Color = c.Color
			slice.Icon = c.Icon
		}
		total = total.Add(row.Total)
		slices = append(slices, slice)
	}
	return slices, total, label, categories, nil
}

// MonthlyTrends returns one zero-filled bucket per month, oldest first,
// ending with the current month.
func (s *AnalyticsService) MonthlyTrends(ctx context.Context, userID int64, months string) ([]models.MonthlyTrend, error) {
	n, err := parsePositiveInt(months, DefaultTrendMonths, "Months")
	if err != nil {
		return nil, err
	}
	if n > MaxTrendMonths {
		return nil, util.Validation("Months must be between 1 and %d", MaxTrendMonths)
	}

	now := s.now().UTC()
	from := util.StartOfMonth(now).AddDate(0, -(n - 1), 0)
	rows, err := s.repo.MonthlyTotals(ctx, userID, from, now)
	if err != nil {
		return nil, err
	}

	trends := make([]models.MonthlyTrend, n)
	index := make(map[string]int, n)
	for i := range trends {
		key := from.AddDate(0, i, 0).Format("2006-01")
		trends[i] = models.MonthlyTrend{Month: key, Income: decimal.Zero, Expenses: decimal.Zero, Balance: decimal.Zero}
		index[key] = i
	}
	for _, row := range rows {
		i, ok := index[row.Month.UTC().Format("2006-01")]
		if !ok {
			continue
		}
		switch row.Type {
		case models.TransactionTypeIncome:
			trends[i].Income = trends[i].Income.Add(row.Total)
		case models.TransactionTypeExpense:
			trends[i].Expenses = trends[i].Expenses.Add(row.Total)
		}
	}
	for i := range trends {
		trends[i].Balance = trends[i].Income.Sub(trends[i].Expenses)
	}
	return trends, nil
}

// CumulativeBalance returns the running balance for each day of the window,
// starting from everything recorded before it.
func (s *AnalyticsService) CumulativeBalance(ctx context.Context, userID int64, period string) (*models.CumulativeBalance, error) {
	now := s.now().UTC()
	start, label := ResolveWindow(period, now)
	before := start.Add(-time.Microsecond)

	var (
		incomeBefore, expensesBefore decimal.Decimal
		days                         []models.DayTotal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		incomeBefore, err = s.repo.SumTransactions(gctx, userID, models.SumQuery{Type: models.TransactionTypeIncome, To: &before})
		return err
	})
	g.Go(func() error {
		var err error
		expensesBefore, err = s.repo.SumTransactions(gctx, userID, models.SumQuery{Type: models.TransactionTypeExpense, To: &before})
		return err
	})
	g.Go(func() error {
		var err error
		days, err = s.repo.DailyTotals(gctx, userID, start, now)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byDay := make(map[string]models.DayTotal, len(days))
	for _, d := range days {
		byDay[d.Day.UTC().Format(util.DateLayout)] = d
	}

	opening := incomeBefore.Sub(expensesBefore)
	balance := opening
	points := []models.BalancePoint{}
	for day := util.StartOfDay(start); !day.After(now); day = day.AddDate(0, 0, 1) {
		key := day.Format(util.DateLayout)
		point := models.BalancePoint{Date: key, Income: decimal.Zero, Expenses: decimal.Zero}
		if d, ok := byDay[key]; ok {
			point.Income = d.Income
			point.Expenses = d.Expenses
		}
		balance = balance.Add(point.Income).Sub(point.Expenses)
		point.Balance = balance
		points = append(points, point)
	}

	return &models.CumulativeBalance{
		ChartData:      points,
		Period:         label,
		OpeningBalance: opening,
		ClosingBalance: balance,
	}, nil
}

// Export returns the user's transactions in [startDate, endDate], newest
// first, together with the validated format.
func (s *AnalyticsService) Export(ctx context.Context, userID int64, format, startDate, endDate string) (models.ExportFormat, []models.Transaction, error) {
	f := models.ExportFormat(strings.ToLower(strings.TrimSpace(format)))
	switch f {
	case "":
		f = models.ExportFormatJSON
	case models.ExportFormatJSON, models.ExportFormatCSV, models.ExportFormatXLSX:
	default:
		return "", nil, util.Validation("Format must be json, csv, or xlsx")
	}

	var from, to *time.Time
	if startDate != "" {
		t, _, err := util.ParseDate(startDate)
		if err != nil {
			return "", nil, err
		}
		from = &t
	}
	if endDate != "" {
		t, err := util.ParseRangeEnd(endDate)
		if err != nil {
			return "", nil, err
		}
		to = &t
	}

	txns, err := s.repo.ExportTransactions(ctx, userID, from, to)
	if err != nil {
		return "", nil, err
	}
	if txns == nil {
		txns = []models.Transaction{}
	}
	return f, txns, nil
}

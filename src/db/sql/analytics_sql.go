package db

import (
	"context"
	"fintrack-server/src/models"
	"time"

	"github.com/shopspring/decimal"
)

func (s *Store) SumTransactions(ctx context.Context, userID int64, q models.SumQuery) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1
		  AND ($2::text = '' OR type = $2)
		  AND ($3::text = '' OR category = $3)
		  AND ($4::timestamptz IS NULL OR date >= $4)
		  AND ($5::timestamptz IS NULL OR date <= $5)
	`
	var sum decimal.Decimal
	err := s.pool.QueryRow(ctx, query, userID, string(q.Type), q.Category, q.From, q.To).Scan(&sum)
	if err != nil {
		return decimal.Zero, translate(err, "sum transactions for user %d", userID)
	}
	return sum, nil
}

func (s *Store) SumByCategory(ctx context.Context, userID int64, kind models.TransactionType, from, to time.Time) ([]models.CategoryTotal, error) {
	query := `
		SELECT category, SUM(amount) AS total
		FROM transactions
		WHERE user_id = $1 AND type = $2 AND date >= $3 AND date <= $4
		GROUP BY category
		ORDER BY total DESC, category ASC
	`
	rows, err := s.pool.Query(ctx, query, userID, string(kind), from, to)
	if err != nil {
		return nil, translate(err, "sum by category for user %d", userID)
	}
	defer rows.Close()

	var totals []models.CategoryTotal
	for rows.Next() {
		var ct models.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total); err != nil {
			return nil, err
		}
		totals = append(totals, ct)
	}
	return totals, rows.Err()
}

func (s *Store) MonthlyTotals(ctx context.Context, userID int64, from, to time.Time) ([]models.MonthTypeTotal, error) {
	query := `
		SELECT date_trunc('month', date AT TIME ZONE 'UTC') AS month, type, SUM(amount)
		FROM transactions
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		GROUP BY month, type
		ORDER BY month ASC, type ASC
	`
	rows, err := s.pool.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, translate(err, "monthly totals for user %d", userID)
	}
	defer rows.Close()

	var totals []models.MonthTypeTotal
	for rows.Next() {
		var mt models.MonthTypeTotal
		var kind string
		if err := rows.Scan(&mt.Month, &kind, &mt.Total); err != nil {
			return nil, err
		}
		mt.Type = models.TransactionType(kind)
		totals = append(totals, mt)
	}
	return totals, rows.Err()
}

func (s *Store) DailyTotals(ctx context.Context, userID int64, from, to time.Time) ([]models.DayTotal, error) {
	query := `
		SELECT date_trunc('day', date AT TIME ZONE 'UTC') AS day,
		       COALESCE(SUM(amount) FILTER (WHERE type = 'INCOME'), 0),
		       COALESCE(SUM(amount) FILTER (WHERE type = 'EXPENSE'), 0)
		FROM transactions
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		GROUP BY day
		ORDER BY day ASC
	`
	rows, err := s.pool.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, translate(err, "daily totals for user %d", userID)
	}
	defer rows.Close()

	var totals []models.DayTotal
	for rows.Next() {
		var dt models.DayTotal
		if err := rows.Scan(&dt.Day, &dt.Income, &dt.Expenses); err != nil {
			return nil, err
		}
		totals = append(totals, dt)
	}
	return totals, rows.Err()
}

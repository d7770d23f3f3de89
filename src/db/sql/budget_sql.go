package db

import (
	"context"
	"fintrack-server/src/models"
	"fintrack-server/src/util"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const budgetColumns = `id, user_id, category, amount, period, start_date, end_date, created_at, updated_at`

func scanBudget(row scanner) (*models.Budget, error) {
	var b models.Budget
	var period string
	err := row.Scan(&b.ID, &b.UserID, &b.Category, &b.Amount, &period, &b.StartDate, &b.EndDate, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.Period = models.BudgetPeriod(period)
	return &b, nil
}

// lockBudgets serializes overlap checks for one user until the transaction ends.
func lockBudgets(ctx context.Context, tx pgx.Tx, userID int64) error {
	_, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, userID)
	return err
}

func budgetOverlaps(ctx context.Context, tx pgx.Tx, b *models.Budget) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM budgets
			WHERE user_id = $1 AND category = $2 AND period = $3
			  AND start_date <= $4 AND end_date >= $5 AND id <> $6
		)
	`
	var exists bool
	err := tx.QueryRow(ctx, query, b.UserID, b.Category, string(b.Period), b.EndDate, b.StartDate, b.ID).Scan(&exists)
	return exists, err
}

func (s *Store) CreateBudget(ctx context.Context, budget *models.Budget) (*models.Budget, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := lockBudgets(ctx, tx, budget.UserID); err != nil {
		return nil, translate(err, "lock budgets for user %d", budget.UserID)
	}
	overlap, err := budgetOverlaps(ctx, tx, budget)
	if err != nil {
		return nil, translate(err, "check budget overlap")
	}
	if overlap {
		return nil, fmt.Errorf("budget %s/%s: %w", budget.Category, budget.Period, util.ErrConflict)
	}

	query := `
		INSERT INTO budgets (user_id, category, amount, period, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + budgetColumns
	b, err := scanBudget(tx.QueryRow(ctx, query,
		budget.UserID, budget.Category, budget.Amount, string(budget.Period), budget.StartDate, budget.EndDate))
	if err != nil {
		return nil, translate(err, "create budget for user %d", budget.UserID)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Store) GetBudgetByID(ctx context.Context, userID, id int64) (*models.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE id = $1 AND user_id = $2`
	b, err := scanBudget(s.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		return nil, translate(err, "get budget %d", id)
	}
	return b, nil
}

func (s *Store) ListBudgets(ctx context.Context, userID int64, filter models.BudgetFilter) ([]models.Budget, error) {
	query := `
		SELECT ` + budgetColumns + `
		FROM budgets
		WHERE user_id = $1
		  AND ($2::text = '' OR period = $2)
		  AND ($3::timestamptz IS NULL OR (start_date <= $3 AND end_date >= $3))
		ORDER BY start_date DESC, id DESC
	`
	rows, err := s.pool.Query(ctx, query, userID, string(filter.Period), filter.ActiveAt)
	if err != nil {
		return nil, translate(err, "list budgets for user %d", userID)
	}
	defer rows.Close()

	budgets := []models.Budget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, *b)
	}
	return budgets, rows.Err()
}

func (s *Store) UpdateBudget(ctx context.Context, budget *models.Budget) (*models.Budget, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := lockBudgets(ctx, tx, budget.UserID); err != nil {
		return nil, translate(err, "lock budgets for user %d", budget.UserID)
	}
	overlap, err := budgetOverlaps(ctx, tx, budget)
	if err != nil {
		return nil, translate(err, "check budget overlap")
	}
	if overlap {
		return nil, fmt.Errorf("budget %s/%s: %w", budget.Category, budget.Period, util.ErrConflict)
	}

	query := `
		UPDATE budgets
		SET category = $1, amount = $2, period = $3, start_date = $4, end_date = $5, updated_at = NOW()
		WHERE id = $6 AND user_id = $7
		RETURNING ` + budgetColumns
	b, err := scanBudget(tx.QueryRow(ctx, query,
		budget.Category, budget.Amount, string(budget.Period), budget.StartDate, budget.EndDate, budget.ID, budget.UserID))
	if err != nil {
		return nil, translate(err, "update budget %d", budget.ID)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Store) DeleteBudget(ctx context.Context, userID, id int64) error {
	cmd, err := s.pool.Exec(ctx, `DELETE FROM budgets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return translate(err, "delete budget %d", id)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("budget %d: %w", id, util.ErrNotFound)
	}
	return nil
}

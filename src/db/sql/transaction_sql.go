package db

import (
	"context"
	"fintrack-server/src/models"
	"fintrack-server/src/util"
	"fmt"
	"strings"
	"time"
)

const transactionColumns = `id, user_id, name, amount, description, category, type, date, created_at, updated_at`

func scanTransaction(row scanner) (*models.Transaction, error) {
	var t models.Transaction
	var kind string
	err := row.Scan(&t.ID, &t.UserID, &t.Name, &t.Amount, &t.Description, &t.Category, &kind,
		&t.Date, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.Type = models.TransactionType(kind)
	return &t, nil
}

// transactionWhere builds the WHERE clause shared by listing and counting.
func transactionWhere(userID int64, f models.TransactionFilter) (string, []any) {
	conds := []string{"user_id = $1"}
	args := []any{userID}
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Type != "" {
		add("type = $%d", string(f.Type))
	}
	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if f.Search != "" {
		args = append(args, "%"+util.EscapeLike(f.Search)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", n, n))
	}
	if f.StartDate != nil {
		add("date >= $%d", *f.StartDate)
	}
	if f.EndDate != nil {
		add("date <= $%d", *f.EndDate)
	}
	return strings.Join(conds, " AND "), args
}

func (s *Store) queryTransactions(ctx context.Context, query string, args ...any) ([]models.Transaction, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txns := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, *t)
	}
	return txns, rows.Err()
}

func (s *Store) CreateTransaction(ctx context.Context, txn *models.Transaction) (*models.Transaction, error) {
	query := `
		INSERT INTO transactions (user_id, name, amount, description, category, type, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + transactionColumns
	t, err := scanTransaction(s.pool.QueryRow(ctx, query,
		txn.UserID, txn.Name, txn.Amount, txn.Description, txn.Category, string(txn.Type), txn.Date))
	if err != nil {
		return nil, translate(err, "create transaction for user %d", txn.UserID)
	}
	return t, nil
}

func (s *Store) GetTransactionByID(ctx context.Context, userID, id int64) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 AND user_id = $2`
	t, err := scanTransaction(s.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		return nil, translate(err, "get transaction %d", id)
	}
	return t, nil
}

func (s *Store) ListTransactions(ctx context.Context, userID int64, filter models.TransactionFilter) ([]models.Transaction, error) {
	where, args := transactionWhere(userID, filter)
	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`
		SELECT %s FROM transactions
		WHERE %s
		ORDER BY date DESC, id DESC
		LIMIT $%d OFFSET $%d`, transactionColumns, where, len(args)-1, len(args))
	txns, err := s.queryTransactions(ctx, query, args...)
	if err != nil {
		return nil, translate(err, "list transactions for user %d", userID)
	}
	return txns, nil
}

func (s *Store) CountTransactions(ctx context.Context, userID int64, filter models.TransactionFilter) (int, error) {
	where, args := transactionWhere(userID, filter)
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE `+where, args...).Scan(&n); err != nil {
		return 0, translate(err, "count transactions for user %d", userID)
	}
	return n, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, txn *models.Transaction) (*models.Transaction, error) {
	query := `
		UPDATE transactions
		SET name = $1, amount = $2, description = $3, category = $4, type = $5, date = $6, updated_at = NOW()
		WHERE id = $7 AND user_id = $8
		RETURNING ` + transactionColumns
	t, err := scanTransaction(s.pool.QueryRow(ctx, query,
		txn.Name, txn.Amount, txn.Description, txn.Category, string(txn.Type), txn.Date, txn.ID, txn.UserID))
	if err != nil {
		return nil, translate(err, "update transaction %d", txn.ID)
	}
	return t, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, userID, id int64) error {
	cmd, err := s.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return translate(err, "delete transaction %d", id)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("transaction %d: %w", id, util.ErrNotFound)
	}
	return nil
}

func (s *Store) RecentTransactions(ctx context.Context, userID int64, limit int) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions WHERE user_id = $1
		ORDER BY date DESC, id DESC
		LIMIT $2`
	txns, err := s.queryTransactions(ctx, query, userID, limit)
	if err != nil {
		return nil, translate(err, "recent transactions for user %d", userID)
	}
	return txns, nil
}

func (s *Store) ExportTransactions(ctx context.Context, userID int64, from, to *time.Time) ([]models.Transaction, error) {
	where, args := transactionWhere(userID, models.TransactionFilter{StartDate: from, EndDate: to})
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE ` + where + ` ORDER BY date DESC, id DESC`
	txns, err := s.queryTransactions(ctx, query, args...)
	if err != nil {
		return nil, translate(err, "export transactions for user %d", userID)
	}
	return txns, nil
}

package db

import (
	"context"
	"fintrack-server/src/models"
	"fintrack-server/src/util"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const categoryColumns = `id, user_id, name, type, color, icon, is_default, created_at`

func scanCategory(row scanner) (*models.Category, error) {
	var c models.Category
	var kind string
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &kind, &c.Color, &c.Icon, &c.IsDefault, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.Type = models.TransactionType(kind)
	return &c, nil
}

func (s *Store) ListCategories(ctx context.Context, userID int64, kind models.TransactionType) ([]models.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE user_id = $1 AND ($2::text = '' OR type = $2)
		ORDER BY is_default DESC, name ASC, type ASC
	`
	rows, err := s.pool.Query(ctx, query, userID, string(kind))
	if err != nil {
		return nil, translate(err, "list categories for user %d", userID)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

func (s *Store) GetCategoryByID(ctx context.Context, userID, id int64) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1 AND user_id = $2`
	c, err := scanCategory(s.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		return nil, translate(err, "get category %d", id)
	}
	return c, nil
}

func (s *Store) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	query := `
		INSERT INTO categories (user_id, name, type, color, icon, is_default)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + categoryColumns
	c, err := scanCategory(s.pool.QueryRow(ctx, query,
		category.UserID, category.Name, string(category.Type), category.Color, category.Icon, category.IsDefault))
	if err != nil {
		return nil, translate(err, "create category %s", category.Name)
	}
	return c, nil
}

// CreateCategories sends one batch of inserts and counts the rows that were
// not skipped by the uniqueness constraint.
func (s *Store) CreateCategories(ctx context.Context, categories []models.Category) (int, error) {
	query := `
		INSERT INTO categories (user_id, name, type, color, icon, is_default)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, name, type) DO NOTHING
	`
	batch := &pgx.Batch{}
	for _, c := range categories {
		batch.Queue(query, c.UserID, c.Name, string(c.Type), c.Color, c.Icon, c.IsDefault)
	}
	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for range categories {
		cmd, err := results.Exec()
		if err != nil {
			return inserted, translate(err, "seed categories")
		}
		inserted += int(cmd.RowsAffected())
	}
	return inserted, nil
}

func (s *Store) UpdateCategory(ctx context.Context, category *models.Category, previousName string) (*models.Category, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE categories
		SET name = $1, color = $2, icon = $3
		WHERE id = $4 AND user_id = $5
		RETURNING ` + categoryColumns
	c, err := scanCategory(tx.QueryRow(ctx, query,
		category.Name, category.Color, category.Icon, category.ID, category.UserID))
	if err != nil {
		return nil, translate(err, "update category %d", category.ID)
	}

	if previousName != c.Name {
		_, err = tx.Exec(ctx, `
			UPDATE transactions SET category = $1, updated_at = NOW()
			WHERE user_id = $2 AND category = $3 AND type = $4`,
			c.Name, c.UserID, previousName, string(c.Type))
		if err != nil {
			return nil, translate(err, "rename transactions of category %d", c.ID)
		}
		if c.Type == models.TransactionTypeExpense {
			_, err = tx.Exec(ctx, `
				UPDATE budgets SET category = $1, updated_at = NOW()
				WHERE user_id = $2 AND category = $3`,
				c.Name, c.UserID, previousName)
			if err != nil {
				return nil, translate(err, "rename budgets of category %d", c.ID)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Store) DeleteCategory(ctx context.Context, userID, id int64) error {
	cmd, err := s.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return translate(err, "delete category %d", id)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("category %d: %w", id, util.ErrNotFound)
	}
	return nil
}

func (s *Store) CountTransactionsByCategory(ctx context.Context, userID int64, name string) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM transactions WHERE user_id = $1 AND category = $2`, userID, name).Scan(&n)
	if err != nil {
		return 0, translate(err, "count transactions in %s", name)
	}
	return n, nil
}

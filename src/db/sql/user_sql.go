package db

import (
	"context"
	"fintrack-server/src/models"
)

const userColumns = `id, email, name, password_hash, created_at`

func scanUser(row scanner) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (email, name, password_hash)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns
	u, err := scanUser(s.pool.QueryRow(ctx, query, user.Email, user.Name, user.PasswordHash))
	if err != nil {
		return nil, translate(err, "create user %s", user.Email)
	}
	return u, nil
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translate(err, "get user %d", id)
	}
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	u, err := scanUser(s.pool.QueryRow(ctx, query, email))
	if err != nil {
		return nil, translate(err, "get user %s", email)
	}
	return u, nil
}

package repository

import (
	"context"
	"database/sql"

	"github.com/unclebandit/campaign-studio/internal/model"
)

type UserRepositoryInterface interface {
	List(ctx context.Context) ([]model.User, error)
	Upsert(ctx context.Context, username, passwordHash string) error
}

type UserRepository struct {
	DB *sql.DB
}

// List returns users with their bcrypt hashes; callers verify passwords.
func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, username, password_hash FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) Upsert(ctx context.Context, username, passwordHash string) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (username, password_hash) VALUES ($1, $2)
		ON CONFLICT (username) DO UPDATE SET password_hash = EXCLUDED.password_hash`,
		username, passwordHash)
	return err
}

var _ UserRepositoryInterface = (*UserRepository)(nil)

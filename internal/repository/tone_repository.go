package repository

import (
	"context"
	"database/sql"

	"github.com/unclebandit/campaign-studio/internal/model"
)

type ToneRepositoryInterface interface {
	List(ctx context.Context) ([]model.Tone, error)
	Upsert(ctx context.Context, t model.Tone) error
}

type ToneRepository struct {
	DB *sql.DB
}

func (r *ToneRepository) List(ctx context.Context) ([]model.Tone, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, name, description FROM tones ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tones := []model.Tone{}
	for rows.Next() {
		var t model.Tone
		if err := rows.Scan(&t.ID, &t.Name, &t.Description); err != nil {
			return nil, err
		}
		tones = append(tones, t)
	}
	return tones, rows.Err()
}

func (r *ToneRepository) Upsert(ctx context.Context, t model.Tone) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO tones (id, name, description) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description`,
		t.ID, t.Name, t.Description)
	return err
}

var _ ToneRepositoryInterface = (*ToneRepository)(nil)

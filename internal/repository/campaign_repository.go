package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	appErrors "github.com/unclebandit/campaign-studio/internal/errors"
	"github.com/unclebandit/campaign-studio/internal/model"
)

// CampaignFilter narrows List. Empty fields match everything.
type CampaignFilter struct {
	ID     string
	Status string
}

type CampaignRepositoryInterface interface {
	List(ctx context.Context, f CampaignFilter) ([]model.Campaign, error)
	GetByID(ctx context.Context, id string) (*model.Campaign, error)
	Create(ctx context.Context, c *model.Campaign) error
	Update(ctx context.Context, c *model.Campaign) error
	Delete(ctx context.Context, id string) error
	MarkPosted(ctx context.Context, id string, at time.Time) error
}

type CampaignRepository struct {
	DB *sql.DB
}

const campaignColumns = `id, brand, campaign_name, description, schedule, target, topic, tone, logo, caption, image, status, posted_at, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCampaign(row rowScanner) (*model.Campaign, error) {
	var c model.Campaign
	var postedAt sql.NullTime
	err := row.Scan(
		&c.ID, &c.Brand, &c.CampaignName, &c.Description, &c.Schedule,
		&c.Target, &c.Topic, &c.Tone, &c.Logo, &c.Caption, &c.Image,
		&c.Status, &postedAt, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if postedAt.Valid {
		t := postedAt.Time
		c.PostedAt = &t
	}
	return &c, nil
}

// Create keeps a preset CreatedAt so seeded rows retain their history.
func (r *CampaignRepository) Create(ctx context.Context, c *model.Campaign) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if c.Status == "" {
		c.Status = model.StatusDraft
	}
	query := `
		INSERT INTO campaigns (brand, campaign_name, description, schedule, target, topic, tone, logo, caption, image, status, posted_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		c.Brand, c.CampaignName, c.Description, c.Schedule, c.Target, c.Topic,
		c.Tone, c.Logo, c.Caption, c.Image, c.Status, c.PostedAt, c.CreatedAt,
	).Scan(&c.ID)
}

func (r *CampaignRepository) Update(ctx context.Context, c *model.Campaign) error {
	query := `
		UPDATE campaigns
		SET brand=$1, campaign_name=$2, description=$3, schedule=$4, target=$5, topic=$6,
		    tone=$7, logo=$8, caption=$9, image=$10, status=$11, posted_at=$12
		WHERE id::text=$13
	`
	res, err := r.DB.ExecContext(ctx, query,
		c.Brand, c.CampaignName, c.Description, c.Schedule, c.Target, c.Topic,
		c.Tone, c.Logo, c.Caption, c.Image, c.Status, c.PostedAt, c.ID,
	)
	if err != nil {
		return err
	}
	return mustAffect(res, c.ID)
}

func (r *CampaignRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM campaigns WHERE id::text=$1`, id)
	if err != nil {
		return err
	}
	return mustAffect(res, id)
}

// MarkPosted only touches a campaign that is still scheduled.
func (r *CampaignRepository) MarkPosted(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE campaigns SET status=$1, posted_at=$2 WHERE id::text=$3 AND status=$4`
	_, err := r.DB.ExecContext(ctx, query, model.StatusPosted, at, id, model.StatusScheduled)
	return err
}

func (r *CampaignRepository) GetByID(ctx context.Context, id string) (*model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id::text=$1`
	c, err := scanCampaign(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewCampaignNotFound(id)
		}
		return nil, err
	}
	return c, nil
}

func (r *CampaignRepository) List(ctx context.Context, f CampaignFilter) ([]model.Campaign, error) {
	campaigns := []model.Campaign{}
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE 1=1`
	args := []any{}
	argPos := 1

	if f.ID != "" {
		query += fmt.Sprintf(" AND id::text=$%d", argPos)
		args = append(args, f.ID)
		argPos++
	}
	if f.Status != "" {
		query += fmt.Sprintf(" AND status=$%d", argPos)
		args = append(args, f.Status)
	}
	query += " ORDER BY id"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, *c)
	}
	return campaigns, rows.Err()
}

func mustAffect(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return appErrors.NewCampaignNotFound(id)
	}
	return nil
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)

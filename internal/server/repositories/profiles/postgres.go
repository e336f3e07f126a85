package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/marketpulse/internal/common"
	"github.com/dmitrijs2005/marketpulse/internal/dbx"
	"github.com/dmitrijs2005/marketpulse/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*models.BusinessProfile, error) {
	query :=
		`SELECT user_id, company_name, industry, payload, updated_at FROM business_profiles
		 WHERE user_id = $1
		 `

	profile := &models.BusinessProfile{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&profile.UserID,
		&profile.CompanyName, &profile.Industry, &profile.Payload, &profile.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return profile, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, profile *models.BusinessProfile) error {
	query :=
		`INSERT INTO business_profiles (user_id, company_name, industry, payload, updated_at)
		 VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (user_id) DO UPDATE
		 SET company_name = EXCLUDED.company_name,
		     industry = EXCLUDED.industry,
		     payload = EXCLUDED.payload,
		     updated_at = now()
		 `

	_, err := r.db.ExecContext(ctx, query,
		profile.UserID, profile.CompanyName, profile.Industry, profile.Payload)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

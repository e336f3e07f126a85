package profiles

import (
	"context"

	"github.com/dmitrijs2005/marketpulse/internal/server/models"
)

type Repository interface {
	Get(ctx context.Context, userID string) (*models.BusinessProfile, error)
	Upsert(ctx context.Context, profile *models.BusinessProfile) error
}

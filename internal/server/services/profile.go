package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/marketpulse/internal/server/models"
	"github.com/dmitrijs2005/marketpulse/internal/server/repositories/repomanager"
)

// ProfileService reads and writes business profiles.
type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewProfileService constructs a ProfileService over the given database.
func NewProfileService(db *sql.DB, m repomanager.RepositoryManager) *ProfileService {
	return &ProfileService{db: db, repomanager: m}
}

// Get returns the stored profile for userID, or common.ErrorNotFound.
func (s *ProfileService) Get(ctx context.Context, userID string) (*models.BusinessProfile, error) {
	return s.repomanager.Profiles(s.db).Get(ctx, userID)
}

// Save stores the profile, replacing any previous one for the same user.
func (s *ProfileService) Save(ctx context.Context, profile *models.BusinessProfile) error {
	return s.repomanager.Profiles(s.db).Upsert(ctx, profile)
}

package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/marketpulse/internal/dbx"
	"github.com/dmitrijs2005/marketpulse/internal/server/repositories/analytics"
	"github.com/dmitrijs2005/marketpulse/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/marketpulse/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Profiles(db dbx.DBTX) profiles.Repository
	Analytics(db dbx.DBTX) analytics.Repository
}

package api

import (
	"context"

	"github.com/dmitrijs2005/marketpulse/internal/client/models"
)

// TokenSource supplies the stored bearer token for outbound requests.
// An empty string means "no credential"; requests are then sent
// unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// BehaviorFilter narrows behavior queries. Empty fields mean "no filter".
// Dates use the "YYYY-MM-DD" form.
type BehaviorFilter struct {
	StartDate string
	EndDate   string
	SegmentID string
}

// Client is the REST surface consumed by the session manager and the
// dashboard services.
type Client interface {
	// Auth endpoints.
	Login(ctx context.Context, email, password string) (*models.LoginResult, error)
	SignUp(ctx context.Context, data models.SignUpData) (string, error)
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	Me(ctx context.Context) (*models.Identity, error)

	// Dashboard endpoints.
	Segments(ctx context.Context) ([]models.Segment, error)
	SegmentDetails(ctx context.Context, id int64) (*models.Segment, error)
	Behaviors(ctx context.Context, filter BehaviorFilter) ([]models.BehaviorCount, error)
	Metrics(ctx context.Context) (*models.CustomerMetrics, error)
	Engagement(ctx context.Context, segmentID string) ([]models.EngagementPoint, error)
	GrowthStrategy(ctx context.Context) (*models.GrowthStrategy, error)
	MarketTrends(ctx context.Context, industry string) ([]models.MarketTrend, error)
	MarketSize(ctx context.Context, industry string) (*models.MarketSize, error)
	Competitors(ctx context.Context, industry string) ([]models.Competitor, error)
	Profile(ctx context.Context) (*models.BusinessProfile, error)
	SaveProfile(ctx context.Context, profile models.BusinessProfile) error

	// BaseURL exposes the configured backend prefix, used by the session
	// manager to build federated-login redirect targets.
	BaseURL() string
}

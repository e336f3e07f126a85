// Package httpapi exposes the server's REST API: the auth flows, the
// customer-intelligence read endpoints, and the business profile.
package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/marketpulse/internal/logging"
	"github.com/dmitrijs2005/marketpulse/internal/server/config"
	"github.com/dmitrijs2005/marketpulse/internal/server/models"
	"github.com/dmitrijs2005/marketpulse/internal/server/services"
)

// UserService is the slice of services.UserService the handlers need.
type UserService interface {
	SignUp(ctx context.Context, in services.SignUpInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	Me(ctx context.Context, userID string) (*models.User, error)
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, userID string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	GenerateAccessToken(userID string) (string, error)
	EnsureFederatedUser(ctx context.Context, email, name string) (*models.User, error)
}

// AnalyticsService serves the dashboard read models: customer intelligence,
// growth strategy, market analysis, and competitor analysis.
type AnalyticsService interface {
	Segments(ctx context.Context) ([]models.Segment, error)
	Segment(ctx context.Context, id int64) (*models.Segment, error)
	Behaviors(ctx context.Context, startDate, endDate, segmentID string) ([]models.BehaviorCount, error)
	Metrics(ctx context.Context) (*models.MetricsRow, error)
	Engagement(ctx context.Context, segmentID string) ([]models.EngagementPoint, error)
	GrowthMetrics(ctx context.Context) ([]models.GrowthMetric, error)
	GrowthStrategies(ctx context.Context) ([]models.GrowthStrategy, error)
	MarketTrends(ctx context.Context, industry string) ([]models.MarketTrend, error)
	MarketSize(ctx context.Context, industry string) (*services.MarketSizeEstimate, error)
	Competitors(ctx context.Context, industry string) ([]models.Competitor, error)
}

// ProfileService reads and writes business profiles.
type ProfileService interface {
	Get(ctx context.Context, userID string) (*models.BusinessProfile, error)
	Save(ctx context.Context, profile *models.BusinessProfile) error
}

// Handler bundles the services behind the REST API.
type Handler struct {
	users     UserService
	analytics AnalyticsService
	profiles  ProfileService
	log       logging.Logger

	secretKey   []byte
	frontendURL string
	oauth       *oauthProviders
}

// NewHandler constructs a Handler. OAuth providers with empty credentials
// in cfg stay disabled.
func NewHandler(users UserService, analytics AnalyticsService, profiles ProfileService,
	log logging.Logger, cfg *config.Config) *Handler {
	return &Handler{
		users:       users,
		analytics:   analytics,
		profiles:    profiles,
		log:         log,
		secretKey:   []byte(cfg.SecretKey),
		frontendURL: cfg.FrontendURL,
		oauth:       newOAuthProviders(cfg),
	}
}

// NewRouter builds the chi router over h. Static /auth routes take priority
// over the /auth/{provider} wildcard.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/auth/signup", h.handleSignUp)
	r.Post("/auth/login", h.handleLogin)
	r.Post("/auth/verify-email", h.handleVerifyEmail)
	r.Post("/auth/forgot-password", h.handleForgotPassword)
	r.Post("/auth/reset-password", h.handleResetPassword)

	r.Get("/auth/{provider}", h.handleFederatedStart)
	r.Get("/auth/{provider}/callback", h.handleFederatedCallback)

	r.Group(func(r chi.Router) {
		r.Use(h.authenticator)

		r.Get("/auth/me", h.handleMe)
		r.Post("/auth/resend-verification", h.handleResendVerification)

		r.Get("/customer-intelligence/segments", h.handleSegments)
		r.Get("/customer-intelligence/segments/{id}", h.handleSegmentDetails)
		r.Get("/customer-intelligence/behaviors", h.handleBehaviors)
		r.Get("/customer-intelligence/metrics", h.handleMetrics)
		r.Get("/customer-intelligence/engagement", h.handleEngagement)

		r.Get("/growth-strategy", h.handleGrowthStrategy)

		r.Get("/market-analysis/trends", h.handleMarketTrends)
		r.Get("/market-analysis/market-size", h.handleMarketSize)

		r.Get("/competitor-analysis/competitors", h.handleCompetitors)

		r.Get("/business-profile", h.handleGetProfile)
		r.Put("/business-profile", h.handleSaveProfile)
	})

	return r
}

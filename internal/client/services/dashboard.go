// Package services contains application services for the MarketPulse client.
// This file defines the dashboard service: retrieval of customer-intelligence
// data and maintenance of the signed-in user's business profile.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/marketpulse/internal/client/api"
	"github.com/dmitrijs2005/marketpulse/internal/client/models"
)

// ErrInvalidProfile is returned when a profile fails local validation
// before it is sent to the backend.
var ErrInvalidProfile = errors.New("invalid business profile")

// ErrInvalidDateFilter is returned when a behavior filter date is not in
// the YYYY-MM-DD form.
var ErrInvalidDateFilter = errors.New("invalid date filter")

// ErrMissingIndustry is returned when a market-size query is attempted
// without an industry.
var ErrMissingIndustry = errors.New("industry is required")

// DashboardService exposes the analytics and profile data consumed by the
// dashboard views. It is a read-mostly surface; the only write is the
// profile update.
type DashboardService interface {
	Segments(ctx context.Context) ([]models.Segment, error)
	SegmentDetails(ctx context.Context, id int64) (*models.Segment, error)
	Behaviors(ctx context.Context, filter api.BehaviorFilter) ([]models.BehaviorCount, error)
	Metrics(ctx context.Context) (*models.CustomerMetrics, error)
	Engagement(ctx context.Context, segmentID string) ([]models.EngagementPoint, error)
	GrowthStrategy(ctx context.Context) (*models.GrowthStrategy, error)
	MarketTrends(ctx context.Context, industry string) ([]models.MarketTrend, error)
	MarketSize(ctx context.Context, industry string) (*models.MarketSize, error)
	Competitors(ctx context.Context, industry string) ([]models.Competitor, error)
	Profile(ctx context.Context) (*models.BusinessProfile, error)
	SaveProfile(ctx context.Context, profile models.BusinessProfile) error
}

type dashboardService struct {
	client api.Client
}

// NewDashboardService constructs a DashboardService bound to the given API client.
func NewDashboardService(client api.Client) DashboardService {
	return &dashboardService{client: client}
}

func (s *dashboardService) Segments(ctx context.Context) ([]models.Segment, error) {
	return s.client.Segments(ctx)
}

func (s *dashboardService) SegmentDetails(ctx context.Context, id int64) (*models.Segment, error) {
	return s.client.SegmentDetails(ctx, id)
}

// Behaviors validates filter dates locally so an obviously malformed filter
// never reaches the backend.
func (s *dashboardService) Behaviors(ctx context.Context, filter api.BehaviorFilter) ([]models.BehaviorCount, error) {
	for _, d := range []string{filter.StartDate, filter.EndDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return nil, ErrInvalidDateFilter
		}
	}
	return s.client.Behaviors(ctx, filter)
}

func (s *dashboardService) Metrics(ctx context.Context) (*models.CustomerMetrics, error) {
	return s.client.Metrics(ctx)
}

func (s *dashboardService) Engagement(ctx context.Context, segmentID string) ([]models.EngagementPoint, error) {
	return s.client.Engagement(ctx, segmentID)
}

func (s *dashboardService) GrowthStrategy(ctx context.Context) (*models.GrowthStrategy, error) {
	return s.client.GrowthStrategy(ctx)
}

func (s *dashboardService) MarketTrends(ctx context.Context, industry string) ([]models.MarketTrend, error) {
	return s.client.MarketTrends(ctx, industry)
}

// MarketSize requires an industry; the backend has no meaningful answer
// across all industries at once.
func (s *dashboardService) MarketSize(ctx context.Context, industry string) (*models.MarketSize, error) {
	if industry == "" {
		return nil, ErrMissingIndustry
	}
	return s.client.MarketSize(ctx, industry)
}

func (s *dashboardService) Competitors(ctx context.Context, industry string) ([]models.Competitor, error) {
	return s.client.Competitors(ctx, industry)
}

func (s *dashboardService) Profile(ctx context.Context) (*models.BusinessProfile, error) {
	return s.client.Profile(ctx)
}

// SaveProfile requires the two fields every analysis keys on: company name
// and industry. Everything else is optional.
func (s *dashboardService) SaveProfile(ctx context.Context, profile models.BusinessProfile) error {
	if profile.CompanyName == "" || profile.Industry == "" {
		return ErrInvalidProfile
	}
	return s.client.SaveProfile(ctx, profile)
}

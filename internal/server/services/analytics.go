package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/marketpulse/internal/common"
	"github.com/dmitrijs2005/marketpulse/internal/server/models"
	"github.com/dmitrijs2005/marketpulse/internal/server/repositories/repomanager"
)

// AnalyticsService serves the customer-intelligence read models. It performs
// no market analysis; it only returns what the repositories hold.
type AnalyticsService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewAnalyticsService constructs an AnalyticsService over the given database.
func NewAnalyticsService(db *sql.DB, m repomanager.RepositoryManager) *AnalyticsService {
	return &AnalyticsService{db: db, repomanager: m}
}

func (s *AnalyticsService) Segments(ctx context.Context) ([]models.Segment, error) {
	return s.repomanager.Analytics(s.db).Segments(ctx)
}

func (s *AnalyticsService) Segment(ctx context.Context, id int64) (*models.Segment, error) {
	return s.repomanager.Analytics(s.db).Segment(ctx, id)
}

func (s *AnalyticsService) Behaviors(ctx context.Context, startDate, endDate, segmentID string) ([]models.BehaviorCount, error) {
	return s.repomanager.Analytics(s.db).Behaviors(ctx, startDate, endDate, segmentID)
}

func (s *AnalyticsService) Metrics(ctx context.Context) (*models.MetricsRow, error) {
	return s.repomanager.Analytics(s.db).Metrics(ctx)
}

func (s *AnalyticsService) Engagement(ctx context.Context, segmentID string) ([]models.EngagementPoint, error) {
	return s.repomanager.Analytics(s.db).Engagement(ctx, segmentID)
}

func (s *AnalyticsService) GrowthMetrics(ctx context.Context) ([]models.GrowthMetric, error) {
	return s.repomanager.Analytics(s.db).GrowthMetrics(ctx)
}

func (s *AnalyticsService) GrowthStrategies(ctx context.Context) ([]models.GrowthStrategy, error) {
	return s.repomanager.Analytics(s.db).GrowthStrategies(ctx)
}

func (s *AnalyticsService) MarketTrends(ctx context.Context, industry string) ([]models.MarketTrend, error) {
	return s.repomanager.Analytics(s.db).MarketTrends(ctx, industry)
}

// MarketSizeEstimate summarizes the stored market-size series: the latest
// captured size, the mean period-over-period growth rate, and the size one
// period ahead at that rate.
type MarketSizeEstimate struct {
	CurrentSize   float64
	PredictedSize float64
	GrowthRate    float64
}

// MarketSize derives the estimate from the stored history for an industry.
// It needs at least one captured point; with a single point the growth rate
// is zero and the prediction equals the current size. No data at all yields
// common.ErrorNotFound.
func (s *AnalyticsService) MarketSize(ctx context.Context, industry string) (*MarketSizeEstimate, error) {
	points, err := s.repomanager.Analytics(s.db).MarketSizeHistory(ctx, industry)
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, common.ErrorNotFound
	}

	current := points[len(points)-1].MarketSize

	var growth float64
	var samples int
	for i := 1; i < len(points); i++ {
		prev := points[i-1].MarketSize
		if prev == 0 {
			continue
		}
		growth += (points[i].MarketSize - prev) / prev
		samples++
	}
	if samples > 0 {
		growth /= float64(samples)
	}

	return &MarketSizeEstimate{
		CurrentSize:   current,
		PredictedSize: current * (1 + growth),
		GrowthRate:    growth,
	}, nil
}

func (s *AnalyticsService) Competitors(ctx context.Context, industry string) ([]models.Competitor, error) {
	return s.repomanager.Analytics(s.db).Competitors(ctx, industry)
}

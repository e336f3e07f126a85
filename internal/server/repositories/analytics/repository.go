package analytics

import (
	"context"

	"github.com/dmitrijs2005/marketpulse/internal/server/models"
)

type Repository interface {
	Segments(ctx context.Context) ([]models.Segment, error)
	Segment(ctx context.Context, id int64) (*models.Segment, error)
	Behaviors(ctx context.Context, startDate, endDate, segmentID string) ([]models.BehaviorCount, error)
	Metrics(ctx context.Context) (*models.MetricsRow, error)
	Engagement(ctx context.Context, segmentID string) ([]models.EngagementPoint, error)
	GrowthMetrics(ctx context.Context) ([]models.GrowthMetric, error)
	GrowthStrategies(ctx context.Context) ([]models.GrowthStrategy, error)
	MarketTrends(ctx context.Context, industry string) ([]models.MarketTrend, error)
	MarketSizeHistory(ctx context.Context, industry string) ([]models.MarketSizePoint, error)
	Competitors(ctx context.Context, industry string) ([]models.Competitor, error)
}

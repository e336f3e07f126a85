package models

import "time"

// Segment is a stored customer segment.
type Segment struct {
	ID              int64
	Name            string
	Size            int64
	Growth          float64
	Characteristics []string
}

// BehaviorCount is an aggregated behavior row for a date range.
type BehaviorCount struct {
	Type  string
	Count int64
}

// MetricsRow holds the single-row customer metrics snapshot.
type MetricsRow struct {
	TotalCustomers       int64
	ActiveCustomers      int64
	ChurnRate            float64
	AverageLifetimeValue float64
	GrowthRate           float64
	RetentionRate        float64
	SatisfactionRate     float64
}

// EngagementPoint is one month of engagement statistics for a segment.
type EngagementPoint struct {
	Date         string
	Engagement   float64
	Satisfaction float64
	Retention    float64
}

// GrowthMetric tracks one growth KPI against its target.
type GrowthMetric struct {
	Name    string
	Current float64
	Target  float64
}

// GrowthStrategy is one tracked strategy item. Status is one of
// "pending", "in_progress", "completed".
type GrowthStrategy struct {
	ID          string
	Title       string
	Description string
	Progress    int64
	Status      string
}

// MarketTrend is one observed market topic for an industry.
type MarketTrend struct {
	Topic     string
	Mentions  int64
	Sentiment float64
}

// MarketSizePoint is one captured market-size observation for an industry,
// ordered by capture time.
type MarketSizePoint struct {
	CapturedAt time.Time
	MarketSize float64
}

// Competitor is a tracked competitor for an industry.
type Competitor struct {
	Name string
	URL  string
}

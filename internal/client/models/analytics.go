package models

// Segment is a customer segment as reported by the customer-intelligence
// endpoints.
type Segment struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Size            int64    `json:"size"`
	Growth          float64  `json:"growth"`
	Characteristics []string `json:"characteristics"`
}

// BehaviorCount is an aggregated count of one customer behavior type.
type BehaviorCount struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

// MetricsSummary holds headline customer counts and value figures.
type MetricsSummary struct {
	TotalCustomers       int64   `json:"total_customers"`
	ActiveCustomers      int64   `json:"active_customers"`
	ChurnRate            float64 `json:"churn_rate"`
	AverageLifetimeValue float64 `json:"average_lifetime_value"`
}

// MetricsTrends holds headline rate figures.
type MetricsTrends struct {
	GrowthRate       float64 `json:"growth_rate"`
	RetentionRate    float64 `json:"retention_rate"`
	SatisfactionRate float64 `json:"satisfaction_rate"`
}

// CustomerMetrics is the full metrics payload for the dashboard.
type CustomerMetrics struct {
	Summary MetricsSummary `json:"summary"`
	Trends  MetricsTrends  `json:"trends"`
}

// EngagementPoint is one month of engagement statistics. Date uses the
// "YYYY-MM" form the dashboard charts expect.
type EngagementPoint struct {
	Date         string  `json:"date"`
	Engagement   float64 `json:"engagement"`
	Satisfaction float64 `json:"satisfaction"`
	Retention    float64 `json:"retention"`
}

// GrowthMetric is one growth KPI with its target.
type GrowthMetric struct {
	Name    string  `json:"name"`
	Current float64 `json:"current"`
	Target  float64 `json:"target"`
}

// Strategy is one tracked growth strategy item.
type Strategy struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Progress    int64  `json:"progress"`
	Status      string `json:"status"`
}

// GrowthStrategy is the growth-strategy dashboard payload.
type GrowthStrategy struct {
	Metrics    []GrowthMetric `json:"metrics"`
	Strategies []Strategy     `json:"strategies"`
}

// MarketTrend is one observed market topic for an industry.
type MarketTrend struct {
	Topic     string  `json:"topic"`
	Mentions  int64   `json:"mentions"`
	Sentiment float64 `json:"sentiment"`
}

// MarketSize is the backend's market-size estimate for an industry.
type MarketSize struct {
	CurrentSize   float64 `json:"current_size"`
	PredictedSize float64 `json:"predicted_size"`
	GrowthRate    float64 `json:"growth_rate"`
}

// Competitor is a tracked competitor for an industry.
type Competitor struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

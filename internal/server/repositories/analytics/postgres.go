package analytics

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/marketpulse/internal/common"
	"github.com/dmitrijs2005/marketpulse/internal/dbx"
	"github.com/dmitrijs2005/marketpulse/internal/server/models"
)

// PostgresRepository serves the customer-intelligence read models. The
// characteristics column holds a JSON array of strings.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanSegment(row interface{ Scan(dest ...any) error }) (*models.Segment, error) {
	s := &models.Segment{}
	var characteristics []byte
	if err := row.Scan(&s.ID, &s.Name, &s.Size, &s.Growth, &characteristics); err != nil {
		return nil, err
	}
	if len(characteristics) > 0 {
		if err := json.Unmarshal(characteristics, &s.Characteristics); err != nil {
			return nil, fmt.Errorf("decoding characteristics: %w", err)
		}
	}
	return s, nil
}

func (r *PostgresRepository) Segments(ctx context.Context) ([]models.Segment, error) {
	query :=
		`SELECT id, name, size, growth, characteristics FROM segments
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var segments []models.Segment
	for rows.Next() {
		s, err := scanSegment(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		segments = append(segments, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return segments, nil
}

func (r *PostgresRepository) Segment(ctx context.Context, id int64) (*models.Segment, error) {
	query :=
		`SELECT id, name, size, growth, characteristics FROM segments
		 WHERE id = $1
		 `

	s, err := scanSegment(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return s, nil
}

// Behaviors aggregates behavior events by type. Empty filter strings leave
// that dimension unconstrained.
func (r *PostgresRepository) Behaviors(ctx context.Context, startDate, endDate, segmentID string) ([]models.BehaviorCount, error) {
	query :=
		`SELECT type, count(*) FROM behavior_events
		 WHERE ($1 = '' OR occurred_at >= $1::date)
		   AND ($2 = '' OR occurred_at <= $2::date)
		   AND ($3 = '' OR segment_id::text = $3)
		 GROUP BY type
		 ORDER BY type
		 `

	rows, err := r.db.QueryContext(ctx, query, startDate, endDate, segmentID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var counts []models.BehaviorCount
	for rows.Next() {
		var c models.BehaviorCount
		if err := rows.Scan(&c.Type, &c.Count); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return counts, nil
}

func (r *PostgresRepository) Metrics(ctx context.Context) (*models.MetricsRow, error) {
	query :=
		`SELECT total_customers, active_customers, churn_rate, average_lifetime_value,
		        growth_rate, retention_rate, satisfaction_rate
		 FROM customer_metrics
		 ORDER BY captured_at DESC
		 LIMIT 1
		 `

	m := &models.MetricsRow{}
	err := r.db.QueryRowContext(ctx, query).Scan(&m.TotalCustomers, &m.ActiveCustomers,
		&m.ChurnRate, &m.AverageLifetimeValue, &m.GrowthRate, &m.RetentionRate, &m.SatisfactionRate)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return m, nil
}

func (r *PostgresRepository) GrowthMetrics(ctx context.Context) ([]models.GrowthMetric, error) {
	query :=
		`SELECT name, current_value, target_value FROM growth_metrics
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var metrics []models.GrowthMetric
	for rows.Next() {
		var m models.GrowthMetric
		if err := rows.Scan(&m.Name, &m.Current, &m.Target); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		metrics = append(metrics, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return metrics, nil
}

func (r *PostgresRepository) GrowthStrategies(ctx context.Context) ([]models.GrowthStrategy, error) {
	query :=
		`SELECT id, title, description, progress, status FROM growth_strategies
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var strategies []models.GrowthStrategy
	for rows.Next() {
		var s models.GrowthStrategy
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.Progress, &s.Status); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		strategies = append(strategies, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return strategies, nil
}

// MarketTrends returns the observed topics for an industry, busiest first.
// An empty industry returns trends across all industries.
func (r *PostgresRepository) MarketTrends(ctx context.Context, industry string) ([]models.MarketTrend, error) {
	query :=
		`SELECT topic, mentions, sentiment FROM market_trends
		 WHERE ($1 = '' OR industry = $1)
		 ORDER BY mentions DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, industry)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var trends []models.MarketTrend
	for rows.Next() {
		var t models.MarketTrend
		if err := rows.Scan(&t.Topic, &t.Mentions, &t.Sentiment); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		trends = append(trends, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return trends, nil
}

// MarketSizeHistory returns the captured market-size series for an industry
// in capture order, oldest first.
func (r *PostgresRepository) MarketSizeHistory(ctx context.Context, industry string) ([]models.MarketSizePoint, error) {
	query :=
		`SELECT captured_at, market_size FROM market_size_history
		 WHERE industry = $1
		 ORDER BY captured_at
		 `

	rows, err := r.db.QueryContext(ctx, query, industry)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var points []models.MarketSizePoint
	for rows.Next() {
		var p models.MarketSizePoint
		if err := rows.Scan(&p.CapturedAt, &p.MarketSize); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return points, nil
}

func (r *PostgresRepository) Competitors(ctx context.Context, industry string) ([]models.Competitor, error) {
	query :=
		`SELECT name, url FROM competitors
		 WHERE ($1 = '' OR industry = $1)
		 ORDER BY name
		 `

	rows, err := r.db.QueryContext(ctx, query, industry)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var competitors []models.Competitor
	for rows.Next() {
		var c models.Competitor
		if err := rows.Scan(&c.Name, &c.URL); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		competitors = append(competitors, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return competitors, nil
}

// Engagement returns the monthly engagement series. An empty segmentID
// returns the series aggregated over all segments.
func (r *PostgresRepository) Engagement(ctx context.Context, segmentID string) ([]models.EngagementPoint, error) {
	query :=
		`SELECT month, avg(engagement), avg(satisfaction), avg(retention) FROM engagement_stats
		 WHERE ($1 = '' OR segment_id::text = $1)
		 GROUP BY month
		 ORDER BY month
		 `

	rows, err := r.db.QueryContext(ctx, query, segmentID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var points []models.EngagementPoint
	for rows.Next() {
		var p models.EngagementPoint
		if err := rows.Scan(&p.Date, &p.Engagement, &p.Satisfaction, &p.Retention); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return points, nil
}

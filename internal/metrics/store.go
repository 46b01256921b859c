package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// RenderMetric records metadata for a single rendered report.
type RenderMetric struct {
	Layout    string
	Products  int
	LatencyMS int64
	Timestamp time.Time
}

// Store handles persistence of metrics to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record saves a metric to the database.
func (s *Store) Record(ctx context.Context, m RenderMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO render_metrics (layout, products, latency_ms, timestamp) VALUES (?, ?, ?, ?)`,
		m.Layout, m.Products, m.LatencyMS, ts.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert render metric: %w", err)
	}
	return nil
}

// DailyUsage represents render totals for a single day.
type DailyUsage struct {
	Date         string
	Reports      int
	Products     int
	AvgLatencyMS int64
}

// GetDailyUsage retrieves usage for the last N days, newest day first.
func (s *Store) GetDailyUsage(ctx context.Context, days int) ([]DailyUsage, error) {
	since := time.Now().AddDate(0, 0, -days).Unix()
	rows, err := s.db.QueryContext(ctx, `
		SELECT date(timestamp, 'unixepoch') AS day,
		       COUNT(*),
		       COALESCE(SUM(products), 0),
		       CAST(COALESCE(AVG(latency_ms), 0) AS INTEGER)
		FROM render_metrics
		WHERE timestamp >= ?
		GROUP BY day
		ORDER BY day DESC`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily usage: %w", err)
	}
	defer rows.Close()

	var results []DailyUsage
	for rows.Next() {
		var u DailyUsage
		if err := rows.Scan(&u.Date, &u.Reports, &u.Products, &u.AvgLatencyMS); err != nil {
			return nil, fmt.Errorf("failed to scan daily usage: %w", err)
		}
		results = append(results, u)
	}
	return results, rows.Err()
}

// Cleanup removes records older than the specified number of days.
func (s *Store) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	threshold := time.Now().AddDate(0, 0, -olderThanDays).Unix()
	res, err := s.db.ExecContext(ctx, `DELETE FROM render_metrics WHERE timestamp < ?`, threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up render metrics: %w", err)
	}
	return res.RowsAffected()
}

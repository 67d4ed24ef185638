package database

import (
	"fmt"

	"github.com/lib/pq"

	"trendcast/app/trends"
)

// TrendRepository handles database operations for collected trends
type TrendRepository struct {
	db *DB
}

func NewTrendRepository(db *DB) *TrendRepository {
	return &TrendRepository{db: db}
}

// SaveTrends stores a collected batch. Trends already present keep their
// original row.
func (r *TrendRepository) SaveTrends(batch []trends.Trend) error {
	for _, trend := range batch {
		_, err := r.db.Exec(`
			INSERT INTO trends (id, title, source, url, score, keywords, description, category, captured_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO NOTHING
		`, trend.ID, trend.Title, trend.Source, trend.URL, trend.Score,
			pq.Array(trend.Keywords), trend.Description, trend.Category, trend.CapturedAt)
		if err != nil {
			return fmt.Errorf("failed to save trend: %w", err)
		}
	}
	return nil
}

func (r *TrendRepository) GetRecentTrends(limit int) ([]trends.Trend, error) {
	rows, err := r.db.Query(`
		SELECT id, title, source, url, score, keywords, description, category, captured_at
		FROM trends
		ORDER BY captured_at DESC, score DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query trends: %w", err)
	}
	defer rows.Close()

	var result []trends.Trend
	for rows.Next() {
		var trend trends.Trend
		err := rows.Scan(&trend.ID, &trend.Title, &trend.Source, &trend.URL, &trend.Score,
			pq.Array(&trend.Keywords), &trend.Description, &trend.Category, &trend.CapturedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trend: %w", err)
		}
		result = append(result, trend)
	}

	return result, rows.Err()
}

func (r *TrendRepository) GetTrendCount() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM trends`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count trends: %w", err)
	}
	return count, nil
}

package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"trendcast/app/content"
)

// ContentRepository handles database operations for content items
type ContentRepository struct {
	db *DB
}

func NewContentRepository(db *DB) *ContentRepository {
	return &ContentRepository{db: db}
}

func (r *ContentRepository) SaveItems(items []content.Item) error {
	for _, item := range items {
		metadata, err := json.Marshal(item.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
		links, err := json.Marshal(item.AffiliateLinks)
		if err != nil {
			return fmt.Errorf("failed to marshal affiliate links: %w", err)
		}

		trendID := sql.NullString{String: item.TrendID, Valid: item.TrendID != ""}
		_, err = r.db.Exec(`
			INSERT INTO content_items (id, trend_id, platform, content_type, title, body,
				hashtags, keywords, source, metadata, affiliate_links, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (id) DO UPDATE
			SET body = EXCLUDED.body, affiliate_links = EXCLUDED.affiliate_links
		`, item.ID, trendID, item.Platform, item.ContentType, item.Title, item.Body,
			pq.Array(item.Hashtags), pq.Array(item.Keywords), item.Source,
			metadata, links, item.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to save content item: %w", err)
		}
	}
	return nil
}

func (r *ContentRepository) GetItem(id string) (*content.Item, error) {
	row := r.db.QueryRow(`
		SELECT id, COALESCE(trend_id::text, ''), platform, content_type, title, body,
			hashtags, keywords, source, metadata, affiliate_links, created_at
		FROM content_items
		WHERE id = $1
	`, id)

	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get content item: %w", err)
	}
	return item, nil
}

func (r *ContentRepository) GetRecentItems(limit int) ([]content.Item, error) {
	rows, err := r.db.Query(`
		SELECT id, COALESCE(trend_id::text, ''), platform, content_type, title, body,
			hashtags, keywords, source, metadata, affiliate_links, created_at
		FROM content_items
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query content items: %w", err)
	}
	defer rows.Close()

	var items []content.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan content item: %w", err)
		}
		items = append(items, *item)
	}

	return items, rows.Err()
}

// GetItemStats returns total, generated and fallback item counts.
func (r *ContentRepository) GetItemStats() (int, int, int, error) {
	var total, generated, fallback int
	err := r.db.QueryRow(`
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE source = 'generated'),
			COUNT(*) FILTER (WHERE source = 'fallback')
		FROM content_items
	`).Scan(&total, &generated, &fallback)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to get content stats: %w", err)
	}
	return total, generated, fallback, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*content.Item, error) {
	var item content.Item
	var metadata, links []byte

	err := row.Scan(&item.ID, &item.TrendID, &item.Platform, &item.ContentType,
		&item.Title, &item.Body, pq.Array(&item.Hashtags), pq.Array(&item.Keywords),
		&item.Source, &metadata, &links, &item.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(metadata, &item.Metadata); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}
	if err := json.Unmarshal(links, &item.AffiliateLinks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal affiliate links: %w", err)
	}

	return &item, nil
}

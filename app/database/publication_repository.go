package database

import (
	"fmt"

	"trendcast/app/publish"
)

// PublicationRepository handles database operations for publish records
type PublicationRepository struct {
	db *DB
}

func NewPublicationRepository(db *DB) *PublicationRepository {
	return &PublicationRepository{db: db}
}

func (r *PublicationRepository) SavePublications(publications []publish.Publication) error {
	for _, publication := range publications {
		_, err := r.db.Exec(`
			INSERT INTO publications (id, content_id, platform, channel, message_id, status, error, published_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, publication.ID, publication.ContentID, publication.Platform, publication.Channel,
			publication.MessageID, publication.Status, publication.Error, publication.PublishedAt)
		if err != nil {
			return fmt.Errorf("failed to save publication: %w", err)
		}
	}
	return nil
}

func (r *PublicationRepository) GetRecentPublications(limit int) ([]publish.Publication, error) {
	rows, err := r.db.Query(`
		SELECT id, content_id, platform, channel, message_id, status, error, published_at
		FROM publications
		ORDER BY published_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query publications: %w", err)
	}
	defer rows.Close()

	var publications []publish.Publication
	for rows.Next() {
		var publication publish.Publication
		err := rows.Scan(&publication.ID, &publication.ContentID, &publication.Platform,
			&publication.Channel, &publication.MessageID, &publication.Status,
			&publication.Error, &publication.PublishedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan publication: %w", err)
		}
		publications = append(publications, publication)
	}

	return publications, rows.Err()
}

// GetPublicationStats returns total, published, demo and failed counts.
func (r *PublicationRepository) GetPublicationStats() (int, int, int, int, error) {
	var total, published, demo, failed int
	err := r.db.QueryRow(`
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = 'published'),
			COUNT(*) FILTER (WHERE status = 'demo_published'),
			COUNT(*) FILTER (WHERE status = 'failed')
		FROM publications
	`).Scan(&total, &published, &demo, &failed)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to get publication stats: %w", err)
	}
	return total, published, demo, failed, nil
}

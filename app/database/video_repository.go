package database

import (
	"fmt"

	"trendcast/app/media"
)

// VideoRepository handles database operations for rendered videos
type VideoRepository struct {
	db *DB
}

func NewVideoRepository(db *DB) *VideoRepository {
	return &VideoRepository{db: db}
}

func (r *VideoRepository) SaveVideo(video media.Video) error {
	_, err := r.db.Exec(`
		INSERT INTO videos (id, content_id, platform, file_path, thumbnail_path,
			duration, width, height, size_bytes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, video.ID, video.ContentID, video.Platform, video.FilePath, video.ThumbnailPath,
		video.Duration, video.Width, video.Height, video.SizeBytes, video.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save video: %w", err)
	}
	return nil
}

func (r *VideoRepository) GetVideosByContent(contentID string) ([]media.Video, error) {
	rows, err := r.db.Query(`
		SELECT id, content_id, platform, file_path, thumbnail_path,
			duration, width, height, size_bytes, created_at
		FROM videos
		WHERE content_id = $1
		ORDER BY created_at DESC
	`, contentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}
	defer rows.Close()

	var videos []media.Video
	for rows.Next() {
		var video media.Video
		err := rows.Scan(&video.ID, &video.ContentID, &video.Platform, &video.FilePath,
			&video.ThumbnailPath, &video.Duration, &video.Width, &video.Height,
			&video.SizeBytes, &video.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, video)
	}

	return videos, rows.Err()
}

func (r *VideoRepository) GetVideoCount() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM videos`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count videos: %w", err)
	}
	return count, nil
}

package tasks

import (
	"trendcast/app/content"
	"trendcast/app/database"
	"trendcast/app/media"
	"trendcast/app/publish"
	"trendcast/app/trends"
)

// TaskSchedulerInterface defines the interface for task scheduling
// operations used by the HTTP API and the main application.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	NewCollectTask() TaskInterface
	NewGenerateTask(batch []trends.Trend, platforms []content.Platform, withVoice bool) TaskInterface
	NewPublishTask(channelKey string, items []content.Item) TaskInterface
	NewCycleTask(channelKey string) TaskInterface
}

// TrendRepository persists collected trends.
type TrendRepository interface {
	SaveTrends(batch []trends.Trend) error
	GetRecentTrends(limit int) ([]trends.Trend, error)
}

// ContentRepository persists generated content items.
type ContentRepository interface {
	SaveItems(items []content.Item) error
}

// VideoRepository persists rendered video records.
type VideoRepository interface {
	SaveVideo(video media.Video) error
}

// PublicationRepository persists publish outcomes.
type PublicationRepository interface {
	SavePublications(publications []publish.Publication) error
}

var _ TrendRepository = (*database.TrendRepository)(nil)
var _ ContentRepository = (*database.ContentRepository)(nil)
var _ VideoRepository = (*database.VideoRepository)(nil)
var _ PublicationRepository = (*database.PublicationRepository)(nil)

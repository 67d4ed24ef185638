package api

import (
	"trendcast/app/content"
	"trendcast/app/database"
	"trendcast/app/monetize"
	"trendcast/app/publish"
	"trendcast/app/tasks"
	"trendcast/app/trends"
)

// TrendReader exposes trend queries used by the API.
type TrendReader interface {
	GetRecentTrends(limit int) ([]trends.Trend, error)
	GetTrendCount() (int, error)
}

// ContentReader exposes content queries used by the API.
type ContentReader interface {
	GetItem(id string) (*content.Item, error)
	GetRecentItems(limit int) ([]content.Item, error)
	GetItemStats() (int, int, int, error)
}

// VideoReader exposes video queries used by the API.
type VideoReader interface {
	GetVideoCount() (int, error)
}

// PublicationReader exposes publication queries used by the API.
type PublicationReader interface {
	GetRecentPublications(limit int) ([]publish.Publication, error)
	GetPublicationStats() (int, int, int, int, error)
}

var _ TrendReader = (*database.TrendRepository)(nil)
var _ ContentReader = (*database.ContentRepository)(nil)
var _ VideoReader = (*database.VideoRepository)(nil)
var _ PublicationReader = (*database.PublicationRepository)(nil)

type Handler struct {
	trendRepo       TrendReader
	contentRepo     ContentReader
	videoRepo       VideoReader
	publicationRepo PublicationReader
	injector        *monetize.Injector
	scheduler       tasks.TaskSchedulerInterface
	version         string
}

type generateRequest struct {
	TrendIDs  []string `json:"trend_ids"`
	Platforms []string `json:"platforms"`
	Limit     int      `json:"limit"`
	WithVoice *bool    `json:"with_voice"`
}

type publishRequest struct {
	Channel    string   `json:"channel"`
	ContentIDs []string `json:"content_ids" binding:"required"`
}

type automationRequest struct {
	Channel string `json:"channel"`
}

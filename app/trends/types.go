package trends

import (
	"time"
)

// Source tags assigned to collected trends.
const (
	SourceVideoFeed  = "video_feed"
	SourceAggregator = "aggregator"
	SourceRankedAPI  = "ranked_api"
)

const (
	videoFeedEntryLimit  = 5
	aggregatorEntryLimit = 3
	collectedTrendLimit  = 30
)

type Trend struct {
	ID          string
	Title       string
	Source      string
	URL         string
	Score       int
	Keywords    []string
	Description string
	Category    string
	CapturedAt  time.Time
}

package content

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"trendcast/app/llm"
	"trendcast/app/trends"
)

const (
	defaultMaxTrends      = 5
	defaultMaxConcurrency = 3
)

// Generator turns collected trends into platform-specific content items.
// Generation requests run concurrently under a semaphore; a failed request
// degrades to a deterministic fallback item instead of failing the batch.
type Generator struct {
	provider       llm.Provider
	maxTrends      int
	maxConcurrency int64
	now            func() time.Time
}

func NewGenerator(provider llm.Provider, maxTrends int, maxConcurrency int) *Generator {
	if maxTrends <= 0 {
		maxTrends = defaultMaxTrends
	}
	if maxConcurrency <= 0 {
		maxConcurrency = defaultMaxConcurrency
	}
	return &Generator{
		provider:       provider,
		maxTrends:      maxTrends,
		maxConcurrency: int64(maxConcurrency),
		now:            time.Now,
	}
}

// RunBatch generates one item per trend/platform pair for the requested
// platforms (all supported platforms when the set is empty; unsupported
// tags are dropped). The result maps each requested platform to exactly
// len(trends) items, capped by the trend limit. Within a platform, items
// appear in completion order, not request order, so callers must not rely
// on any particular ordering.
func (g *Generator) RunBatch(ctx context.Context, batch []trends.Trend, platforms []Platform) map[Platform][]Item {
	if len(batch) > g.maxTrends {
		batch = batch[:g.maxTrends]
	}
	platforms = normalizePlatforms(platforms)

	sem := semaphore.NewWeighted(g.maxConcurrency)
	results := make(chan Item, len(batch)*len(platforms))
	var wg sync.WaitGroup

	for _, trend := range batch {
		for _, platform := range platforms {
			wg.Add(1)
			go func(trend trends.Trend, platform Platform) {
				defer wg.Done()
				if err := sem.Acquire(ctx, 1); err != nil {
					results <- g.fallbackItem(trend, platform)
					return
				}
				defer sem.Release(1)
				results <- g.generateOne(ctx, trend, platform)
			}(trend, platform)
		}
	}

	wg.Wait()
	close(results)

	grouped := make(map[Platform][]Item, len(platforms))
	for _, platform := range platforms {
		grouped[platform] = []Item{}
	}
	total := 0
	for item := range results {
		grouped[item.Platform] = append(grouped[item.Platform], item)
		total++
	}

	slog.Info("Content batch generated", "trends", len(batch),
		"platforms", len(platforms), "items", total)
	return grouped
}

// normalizePlatforms drops unsupported tags and defaults to the full
// supported set when nothing valid is requested.
func normalizePlatforms(platforms []Platform) []Platform {
	var valid []Platform
	for _, platform := range platforms {
		if IsSupportedPlatform(platform) {
			valid = append(valid, platform)
		}
	}
	if len(valid) == 0 {
		return SupportedPlatforms
	}
	return valid
}

func (g *Generator) generateOne(ctx context.Context, trend trends.Trend, platform Platform) Item {
	prompt := buildPrompt(platform, trend)

	text, err := g.provider.Complete(ctx, prompt)
	if err != nil {
		slog.Warn("Content generation failed, using fallback",
			"trend_id", trend.ID, "platform", platform, "error", err)
		return g.fallbackItem(trend, platform)
	}

	return g.newItem(trend, platform, text, SourceGenerated)
}

func (g *Generator) fallbackItem(trend trends.Trend, platform Platform) Item {
	text := buildFallback(platform, trend.Title, trend.URL)
	return g.newItem(trend, platform, text, SourceFallback)
}

func (g *Generator) newItem(trend trends.Trend, platform Platform, text string, source string) Item {
	return Item{
		ID:          uuid.NewString(),
		TrendID:     trend.ID,
		Platform:    platform,
		ContentType: contentTypes[platform],
		Title:       truncateTitle(trend.Title),
		Body:        text,
		Hashtags:    extractHashtags(text, platform),
		Keywords:    trend.Keywords,
		Source:      source,
		Metadata: map[string]string{
			"source_url":     trend.URL,
			"trend_source":   trend.Source,
			"trend_category": trend.Category,
			"trend_score":    strconv.Itoa(trend.Score),
		},
		CreatedAt: g.now().UTC(),
	}
}

func truncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= maxTitleLength {
		return title
	}
	return string(runes[:maxTitleLength])
}

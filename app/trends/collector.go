package trends

import (
	"context"
	"log/slog"
	"sort"
)

// Collector takes a one-shot snapshot of all configured sources. A single
// source failing is logged and skipped; Run never returns an error, only a
// possibly empty slice.
type Collector struct {
	sources []Source
}

func NewCollector(sources []Source) *Collector {
	return &Collector{sources: sources}
}

func (c *Collector) Run(ctx context.Context) []Trend {
	var collected []Trend

	for _, source := range c.sources {
		batch, err := source.Fetch(ctx)
		if err != nil {
			slog.Error("Trend source fetch failed", "source", source.Name(), "error", err)
			continue
		}
		collected = append(collected, batch...)
	}

	// Stable sort keeps source-fetch order on score ties.
	sort.SliceStable(collected, func(i, j int) bool {
		return collected[i].Score > collected[j].Score
	})

	if len(collected) > collectedTrendLimit {
		collected = collected[:collectedTrendLimit]
	}

	slog.Info("Trend collection completed", "sources", len(c.sources), "trends", len(collected))

	return collected
}

package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"trendcast/app/trends"
)

type CollectTrendsTask struct {
	Task
	collector *trends.Collector
	trendRepo TrendRepository
}

func NewCollectTrendsTask(collector *trends.Collector, trendRepo TrendRepository) *CollectTrendsTask {
	return &CollectTrendsTask{
		Task:      NewTask(TaskTypeCollectTrends, "all"),
		collector: collector,
		trendRepo: trendRepo,
	}
}

func (t *CollectTrendsTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	batch := t.collector.Run(ctx)
	if len(batch) == 0 {
		slog.Info("No trends collected", "task_id", t.ID)
		return nil
	}

	if err := t.trendRepo.SaveTrends(batch); err != nil {
		return fmt.Errorf("failed to save trends: %w", err)
	}

	slog.Info("Trends collected and saved", "task_id", t.ID,
		"count", len(batch), "duration", t.GetDuration().String())
	return nil
}

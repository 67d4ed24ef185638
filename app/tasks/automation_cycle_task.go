package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"trendcast/app/content"
	"trendcast/app/monetize"
	"trendcast/app/publish"
	"trendcast/app/trends"
)

// AutomationCycleTask runs the unattended pipeline end to end: collect
// trends, generate and monetize telegram posts and publish them to the
// configured channel. Video platforms are left to explicit generate
// requests, so the cycle only spends model calls on what it publishes.
type AutomationCycleTask struct {
	Task
	ChannelKey      string
	collector       *trends.Collector
	generator       *content.Generator
	injector        *monetize.Injector
	dispatcher      *publish.Dispatcher
	trendRepo       TrendRepository
	contentRepo     ContentRepository
	publicationRepo PublicationRepository
}

func NewAutomationCycleTask(channelKey string, collector *trends.Collector,
	generator *content.Generator, injector *monetize.Injector,
	dispatcher *publish.Dispatcher, trendRepo TrendRepository,
	contentRepo ContentRepository, publicationRepo PublicationRepository) *AutomationCycleTask {
	task := NewTask(TaskTypeAutomationCycle, channelKey)
	task.MaxRetries = 0 // a failed cycle is picked up by the next tick

	return &AutomationCycleTask{
		Task:            task,
		ChannelKey:      channelKey,
		collector:       collector,
		generator:       generator,
		injector:        injector,
		dispatcher:      dispatcher,
		trendRepo:       trendRepo,
		contentRepo:     contentRepo,
		publicationRepo: publicationRepo,
	}
}

func (t *AutomationCycleTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	batch := t.collector.Run(ctx)
	if len(batch) == 0 {
		slog.Info("Automation cycle found no trends", "task_id", t.ID)
		return nil
	}
	if err := t.trendRepo.SaveTrends(batch); err != nil {
		return fmt.Errorf("failed to save trends: %w", err)
	}

	grouped := t.generator.RunBatch(ctx, batch, []content.Platform{content.PlatformTelegram})
	items := t.injector.RunBatch(grouped[content.PlatformTelegram])
	if err := t.contentRepo.SaveItems(items); err != nil {
		return fmt.Errorf("failed to save content items: %w", err)
	}

	publications, err := t.dispatcher.RunBatch(ctx, t.ChannelKey, items)
	if err != nil {
		return fmt.Errorf("failed to publish batch: %w", err)
	}
	if err := t.publicationRepo.SavePublications(publications); err != nil {
		return fmt.Errorf("failed to save publications: %w", err)
	}

	slog.Info("Automation cycle completed", "task_id", t.ID, "trends", len(batch),
		"items", len(items), "publications", len(publications),
		"duration", t.GetDuration().String())
	return nil
}

package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"trendcast/app/content"
	"trendcast/app/media"
	"trendcast/app/monetize"
	"trendcast/app/trends"
)

// GenerateContentTask turns a trend batch into monetized content items for
// the requested platforms. For video-capable platforms it fans out one
// RenderVideoTask per item.
type GenerateContentTask struct {
	Task
	Trends      []trends.Trend
	Platforms   []content.Platform
	WithVoice   bool
	generator   *content.Generator
	injector    *monetize.Injector
	contentRepo ContentRepository
	renderer    *media.Renderer
	videoRepo   VideoRepository
	enqueue     func(task TaskInterface) error
}

func NewGenerateContentTask(batch []trends.Trend, platforms []content.Platform,
	withVoice bool, generator *content.Generator,
	injector *monetize.Injector, contentRepo ContentRepository,
	renderer *media.Renderer, videoRepo VideoRepository,
	enqueue func(task TaskInterface) error) *GenerateContentTask {
	return &GenerateContentTask{
		Task:        NewTask(TaskTypeGenerateContent, fmt.Sprintf("%d trends", len(batch))),
		Trends:      batch,
		Platforms:   platforms,
		WithVoice:   withVoice,
		generator:   generator,
		injector:    injector,
		contentRepo: contentRepo,
		renderer:    renderer,
		videoRepo:   videoRepo,
		enqueue:     enqueue,
	}
}

func (t *GenerateContentTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if len(t.Trends) == 0 {
		slog.Info("No trends to generate content for", "task_id", t.ID)
		return nil
	}

	grouped := t.generator.RunBatch(ctx, t.Trends, t.Platforms)

	var items []content.Item
	for _, platform := range content.SupportedPlatforms {
		items = append(items, grouped[platform]...)
	}
	items = t.injector.RunBatch(items)

	if err := t.contentRepo.SaveItems(items); err != nil {
		return fmt.Errorf("failed to save content items: %w", err)
	}

	rendered := 0
	for _, item := range items {
		if !item.Platform.VideoCapable() {
			continue
		}
		renderTask := NewRenderVideoTask(item, t.WithVoice, t.renderer, t.videoRepo)
		if err := t.enqueue(renderTask); err != nil {
			slog.Warn("Failed to enqueue RenderVideoTask", "content_id", item.ID, "error", err)
			continue
		}
		rendered++
	}

	slog.Info("Content batch generated", "task_id", t.ID, "items", len(items),
		"render_tasks", rendered, "duration", t.GetDuration().String())
	return nil
}

package tasks

import (
	"context"
	"fmt"

	"trendcast/app/content"
	"trendcast/app/media"
)

type RenderVideoTask struct {
	Task
	Item      content.Item
	WithVoice bool
	renderer  *media.Renderer
	videoRepo VideoRepository
}

func NewRenderVideoTask(item content.Item, withVoice bool, renderer *media.Renderer, videoRepo VideoRepository) *RenderVideoTask {
	task := NewTask(TaskTypeRenderVideo, string(item.Platform))
	task.MaxRetries = 1 // rendering is expensive, retry once

	return &RenderVideoTask{
		Task:      task,
		Item:      item,
		WithVoice: withVoice,
		renderer:  renderer,
		videoRepo: videoRepo,
	}
}

func (t *RenderVideoTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	video, err := t.renderer.Render(ctx, t.Item, t.WithVoice)
	if err != nil {
		return fmt.Errorf("failed to render video: %w", err)
	}

	if err := t.videoRepo.SaveVideo(video); err != nil {
		return fmt.Errorf("failed to save video record: %w", err)
	}

	return nil
}

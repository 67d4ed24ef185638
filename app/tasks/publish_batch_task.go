package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"trendcast/app/content"
	"trendcast/app/publish"
)

type PublishBatchTask struct {
	Task
	ChannelKey      string
	Items           []content.Item
	dispatcher      *publish.Dispatcher
	publicationRepo PublicationRepository
}

func NewPublishBatchTask(channelKey string, items []content.Item,
	dispatcher *publish.Dispatcher, publicationRepo PublicationRepository) *PublishBatchTask {
	task := NewTask(TaskTypePublishBatch, channelKey)
	task.MaxRetries = 0 // retrying a partially sent batch would duplicate posts

	return &PublishBatchTask{
		Task:            task,
		ChannelKey:      channelKey,
		Items:           items,
		dispatcher:      dispatcher,
		publicationRepo: publicationRepo,
	}
}

func (t *PublishBatchTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if len(t.Items) == 0 {
		slog.Info("No items to publish", "task_id", t.ID, "channel", t.ChannelKey)
		return nil
	}

	publications, err := t.dispatcher.RunBatch(ctx, t.ChannelKey, t.Items)
	if err != nil {
		return fmt.Errorf("failed to publish batch: %w", err)
	}

	if err := t.publicationRepo.SavePublications(publications); err != nil {
		return fmt.Errorf("failed to save publications: %w", err)
	}

	return nil
}

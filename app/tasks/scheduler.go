package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"trendcast/app/cfg"
	"trendcast/app/content"
	"trendcast/app/media"
	"trendcast/app/monetize"
	"trendcast/app/publish"
	"trendcast/app/trends"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	collector       *trends.Collector
	generator       *content.Generator
	injector        *monetize.Injector
	renderer        *media.Renderer
	dispatcher      *publish.Dispatcher
	trendRepo       TrendRepository
	contentRepo     ContentRepository
	videoRepo       VideoRepository
	publicationRepo PublicationRepository
	defaultChannel  string
	interval        time.Duration
	workerCount     int
	ctx             context.Context
	cancel          context.CancelFunc
	wg              sync.WaitGroup
	taskQueue       chan TaskInterface
}

func NewScheduler(collector *trends.Collector, generator *content.Generator,
	injector *monetize.Injector, renderer *media.Renderer, dispatcher *publish.Dispatcher,
	trendRepo TrendRepository, contentRepo ContentRepository,
	videoRepo VideoRepository, publicationRepo PublicationRepository) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		collector:       collector,
		generator:       generator,
		injector:        injector,
		renderer:        renderer,
		dispatcher:      dispatcher,
		trendRepo:       trendRepo,
		contentRepo:     contentRepo,
		videoRepo:       videoRepo,
		publicationRepo: publicationRepo,
		defaultChannel:  cfg.DefaultChannel,
		interval:        time.Duration(cfg.AutomationInterval) * time.Second,
		workerCount:     cfg.WorkerCount,
		ctx:             ctx,
		cancel:          cancel,
		taskQueue:       make(chan TaskInterface, 300),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	if s.interval <= 0 {
		slog.Info("Periodic automation disabled, tasks run on demand only")
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueAutomationCycle()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// NewCycleTask builds an automation cycle task wired with the scheduler's
// collaborators. The HTTP API uses it to trigger a cycle on demand.
func (s *Scheduler) NewCycleTask(channelKey string) TaskInterface {
	if channelKey == "" {
		channelKey = s.defaultChannel
	}
	return NewAutomationCycleTask(channelKey, s.collector, s.generator, s.injector,
		s.dispatcher, s.trendRepo, s.contentRepo, s.publicationRepo)
}

// NewGenerateTask builds a content generation task for a trend batch,
// scoped to the requested platforms (all platforms when empty).
func (s *Scheduler) NewGenerateTask(batch []trends.Trend, platforms []content.Platform, withVoice bool) TaskInterface {
	return NewGenerateContentTask(batch, platforms, withVoice, s.generator, s.injector,
		s.contentRepo, s.renderer, s.videoRepo, s.EnqueueTask)
}

// NewPublishTask builds a publish task for a set of content items.
func (s *Scheduler) NewPublishTask(channelKey string, items []content.Item) TaskInterface {
	if channelKey == "" {
		channelKey = s.defaultChannel
	}
	return NewPublishBatchTask(channelKey, items, s.dispatcher, s.publicationRepo)
}

// NewCollectTask builds a trend collection task.
func (s *Scheduler) NewCollectTask() TaskInterface {
	return NewCollectTrendsTask(s.collector, s.trendRepo)
}

func (s *Scheduler) enqueueAutomationCycle() {
	task := s.NewCycleTask(s.defaultChannel)
	if err := s.EnqueueTask(task); err != nil {
		slog.Warn("Failed to enqueue AutomationCycleTask", "channel", s.defaultChannel, "error", err)
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 10*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID,
			"type", string(task.GetType()), "id", task.GetID(),
			"retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()),
				"subject", task.GetSubject(), "retry_count", task.GetRetryCount(),
				"max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			// Tracked by the WaitGroup so Stop waits for pending retries
			// before closing the queue.
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()

				timer := time.NewTimer(retryDelay)
				defer timer.Stop()

				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry",
						"type", string(task.GetType()), "id", task.GetID())
					return
				case <-timer.C:
				}

				if retryErr := s.EnqueueTask(task); retryErr != nil {
					slog.Error("Failed to re-enqueue task for retry",
						"type", string(task.GetType()), "id", task.GetID(),
						"retry_count", task.GetRetryCount(), "error", retryErr)
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()),
				"id", task.GetID(), "retry_count", task.GetRetryCount(),
				"max_retries", task.GetMaxRetries(), "last_error", err)
		}
		return
	}

	slog.Debug("Worker task completed", "worker_id", workerID,
		"type", string(task.GetType()), "id", task.GetID(),
		"duration", task.GetDuration().String())
}

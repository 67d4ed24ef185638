package tasks

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"trendcast/app/catalog"
	"trendcast/app/content"
	"trendcast/app/media"
	"trendcast/app/monetize"
	"trendcast/app/publish"
	"trendcast/app/trends"
)

func testInjector(t *testing.T) *monetize.Injector {
	t.Helper()
	cat := catalog.NewCatalog("")
	if err := cat.Run(); err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}
	return monetize.NewInjector(cat, rand.New(rand.NewSource(1)))
}

type fakeTrendRepo struct {
	saved []trends.Trend
	err   error
}

func (f *fakeTrendRepo) SaveTrends(batch []trends.Trend) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, batch...)
	return nil
}

func (f *fakeTrendRepo) GetRecentTrends(limit int) ([]trends.Trend, error) {
	return f.saved, nil
}

type fakeContentRepo struct {
	saved []content.Item
}

func (f *fakeContentRepo) SaveItems(items []content.Item) error {
	f.saved = append(f.saved, items...)
	return nil
}

type fakeVideoRepo struct {
	saved []media.Video
}

func (f *fakeVideoRepo) SaveVideo(video media.Video) error {
	f.saved = append(f.saved, video)
	return nil
}

type fakePublicationRepo struct {
	saved []publish.Publication
}

func (f *fakePublicationRepo) SavePublications(publications []publish.Publication) error {
	f.saved = append(f.saved, publications...)
	return nil
}

type fakeSource struct {
	trends []trends.Trend
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Fetch(_ context.Context) ([]trends.Trend, error) {
	return f.trends, nil
}

type staticProvider struct{}

func (staticProvider) Complete(_ context.Context, _ string) (string, error) {
	return "generated text #one #two #three", nil
}

func TestCollectTrendsTaskSavesBatch(t *testing.T) {
	collector := trends.NewCollector([]trends.Source{
		&fakeSource{trends: []trends.Trend{{ID: "t1", Title: "One", Score: 10}}},
	})
	repo := &fakeTrendRepo{}

	task := NewCollectTrendsTask(collector, repo)
	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(repo.saved) != 1 {
		t.Errorf("Expected 1 saved trend, got %d", len(repo.saved))
	}
	if task.GetType() != TaskTypeCollectTrends {
		t.Errorf("Expected type %q, got %q", TaskTypeCollectTrends, task.GetType())
	}
}

func TestCollectTrendsTaskPropagatesSaveError(t *testing.T) {
	collector := trends.NewCollector([]trends.Source{
		&fakeSource{trends: []trends.Trend{{ID: "t1", Title: "One"}}},
	})
	repo := &fakeTrendRepo{err: errors.New("db down")}

	task := NewCollectTrendsTask(collector, repo)
	if err := task.Execute(context.Background()); err == nil {
		t.Error("Expected error when save fails")
	}
}

func TestGenerateContentTaskFansOutRenderTasks(t *testing.T) {
	generator := content.NewGenerator(staticProvider{}, 5, 3)
	contentRepo := &fakeContentRepo{}

	var enqueued []TaskInterface
	enqueue := func(task TaskInterface) error {
		enqueued = append(enqueued, task)
		return nil
	}

	batch := []trends.Trend{{ID: "t1", Title: "Topic", URL: "https://example.com"}}
	task := NewGenerateContentTask(batch, nil, true, generator, testInjector(t), contentRepo,
		media.NewRenderer(t.TempDir(), "en"), &fakeVideoRepo{}, enqueue)

	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(contentRepo.saved) != len(content.SupportedPlatforms) {
		t.Errorf("Expected %d saved items, got %d", len(content.SupportedPlatforms), len(contentRepo.saved))
	}

	videoCapable := 0
	for _, platform := range content.SupportedPlatforms {
		if platform.VideoCapable() {
			videoCapable++
		}
	}
	if len(enqueued) != videoCapable {
		t.Errorf("Expected %d render tasks, got %d", videoCapable, len(enqueued))
	}
	for _, enqueuedTask := range enqueued {
		if enqueuedTask.GetType() != TaskTypeRenderVideo {
			t.Errorf("Expected render task, got %q", enqueuedTask.GetType())
		}
		renderTask, ok := enqueuedTask.(*RenderVideoTask)
		if !ok {
			t.Fatalf("Expected *RenderVideoTask, got %T", enqueuedTask)
		}
		if !renderTask.WithVoice {
			t.Error("Expected render task to carry the narration flag")
		}
	}
}

func TestGenerateContentTaskScopesToRequestedPlatforms(t *testing.T) {
	generator := content.NewGenerator(staticProvider{}, 5, 3)
	contentRepo := &fakeContentRepo{}

	var enqueued []TaskInterface
	enqueue := func(task TaskInterface) error {
		enqueued = append(enqueued, task)
		return nil
	}

	batch := []trends.Trend{{ID: "t1", Title: "Topic", URL: "https://example.com"}}
	task := NewGenerateContentTask(batch, []content.Platform{content.PlatformTelegram}, true,
		generator, testInjector(t), contentRepo,
		media.NewRenderer(t.TempDir(), "en"), &fakeVideoRepo{}, enqueue)

	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(contentRepo.saved) != 1 {
		t.Fatalf("Expected 1 saved item, got %d", len(contentRepo.saved))
	}
	if contentRepo.saved[0].Platform != content.PlatformTelegram {
		t.Errorf("Expected telegram item, got %q", contentRepo.saved[0].Platform)
	}
	if len(enqueued) != 0 {
		t.Errorf("Expected no render tasks for a text-only request, got %d", len(enqueued))
	}
}

type alwaysFailingTask struct {
	Task
}

func (a *alwaysFailingTask) Execute(_ context.Context) error {
	return errors.New("sink unavailable")
}

func TestSchedulerStopWaitsForPendingRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	scheduler := &Scheduler{
		workerCount: 1,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, 10),
	}
	scheduler.Start()

	task := &alwaysFailingTask{Task: NewTask(TaskTypeCollectTrends, "all")}
	if err := scheduler.EnqueueTask(task); err != nil {
		t.Fatalf("Expected enqueue to succeed, got %v", err)
	}

	// Let the worker execute the task and schedule its first retry, then
	// stop while that retry is still sleeping.
	time.Sleep(100 * time.Millisecond)
	scheduler.Stop()

	// A stray retry firing after the queue closed would panic here.
	time.Sleep(1200 * time.Millisecond)
}

func TestPublishBatchTaskDoesNotRetry(t *testing.T) {
	task := NewPublishBatchTask("main", nil, nil, &fakePublicationRepo{})
	if task.CanRetry() {
		t.Error("Expected publish task to never retry")
	}
}

func TestTaskRetryAccounting(t *testing.T) {
	task := NewTask(TaskTypeCollectTrends, "all")

	if !task.CanRetry() {
		t.Error("Expected fresh task to be retryable")
	}
	for i := 0; i < DefaultMaxRetries; i++ {
		task.IncrementRetryCount()
	}
	if task.CanRetry() {
		t.Error("Expected task to stop retrying after max retries")
	}
}

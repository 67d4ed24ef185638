package api

import (
	"context"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"trendcast/app/catalog"
	"trendcast/app/content"
	"trendcast/app/monetize"
	"trendcast/app/publish"
	"trendcast/app/tasks"
	"trendcast/app/trends"
)

type stubTask struct {
	tasks.Task
}

func (s *stubTask) Execute(_ context.Context) error { return nil }

type fakeScheduler struct {
	enqueued      []tasks.TaskInterface
	full          bool
	lastPlatforms []content.Platform
	lastWithVoice bool
}

func (f *fakeScheduler) Start() {}
func (f *fakeScheduler) Stop()  {}

func (f *fakeScheduler) EnqueueTask(task tasks.TaskInterface) error {
	if f.full {
		return context.DeadlineExceeded
	}
	f.enqueued = append(f.enqueued, task)
	return nil
}

func (f *fakeScheduler) NewCollectTask() tasks.TaskInterface {
	return &stubTask{Task: tasks.NewTask(tasks.TaskTypeCollectTrends, "all")}
}

func (f *fakeScheduler) NewGenerateTask(batch []trends.Trend, platforms []content.Platform, withVoice bool) tasks.TaskInterface {
	f.lastPlatforms = platforms
	f.lastWithVoice = withVoice
	return &stubTask{Task: tasks.NewTask(tasks.TaskTypeGenerateContent, "batch")}
}

func (f *fakeScheduler) NewPublishTask(channelKey string, items []content.Item) tasks.TaskInterface {
	return &stubTask{Task: tasks.NewTask(tasks.TaskTypePublishBatch, channelKey)}
}

func (f *fakeScheduler) NewCycleTask(channelKey string) tasks.TaskInterface {
	return &stubTask{Task: tasks.NewTask(tasks.TaskTypeAutomationCycle, channelKey)}
}

type fakeTrendReader struct {
	trends []trends.Trend
}

func (f *fakeTrendReader) GetRecentTrends(limit int) ([]trends.Trend, error) {
	if limit < len(f.trends) {
		return f.trends[:limit], nil
	}
	return f.trends, nil
}

func (f *fakeTrendReader) GetTrendCount() (int, error) { return len(f.trends), nil }

type fakeContentReader struct {
	items map[string]content.Item
}

func (f *fakeContentReader) GetItem(id string) (*content.Item, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (f *fakeContentReader) GetRecentItems(limit int) ([]content.Item, error) {
	var items []content.Item
	for _, item := range f.items {
		items = append(items, item)
	}
	return items, nil
}

func (f *fakeContentReader) GetItemStats() (int, int, int, error) {
	return len(f.items), len(f.items), 0, nil
}

type fakeVideoReader struct{ count int }

func (f *fakeVideoReader) GetVideoCount() (int, error) { return f.count, nil }

type fakePublicationReader struct {
	publications []publish.Publication
}

func (f *fakePublicationReader) GetRecentPublications(limit int) ([]publish.Publication, error) {
	return f.publications, nil
}

func (f *fakePublicationReader) GetPublicationStats() (int, int, int, int, error) {
	return len(f.publications), len(f.publications), 0, 0, nil
}

func testServer(t *testing.T, scheduler tasks.TaskSchedulerInterface) http.Handler {
	t.Helper()

	cat := catalog.NewCatalog("")
	if err := cat.Run(); err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}

	handler := NewHandler(
		&fakeTrendReader{trends: []trends.Trend{{ID: "t1", Title: "First", Score: 90}}},
		&fakeContentReader{items: map[string]content.Item{
			"c1": {ID: "c1", Platform: content.PlatformTelegram, Title: "Post"},
		}},
		&fakeVideoReader{count: 2},
		&fakePublicationReader{},
		monetize.NewInjector(cat, rand.New(rand.NewSource(1))),
		scheduler,
		"test",
	)

	return NewServer(handler, "secret-key")
}

func doRequest(server http.Handler, method, path, body, apiKey string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)
	return recorder
}

func TestGetHealth(t *testing.T) {
	server := testServer(t, &fakeScheduler{})

	recorder := doRequest(server, "GET", "/health", "", "")
	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), `"status":"ok"`) {
		t.Errorf("Expected ok status in response, got %s", recorder.Body.String())
	}
}

func TestGetStats(t *testing.T) {
	server := testServer(t, &fakeScheduler{})

	recorder := doRequest(server, "GET", "/stats", "", "")
	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", recorder.Code)
	}
	body := recorder.Body.String()
	if !strings.Contains(body, `"trends"`) || !strings.Contains(body, `"publications"`) {
		t.Errorf("Expected stats sections, got %s", body)
	}
}

func TestGetTrends(t *testing.T) {
	server := testServer(t, &fakeScheduler{})

	recorder := doRequest(server, "GET", "/trends", "", "")
	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "First") {
		t.Errorf("Expected trend title in response, got %s", recorder.Body.String())
	}
}

func TestAPIRequiresKey(t *testing.T) {
	server := testServer(t, &fakeScheduler{})

	recorder := doRequest(server, "POST", "/api/automation/run", "", "")
	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", recorder.Code)
	}

	recorder = doRequest(server, "POST", "/api/automation/run", "", "wrong-key")
	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 for wrong key, got %d", recorder.Code)
	}
}

func TestRunAutomationEnqueuesCycle(t *testing.T) {
	scheduler := &fakeScheduler{}
	server := testServer(t, scheduler)

	recorder := doRequest(server, "POST", "/api/automation/run", `{"channel":"main"}`, "secret-key")
	if recorder.Code != http.StatusAccepted {
		t.Fatalf("Expected status 202, got %d: %s", recorder.Code, recorder.Body.String())
	}
	if len(scheduler.enqueued) != 1 {
		t.Fatalf("Expected 1 enqueued task, got %d", len(scheduler.enqueued))
	}
	if scheduler.enqueued[0].GetType() != tasks.TaskTypeAutomationCycle {
		t.Errorf("Expected automation cycle task, got %q", scheduler.enqueued[0].GetType())
	}
}

func TestGenerateContentEnqueuesTask(t *testing.T) {
	scheduler := &fakeScheduler{}
	server := testServer(t, scheduler)

	recorder := doRequest(server, "POST", "/api/content/generate", `{"trend_ids":["t1"]}`, "secret-key")
	if recorder.Code != http.StatusAccepted {
		t.Fatalf("Expected status 202, got %d: %s", recorder.Code, recorder.Body.String())
	}
	if len(scheduler.enqueued) != 1 {
		t.Errorf("Expected 1 enqueued task, got %d", len(scheduler.enqueued))
	}
}

func TestGenerateContentPassesPlatformScope(t *testing.T) {
	scheduler := &fakeScheduler{}
	server := testServer(t, scheduler)

	body := `{"trend_ids":["t1"],"platforms":["telegram"],"with_voice":false}`
	recorder := doRequest(server, "POST", "/api/content/generate", body, "secret-key")
	if recorder.Code != http.StatusAccepted {
		t.Fatalf("Expected status 202, got %d: %s", recorder.Code, recorder.Body.String())
	}

	if len(scheduler.lastPlatforms) != 1 || scheduler.lastPlatforms[0] != content.PlatformTelegram {
		t.Errorf("Expected telegram platform scope, got %v", scheduler.lastPlatforms)
	}
	if scheduler.lastWithVoice {
		t.Error("Expected narration disabled when the request turns it off")
	}
}

func TestGenerateContentDefaultsToNarration(t *testing.T) {
	scheduler := &fakeScheduler{}
	server := testServer(t, scheduler)

	recorder := doRequest(server, "POST", "/api/content/generate", `{"trend_ids":["t1"]}`, "secret-key")
	if recorder.Code != http.StatusAccepted {
		t.Fatalf("Expected status 202, got %d: %s", recorder.Code, recorder.Body.String())
	}
	if !scheduler.lastWithVoice {
		t.Error("Expected narration enabled by default")
	}
}

func TestGenerateContentRejectsUnsupportedPlatform(t *testing.T) {
	scheduler := &fakeScheduler{}
	server := testServer(t, scheduler)

	body := `{"trend_ids":["t1"],"platforms":["myspace"]}`
	recorder := doRequest(server, "POST", "/api/content/generate", body, "secret-key")
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", recorder.Code)
	}
	if len(scheduler.enqueued) != 0 {
		t.Errorf("Expected no enqueued task, got %d", len(scheduler.enqueued))
	}
}

func TestGenerateContentUnknownTrend(t *testing.T) {
	server := testServer(t, &fakeScheduler{})

	recorder := doRequest(server, "POST", "/api/content/generate", `{"trend_ids":["nope"]}`, "secret-key")
	if recorder.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", recorder.Code)
	}
}

func TestPublishTelegramUnknownContent(t *testing.T) {
	server := testServer(t, &fakeScheduler{})

	recorder := doRequest(server, "POST", "/api/publish/telegram", `{"content_ids":["missing"]}`, "secret-key")
	if recorder.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", recorder.Code)
	}
}

func TestPublishTelegramEnqueuesTask(t *testing.T) {
	scheduler := &fakeScheduler{}
	server := testServer(t, scheduler)

	recorder := doRequest(server, "POST", "/api/publish/telegram", `{"channel":"main","content_ids":["c1"]}`, "secret-key")
	if recorder.Code != http.StatusAccepted {
		t.Fatalf("Expected status 202, got %d: %s", recorder.Code, recorder.Body.String())
	}
	if len(scheduler.enqueued) != 1 {
		t.Errorf("Expected 1 enqueued task, got %d", len(scheduler.enqueued))
	}
}

func TestQueueFullReturns503(t *testing.T) {
	server := testServer(t, &fakeScheduler{full: true})

	recorder := doRequest(server, "POST", "/api/trends/collect", "", "secret-key")
	if recorder.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", recorder.Code)
	}
}

func TestGetContentByID(t *testing.T) {
	server := testServer(t, &fakeScheduler{})

	recorder := doRequest(server, "GET", "/api/content/c1", "", "secret-key")
	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", recorder.Code)
	}

	recorder = doRequest(server, "GET", "/api/content/unknown", "", "secret-key")
	if recorder.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", recorder.Code)
	}
}

package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"trendcast/app/content"
	"trendcast/app/monetize"
	"trendcast/app/tasks"
	"trendcast/app/trends"
)

const defaultListLimit = 30

func NewHandler(trendRepo TrendReader, contentRepo ContentReader,
	videoRepo VideoReader, publicationRepo PublicationReader,
	injector *monetize.Injector, scheduler tasks.TaskSchedulerInterface,
	version string) *Handler {
	return &Handler{
		trendRepo:       trendRepo,
		contentRepo:     contentRepo,
		videoRepo:       videoRepo,
		publicationRepo: publicationRepo,
		injector:        injector,
		scheduler:       scheduler,
		version:         version,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"version":   h.version,
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	})
}

func (h *Handler) GetStats(c *gin.Context) {
	trendCount, err := h.trendRepo.GetTrendCount()
	if err != nil {
		slog.Error("Database error", "operation", "get_trend_count", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	totalItems, generated, fallback, err := h.contentRepo.GetItemStats()
	if err != nil {
		slog.Error("Database error", "operation", "get_item_stats", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	videoCount, err := h.videoRepo.GetVideoCount()
	if err != nil {
		slog.Error("Database error", "operation", "get_video_count", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	totalPubs, published, demo, failed, err := h.publicationRepo.GetPublicationStats()
	if err != nil {
		slog.Error("Database error", "operation", "get_publication_stats", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trends": gin.H{"total": trendCount},
		"content": gin.H{
			"total":     totalItems,
			"generated": generated,
			"fallback":  fallback,
		},
		"videos": gin.H{"total": videoCount},
		"publications": gin.H{
			"total":          totalPubs,
			"published":      published,
			"demo_published": demo,
			"failed":         failed,
		},
	})
}

func (h *Handler) GetTrends(c *gin.Context) {
	limit := parseLimit(c.Query("limit"))

	recent, err := h.trendRepo.GetRecentTrends(limit)
	if err != nil {
		slog.Error("Database error", "operation", "get_recent_trends", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":  len(recent),
		"trends": recent,
	})
}

func (h *Handler) CollectTrends(c *gin.Context) {
	task := h.scheduler.NewCollectTask()
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Failed to enqueue CollectTrendsTask", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Task queue is full"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Trend collection scheduled",
		"task_id": task.GetID(),
	})
}

func (h *Handler) GenerateContent(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	recent, err := h.trendRepo.GetRecentTrends(limit)
	if err != nil {
		slog.Error("Database error", "operation", "get_recent_trends", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	batch := filterTrends(recent, req.TrendIDs)
	if len(batch) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No matching trends found"})
		return
	}

	platforms := make([]content.Platform, 0, len(req.Platforms))
	for _, tag := range req.Platforms {
		platform := content.Platform(tag)
		if !content.IsSupportedPlatform(platform) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unsupported platform '%s'", tag)})
			return
		}
		platforms = append(platforms, platform)
	}

	withVoice := true
	if req.WithVoice != nil {
		withVoice = *req.WithVoice
	}

	task := h.scheduler.NewGenerateTask(batch, platforms, withVoice)
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Failed to enqueue GenerateContentTask", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Task queue is full"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Content generation scheduled",
		"task_id": task.GetID(),
		"trends":  len(batch),
	})
}

func (h *Handler) GetContent(c *gin.Context) {
	limit := parseLimit(c.Query("limit"))

	items, err := h.contentRepo.GetRecentItems(limit)
	if err != nil {
		slog.Error("Database error", "operation", "get_recent_items", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(items),
		"items": items,
	})
}

func (h *Handler) GetContentByID(c *gin.Context) {
	id := c.Param("id")

	item, err := h.contentRepo.GetItem(id)
	if err != nil {
		slog.Error("Database error", "operation", "get_item", "id", id, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Content item not found"})
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *Handler) PublishTelegram(c *gin.Context) {
	var req publishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content_ids is required"})
		return
	}

	var items []content.Item
	for _, id := range req.ContentIDs {
		item, err := h.contentRepo.GetItem(id)
		if err != nil {
			slog.Error("Database error", "operation", "get_item", "id", id, "error", err)
			c.Status(http.StatusInternalServerError)
			return
		}
		if item == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Content item not found", "id": id})
			return
		}
		items = append(items, *item)
	}

	task := h.scheduler.NewPublishTask(req.Channel, items)
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Failed to enqueue PublishBatchTask", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Task queue is full"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Publication scheduled",
		"task_id": task.GetID(),
		"items":   len(items),
	})
}

func (h *Handler) RunAutomation(c *gin.Context) {
	var req automationRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	task := h.scheduler.NewCycleTask(req.Channel)
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Failed to enqueue AutomationCycleTask", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Task queue is full"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Automation cycle scheduled",
		"task_id": task.GetID(),
	})
}

func (h *Handler) GetDashboard(c *gin.Context) {
	totalPubs, published, demo, failed, err := h.publicationRepo.GetPublicationStats()
	if err != nil {
		slog.Error("Database error", "operation", "get_publication_stats", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	recent, err := h.publicationRepo.GetRecentPublications(defaultListLimit)
	if err != nil {
		slog.Error("Database error", "operation", "get_recent_publications", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	monetization := h.injector.GetStats()

	c.JSON(http.StatusOK, gin.H{
		"publications": gin.H{
			"total":          totalPubs,
			"published":      published,
			"demo_published": demo,
			"failed":         failed,
			"recent":         recent,
		},
		"monetization": monetization,
	})
}

func parseLimit(raw string) int {
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return defaultListLimit
	}
	return limit
}

func filterTrends(recent []trends.Trend, ids []string) []trends.Trend {
	if len(ids) == 0 {
		return recent
	}

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	var batch []trends.Trend
	for _, trend := range recent {
		if wanted[trend.ID] {
			batch = append(batch, trend)
		}
	}
	return batch
}

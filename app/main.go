package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trendcast/app/api"
	"trendcast/app/catalog"
	"trendcast/app/cfg"
	"trendcast/app/content"
	"trendcast/app/database"
	"trendcast/app/llm"
	"trendcast/app/media"
	"trendcast/app/monetize"
	"trendcast/app/publish"
	"trendcast/app/tasks"
	"trendcast/app/trends"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Trendcast server", "version", appCfg.Version)

	db, err := database.NewConnection(
		appCfg.DBHost, appCfg.DBPort, appCfg.DBUser,
		appCfg.DBPassword, appCfg.DBName)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("Connected to database")

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Migrations applied", "version", version, "dirty", dirty)

	offerCatalog := catalog.NewCatalog(appCfg.CatalogFile)
	if err := offerCatalog.Run(); err != nil {
		slog.Error("Failed to load catalog", "error", err)
		os.Exit(1)
	}

	trendRepo := database.NewTrendRepository(db)
	contentRepo := database.NewContentRepository(db)
	videoRepo := database.NewVideoRepository(db)
	publicationRepo := database.NewPublicationRepository(db)

	collector := trends.NewCollector(buildSources(appCfg))

	provider := llm.NewOpenAIProvider(llm.Config{
		APIURL: appCfg.LLMAPIURL,
		APIKey: appCfg.LLMAPIKey,
		Model:  appCfg.LLMModel,
	})
	generator := content.NewGenerator(provider, appCfg.MaxTrends, appCfg.MaxConcurrency)

	injector := monetize.NewInjector(offerCatalog, rand.New(rand.NewSource(time.Now().UnixNano())))
	renderer := media.NewRenderer(appCfg.MediaDir, appCfg.TTSVoice)

	telegramClient := publish.NewTelegramClient(appCfg.TelegramBotToken)
	dispatcher := publish.NewDispatcher(offerCatalog, telegramClient,
		time.Duration(appCfg.PublishDelay)*time.Second)

	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount,
		"automation_interval", appCfg.AutomationInterval)
	scheduler := tasks.NewScheduler(collector, generator, injector, renderer, dispatcher,
		trendRepo, contentRepo, videoRepo, publicationRepo)
	scheduler.Start()
	defer scheduler.Stop()

	apiHandler := api.NewHandler(trendRepo, contentRepo, videoRepo, publicationRepo,
		injector, scheduler, appCfg.Version)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	// Scheduler is stopped via defer
	slog.Info("Shutdown complete")
}

func buildSources(appCfg *cfg.Cfg) []trends.Source {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	var sources []trends.Source

	for _, url := range appCfg.VideoFeeds {
		sources = append(sources, trends.NewFeedSource(trends.SourceVideoFeed, url, "video", httpClient, appCfg.UserAgent))
	}
	for _, url := range appCfg.AggregatorFeeds {
		sources = append(sources, trends.NewFeedSource(trends.SourceAggregator, url, "aggregator", httpClient, appCfg.UserAgent))
	}
	if appCfg.RankedAPIURL != "" {
		sources = append(sources, trends.NewRankedSource(appCfg.RankedAPIURL, appCfg.RankedAPIKey, httpClient, appCfg.UserAgent))
	}

	if len(sources) == 0 {
		slog.Warn("No trend sources configured")
	}
	return sources
}

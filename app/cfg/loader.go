package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Database configuration
	DBHost     string `long:"db-host" env:"DB_HOST" default:"localhost" description:"Database host"`
	DBPort     string `long:"db-port" env:"DB_PORT" default:"5432" description:"Database port"`
	DBUser     string `long:"db-user" env:"DB_USER" default:"trendcast_user" description:"Database user"`
	DBPassword string `long:"db-password" env:"DB_PASSWORD" default:"trendcast_password" description:"Database password (required)" required:"true"`
	DBName     string `long:"db-name" env:"DB_NAME" default:"trendcast" description:"Database name"`

	// Application configuration
	CatalogFile        string `long:"catalog-file" env:"CATALOG_FILE" default:"./catalog.yml" description:"Path to the channel and affiliate offer catalog"`
	Port               string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	WorkerCount        int    `long:"worker-count" env:"WORKER_COUNT" default:"3" description:"Number of background workers for task processing"`
	AutomationInterval int    `long:"automation-interval" env:"AUTOMATION_INTERVAL" default:"0" description:"Automation cycle interval in seconds (0 disables the periodic cycle)"`
	APIAccessKey       string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Content generation
	LLMAPIURL      string `long:"llm-api-url" env:"LLM_API_URL" default:"https://api.openai.com/v1" description:"OpenAI-compatible API base URL for text generation"`
	LLMAPIKey      string `long:"llm-api-key" env:"LLM_API_KEY" description:"API key for the text generation service"`
	LLMModel       string `long:"llm-model" env:"LLM_MODEL" default:"gpt-4o-mini" description:"Model name for text generation"`
	MaxTrends      int    `long:"max-trends" env:"MAX_TRENDS" default:"5" description:"Maximum trends per generation batch"`
	MaxConcurrency int    `long:"max-concurrency" env:"MAX_CONCURRENCY" default:"3" description:"Maximum concurrent text generation calls"`

	// Trend sources
	VideoFeeds      []string `long:"video-feed" env:"VIDEO_FEEDS" env-delim:"," description:"Video platform feed URL (may be repeated)"`
	AggregatorFeeds []string `long:"aggregator-feed" env:"AGGREGATOR_FEEDS" env-delim:"," description:"Link aggregator feed URL (may be repeated)"`
	RankedAPIURL    string   `long:"ranked-api-url" env:"RANKED_API_URL" description:"Ranked videos API endpoint (optional)"`
	RankedAPIKey    string   `long:"ranked-api-key" env:"RANKED_API_KEY" description:"Ranked videos API key"`

	// Publishing
	TelegramBotToken string `long:"telegram-bot-token" env:"TELEGRAM_BOT_TOKEN" description:"Telegram bot token for publishing"`
	DefaultChannel   string `long:"default-channel" env:"DEFAULT_CHANNEL" default:"main" description:"Catalog channel key used by the automation cycle"`
	PublishDelay     int    `long:"publish-delay" env:"PUBLISH_DELAY" default:"10" description:"Delay between publications in seconds"`

	// Media
	MediaDir string `long:"media-dir" env:"MEDIA_DIR" default:"/tmp/trendcast_media" description:"Directory for rendered video artifacts"`
	TTSVoice string `long:"tts-voice" env:"TTS_VOICE" default:"en" description:"Default narration voice language"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Trendcast/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBHost:             raw.DBHost,
		DBPort:             raw.DBPort,
		DBUser:             raw.DBUser,
		DBPassword:         raw.DBPassword,
		DBName:             raw.DBName,
		CatalogFile:        raw.CatalogFile,
		Port:               raw.Port,
		WorkerCount:        raw.WorkerCount,
		AutomationInterval: raw.AutomationInterval,
		APIAccessKey:       raw.APIAccessKey,
		LLMAPIURL:          raw.LLMAPIURL,
		LLMAPIKey:          raw.LLMAPIKey,
		LLMModel:           raw.LLMModel,
		MaxTrends:          raw.MaxTrends,
		MaxConcurrency:     raw.MaxConcurrency,
		VideoFeeds:         raw.VideoFeeds,
		AggregatorFeeds:    raw.AggregatorFeeds,
		RankedAPIURL:       raw.RankedAPIURL,
		RankedAPIKey:       raw.RankedAPIKey,
		TelegramBotToken:   raw.TelegramBotToken,
		DefaultChannel:     raw.DefaultChannel,
		PublishDelay:       raw.PublishDelay,
		MediaDir:           raw.MediaDir,
		TTSVoice:           raw.TTSVoice,
		UserAgent:          raw.UserAgent,
		Timezone:           raw.Timezone,
		Debug:              raw.Debug,
		Version:            GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}

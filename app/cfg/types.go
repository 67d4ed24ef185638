package cfg

type Cfg struct {
	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Application configuration
	CatalogFile        string
	Port               string
	WorkerCount        int
	AutomationInterval int
	APIAccessKey       string

	// Content generation
	LLMAPIURL      string
	LLMAPIKey      string
	LLMModel       string
	MaxTrends      int
	MaxConcurrency int

	// Trend sources
	VideoFeeds      []string
	AggregatorFeeds []string
	RankedAPIURL    string
	RankedAPIKey    string

	// Publishing
	TelegramBotToken string
	DefaultChannel   string
	PublishDelay     int

	// Media
	MediaDir string
	TTSVoice string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}

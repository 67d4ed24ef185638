package catalog

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Offer is an affiliate offer that can be matched against content items.
// Offers must be explicitly activated in the catalog file.
type Offer struct {
	ID             string   `yaml:"id"`
	Name           string   `yaml:"name"`
	Platform       string   `yaml:"platform"`
	BaseURL        string   `yaml:"base_url"`
	CommissionRate float64  `yaml:"commission_rate"`
	Categories     []string `yaml:"categories"`
	Keywords       []string `yaml:"keywords"`
	Active         bool     `yaml:"active"`
}

// Channel is a publishing destination keyed by a symbolic name.
type Channel struct {
	ChatID      string `yaml:"chat_id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type catalogFile struct {
	Channels map[string]Channel `yaml:"channels"`
	Offers   []Offer            `yaml:"offers"`
}

// Catalog holds channels and affiliate offers loaded from a YAML file.
// When no file is configured or it is missing, seed offers are used so the
// pipeline stays functional out of the box.
type Catalog struct {
	path     string
	channels map[string]Channel
	offers   []Offer
	mu       sync.RWMutex
}

func NewCatalog(path string) *Catalog {
	return &Catalog{
		path:     path,
		channels: make(map[string]Channel),
	}
}

func (c *Catalog) Run() error {
	if c.path == "" {
		c.seed()
		return nil
	}

	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		slog.Warn("Catalog file not found, using seed offers", "path", c.path)
		c.seed()
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read catalog file: %w", err)
	}

	var parsed catalogFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("failed to parse catalog file: %w", err)
	}

	if err := validate(&parsed); err != nil {
		return fmt.Errorf("invalid catalog %s: %w", c.path, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.channels = parsed.Channels
	if c.channels == nil {
		c.channels = make(map[string]Channel)
	}
	c.offers = parsed.Offers
	if len(c.offers) == 0 {
		c.offers = seedOffers()
	}

	slog.Info("Catalog loaded", "channels", len(c.channels), "offers", len(c.offers))
	return nil
}

func (c *Catalog) GetChannel(key string) (Channel, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	channel, ok := c.channels[key]
	if !ok {
		return Channel{}, fmt.Errorf("channel with key '%s' not found", key)
	}
	return channel, nil
}

func (c *Catalog) Offers() []Offer {
	c.mu.RLock()
	defer c.mu.RUnlock()

	offers := make([]Offer, len(c.offers))
	copy(offers, c.offers)
	return offers
}

func (c *Catalog) seed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offers = seedOffers()
}

func validate(parsed *catalogFile) error {
	for key, channel := range parsed.Channels {
		if channel.ChatID == "" {
			return fmt.Errorf("channel '%s' has empty chat_id", key)
		}
	}
	seen := make(map[string]bool)
	for _, offer := range parsed.Offers {
		if offer.ID == "" {
			return fmt.Errorf("offer '%s' has empty id", offer.Name)
		}
		if seen[offer.ID] {
			return fmt.Errorf("duplicate offer id '%s'", offer.ID)
		}
		seen[offer.ID] = true
		if offer.BaseURL == "" {
			return fmt.Errorf("offer '%s' has empty base_url", offer.ID)
		}
	}
	return nil
}

func seedOffers() []Offer {
	return []Offer{
		{
			ID:             "amazon_tech",
			Name:           "Amazon Electronics",
			Platform:       "amazon",
			BaseURL:        "https://amazon.com/deals/electronics",
			CommissionRate: 0.04,
			Categories:     []string{"technology", "gadgets"},
			Keywords:       []string{"phone", "laptop", "gadget", "tech", "device"},
			Active:         true,
		},
		{
			ID:             "ali_gadgets",
			Name:           "AliExpress Gadgets",
			Platform:       "aliexpress",
			BaseURL:        "https://aliexpress.com/category/gadgets",
			CommissionRate: 0.07,
			Categories:     []string{"technology", "shopping"},
			Keywords:       []string{"cheap", "deal", "gadget", "accessory"},
			Active:         true,
		},
		{
			ID:             "course_ai",
			Name:           "AI Skills Course",
			Platform:       "education",
			BaseURL:        "https://courses.example.com/ai-basics",
			CommissionRate: 0.30,
			Categories:     []string{"education", "technology"},
			Keywords:       []string{"learn", "course", "ai", "skill", "neural"},
			Active:         true,
		},
		{
			ID:             "vpn_service",
			Name:           "Secure VPN",
			Platform:       "software",
			BaseURL:        "https://vpn.example.com/offer",
			CommissionRate: 0.40,
			Categories:     []string{"software", "privacy"},
			Keywords:       []string{"vpn", "privacy", "secure", "block", "access"},
			Active:         true,
		},
	}
}

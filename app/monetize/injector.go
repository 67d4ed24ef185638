package monetize

import (
	"crypto/md5"
	"fmt"
	"log/slog"
	"math/rand"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"trendcast/app/catalog"
	"trendcast/app/content"
)

const maxLinksPerItem = 2

// ctaLines holds per-platform pools of call-to-action lines appended under
// the links block. One is picked at random per item; platforms without
// their own pool fall back to the telegram lines.
var ctaLines = map[content.Platform][]string{
	content.PlatformTelegram: {
		"👉 Check the links above, some offers are time limited!",
		"💡 Found something useful? The links help support the channel.",
		"🔗 Handpicked deals related to this story:",
		"⚡ Don't miss out, these picks won't last long!",
	},
	content.PlatformTikTok: {
		"🔥 Link in bio for the full deal!",
		"👀 Tap the link before it's gone!",
		"⚡ These picks won't last, grab them now!",
	},
	content.PlatformShortVideo: {
		"📌 Full links in the description below!",
		"👇 Check the description for today's picks!",
		"💡 Everything mentioned is linked below.",
	},
	content.PlatformInstagram: {
		"✨ Link in bio, don't scroll past this one!",
		"📲 Swipe up for the deals from this post!",
		"💫 Tap the bio link for today's finds!",
	},
}

func ctaPool(platform content.Platform) []string {
	if pool, ok := ctaLines[platform]; ok {
		return pool
	}
	return ctaLines[content.PlatformTelegram]
}

// Injector appends affiliate links to content items whose text matches an
// offer. Items without a match pass through untouched. Injection never
// fails a batch: per-item errors are logged and the item is passed on.
type Injector struct {
	catalog *catalog.Catalog
	rng     *rand.Rand
	now     func() time.Time

	mu         sync.Mutex
	stats      Stats
	offerStats map[string]OfferStats
}

// OfferStats tracks engagement for one offer since process start.
type OfferStats struct {
	Clicks      int     `json:"clicks"`
	Conversions int     `json:"conversions"`
	Earnings    float64 `json:"earnings"`
}

// Stats counts monetization activity since process start.
type Stats struct {
	ItemsProcessed int                   `json:"items_processed"`
	LinksInjected  int                   `json:"links_injected"`
	Clicks         int                   `json:"clicks"`
	Conversions    int                   `json:"conversions"`
	Earnings       float64               `json:"earnings"`
	ByOffer        map[string]OfferStats `json:"by_offer"`
}

func NewInjector(cat *catalog.Catalog, rng *rand.Rand) *Injector {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Injector{
		catalog:    cat,
		rng:        rng,
		now:        time.Now,
		offerStats: make(map[string]OfferStats),
	}
}

// RunBatch injects affiliate links into every matching item and returns the
// full batch, matched or not, in the original order.
func (i *Injector) RunBatch(items []content.Item) []content.Item {
	result := make([]content.Item, 0, len(items))
	injected := 0

	for _, item := range items {
		processed, links := i.inject(item)
		result = append(result, processed)
		injected += links
	}

	i.mu.Lock()
	i.stats.ItemsProcessed += len(items)
	i.stats.LinksInjected += injected
	i.mu.Unlock()

	slog.Info("Monetization completed", "items", len(items), "links_injected", injected)
	return result
}

func (i *Injector) inject(item content.Item) (content.Item, int) {
	matched := matchOffers(i.catalog.Offers(), item)
	if len(matched) == 0 {
		return item, 0
	}

	sort.SliceStable(matched, func(a, b int) bool {
		return matched[a].CommissionRate > matched[b].CommissionRate
	})
	if len(matched) > maxLinksPerItem {
		matched = matched[:maxLinksPerItem]
	}

	var block strings.Builder
	block.WriteString("\n\n📌 Useful links:\n")

	for _, offer := range matched {
		tracked, err := i.trackedURL(offer, item.ID)
		if err != nil {
			slog.Warn("Failed to build tracked URL", "offer_id", offer.ID, "content_id", item.ID, "error", err)
			continue
		}
		block.WriteString(fmt.Sprintf("• %s: %s\n", offer.Name, tracked))
		item.AffiliateLinks = append(item.AffiliateLinks, content.AffiliateLinkRef{
			OfferID:        offer.ID,
			Platform:       offer.Platform,
			CommissionRate: offer.CommissionRate,
			TrackedURL:     tracked,
		})
	}

	if len(item.AffiliateLinks) == 0 {
		return item, 0
	}

	pool := ctaPool(item.Platform)
	block.WriteString("\n" + pool[i.rng.Intn(len(pool))])
	item.Body += block.String()

	return item, len(item.AffiliateLinks)
}

// trackedURL appends UTM parameters with a short tracking code derived from
// the offer, the content item and the injection time.
func (i *Injector) trackedURL(offer catalog.Offer, contentID string) (string, error) {
	parsed, err := url.Parse(offer.BaseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse offer URL: %w", err)
	}

	raw := fmt.Sprintf("%s_%s_%d", offer.ID, contentID, i.now().Unix())
	code := fmt.Sprintf("%x", md5.Sum([]byte(raw)))[:8]

	query := parsed.Query()
	query.Set("utm_source", "trendcast")
	query.Set("utm_medium", "social")
	query.Set("utm_campaign", offer.ID)
	query.Set("utm_content", code)
	parsed.RawQuery = query.Encode()

	return parsed.String(), nil
}

// matchOffers returns offers whose keywords or categories appear in the
// item's title, body or keyword list. Matching is case-insensitive.
func matchOffers(offers []catalog.Offer, item content.Item) []catalog.Offer {
	haystack := strings.ToLower(item.Title + " " + item.Body + " " + strings.Join(item.Keywords, " "))
	category := strings.ToLower(item.Metadata["trend_category"])

	var matched []catalog.Offer
	for _, offer := range offers {
		if !offer.Active {
			continue
		}
		if offerMatches(offer, haystack, category) {
			matched = append(matched, offer)
		}
	}
	return matched
}

func offerMatches(offer catalog.Offer, haystack string, category string) bool {
	for _, keyword := range offer.Keywords {
		if strings.Contains(haystack, strings.ToLower(keyword)) {
			return true
		}
	}
	for _, offerCategory := range offer.Categories {
		if category != "" && category == strings.ToLower(offerCategory) {
			return true
		}
	}
	return false
}

func (i *Injector) RecordClick(offerID string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.stats.Clicks++
	offer := i.offerStats[offerID]
	offer.Clicks++
	i.offerStats[offerID] = offer
}

// RecordConversion counts a conversion and accrues its commission amount.
func (i *Injector) RecordConversion(offerID string, amount float64) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.stats.Conversions++
	i.stats.Earnings += amount
	offer := i.offerStats[offerID]
	offer.Conversions++
	offer.Earnings += amount
	i.offerStats[offerID] = offer
}

func (i *Injector) GetStats() Stats {
	i.mu.Lock()
	defer i.mu.Unlock()

	stats := i.stats
	stats.ByOffer = make(map[string]OfferStats, len(i.offerStats))
	for id, offer := range i.offerStats {
		stats.ByOffer[id] = offer
	}
	return stats
}

package content

import (
	"time"
)

// Platform identifies a publishing target with its own template, style
// constraints and default hashtags.
type Platform string

const (
	PlatformTelegram   Platform = "telegram"
	PlatformShortVideo Platform = "youtube_shorts"
	PlatformTikTok     Platform = "tiktok"
	PlatformInstagram  Platform = "instagram"
)

// SupportedPlatforms is the fixed set of valid platform tags.
var SupportedPlatforms = []Platform{
	PlatformTelegram,
	PlatformShortVideo,
	PlatformTikTok,
	PlatformInstagram,
}

func IsSupportedPlatform(p Platform) bool {
	for _, supported := range SupportedPlatforms {
		if p == supported {
			return true
		}
	}
	return false
}

// VideoCapable reports whether rendered video artifacts make sense for the
// platform.
func (p Platform) VideoCapable() bool {
	switch p {
	case PlatformShortVideo, PlatformTikTok, PlatformInstagram:
		return true
	default:
		return false
	}
}

// Item origin markers. Callers must be able to tell a normally generated
// item from one produced by the deterministic fallback path.
const (
	SourceGenerated = "generated"
	SourceFallback  = "fallback"
)

const (
	maxTitleLength = 100
	maxHashtags    = 10
)

// AffiliateLinkRef is structured metadata about an affiliate link injected
// into an item.
type AffiliateLinkRef struct {
	OfferID        string  `json:"offer_id"`
	Platform       string  `json:"platform"`
	CommissionRate float64 `json:"commission_rate"`
	TrackedURL     string  `json:"tracked_url"`
}

type Item struct {
	ID             string
	TrendID        string
	Platform       Platform
	ContentType    string
	Title          string
	Body           string
	Hashtags       []string
	Keywords       []string
	Source         string // generated or fallback
	Metadata       map[string]string
	AffiliateLinks []AffiliateLinkRef
	CreatedAt      time.Time
}

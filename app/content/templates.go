package content

import (
	"fmt"
	"strings"

	"trendcast/app/trends"
)

// contentType maps each platform to the kind of text it gets.
var contentTypes = map[Platform]string{
	PlatformTelegram:   "post",
	PlatformShortVideo: "video_script",
	PlatformTikTok:     "micro_caption",
	PlatformInstagram:  "photo_caption",
}

// promptTemplates drive the language model. Each template receives the
// trend title, its description (or a placeholder), the source URL and the
// keywords joined with commas, in that order.
var promptTemplates = map[Platform]string{
	PlatformTelegram: "Write an engaging Telegram channel post about \"%s\". " +
		"Context: %s. Source: %s. Keywords: %s. " +
		"Keep it under 300 words, use a hook in the first line, " +
		"include 3-5 relevant hashtags at the end.",
	PlatformShortVideo: "Write a script for a 30-second vertical video about \"%s\". " +
		"Context: %s. Source: %s. Keywords: %s. " +
		"Start with a strong hook, keep sentences short and punchy, " +
		"end with a call to subscribe. Include hashtags.",
	PlatformTikTok: "Write a short catchy caption for a TikTok video about \"%s\". " +
		"Context: %s. Source: %s. Keywords: %s. " +
		"Maximum 150 characters of text plus trending hashtags.",
	PlatformInstagram: "Write an Instagram caption about \"%s\". " +
		"Context: %s. Source: %s. Keywords: %s. " +
		"Conversational tone, a question to the audience, " +
		"and a block of hashtags at the end.",
}

const defaultDescription = "a topic currently gaining attention"

// fallbackTemplates produce deterministic text when generation fails.
// Output depends only on the trend title and URL.
var fallbackTemplates = map[Platform]string{
	PlatformTelegram: "🔥 %s\n\nThis topic is gaining traction right now. " +
		"Follow the link to see what everyone is talking about.\n\n%s\n\n#trend #news",
	PlatformShortVideo: "Today everyone is talking about: %s. " +
		"Watch till the end to catch the details. Source: %s\n\n#trend #news",
	PlatformTikTok:    "%s 👀 details at the link: %s #trend #news",
	PlatformInstagram: "%s\n\nWhat do you think about this? Link: %s\n\n#trend #news",
}

// defaultHashtags backfill items whose text carries fewer than
// minHashtags tags.
var defaultHashtags = map[Platform][]string{
	PlatformTelegram:   {"#news", "#trend", "#daily"},
	PlatformShortVideo: {"#shorts", "#viral", "#trending"},
	PlatformTikTok:     {"#fyp", "#viral", "#trending"},
	PlatformInstagram:  {"#explore", "#trending", "#daily"},
}

func buildPrompt(platform Platform, trend trends.Trend) string {
	tmpl, ok := promptTemplates[platform]
	if !ok {
		tmpl = promptTemplates[PlatformTelegram]
	}
	description := trend.Description
	if description == "" {
		description = defaultDescription
	}
	return fmt.Sprintf(tmpl, trend.Title, description, trend.URL, strings.Join(trend.Keywords, ", "))
}

func buildFallback(platform Platform, title string, url string) string {
	tmpl, ok := fallbackTemplates[platform]
	if !ok {
		tmpl = fallbackTemplates[PlatformTelegram]
	}
	return fmt.Sprintf(tmpl, title, url)
}

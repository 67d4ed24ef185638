package content

import (
	"regexp"
	"strings"
)

var hashtagPattern = regexp.MustCompile(`#\w+`)

const minHashtags = 3

// extractHashtags pulls hashtags out of generated text, lowercased and
// deduplicated in order of first appearance. When fewer than minHashtags
// tags are found, platform defaults top the list up. The result never
// exceeds maxHashtags entries.
func extractHashtags(text string, platform Platform) []string {
	seen := make(map[string]bool)
	tags := []string{}

	for _, match := range hashtagPattern.FindAllString(text, -1) {
		tag := strings.ToLower(match)
		if seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}

	if len(tags) < minHashtags {
		for _, tag := range defaultHashtags[platform] {
			lowered := strings.ToLower(tag)
			if seen[lowered] {
				continue
			}
			seen[lowered] = true
			tags = append(tags, lowered)
		}
	}

	if len(tags) > maxHashtags {
		tags = tags[:maxHashtags]
	}
	return tags
}

package media

import (
	"strings"

	"trendcast/app/content"
)

const (
	maxScriptLength   = 200
	maxScriptLines    = 3
	maxScriptHashtags = 3
	maxOverlayLines   = 4
	overlayLineWidth  = 30
)

// BuildScript assembles the on-screen and narration text for an item:
// the title, the first lines of the body and a few hashtags, capped at
// maxScriptLength runes.
func BuildScript(item content.Item) string {
	parts := []string{item.Title}

	lines := 0
	for _, line := range strings.Split(item.Body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "http") {
			continue
		}
		parts = append(parts, line)
		lines++
		if lines >= maxScriptLines {
			break
		}
	}

	tags := item.Hashtags
	if len(tags) > maxScriptHashtags {
		tags = tags[:maxScriptHashtags]
	}
	if len(tags) > 0 {
		parts = append(parts, strings.Join(tags, " "))
	}

	script := strings.Join(parts, ". ")
	runes := []rune(script)
	if len(runes) > maxScriptLength {
		script = string(runes[:maxScriptLength])
	}
	return script
}

// escapeDrawtext escapes characters that break ffmpeg drawtext filter
// arguments.
func escapeDrawtext(text string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		`:`, `\:`,
		`%`, `\%`,
		`,`, `\,`,
	)
	return replacer.Replace(text)
}

// wrapOverlay splits the script into short lines for the video overlay,
// at most maxOverlayLines of them.
func wrapOverlay(script string) []string {
	words := strings.Fields(script)
	var lines []string
	var current []string
	length := 0

	for _, word := range words {
		wordLen := len([]rune(word))
		if length > 0 && length+1+wordLen > overlayLineWidth {
			lines = append(lines, strings.Join(current, " "))
			if len(lines) == maxOverlayLines {
				return lines
			}
			current = current[:0]
			length = 0
		}
		current = append(current, word)
		if length > 0 {
			length++
		}
		length += wordLen
	}
	if len(current) > 0 {
		lines = append(lines, strings.Join(current, " "))
	}
	return lines
}

package content

import (
	"strings"
	"testing"
)

func TestExtractHashtagsLowercasesAndDeduplicates(t *testing.T) {
	text := "Check this out #Viral #viral #VIRAL #News #tech"
	tags := extractHashtags(text, PlatformTelegram)

	expected := []string{"#viral", "#news", "#tech"}
	if len(tags) != len(expected) {
		t.Fatalf("Expected %d tags, got %d: %v", len(expected), len(tags), tags)
	}
	for i, tag := range expected {
		if tags[i] != tag {
			t.Errorf("Expected tag %q at position %d, got %q", tag, i, tags[i])
		}
	}
}

func TestExtractHashtagsBackfillsDefaults(t *testing.T) {
	tags := extractHashtags("no tags here at all", PlatformTikTok)

	if len(tags) < minHashtags {
		t.Errorf("Expected at least %d tags, got %d", minHashtags, len(tags))
	}
	for _, tag := range tags {
		if tag != strings.ToLower(tag) {
			t.Errorf("Expected lowercase tag, got %q", tag)
		}
	}
}

func TestExtractHashtagsBackfillSkipsPresentDefaults(t *testing.T) {
	tags := extractHashtags("already has #fyp in text", PlatformTikTok)

	count := 0
	for _, tag := range tags {
		if tag == "#fyp" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Expected #fyp exactly once, got %d occurrences in %v", count, tags)
	}
}

func TestExtractHashtagsCapsTotal(t *testing.T) {
	var builder strings.Builder
	for i := 0; i < 15; i++ {
		builder.WriteString("#tag")
		builder.WriteByte(byte('a' + i))
		builder.WriteByte(' ')
	}
	tags := extractHashtags(builder.String(), PlatformInstagram)

	if len(tags) != maxHashtags {
		t.Errorf("Expected %d tags, got %d", maxHashtags, len(tags))
	}
}

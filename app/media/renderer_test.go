package media

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"trendcast/app/content"
)

type recordedCall struct {
	name string
	args []string
}

func fakeRunner(calls *[]recordedCall, fail func(name string, args []string) bool) commandRunner {
	return func(_ context.Context, name string, args ...string) error {
		*calls = append(*calls, recordedCall{name: name, args: args})
		if fail != nil && fail(name, args) {
			return errors.New("command failed")
		}
		for i, arg := range args {
			if arg == "-w" && i+1 < len(args) {
				os.WriteFile(args[i+1], []byte("audio"), 0644)
			}
		}
		if len(args) > 0 && strings.HasSuffix(args[len(args)-1], ".mp4") {
			os.WriteFile(args[len(args)-1], []byte("video"), 0644)
		}
		return nil
	}
}

func testItem() content.Item {
	return content.Item{
		ID:       "content-1",
		Platform: content.PlatformTikTok,
		Title:    "Big announcement",
		Body:     "First line of the story.\nSecond line here.\nThird one too.\nFourth is dropped.",
		Hashtags: []string{"#one", "#two", "#three", "#four"},
	}
}

func TestRenderProducesVideo(t *testing.T) {
	var calls []recordedCall
	r := NewRenderer(t.TempDir(), "en")
	r.run = fakeRunner(&calls, nil)

	video, err := r.Render(context.Background(), testItem(), true)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if video.Width != 1080 || video.Height != 1920 {
		t.Errorf("Expected 1080x1920, got %dx%d", video.Width, video.Height)
	}
	if video.Duration != 15 {
		t.Errorf("Expected 15s duration, got %d", video.Duration)
	}
	if video.ContentID != "content-1" {
		t.Errorf("Expected content id 'content-1', got %q", video.ContentID)
	}
	if video.ThumbnailPath == "" {
		t.Error("Expected thumbnail path to be set")
	}
}

func TestRenderFallsBackToSimpleEncode(t *testing.T) {
	var calls []recordedCall
	r := NewRenderer(t.TempDir(), "en")
	r.run = fakeRunner(&calls, func(name string, args []string) bool {
		for _, arg := range args {
			if arg == "-filter_complex" {
				return true
			}
		}
		return false
	})

	if _, err := r.Render(context.Background(), testItem(), true); err != nil {
		t.Fatalf("Expected fallback render to succeed, got %v", err)
	}

	simpleUsed := false
	for _, call := range calls {
		for _, arg := range call.args {
			if arg == "-vf" {
				simpleUsed = true
			}
		}
	}
	if !simpleUsed {
		t.Error("Expected simple render to run after enhanced render failed")
	}
}

func TestRenderSilentTrackWhenTTSFails(t *testing.T) {
	var calls []recordedCall
	r := NewRenderer(t.TempDir(), "en")
	r.run = fakeRunner(&calls, func(name string, args []string) bool {
		return name == "espeak-ng"
	})

	if _, err := r.Render(context.Background(), testItem(), true); err != nil {
		t.Fatalf("Expected render with silent track, got %v", err)
	}

	silent := false
	for _, call := range calls {
		for _, arg := range call.args {
			if strings.HasPrefix(arg, "anullsrc=") {
				silent = true
			}
		}
	}
	if !silent {
		t.Error("Expected silent audio track to be generated")
	}
}

func TestRenderWithoutVoiceSkipsSynthesizer(t *testing.T) {
	var calls []recordedCall
	r := NewRenderer(t.TempDir(), "en")
	r.run = fakeRunner(&calls, nil)

	if _, err := r.Render(context.Background(), testItem(), false); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	silent := false
	for _, call := range calls {
		if call.name == "espeak-ng" {
			t.Error("Expected no speech synthesis when narration is disabled")
		}
		for _, arg := range call.args {
			if strings.HasPrefix(arg, "anullsrc=") {
				silent = true
			}
		}
	}
	if !silent {
		t.Error("Expected silent audio track to be generated")
	}
}

func TestRenderThumbnailFailureIsNotFatal(t *testing.T) {
	var calls []recordedCall
	r := NewRenderer(t.TempDir(), "en")
	r.run = fakeRunner(&calls, func(name string, args []string) bool {
		for _, arg := range args {
			if arg == "-vframes" {
				return true
			}
		}
		return false
	})

	video, err := r.Render(context.Background(), testItem(), true)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if video.ThumbnailPath != "" {
		t.Errorf("Expected empty thumbnail path, got %q", video.ThumbnailPath)
	}
}

func TestRenderRejectsTextOnlyPlatform(t *testing.T) {
	r := NewRenderer(t.TempDir(), "en")

	item := testItem()
	item.Platform = content.PlatformTelegram
	if _, err := r.Render(context.Background(), item, true); err == nil {
		t.Error("Expected error for platform without video profile")
	}
}

func TestBuildScriptCapsLengthAndLines(t *testing.T) {
	item := content.Item{
		Title:    strings.Repeat("long title ", 10),
		Body:     strings.Repeat("line of body text\n", 10),
		Hashtags: []string{"#a", "#b", "#c", "#d", "#e"},
	}

	script := BuildScript(item)
	if got := len([]rune(script)); got > maxScriptLength {
		t.Errorf("Expected script capped at %d runes, got %d", maxScriptLength, got)
	}
}

func TestBuildScriptSkipsLinksAndTagLines(t *testing.T) {
	item := content.Item{
		Title:    "Title",
		Body:     "#onlytags\nhttps://example.com\nReal sentence.",
		Hashtags: []string{"#x"},
	}

	script := BuildScript(item)
	if strings.Contains(script, "example.com") {
		t.Errorf("Expected links excluded from script, got %q", script)
	}
	if !strings.Contains(script, "Real sentence") {
		t.Errorf("Expected body sentence in script, got %q", script)
	}
}

func TestEscapeDrawtext(t *testing.T) {
	escaped := escapeDrawtext("it's 100%: done")
	if strings.Contains(escaped, "'s") && !strings.Contains(escaped, `\'`) {
		t.Errorf("Expected escaped quote, got %q", escaped)
	}
	if !strings.Contains(escaped, `\%`) {
		t.Errorf("Expected escaped percent, got %q", escaped)
	}
	if !strings.Contains(escaped, `\:`) {
		t.Errorf("Expected escaped colon, got %q", escaped)
	}
}

func TestWrapOverlayLimitsLines(t *testing.T) {
	lines := wrapOverlay(strings.Repeat("word ", 60))
	if len(lines) > maxOverlayLines {
		t.Errorf("Expected at most %d lines, got %d", maxOverlayLines, len(lines))
	}
	for _, line := range lines {
		if len([]rune(line)) > overlayLineWidth+10 {
			t.Errorf("Expected short overlay line, got %q", line)
		}
	}
}

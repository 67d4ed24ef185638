package media

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"trendcast/app/content"
)

// commandRunner executes an external tool. Tests replace it to avoid a
// dependency on installed binaries.
type commandRunner func(ctx context.Context, name string, args ...string) error

func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s failed: %w: %s", name, err, truncateOutput(output))
	}
	return nil
}

func truncateOutput(output []byte) string {
	const limit = 300
	if len(output) > limit {
		output = output[len(output)-limit:]
	}
	return string(output)
}

// Renderer produces vertical videos with synthesized narration. The
// enhanced render uses an animated background with fading text; when it
// fails, a plain static render is attempted before giving up.
type Renderer struct {
	mediaDir string
	ttsVoice string
	run      commandRunner
	now      func() time.Time
}

func NewRenderer(mediaDir string, ttsVoice string) *Renderer {
	if ttsVoice == "" {
		ttsVoice = "en"
	}
	return &Renderer{
		mediaDir: mediaDir,
		ttsVoice: ttsVoice,
		run:      runCommand,
		now:      time.Now,
	}
}

// Render builds a video for the item. Platforms without a render profile
// return an error; a missing thumbnail is logged but not fatal. When
// withVoice is false the narration step is skipped and a silent track of
// the profile duration is used instead.
func (r *Renderer) Render(ctx context.Context, item content.Item, withVoice bool) (Video, error) {
	profile, ok := ProfileFor(item.Platform)
	if !ok {
		return Video{}, fmt.Errorf("platform '%s' does not support video", item.Platform)
	}

	if err := os.MkdirAll(r.mediaDir, 0755); err != nil {
		return Video{}, fmt.Errorf("failed to create media dir: %w", err)
	}

	videoID := uuid.NewString()
	script := BuildScript(item)

	audioPath := filepath.Join(r.mediaDir, videoID+".wav")
	if err := r.synthesizeAudio(ctx, script, audioPath, profile, withVoice); err != nil {
		return Video{}, fmt.Errorf("failed to prepare audio track: %w", err)
	}
	defer os.Remove(audioPath)

	videoPath := filepath.Join(r.mediaDir, videoID+".mp4")
	if err := r.renderEnhanced(ctx, script, audioPath, videoPath, profile); err != nil {
		slog.Warn("Enhanced render failed, falling back to simple render",
			"content_id", item.ID, "error", err)
		if err := r.renderSimple(ctx, script, audioPath, videoPath, profile); err != nil {
			return Video{}, fmt.Errorf("failed to render video: %w", err)
		}
	}

	video := Video{
		ID:        videoID,
		ContentID: item.ID,
		Platform:  item.Platform,
		FilePath:  videoPath,
		Duration:  profile.Duration,
		Width:     profile.Width,
		Height:    profile.Height,
		CreatedAt: r.now().UTC(),
	}

	if info, err := os.Stat(videoPath); err == nil {
		video.SizeBytes = info.Size()
	}

	thumbnailPath := filepath.Join(r.mediaDir, videoID+".jpg")
	if err := r.renderThumbnail(ctx, videoPath, thumbnailPath); err != nil {
		slog.Warn("Thumbnail generation failed", "video_id", videoID, "error", err)
	} else {
		video.ThumbnailPath = thumbnailPath
	}

	slog.Info("Video rendered", "video_id", videoID, "content_id", item.ID,
		"platform", item.Platform, "duration", profile.Duration)
	return video, nil
}

// synthesizeAudio narrates the script with espeak-ng. When narration is
// disabled or the synthesizer is unavailable, a silent track of the
// profile duration keeps the render going.
func (r *Renderer) synthesizeAudio(ctx context.Context, script string, audioPath string, profile Profile, withVoice bool) error {
	if withVoice {
		err := r.run(ctx, "espeak-ng", "-v", r.ttsVoice, "-s", "160", "-w", audioPath, script)
		if err == nil {
			return nil
		}
		slog.Warn("Speech synthesis failed, using silent track", "error", err)
	}

	return r.run(ctx, "ffmpeg", "-y",
		"-f", "lavfi",
		"-i", "anullsrc=channel_layout=mono:sample_rate=22050",
		"-t", fmt.Sprintf("%d", profile.Duration),
		audioPath,
	)
}

func (r *Renderer) renderEnhanced(ctx context.Context, script string, audioPath string, videoPath string, profile Profile) error {
	overlay := wrapOverlay(script)

	filter := fmt.Sprintf("gradients=size=%dx%d:speed=0.05:duration=%d",
		profile.Width, profile.Height, profile.Duration)

	lineHeight := 90
	startY := profile.Height/2 - len(overlay)*lineHeight/2
	drawtext := ""
	for i, line := range overlay {
		fadeIn := float64(i) * 0.6
		drawtext += fmt.Sprintf(
			",drawtext=text='%s':fontsize=64:fontcolor=white:borderw=3:bordercolor=black"+
				":x=(w-text_w)/2:y=%d:alpha='if(lt(t,%0.1f),0,min(1,(t-%0.1f)/0.5))'",
			escapeDrawtext(line), startY+i*lineHeight, fadeIn, fadeIn)
	}

	return r.run(ctx, "ffmpeg", "-y",
		"-f", "lavfi", "-i", filter,
		"-i", audioPath,
		"-filter_complex", "[0:v]format=yuv420p"+drawtext+"[v]",
		"-map", "[v]", "-map", "1:a",
		"-t", fmt.Sprintf("%d", profile.Duration),
		"-r", fmt.Sprintf("%d", profile.FPS),
		"-b:v", profile.Bitrate,
		"-c:v", "libx264", "-c:a", "aac",
		"-shortest",
		videoPath,
	)
}

func (r *Renderer) renderSimple(ctx context.Context, script string, audioPath string, videoPath string, profile Profile) error {
	background := fmt.Sprintf("color=c=0x1a1a2e:size=%dx%d:duration=%d",
		profile.Width, profile.Height, profile.Duration)

	drawtext := fmt.Sprintf(
		"drawtext=text='%s':fontsize=56:fontcolor=white:x=(w-text_w)/2:y=(h-text_h)/2",
		escapeDrawtext(script))

	return r.run(ctx, "ffmpeg", "-y",
		"-f", "lavfi", "-i", background,
		"-i", audioPath,
		"-vf", drawtext,
		"-t", fmt.Sprintf("%d", profile.Duration),
		"-r", fmt.Sprintf("%d", profile.FPS),
		"-b:v", profile.Bitrate,
		"-c:v", "libx264", "-c:a", "aac",
		"-shortest",
		videoPath,
	)
}

func (r *Renderer) renderThumbnail(ctx context.Context, videoPath string, thumbnailPath string) error {
	return r.run(ctx, "ffmpeg", "-y",
		"-i", videoPath,
		"-ss", "1",
		"-vframes", "1",
		thumbnailPath,
	)
}

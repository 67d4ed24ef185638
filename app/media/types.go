package media

import (
	"time"

	"trendcast/app/content"
)

// Profile describes the render parameters for one platform.
type Profile struct {
	Width    int
	Height   int
	Duration int // seconds
	Bitrate  string
	FPS      int
}

var profiles = map[content.Platform]Profile{
	content.PlatformTikTok:     {Width: 1080, Height: 1920, Duration: 15, Bitrate: "2M", FPS: 30},
	content.PlatformShortVideo: {Width: 1080, Height: 1920, Duration: 30, Bitrate: "3M", FPS: 30},
	content.PlatformInstagram:  {Width: 1080, Height: 1920, Duration: 15, Bitrate: "2M", FPS: 30},
}

// ProfileFor returns the render profile for a platform. The second return
// value is false for platforms that do not get video artifacts.
func ProfileFor(platform content.Platform) (Profile, bool) {
	profile, ok := profiles[platform]
	return profile, ok
}

// Video is a rendered artifact on disk.
type Video struct {
	ID            string
	ContentID     string
	Platform      content.Platform
	FilePath      string
	ThumbnailPath string
	Duration      int
	Width         int
	Height        int
	SizeBytes     int64
	CreatedAt     time.Time
}

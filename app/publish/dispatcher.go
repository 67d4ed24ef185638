package publish

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"trendcast/app/catalog"
	"trendcast/app/content"
)

// Publication statuses.
const (
	StatusPublished     = "published"
	StatusDemoPublished = "demo_published"
	StatusFailed        = "failed"
)

const demoMessageID = 999999

// Publication records the outcome of one publish attempt.
type Publication struct {
	ID          string
	ContentID   string
	Platform    content.Platform
	Channel     string
	MessageID   int64
	Status      string
	Error       string
	PublishedAt time.Time
}

// Sender delivers a formatted message to a chat.
type Sender interface {
	Configured() bool
	SendMessage(ctx context.Context, chatID string, text string) (int64, error)
}

var _ Sender = (*TelegramClient)(nil)

// ChannelResolver maps a symbolic channel key to a concrete destination.
type ChannelResolver interface {
	GetChannel(key string) (catalog.Channel, error)
}

// Dispatcher publishes a batch of content items to a channel. An unknown
// channel key fails the whole batch; per-item send failures are recorded
// and the batch continues. Without a configured sender the dispatcher
// produces demo records so the rest of the pipeline stays observable.
type Dispatcher struct {
	channels ChannelResolver
	sender   Sender
	delay    time.Duration
	sleep    func(ctx context.Context, d time.Duration)
	now      func() time.Time
}

func NewDispatcher(channels ChannelResolver, sender Sender, delay time.Duration) *Dispatcher {
	return &Dispatcher{
		channels: channels,
		sender:   sender,
		delay:    delay,
		sleep:    sleepContext,
		now:      time.Now,
	}
}

func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// RunBatch publishes items in order with a delay between consecutive
// sends. The delay is skipped after the last item.
func (d *Dispatcher) RunBatch(ctx context.Context, channelKey string, items []content.Item) ([]Publication, error) {
	if !d.sender.Configured() {
		slog.Warn("Publishing in demo mode, no bot token configured", "channel", channelKey)
		return d.demoBatch(channelKey, items), nil
	}

	channel, err := d.channels.GetChannel(channelKey)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve channel: %w", err)
	}

	publications := make([]Publication, 0, len(items))
	published := 0

	for i, item := range items {
		publication := d.publishOne(ctx, channelKey, channel, item)
		publications = append(publications, publication)
		if publication.Status == StatusPublished {
			published++
		}

		if i < len(items)-1 && d.delay > 0 {
			d.sleep(ctx, d.delay)
		}
	}

	slog.Info("Publish batch completed", "channel", channelKey,
		"items", len(items), "published", published)
	return publications, nil
}

func (d *Dispatcher) publishOne(ctx context.Context, channelKey string, channel catalog.Channel, item content.Item) Publication {
	publication := Publication{
		ID:          uuid.NewString(),
		ContentID:   item.ID,
		Platform:    item.Platform,
		Channel:     channelKey,
		PublishedAt: d.now().UTC(),
	}

	messageID, err := d.sender.SendMessage(ctx, channel.ChatID, FormatMessage(item))
	if err != nil {
		// Failures are absorbed as demo records so downstream aggregation
		// always sees one record per input item.
		slog.Error("Failed to publish item, recording demo publication",
			"content_id", item.ID, "channel", channelKey, "error", err)
		publication.Channel = "demo_" + channelKey
		publication.MessageID = demoMessageID
		publication.Status = StatusDemoPublished
		publication.Error = err.Error()
		return publication
	}

	publication.Status = StatusPublished
	publication.MessageID = messageID
	return publication
}

func (d *Dispatcher) demoBatch(channelKey string, items []content.Item) []Publication {
	publications := make([]Publication, 0, len(items))
	for _, item := range items {
		publications = append(publications, Publication{
			ID:          uuid.NewString(),
			ContentID:   item.ID,
			Platform:    item.Platform,
			Channel:     "demo_" + channelKey,
			MessageID:   demoMessageID,
			Status:      StatusDemoPublished,
			PublishedAt: d.now().UTC(),
		})
	}
	return publications
}

// FormatMessage renders an item as a Telegram HTML message: bold title,
// body, a hashtag line and a signature.
func FormatMessage(item content.Item) string {
	var builder strings.Builder

	builder.WriteString("<b>")
	builder.WriteString(html.EscapeString(item.Title))
	builder.WriteString("</b>\n\n")
	builder.WriteString(html.EscapeString(item.Body))

	tags := missingHashtags(item)
	if len(tags) > 0 {
		builder.WriteString("\n\n")
		builder.WriteString(strings.Join(tags, " "))
	}

	if sourceURL := item.Metadata["source_url"]; sourceURL != "" {
		builder.WriteString("\n\n🔗 ")
		builder.WriteString(html.EscapeString(sourceURL))
	}

	builder.WriteString("\n\n<i>via Trendcast</i>")
	return builder.String()
}

// missingHashtags returns the item's hashtags that do not already appear
// in the body text.
func missingHashtags(item content.Item) []string {
	lowered := strings.ToLower(item.Body)
	var missing []string
	for _, tag := range item.Hashtags {
		if !strings.Contains(lowered, strings.ToLower(tag)) {
			missing = append(missing, tag)
		}
	}
	return missing
}

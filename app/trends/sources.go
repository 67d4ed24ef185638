package trends

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"
)

// Source produces a batch of trends from a single upstream. A failing source
// contributes nothing; it never fails the collection as a whole.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]Trend, error)
}

const (
	videoBaseScore      = 50
	videoFreshBonus     = 30
	videoRecentBonus    = 15
	aggregatorBaseScore = 40
	hotWordBonus        = 10
	rankedScoreDivisor  = 1000
)

// hotWords bump an aggregator entry's score when present in its title.
var hotWords = []string{"viral", "trending", "amazing", "incredible", "shocking"}

// FeedSource reads a video-platform or link-aggregator feed over HTTP and
// scores entries by recency or title heuristics.
type FeedSource struct {
	source     string
	url        string
	category   string
	httpClient *http.Client
	parser     *gofeed.Parser
	userAgent  string
	now        func() time.Time
}

func NewFeedSource(source, url, category string, httpClient *http.Client, userAgent string) *FeedSource {
	return &FeedSource{
		source:     source,
		url:        url,
		category:   category,
		httpClient: httpClient,
		parser:     gofeed.NewParser(),
		userAgent:  userAgent,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *FeedSource) Name() string {
	return fmt.Sprintf("%s (%s)", s.source, s.url)
}

func (s *FeedSource) Fetch(ctx context.Context) ([]Trend, error) {
	data, err := s.fetchRaw(ctx)
	if err != nil {
		return nil, err
	}

	parsed, err := s.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	limit := videoFeedEntryLimit
	if s.source == SourceAggregator {
		limit = aggregatorEntryLimit
	}

	now := s.now()
	trends := make([]Trend, 0, limit)
	for _, entry := range parsed.Items {
		if len(trends) == limit {
			break
		}
		trends = append(trends, Trend{
			ID:          uuid.NewString(),
			Title:       entry.Title,
			Source:      s.source,
			URL:         entry.Link,
			Score:       s.scoreEntry(entry, now),
			Keywords:    ExtractKeywords(entry.Title),
			Description: entry.Description,
			Category:    s.category,
			CapturedAt:  now,
		})
	}

	return trends, nil
}

func (s *FeedSource) fetchRaw(ctx context.Context) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

func (s *FeedSource) scoreEntry(entry *gofeed.Item, now time.Time) int {
	if s.source == SourceAggregator {
		score := aggregatorBaseScore
		title := strings.ToLower(entry.Title)
		for _, word := range hotWords {
			if strings.Contains(title, word) {
				score += hotWordBonus
			}
		}
		return score
	}

	score := videoBaseScore
	if entry.PublishedParsed != nil {
		age := now.Sub(*entry.PublishedParsed)
		if age < 24*time.Hour {
			score += videoFreshBonus
		} else if age < 48*time.Hour {
			score += videoRecentBonus
		}
	}
	return score
}

// RankedSource queries a ranked-videos API returning a fixed-size top list.
// Raw view counts are scaled down to keep scores comparable with feed entries.
type RankedSource struct {
	url        string
	apiKey     string
	httpClient *http.Client
	userAgent  string
}

func NewRankedSource(url, apiKey string, httpClient *http.Client, userAgent string) *RankedSource {
	return &RankedSource{
		url:        url,
		apiKey:     apiKey,
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

func (s *RankedSource) Name() string {
	return fmt.Sprintf("%s (%s)", SourceRankedAPI, s.url)
}

type rankedResponse struct {
	Items []struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		URL         string `json:"url"`
		Description string `json:"description"`
		Category    string `json:"category"`
		ViewCount   int64  `json:"view_count"`
	} `json:"items"`
}

func (s *RankedSource) Fetch(ctx context.Context) ([]Trend, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", s.userAgent)
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ranked list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	var payload rankedResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode ranked response: %w", err)
	}

	now := time.Now().UTC()
	trends := make([]Trend, 0, len(payload.Items))
	for _, item := range payload.Items {
		description := item.Description
		if len(description) > 200 {
			description = description[:200]
		}
		trends = append(trends, Trend{
			ID:          uuid.NewString(),
			Title:       item.Title,
			Source:      SourceRankedAPI,
			URL:         item.URL,
			Score:       int(item.ViewCount / rankedScoreDivisor),
			Keywords:    ExtractKeywords(item.Title),
			Description: description,
			Category:    item.Category,
			CapturedAt:  now,
		})
	}

	return trends, nil
}

package recommend

import (
	"context"
	"log/slog"
	"time"

	"github.com/anatolykoptev/go_finguide/internal/engine"
)

const (
	defaultVideoRegion = "in-en"
	defaultVideoLimit  = 6
	videoQuerySuffix   = " tutorial India"
	videoTitleDefault  = "Video"
	videoURLDefault    = "#"
)

// VideoSearcher runs one regional video search.
type VideoSearcher interface {
	SearchVideos(ctx context.Context, query, region string, limit int) ([]engine.VideoResult, error)
}

// VideoSearchFunc adapts a function to VideoSearcher.
type VideoSearchFunc func(ctx context.Context, query, region string, limit int) ([]engine.VideoResult, error)

func (f VideoSearchFunc) SearchVideos(ctx context.Context, query, region string, limit int) ([]engine.VideoResult, error) {
	return f(ctx, query, region, limit)
}

// VideoFetcher turns video search hits into tutorial resources.
type VideoFetcher struct {
	search  VideoSearcher
	timeout time.Duration
}

func NewVideoFetcher(search VideoSearcher, timeout time.Duration) *VideoFetcher {
	if timeout <= 0 {
		timeout = defaultSearchTimeout
	}
	return &VideoFetcher{search: search, timeout: timeout}
}

// FetchVideos searches "<topic> tutorial India" and returns at most limit
// videos. Provider failures yield an empty list.
func (f *VideoFetcher) FetchVideos(ctx context.Context, topic, region string, limit int) (videos []engine.Resource) {
	if region == "" {
		region = defaultVideoRegion
	}
	if limit <= 0 {
		limit = defaultVideoLimit
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Error("video fetch panicked", slog.String("topic", topic), slog.Any("panic", r))
			videos = []engine.Resource{}
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	results, err := f.search.SearchVideos(ctx, topic+videoQuerySuffix, region, limit)
	if err != nil {
		slog.Error("video search failed", slog.String("topic", topic), slog.Any("error", err))
		return []engine.Resource{}
	}

	videos = make([]engine.Resource, 0, min(len(results), limit))
	for _, r := range results {
		if len(videos) >= limit {
			break
		}
		v := engine.Resource{Title: r.Title, URL: r.Content}
		if v.Title == "" {
			v.Title = videoTitleDefault
		}
		if v.URL == "" {
			v.URL = videoURLDefault
		}
		videos = append(videos, v)
	}
	return videos
}

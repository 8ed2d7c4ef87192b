package sources

import (
	"context"
	"log/slog"

	"github.com/anatolykoptev/go_finguide/internal/engine"
)

// SearchVideos runs a video search on the configured backend.
// "youtube" uses the YouTube Data API (or the results page when no key is
// set); anything else uses DuckDuckGo video search through the browser client.
// Errors are returned as engine.ProviderError.
func SearchVideos(ctx context.Context, query, region string, limit int) ([]engine.VideoResult, error) {
	engine.IncrVideoSearch()

	var (
		videos []engine.VideoResult
		err    error
	)
	switch engine.Cfg.VideoBackend {
	case "youtube":
		videos, err = SearchYouTube(ctx, query, region, limit)
	default:
		videos, err = engine.SearchDDGVideos(ctx, engine.Cfg.BrowserClient, query, region, limit)
	}
	if err != nil {
		engine.IncrVideoSearchError()
		slog.Debug("video search failed",
			slog.String("backend", engine.Cfg.VideoBackend), slog.String("query", query), slog.Any("error", err))
		return nil, engine.NewProviderError("video", "search", err)
	}
	return videos, nil
}

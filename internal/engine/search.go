package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
)

var errNoWebBackend = errors.New("no web search backend configured")

// WebSearch runs query against the configured web backends and returns at most
// limit results with unique URLs. Backends are tried in order: SearXNG, then the
// direct DuckDuckGo and Startpage scrapers. Only successful, non-empty result
// lists are cached.
func WebSearch(ctx context.Context, query string, limit int) ([]SearxngResult, error) {
	key := CacheKey("web", query, strconv.Itoa(limit))
	if cached, ok := CacheGetJSON[[]SearxngResult](ctx, key); ok {
		return cached, nil
	}

	if searchLimiter != nil {
		if err := searchLimiter.Wait(ctx); err != nil {
			return nil, NewProviderError("web", "rate limit", err)
		}
	}

	metrics.WebSearches.Add(1)
	results, err := webSearch(ctx, query)
	if err != nil {
		metrics.WebSearchErrors.Add(1)
		return nil, err
	}

	results = DedupByURL(results)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	if len(results) > 0 {
		CacheSetJSON(ctx, key, results)
	}
	return results, nil
}

func webSearch(ctx context.Context, query string) ([]SearxngResult, error) {
	var lastErr error

	if cfg.SearxngURL != "" {
		results, err := SearchSearXNG(ctx, query, "en", "", cfg.SearxngEngines)
		if err == nil && len(results) > 0 {
			return results, nil
		}
		if err != nil {
			slog.Debug("searxng failed", slog.String("query", query), slog.Any("error", err))
			lastErr = err
		}
	}

	if cfg.BrowserClient != nil && cfg.DirectDDG {
		results, err := RetryDo(ctx, SearchRetryConfig, func() ([]SearxngResult, error) {
			return SearchDDGDirect(ctx, cfg.BrowserClient, query, cfg.SearchRegion)
		})
		if err == nil && len(results) > 0 {
			return results, nil
		}
		if err != nil {
			slog.Debug("ddg direct failed", slog.String("query", query), slog.Any("error", err))
			lastErr = err
		}
	}

	if cfg.BrowserClient != nil && cfg.DirectStartpage {
		results, err := SearchStartpageDirect(ctx, cfg.BrowserClient, query, "english")
		if err == nil && len(results) > 0 {
			return results, nil
		}
		if err != nil {
			slog.Debug("startpage direct failed", slog.String("query", query), slog.Any("error", err))
			lastErr = err
		}
	}

	if lastErr != nil {
		return nil, NewProviderError("web", "search", lastErr)
	}
	if cfg.SearxngURL == "" && (cfg.BrowserClient == nil || (!cfg.DirectDDG && !cfg.DirectStartpage)) {
		return nil, NewProviderError("web", "search", errNoWebBackend)
	}
	return nil, nil
}

// SearchSearXNG queries the SearXNG instance and returns raw results.
func SearchSearXNG(ctx context.Context, query, language, timeRange, engines string) ([]SearxngResult, error) {
	u, err := url.Parse(cfg.SearxngURL + "/search")
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("format", "json")
	if language != "" && language != "all" {
		q.Set("language", language)
	}
	if timeRange != "" {
		q.Set("time_range", timeRange)
	}
	if engines != "" {
		q.Set("engines", engines)
	}
	u.RawQuery = q.Encode()

	resp, err := RetryHTTP(ctx, SearchRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", UserAgentBot)
		return cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("searxng status %d: %s", resp.StatusCode, string(body))
	}

	var data searxngResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode searxng: %w", err)
	}
	return data.Results, nil
}

// SiteQuery restricts a web query to one domain.
func SiteQuery(domain, topic string) string {
	return "site:" + domain + " " + topic
}

// DedupByURL drops results with an empty or already-seen URL, keeping order.
func DedupByURL(results []SearxngResult) []SearxngResult {
	seen := make(map[string]bool, len(results))
	out := make([]SearxngResult, 0, len(results))
	for _, r := range results {
		if r.URL == "" || seen[r.URL] {
			continue
		}
		seen[r.URL] = true
		out = append(out, r)
	}
	return out
}

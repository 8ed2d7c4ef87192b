package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go_finguide/internal/engine"
)

// YouTube search: Data API v3 with a results-page scraping fallback.

const (
	ytDataAPIBase       = "https://www.googleapis.com/youtube/v3"
	ytWatchBase         = "https://www.youtube.com/watch?v="
	ytInitialDataMarker = "var ytInitialData = "
	ytSearchFilter      = "EgIQAQ%3D%3D" // videos-only filter param
)

var videoIDRE = regexp.MustCompile(`(?:youtube\.com/watch\?(?:.*&)?v=|youtu\.be/)([a-zA-Z0-9_-]{11})`)

// extractVideoID pulls the 11-char video ID from any YouTube URL format.
func extractVideoID(rawURL string) string {
	m := videoIDRE.FindStringSubmatch(rawURL)
	if len(m) >= 2 {
		return m[1]
	}
	return ""
}

// splitRegion turns a DDG-style locale ("in-en") into a YouTube region code
// and relevance language ("IN", "en").
func splitRegion(region string) (regionCode, lang string) {
	country, language, ok := strings.Cut(strings.ToLower(region), "-")
	if !ok || len(country) != 2 || country == "wt" {
		return "", ""
	}
	return strings.ToUpper(country), language
}

// --- YouTube Data API v3 types ---

type ytDataSearchResp struct {
	Items []ytDataItem `json:"items"`
}

type ytDataItem struct {
	ID      ytDataItemID      `json:"id"`
	Snippet ytDataItemSnippet `json:"snippet"`
}

type ytDataItemID struct {
	VideoID string `json:"videoId"`
}

type ytDataItemSnippet struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	ChannelTitle string `json:"channelTitle"`
}

// --- ytInitialData scraping types ---

type ytRuns struct {
	Runs []struct{ Text string } `json:"runs"`
}

type ytVideoRenderer struct {
	VideoID            string  `json:"videoId"`
	Title              ytRuns  `json:"title"`
	OwnerText          ytRuns  `json:"ownerText"`
	DescriptionSnippet *ytRuns `json:"descriptionSnippet"`
	LengthText         *struct {
		SimpleText string `json:"simpleText"`
	} `json:"lengthText"`
}

// SearchYouTube searches YouTube videos.
// Uses the Data API when a key is configured; otherwise scrapes ytInitialData.
func SearchYouTube(ctx context.Context, query, region string, limit int) ([]engine.VideoResult, error) {
	if limit <= 0 || limit > 25 {
		limit = 6
	}
	if engine.Cfg.YouTubeAPIKey != "" {
		return searchYouTubeDataAPI(ctx, query, region, limit)
	}
	return searchYouTubeInitialData(ctx, query, region, limit)
}

// searchYouTubeDataAPI falls back to the secondary key on any error (quota 403 mostly).
func searchYouTubeDataAPI(ctx context.Context, query, region string, limit int) ([]engine.VideoResult, error) {
	keys := []string{engine.Cfg.YouTubeAPIKey}
	if engine.Cfg.YouTubeAPIKeyFallback != "" {
		keys = append(keys, engine.Cfg.YouTubeAPIKeyFallback)
	}
	var lastErr error
	for _, key := range keys {
		videos, err := doYouTubeDataSearch(ctx, ytDataAPIBase, query, region, limit, key)
		if err == nil {
			return videos, nil
		}
		lastErr = err
		slog.Debug("youtube data API key failed", slog.Any("error", err))
	}
	return nil, lastErr
}

func doYouTubeDataSearch(ctx context.Context, base, query, region string, limit int, apiKey string) ([]engine.VideoResult, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("type", "video")
	params.Set("safeSearch", "moderate")
	params.Set("maxResults", strconv.Itoa(limit))
	params.Set("key", apiKey)
	if code, lang := splitRegion(region); code != "" {
		params.Set("regionCode", code)
		if lang != "" {
			params.Set("relevanceLanguage", lang)
		}
	}

	apiURL := base + "/search?" + params.Encode()
	resp, err := engine.RetryHTTP(ctx, engine.SearchRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentBot)
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("youtube data API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("youtube data API %d: %s", resp.StatusCode, string(body))
	}

	var result ytDataSearchResp
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode youtube data API: %w", err)
	}

	videos := make([]engine.VideoResult, 0, len(result.Items))
	for _, item := range result.Items {
		if item.ID.VideoID == "" {
			continue
		}
		videos = append(videos, engine.VideoResult{
			Title:       engine.CleanHTML(item.Snippet.Title),
			Content:     ytWatchBase + item.ID.VideoID,
			Description: engine.Truncate(item.Snippet.Description, 200),
			Publisher:   item.Snippet.ChannelTitle,
		})
	}
	return videos, nil
}

// searchYouTubeInitialData scrapes the results page by parsing ytInitialData.
func searchYouTubeInitialData(ctx context.Context, query, region string, limit int) ([]engine.VideoResult, error) {
	searchURL := "https://www.youtube.com/results?search_query=" + url.QueryEscape(query) + "&sp=" + ytSearchFilter
	if code, _ := splitRegion(region); code != "" {
		searchURL += "&gl=" + code
	}

	resp, err := engine.RetryHTTP(ctx, engine.SearchRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.RandomUserAgent())
		req.Header.Set("Accept-Language", "en-IN,en;q=0.9")
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("youtube search page: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("read youtube search response: %w", err)
	}
	return parseYouTubeResultsPage(body, limit)
}

func parseYouTubeResultsPage(body []byte, limit int) ([]engine.VideoResult, error) {
	idx := strings.Index(string(body), ytInitialDataMarker)
	if idx < 0 {
		return nil, fmt.Errorf("ytInitialData not found in YouTube search response")
	}
	jsonData := extractJSON(body[idx+len(ytInitialDataMarker):])
	if jsonData == nil {
		return nil, fmt.Errorf("failed to extract ytInitialData JSON")
	}
	return extractVideosFromInitialData(jsonData, limit), nil
}

// extractJSON extracts a complete JSON object starting at b[0] == '{' by tracking brace depth.
func extractJSON(b []byte) []byte {
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	depth := 0
	inStr := false
	escaped := false
	for i, c := range b {
		if inStr {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return b[:i+1]
			}
		}
	}
	return nil
}

func joinRuns(r *ytRuns) string {
	if r == nil {
		return ""
	}
	var sb strings.Builder
	for _, run := range r.Runs {
		sb.WriteString(run.Text)
	}
	return sb.String()
}

// extractVideosFromInitialData walks ytInitialData depth-first for videoRenderer entries.
func extractVideosFromInitialData(data []byte, limit int) []engine.VideoResult {
	var results []engine.VideoResult
	var walk func(v json.RawMessage)
	walk = func(v json.RawMessage) {
		if len(results) >= limit {
			return
		}
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(v, &obj); err == nil {
			if raw, ok := obj["videoRenderer"]; ok {
				var vr ytVideoRenderer
				if err := json.Unmarshal(raw, &vr); err == nil && vr.VideoID != "" {
					video := engine.VideoResult{
						Title:       joinRuns(&vr.Title),
						Content:     ytWatchBase + vr.VideoID,
						Description: engine.Truncate(joinRuns(vr.DescriptionSnippet), 200),
						Publisher:   joinRuns(&vr.OwnerText),
					}
					if vr.LengthText != nil {
						video.Duration = vr.LengthText.SimpleText
					}
					results = append(results, video)
					return
				}
			}
			// Sorted keys keep the walk deterministic; order within arrays is page order.
			for _, key := range slices.Sorted(maps.Keys(obj)) {
				if len(results) >= limit {
					return
				}
				walk(obj[key])
			}
			return
		}
		var arr []json.RawMessage
		if err := json.Unmarshal(v, &arr); err == nil {
			for _, item := range arr {
				if len(results) >= limit {
					return
				}
				walk(item)
			}
		}
	}
	walk(data)
	return results
}

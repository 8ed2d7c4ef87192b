package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
)

const ddgVideoAPI = "https://duckduckgo.com/v.js"

var errNoBrowserClient = errors.New("browser client not initialized")

// SearchDDGVideos runs one regional DuckDuckGo video search.
// region is a DDG locale such as "in-en"; safe search is moderate.
func SearchDDGVideos(ctx context.Context, bc *BrowserClient, query, region string, limit int) ([]VideoResult, error) {
	if bc == nil {
		return nil, errNoBrowserClient
	}
	if region == "" {
		region = "in-en"
	}

	vqd, err := ddgVQD(ctx, bc, query)
	if err != nil {
		return nil, fmt.Errorf("ddg vqd: %w", err)
	}

	params := url.Values{
		"l":   {region},
		"o":   {"json"},
		"q":   {query},
		"vqd": {vqd},
		"f":   {",,,"},
		"p":   {"1"},
	}

	headers := ChromeHeaders()
	headers["referer"] = ddgHome
	headers["accept"] = "application/json, text/javascript, */*; q=0.01"

	data, status, err := browserDo(ctx, bc, "GET", ddgVideoAPI+"?"+params.Encode(), headers, nil)
	if err != nil {
		return nil, err
	}
	if status != 200 {
		return nil, fmt.Errorf("ddg v.js status %d", status)
	}

	videos, err := parseDDGVideos(data)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(videos) > limit {
		videos = videos[:limit]
	}
	slog.Debug("ddg video results", slog.Int("count", len(videos)), slog.String("query", query))
	return videos, nil
}

// parseDDGVideos decodes the v.js payload. Titles may carry HTML markup.
func parseDDGVideos(data []byte) ([]VideoResult, error) {
	var resp ddgVideoResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("ddg video json parse: %w (first 200 bytes: %s)", err, Truncate(strings.TrimSpace(string(data)), 200))
	}
	videos := make([]VideoResult, 0, len(resp.Results))
	for _, v := range resp.Results {
		v.Title = CleanHTML(v.Title)
		v.Description = CleanHTML(v.Description)
		videos = append(videos, v)
	}
	return videos, nil
}

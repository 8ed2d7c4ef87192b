package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// metrics tracks operational counters across the engine.
var metrics struct {
	WebSearches       atomic.Int64
	WebSearchErrors   atomic.Int64
	VideoSearches     atomic.Int64
	VideoSearchErrors atomic.Int64
	FallbackServes    atomic.Int64
	FallbackFills     atomic.Int64
	LLMCalls          atomic.Int64
	LLMErrors         atomic.Int64
	RecommendRequests atomic.Int64
	ExplainRequests   atomic.Int64
}

var metricKeys = []string{
	"recommend_requests", "explain_requests",
	"web_searches", "web_search_errors",
	"video_searches", "video_search_errors",
	"fallback_serves", "fallback_fills",
	"llm_calls", "llm_errors",
	"cache_hits", "cache_misses",
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"recommend_requests":  metrics.RecommendRequests.Load(),
		"explain_requests":    metrics.ExplainRequests.Load(),
		"web_searches":        metrics.WebSearches.Load(),
		"web_search_errors":   metrics.WebSearchErrors.Load(),
		"video_searches":      metrics.VideoSearches.Load(),
		"video_search_errors": metrics.VideoSearchErrors.Load(),
		"fallback_serves":     metrics.FallbackServes.Load(),
		"fallback_fills":      metrics.FallbackFills.Load(),
		"llm_calls":           metrics.LLMCalls.Load(),
		"llm_errors":          metrics.LLMErrors.Load(),
		"cache_hits":          hits,
		"cache_misses":        misses,
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	for _, k := range metricKeys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for the recommend, explain and sources packages.
func IncrRecommendRequests() { metrics.RecommendRequests.Add(1) }
func IncrExplainRequests()   { metrics.ExplainRequests.Add(1) }
func IncrVideoSearch()       { metrics.VideoSearches.Add(1) }
func IncrVideoSearchError()  { metrics.VideoSearchErrors.Add(1) }
func IncrFallbackServe()     { metrics.FallbackServes.Add(1) }
func IncrFallbackFill()      { metrics.FallbackFills.Add(1) }
func IncrLLMCall()           { metrics.LLMCalls.Add(1) }
func IncrLLMError()          { metrics.LLMErrors.Add(1) }

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, threshold time.Duration, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	if elapsed := time.Since(start); elapsed > threshold {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}

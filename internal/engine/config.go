package engine

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	SearxngURL      string
	SearxngEngines  string // comma-separated SearXNG engines, e.g. "google"
	SearchRegion    string // DuckDuckGo kl region, e.g. "in-en"
	SearchTimeout   time.Duration
	VideoTimeout    time.Duration
	SearchRPS       float64 // outbound web search pacing; 0 disables
	VideoBackend    string  // "ddg" (default) or "youtube"
	DirectDDG       bool    // enable DuckDuckGo direct scraper
	DirectStartpage bool    // enable Startpage direct scraper

	YouTubeAPIKey         string
	YouTubeAPIKeyFallback string

	LLMAPIKey          string
	LLMAPIKeyFallbacks []string
	LLMAPIBase         string
	LLMModel           string
	LLMTemperature     float64
	LLMMaxTokens       int
	LLMTimeout         time.Duration
	StripMarkdown      bool

	CacheMaxEntries      int
	CacheCleanupInterval time.Duration

	HTTPClient    *http.Client
	BrowserClient *BrowserClient // nil = direct scrapers disabled
}

var cfg Config

// Cfg exposes the engine configuration for sub-packages (sources).
// Always points to the current cfg value.
var Cfg = &cfg

// searchLimiter paces outbound web searches. nil = unlimited.
var searchLimiter *rate.Limiter

// Init initializes the engine with the given configuration.
func Init(c Config) {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	if c.SearchRegion == "" {
		c.SearchRegion = "in-en"
	}
	cfg = c
	Cfg = &cfg

	searchLimiter = nil
	if c.SearchRPS > 0 {
		searchLimiter = rate.NewLimiter(rate.Limit(c.SearchRPS), 2)
	}
}

// go_finguide: explanations and learning resources for Indian personal-finance
// and government-process topics.
//
// Serves a REST API (PORT) and an MCP server (MCP_PORT) over the same pipeline.
// `go_finguide check-links` probes every curated fallback URL instead.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/anatolykoptev/go-stealth/proxypool"
	"github.com/anatolykoptev/go_finguide/internal/engine"
	"github.com/anatolykoptev/go_finguide/internal/engine/sources"
	"github.com/anatolykoptev/go_finguide/internal/explain"
	"github.com/anatolykoptev/go_finguide/internal/httpapi"
	"github.com/anatolykoptev/go_finguide/internal/linkcheck"
	"github.com/anatolykoptev/go_finguide/internal/recommend"
	"github.com/anatolykoptev/go_finguide/internal/toolserver"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var version = "dev"

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}
	initLogger(env.Str("LOG_LEVEL", "info"))

	if len(os.Args) > 1 && os.Args[1] == "check-links" {
		os.Exit(runCheckLinks())
	}

	c := loadConfig()
	initBrowserClient(&c)
	engine.Init(c)
	engine.InitCache(env.Str("REDIS_URL", ""), env.Duration("CACHE_TTL", 15*time.Minute), c.CacheMaxEntries, c.CacheCleanupInterval)

	complete, err := engine.NewLLMClient(c)
	if err != nil {
		slog.Error("llm client init failed", slog.Any("error", err))
		os.Exit(1)
	}
	exp, err := explain.New(complete, explain.Options{Model: c.LLMModel, StripMarkdown: c.StripMarkdown})
	if err != nil {
		slog.Error("explainer init failed", slog.Any("error", err))
		os.Exit(1)
	}

	rec := recommend.New(
		recommend.WebSearchFunc(engine.WebSearch),
		recommend.VideoSearchFunc(sources.SearchVideos),
		recommend.Options{
			SearchTimeout: c.SearchTimeout,
			VideoTimeout:  c.VideoTimeout,
			Region:        c.SearchRegion,
		},
	)

	port := env.Str("PORT", "5001")
	mcpPort := env.Str("MCP_PORT", "8892")

	if env.Str("GIN_MODE", "") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := httpapi.NewServer(":"+port, rec, exp)
	go func() {
		slog.Info("starting REST API", slog.String("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("REST server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_finguide",
		Version: version,
	}, nil)
	toolserver.RegisterTools(server, rec, exp)
	slog.Info("starting go_finguide", slog.String("mcp_port", mcpPort), slog.Int("tools", 3))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_finguide",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 120 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Warn("REST shutdown", slog.Any("error", err))
	}
}

func initLogger(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

func loadConfig() engine.Config {
	llmKey := env.Str("GEMINI_API_KEY", "")
	if llmKey == "" {
		llmKey = env.Str("LLM_API_KEY", "")
	}
	return engine.Config{
		SearxngURL:            env.Str("SEARXNG_URL", ""),
		SearxngEngines:        env.Str("SEARXNG_ENGINES", "google"),
		SearchRegion:          env.Str("SEARCH_REGION", "in-en"),
		SearchTimeout:         env.Duration("SEARCH_TIMEOUT", 8*time.Second),
		VideoTimeout:          env.Duration("VIDEO_TIMEOUT", 8*time.Second),
		SearchRPS:             env.Float("SEARCH_RPS", 1),
		VideoBackend:          strings.ToLower(env.Str("VIDEO_BACKEND", "ddg")),
		DirectDDG:             envBool("DIRECT_DDG", true),
		DirectStartpage:       envBool("DIRECT_STARTPAGE", false),
		YouTubeAPIKey:         env.Str("YOUTUBE_API_KEY", ""),
		YouTubeAPIKeyFallback: env.Str("YOUTUBE_API_KEY_FALLBACK", ""),
		LLMAPIKey:             llmKey,
		LLMAPIKeyFallbacks:    env.List("LLM_API_KEY_FALLBACKS", ""),
		LLMAPIBase:            env.Str("LLM_API_BASE", "https://generativelanguage.googleapis.com/v1beta/openai"),
		LLMModel:              env.Str("LLM_MODEL", "gemini-3-flash-preview"),
		LLMTemperature:        env.Float("LLM_TEMPERATURE", 0.7),
		LLMMaxTokens:          env.Int("LLM_MAX_TOKENS", 4096),
		LLMTimeout:            env.Duration("LLM_TIMEOUT", 60*time.Second),
		StripMarkdown:         envBool("STRIP_MARKDOWN", true),
		CacheMaxEntries:       env.Int("CACHE_MAX_ENTRIES", 1000),
		CacheCleanupInterval:  env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}
}

// initBrowserClient attaches the stealth client used by the DuckDuckGo and
// Startpage scrapers, behind a Webshare proxy pool when configured.
func initBrowserClient(c *engine.Config) {
	opts := []stealth.ClientOption{stealth.WithTimeout(15)}

	if apiKey := env.Str("WEBSHARE_API_KEY", ""); apiKey != "" {
		pool, err := proxypool.NewWebshare(apiKey)
		if err != nil {
			slog.Warn("proxy pool init failed, running without proxy", slog.Any("error", err))
		} else {
			opts = append(opts, stealth.WithProxyPool(pool))
			slog.Info("proxy pool initialized", slog.Int("proxies", pool.Len()))
		}
	}

	bc, err := stealth.NewClient(opts...)
	if err != nil {
		slog.Error("stealth client init failed", slog.Any("error", err))
		return
	}
	c.BrowserClient = bc
	slog.Info("stealth browser client initialized")
}

func runCheckLinks() int {
	urls := recommend.FallbackURLs()
	fmt.Printf("Checking %d fallback links...\n", len(urls))

	checker := linkcheck.New(linkcheck.WithConcurrency(env.Int("LINKCHECK_CONCURRENCY", 4)))
	results := checker.CheckAll(context.Background(), urls)
	if failed := linkcheck.Report(os.Stdout, results); failed > 0 {
		fmt.Printf("%d of %d links failed\n", failed, len(urls))
		return 1
	}
	return 0
}

func envBool(key string, def bool) bool {
	v, err := strconv.ParseBool(env.Str(key, strconv.FormatBool(def)))
	if err != nil {
		return def
	}
	return v
}

package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/anatolykoptev/go_finguide/internal/engine"
)

// TrustedDomains are searched in order; the order is also output order.
var TrustedDomains = []string{
	"cleartax.in",
	"bankbazaar.com",
	"groww.in",
	"paisabazaar.com",
	"economictimes.indiatimes.com",
}

const (
	defaultArticleTarget = 5
	resultsPerDomain     = 2
	defaultSearchTimeout = 8 * time.Second
)

// WebSearcher runs a web query and returns up to limit hits.
type WebSearcher interface {
	SearchWeb(ctx context.Context, query string, limit int) ([]engine.SearxngResult, error)
}

// WebSearchFunc adapts a function to WebSearcher.
type WebSearchFunc func(ctx context.Context, query string, limit int) ([]engine.SearxngResult, error)

func (f WebSearchFunc) SearchWeb(ctx context.Context, query string, limit int) ([]engine.SearxngResult, error) {
	return f(ctx, query, limit)
}

// ArticleAggregator collects article links from the trusted domains and tops
// them up from the curated fallback table.
type ArticleAggregator struct {
	search  WebSearcher
	timeout time.Duration
	domains []string
}

// NewArticleAggregator returns an aggregator bounding each domain search by timeout.
func NewArticleAggregator(search WebSearcher, timeout time.Duration) *ArticleAggregator {
	if timeout <= 0 {
		timeout = defaultSearchTimeout
	}
	return &ArticleAggregator{search: search, timeout: timeout, domains: TrustedDomains}
}

// FetchArticles returns at most target articles (5 when target <= 0) with
// unique URLs. It never fails: when searching yields nothing the curated list
// for the topic is returned.
func (a *ArticleAggregator) FetchArticles(ctx context.Context, topic string, target int) (articles []engine.Resource) {
	if target <= 0 {
		target = defaultArticleTarget
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Error("article aggregation panicked", slog.String("topic", topic), slog.Any("panic", r))
			engine.IncrFallbackServe()
			articles = Lookup(topic)
		}
	}()

	articles = a.searchDomains(ctx, topic, target)
	if len(articles) == 0 {
		engine.IncrFallbackServe()
		return Lookup(topic)
	}
	return fillFromFallback(articles, Lookup(topic), target)
}

func (a *ArticleAggregator) searchDomains(ctx context.Context, topic string, target int) []engine.Resource {
	var articles []engine.Resource
	seen := make(map[string]bool)

	for _, domain := range a.domains {
		if len(articles) >= target {
			break
		}
		urls, err := a.searchDomain(ctx, domain, topic)
		if err != nil {
			slog.Warn("article search failed",
				slog.String("domain", domain), slog.String("topic", topic), slog.Any("error", err))
			continue
		}
		for i, u := range urls {
			if len(articles) >= target {
				break
			}
			if seen[u] {
				continue
			}
			seen[u] = true
			articles = append(articles, engine.Resource{Title: articleTitle(domain, topic, i == 1), URL: u})
		}
	}
	return articles
}

// searchDomain returns the absolute http(s) URLs of one site-restricted search,
// in provider order. Index 1 of the result is the domain's second hit.
func (a *ArticleAggregator) searchDomain(ctx context.Context, domain, topic string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	results, err := a.search.SearchWeb(ctx, engine.SiteQuery(domain, topic), resultsPerDomain)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("search %s: %w", domain, err)
	}

	urls := make([]string, 0, resultsPerDomain)
	for _, r := range results {
		if len(urls) >= resultsPerDomain {
			break
		}
		if !isAbsoluteURL(r.URL) {
			continue
		}
		urls = append(urls, r.URL)
	}
	return urls, nil
}

// fillFromFallback appends fallback records until target, skipping any whose
// URL is contained in an already-present URL.
func fillFromFallback(articles, fallback []engine.Resource, target int) []engine.Resource {
	for _, fb := range fallback {
		if len(articles) >= target {
			break
		}
		if containedIn(fb.URL, articles) {
			continue
		}
		articles = append(articles, fb)
		engine.IncrFallbackFill()
	}
	return articles
}

func containedIn(u string, articles []engine.Resource) bool {
	for _, a := range articles {
		if strings.Contains(a.URL, u) {
			return true
		}
	}
	return false
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

package recommend

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/anatolykoptev/go_finguide/internal/engine"
)

var errOffline = errors.New("network unreachable")

// fakeWeb answers site-restricted queries from a per-domain URL table.
type fakeWeb struct {
	mu      sync.Mutex
	byHost  map[string][]string
	fail    map[string]bool
	failAll bool
	panics  bool
	queries []string
	limits  []int
}

func (f *fakeWeb) SearchWeb(_ context.Context, query string, limit int) ([]engine.SearxngResult, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.limits = append(f.limits, limit)
	f.mu.Unlock()

	if f.panics {
		panic("search backend exploded")
	}
	if f.failAll {
		return nil, engine.NewProviderError("web", "search", errOffline)
	}
	domain := strings.TrimPrefix(strings.Fields(query)[0], "site:")
	if f.fail[domain] {
		return nil, engine.NewProviderError("web", "search", errOffline)
	}
	var out []engine.SearxngResult
	for _, u := range f.byHost[domain] {
		out = append(out, engine.SearxngResult{Title: "t", URL: u})
	}
	return out, nil
}

// blockingWeb waits for the context to expire.
type blockingWeb struct{}

func (blockingWeb) SearchWeb(ctx context.Context, _ string, _ int) ([]engine.SearxngResult, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type fakeVideo struct {
	results []engine.VideoResult
	err     error
	panics  bool
	query   string
	region  string
	limit   int
}

func (f *fakeVideo) SearchVideos(_ context.Context, query, region string, limit int) ([]engine.VideoResult, error) {
	f.query, f.region, f.limit = query, region, limit
	if f.panics {
		panic("video backend exploded")
	}
	return f.results, f.err
}

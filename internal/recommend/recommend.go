package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/anatolykoptev/go_finguide/internal/engine"
)

// Recommendation is the combined article and video list for a topic.
type Recommendation struct {
	Articles []engine.Resource `json:"articles"`
	Videos   []engine.Resource `json:"videos"`
}

// Options tunes a Recommender. Zero values select the defaults.
type Options struct {
	SearchTimeout time.Duration // per domain search, default 8s
	VideoTimeout  time.Duration // default 8s
	Region        string        // video region, default "in-en"
	ArticleTarget int           // default 5
	VideoLimit    int           // default 6
}

// Recommender combines trusted-domain articles with tutorial videos.
type Recommender struct {
	articles *ArticleAggregator
	videos   *VideoFetcher
	opts     Options
}

func New(web WebSearcher, video VideoSearcher, opts Options) *Recommender {
	return &Recommender{
		articles: NewArticleAggregator(web, opts.SearchTimeout),
		videos:   NewVideoFetcher(video, opts.VideoTimeout),
		opts:     opts,
	}
}

// Recommend returns articles and videos for topic. Search failures degrade
// to curated articles and an empty video list; the only error is a blank topic.
func (r *Recommender) Recommend(ctx context.Context, topic string) (Recommendation, error) {
	return r.RecommendRegion(ctx, topic, "")
}

// RecommendRegion is Recommend with a per-call video region; "" uses the
// configured default.
func (r *Recommender) RecommendRegion(ctx context.Context, topic, region string) (Recommendation, error) {
	if region == "" {
		region = r.opts.Region
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return Recommendation{}, fmt.Errorf("topic is required: %w", engine.ErrInvalidInput)
	}
	engine.IncrRecommendRequests()
	start := time.Now()

	var (
		rec Recommendation
		wg  sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		rec.Articles = r.articles.FetchArticles(ctx, topic, r.opts.ArticleTarget)
	}()
	go func() {
		defer wg.Done()
		rec.Videos = r.videos.FetchVideos(ctx, topic, region, r.opts.VideoLimit)
	}()
	wg.Wait()

	if rec.Articles == nil {
		rec.Articles = []engine.Resource{}
	}
	if rec.Videos == nil {
		rec.Videos = []engine.Resource{}
	}

	slog.Info("recommendation built",
		slog.String("topic", engine.TruncateRunes(topic, 80, "...")),
		slog.String("rule", MatchRule(topic)),
		slog.String("region", region),
		slog.Int("articles", len(rec.Articles)),
		slog.Int("videos", len(rec.Videos)),
		slog.Duration("elapsed", time.Since(start)))
	return rec, nil
}

package toolserver

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/anatolykoptev/go_finguide/internal/engine"
	"github.com/anatolykoptev/go_finguide/internal/recommend"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRecommender struct {
	topic, region string
}

func (s *stubRecommender) RecommendRegion(_ context.Context, topic, region string) (recommend.Recommendation, error) {
	s.topic, s.region = topic, region
	return recommend.Recommendation{
		Articles: recommend.Lookup(topic),
		Videos:   []engine.Resource{{Title: "Video", URL: "#"}},
	}, nil
}

type stubExplainer struct {
	err error
}

func (s *stubExplainer) Explain(_ context.Context, topic, detail string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "A " + topic + " explanation. " + detail, nil
}

func (s *stubExplainer) SuggestResources(_ context.Context, topic string) (engine.Suggestions, error) {
	if s.err != nil {
		return engine.Suggestions{}, s.err
	}
	return engine.Suggestions{
		Articles: []engine.Resource{{Title: topic, URL: "https://www.google.com/search?q=" + topic}},
		Videos:   []engine.Resource{},
	}, nil
}

func connect(t *testing.T, rec Recommender, exp Explainer) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	server := mcp.NewServer(&mcp.Implementation{Name: "go_finguide", Version: "test"}, nil)
	RegisterTools(server, rec, exp)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func decode[T any](t *testing.T, res *mcp.CallToolResult) T {
	t.Helper()
	data, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestListTools(t *testing.T) {
	cs := connect(t, &stubRecommender{}, &stubExplainer{})
	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"recommend_resources", "explain_topic", "suggest_resources"}, names)
}

func TestRecommendResourcesTool(t *testing.T) {
	rec := &stubRecommender{}
	cs := connect(t, rec, &stubExplainer{})

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "recommend_resources",
		Arguments: map[string]any{"topic": "  Voter ID registration "},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	out := decode[recommend.Recommendation](t, res)
	assert.Equal(t, recommend.Lookup("Voter ID registration"), out.Articles)
	assert.Equal(t, "Voter ID registration", rec.topic)
	assert.Equal(t, "in-en", rec.region)
}

func TestRecommendResourcesRecoversAfterOutage(t *testing.T) {
	engine.InitCache("", time.Minute, 100, time.Minute)

	var down atomic.Bool
	down.Store(true)
	web := recommend.WebSearchFunc(func(_ context.Context, query string, _ int) ([]engine.SearxngResult, error) {
		if down.Load() {
			return nil, errors.New("search offline")
		}
		if strings.Contains(query, "site:cleartax.in") {
			return []engine.SearxngResult{{URL: "https://cleartax.in/s/pan-card-apply"}}, nil
		}
		return nil, nil
	})
	video := recommend.VideoSearchFunc(func(context.Context, string, string, int) ([]engine.VideoResult, error) {
		return nil, nil
	})
	rec := recommend.New(web, video, recommend.Options{SearchTimeout: time.Second, VideoTimeout: time.Second})
	cs := connect(t, rec, &stubExplainer{})

	call := func() recommend.Recommendation {
		res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
			Name:      "recommend_resources",
			Arguments: map[string]any{"topic": "PAN card"},
		})
		require.NoError(t, err)
		require.False(t, res.IsError)
		return decode[recommend.Recommendation](t, res)
	}

	assert.Equal(t, recommend.Lookup("PAN card"), call().Articles)

	down.Store(false)
	live := call()
	require.NotEmpty(t, live.Articles)
	assert.Equal(t, "https://cleartax.in/s/pan-card-apply", live.Articles[0].URL)
}

func TestRecommendResourcesBlankTopic(t *testing.T) {
	cs := connect(t, &stubRecommender{}, &stubExplainer{})
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "recommend_resources",
		Arguments: map[string]any{"topic": "   "},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestExplainTopicTool(t *testing.T) {
	cs := connect(t, &stubRecommender{}, &stubExplainer{})
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "explain_topic",
		Arguments: map[string]any{"topic": "SIP", "context": "Step 2"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	out := decode[engine.ExplainOutput](t, res)
	assert.Equal(t, "SIP", out.Topic)
	assert.Equal(t, "A SIP explanation. Step 2", out.Explanation)
}

func TestExplainTopicProviderError(t *testing.T) {
	exp := &stubExplainer{err: engine.NewProviderError("llm", "complete", errors.New("quota exceeded"))}
	cs := connect(t, &stubRecommender{}, exp)
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "explain_topic",
		Arguments: map[string]any{"topic": "SIP"},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestSuggestResourcesTool(t *testing.T) {
	cs := connect(t, &stubRecommender{}, &stubExplainer{})
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "suggest_resources",
		Arguments: map[string]any{"topic": "PPF"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	out := decode[engine.Suggestions](t, res)
	require.Len(t, out.Articles, 1)
	assert.Equal(t, "https://www.google.com/search?q=PPF", out.Articles[0].URL)
}

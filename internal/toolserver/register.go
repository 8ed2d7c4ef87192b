// Package toolserver exposes the recommendation and explanation pipeline as MCP tools.
package toolserver

import (
	"context"
	"log/slog"

	"github.com/anatolykoptev/go_finguide/internal/engine"
	"github.com/anatolykoptev/go_finguide/internal/recommend"
	"github.com/anatolykoptev/go_finguide/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Recommender builds article and video recommendations.
type Recommender interface {
	RecommendRegion(ctx context.Context, topic, region string) (recommend.Recommendation, error)
}

// Explainer produces LLM explanations and search-link suggestions.
type Explainer interface {
	Explain(ctx context.Context, topic, detail string) (string, error)
	SuggestResources(ctx context.Context, topic string) (engine.Suggestions, error)
}

// RegisterTools registers recommend_resources, explain_topic and
// suggest_resources on the given MCP server.
func RegisterTools(server *mcp.Server, rec Recommender, exp Explainer) {
	registerRecommendResources(server, rec)
	registerExplainTopic(server, exp)
	registerSuggestResources(server, exp)
}

func registerRecommendResources(server *mcp.Server, rec Recommender) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "recommend_resources",
		Description: "Recommend learning resources for an Indian personal-finance or government-process topic (PAN, Aadhaar, passport, income tax, loans, mutual funds). Returns up to 5 articles from trusted sites (ClearTax, BankBazaar, Groww, Paisabazaar, Economic Times), topped up from a curated list, plus up to 6 tutorial videos.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.RecommendInput) (*mcp.CallToolResult, recommend.Recommendation, error) {
		topic, err := toolutil.RequireTopic(input.Topic)
		if err != nil {
			return nil, recommend.Recommendation{}, err
		}
		region := toolutil.NormRegion(input.Region)

		// Not cached here: the output may be fallback-only during an outage.
		// Live search hits are cached one layer down by engine.WebSearch.
		out, err := rec.RecommendRegion(ctx, topic, region)
		if err != nil {
			return nil, recommend.Recommendation{}, err
		}
		return nil, out, nil
	})
}

func registerExplainTopic(server *mcp.Server, exp Explainer) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "explain_topic",
		Description: "Explain a financial concept or government application process in plain language for a beginner. Optional context narrows the explanation, e.g. the current step of a workflow.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.ExplainInput) (*mcp.CallToolResult, engine.ExplainOutput, error) {
		topic, err := toolutil.RequireTopic(input.Topic)
		if err != nil {
			return nil, engine.ExplainOutput{}, err
		}
		text, err := exp.Explain(ctx, topic, input.Context)
		if err != nil {
			slog.Warn("explain_topic failed", slog.String("topic", toolutil.LogTopic(topic)), slog.Any("error", err))
			return nil, engine.ExplainOutput{}, err
		}
		return nil, engine.ExplainOutput{Topic: topic, Explanation: text}, nil
	})
}

func registerSuggestResources(server *mcp.Server, exp Explainer) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "suggest_resources",
		Description: "Ask the language model for 3 article and 3 video suggestions on a topic. URLs are Google and YouTube search links, not direct pages.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.SuggestInput) (*mcp.CallToolResult, engine.Suggestions, error) {
		topic, err := toolutil.RequireTopic(input.Topic)
		if err != nil {
			return nil, engine.Suggestions{}, err
		}
		out, err := exp.SuggestResources(ctx, topic)
		if err != nil {
			return nil, engine.Suggestions{}, err
		}
		return nil, out, nil
	})
}

// Package explain produces beginner-friendly topic explanations and
// LLM-suggested search links.
package explain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anatolykoptev/go_finguide/internal/engine"
)

// Options configures an Explainer.
type Options struct {
	Model         string // cache namespace only; the client already carries the model
	StripMarkdown bool
}

// Explainer wraps an LLM client. Safe for concurrent use.
type Explainer struct {
	complete engine.CompleteFunc
	opts     Options
}

// New returns an Explainer. complete is required.
func New(complete engine.CompleteFunc, opts Options) (*Explainer, error) {
	if complete == nil {
		return nil, errors.New("explain: nil LLM client")
	}
	return &Explainer{complete: complete, opts: opts}, nil
}

// Explain returns a plain-language explanation of topic. detail is optional
// extra context, such as the workflow step the user is on.
func (e *Explainer) Explain(ctx context.Context, topic, detail string) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", fmt.Errorf("topic is required: %w", engine.ErrInvalidInput)
	}
	engine.IncrExplainRequests()

	key := engine.CacheKey("explain", e.opts.Model, topic, detail)
	if cached, ok := engine.CacheGetJSON[string](ctx, key); ok {
		return cached, nil
	}

	var text string
	err := engine.TrackOperation(ctx, "explain", 20*time.Second, func(ctx context.Context) error {
		var err error
		text, err = engine.CallLLM(ctx, e.complete, fmt.Sprintf(engine.ExplainPrompt, topic, detail))
		return err
	})
	if err != nil {
		slog.Error("explanation failed", slog.String("topic", topic), slog.Any("error", err))
		return "", err
	}

	if e.opts.StripMarkdown {
		text = engine.StripMarkdown(text)
	} else {
		text = strings.TrimSpace(text)
	}
	if text != "" {
		engine.CacheSetJSON(ctx, key, text)
	}
	return text, nil
}

// SuggestResources asks the model for article and video search links.
// Output that is not the requested JSON object yields *engine.ParseError.
func (e *Explainer) SuggestResources(ctx context.Context, topic string) (engine.Suggestions, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return engine.Suggestions{}, fmt.Errorf("topic is required: %w", engine.ErrInvalidInput)
	}

	raw, err := engine.CallLLM(ctx, e.complete, fmt.Sprintf(engine.SuggestPrompt, topic, topic, topic))
	if err != nil {
		return engine.Suggestions{}, err
	}
	return parseSuggestions(raw)
}

func parseSuggestions(raw string) (engine.Suggestions, error) {
	text := engine.ExtractJSONObject(engine.StripFences(raw))

	var s engine.Suggestions
	if err := json.Unmarshal([]byte(text), &s); err != nil {
		return engine.Suggestions{}, &engine.ParseError{Raw: text, Err: err}
	}
	if s.Articles == nil {
		s.Articles = []engine.Resource{}
	}
	if s.Videos == nil {
		s.Videos = []engine.Resource{}
	}
	return s, nil
}

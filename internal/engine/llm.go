package engine

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
)

// ErrMissingAPIKey is returned when no LLM credentials are configured.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY not found in environment variables")

// CompleteFunc sends a single-turn prompt to the model and returns its text.
type CompleteFunc func(ctx context.Context, prompt string) (string, error)

// NewLLMClient builds the Gemini client (OpenAI-compatible endpoint) from c.
// Fails fast when no API key is configured.
func NewLLMClient(c Config) (CompleteFunc, error) {
	if c.LLMAPIKey == "" {
		return nil, ErrMissingAPIKey
	}
	timeout := c.LLMTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	client := llm.NewClient(c.LLMAPIBase, c.LLMAPIKey, c.LLMModel,
		llm.WithFallbackKeys(c.LLMAPIKeyFallbacks),
		llm.WithMaxTokens(c.LLMMaxTokens),
		llm.WithTemperature(c.LLMTemperature),
		llm.WithHTTPClient(&http.Client{Timeout: timeout}),
	)
	return func(ctx context.Context, prompt string) (string, error) {
		return client.Complete(ctx, "", prompt)
	}, nil
}

// CallLLM sends prompt through complete, counting calls and failures.
// Failures come back as *ProviderError.
func CallLLM(ctx context.Context, complete CompleteFunc, prompt string) (string, error) {
	IncrLLMCall()
	resp, err := complete(ctx, prompt)
	if err != nil {
		IncrLLMError()
		return "", NewProviderError("llm", "complete", err)
	}
	return resp, nil
}

// StripFences removes markdown code fences from LLM output.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ExtractJSONObject returns the span from the first '{' to the last '}',
// or s unchanged when there is no such span.
func ExtractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return s
	}
	return s[start : end+1]
}

var (
	mdBoldStarRe  = regexp.MustCompile(`\*\*(.*?)\*\*`)
	mdBoldUnderRe = regexp.MustCompile(`__(.*?)__`)
	mdHeaderRe    = regexp.MustCompile(`(?m)^#+ ?`)
	mdListRe      = regexp.MustCompile(`(?m)^[-*] ?`)
)

// StripMarkdown turns model markdown into plain text: bold markers, header
// hashes and leading list/rule markers are removed.
func StripMarkdown(s string) string {
	s = mdBoldStarRe.ReplaceAllString(s, "$1")
	s = mdBoldUnderRe.ReplaceAllString(s, "$1")
	s = mdHeaderRe.ReplaceAllString(s, "")
	s = mdListRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

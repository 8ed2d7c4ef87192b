package explain

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/anatolykoptev/go_finguide/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeLLM) complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func newExplainer(t *testing.T, llm *fakeLLM, strip bool) *Explainer {
	t.Helper()
	e, err := New(llm.complete, Options{Model: "test-model", StripMarkdown: strip})
	require.NoError(t, err)
	return e
}

func TestNewRequiresClient(t *testing.T) {
	_, err := New(nil, Options{})
	assert.Error(t, err)
}

func TestExplainStripsMarkdown(t *testing.T) {
	llm := &fakeLLM{reply: "## What is PAN\nA **PAN** is a tax ID.\n- Fill Form 49A\n* Pay the fee\n"}
	e := newExplainer(t, llm, true)

	got, err := e.Explain(context.Background(), "PAN card", "Step 1: eligibility")
	require.NoError(t, err)
	assert.Equal(t, "What is PAN\nA PAN is a tax ID.\nFill Form 49A\nPay the fee", got)

	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], `Explain the financial concept or application process for: "PAN card".`)
	assert.Contains(t, llm.prompts[0], "Context: Step 1: eligibility")
}

func TestExplainKeepsMarkdown(t *testing.T) {
	llm := &fakeLLM{reply: "  **Bold** stays\n"}
	got, err := newExplainer(t, llm, false).Explain(context.Background(), "SIP", "")
	require.NoError(t, err)
	assert.Equal(t, "**Bold** stays", got)
}

func TestExplainBlankTopic(t *testing.T) {
	llm := &fakeLLM{reply: "unused"}
	_, err := newExplainer(t, llm, true).Explain(context.Background(), "  ", "")
	assert.True(t, errors.Is(err, engine.ErrInvalidInput))
	assert.Empty(t, llm.prompts)
}

func TestExplainProviderError(t *testing.T) {
	llm := &fakeLLM{err: errors.New("429 quota exceeded")}
	_, err := newExplainer(t, llm, true).Explain(context.Background(), "credit score", "")
	require.Error(t, err)
	assert.True(t, engine.IsProviderError(err))
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestSuggestResources(t *testing.T) {
	llm := &fakeLLM{reply: "Sure! Here you go:\n```json\n" + `{
  "articles": [{"title": "Understanding SIP - Investopedia", "url": "https://www.google.com/search?q=Understanding+SIP+Investopedia"}],
  "videos": [{"title": "Beginner's Guide to SIP", "url": "https://www.youtube.com/results?search_query=Beginners+Guide+SIP"}]
}` + "\n```"}
	e := newExplainer(t, llm, true)

	got, err := e.SuggestResources(context.Background(), "SIP")
	require.NoError(t, err)
	require.Len(t, got.Articles, 1)
	require.Len(t, got.Videos, 1)
	assert.Equal(t, "Understanding SIP - Investopedia", got.Articles[0].Title)
	assert.True(t, strings.HasPrefix(got.Videos[0].URL, "https://www.youtube.com/results?"))
	assert.Equal(t, 3, strings.Count(llm.prompts[0], "SIP"))
}

func TestSuggestResourcesParseError(t *testing.T) {
	llm := &fakeLLM{reply: "I cannot help with that."}
	_, err := newExplainer(t, llm, true).SuggestResources(context.Background(), "PAN")

	var pe *engine.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "I cannot help with that.", pe.Raw)
}

func TestSuggestResourcesMissingKeys(t *testing.T) {
	llm := &fakeLLM{reply: `{"articles": []}`}
	got, err := newExplainer(t, llm, true).SuggestResources(context.Background(), "PAN")
	require.NoError(t, err)
	assert.NotNil(t, got.Videos)
	assert.Empty(t, got.Videos)
}

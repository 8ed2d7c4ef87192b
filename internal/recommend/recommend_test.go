package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/anatolykoptev/go_finguide/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendBlankTopic(t *testing.T) {
	r := New(&fakeWeb{}, &fakeVideo{}, Options{})
	for _, topic := range []string{"", "   ", "\t\n"} {
		_, err := r.Recommend(context.Background(), topic)
		require.Error(t, err)
		assert.True(t, errors.Is(err, engine.ErrInvalidInput))
	}
}

func TestRecommendOffline(t *testing.T) {
	r := New(&fakeWeb{failAll: true}, &fakeVideo{err: errOffline}, Options{SearchTimeout: time.Second})
	rec, err := r.Recommend(context.Background(), "Apply for PAN Card")
	require.NoError(t, err)

	titles := make([]string, len(rec.Articles))
	for i, a := range rec.Articles {
		titles[i] = a.Title
	}
	assert.Equal(t, []string{
		"ClearTax: How to Apply for PAN Card",
		"Protean (NSDL): Official PAN Portal",
		"BankBazaar: PAN Card Application Guide",
		"Paisabazaar: PAN Card Guide",
		"Forbes: How to Apply for PAN Card",
	}, titles)
	assert.Empty(t, rec.Videos)

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"videos":[]`)
}

func TestRecommendCombines(t *testing.T) {
	web := &fakeWeb{byHost: map[string][]string{
		"groww.in": {"https://groww.in/blog/what-is-sip", "https://groww.in/blog/sip-calculator"},
	}}
	fv := &fakeVideo{results: []engine.VideoResult{
		{Title: "SIP explained", Content: "https://www.youtube.com/watch?v=aaaaaaaaaaa"},
	}}
	r := New(web, fv, Options{Region: "in-en", VideoLimit: 4})

	rec, err := r.Recommend(context.Background(), "  SIP investing  ")
	require.NoError(t, err)
	require.Len(t, rec.Articles, 5)
	assert.Equal(t, "Groww Guide: SIP investing", rec.Articles[0].Title)
	assert.Equal(t, "Groww Guide: SIP investing (Part 2)", rec.Articles[1].Title)
	require.Len(t, rec.Videos, 1)
	assert.Equal(t, "SIP investing tutorial India", fv.query)
	assert.Equal(t, 4, fv.limit)
}

func TestRecommendSurvivesPanics(t *testing.T) {
	r := New(&fakeWeb{panics: true}, &fakeVideo{panics: true}, Options{})
	rec, err := r.Recommend(context.Background(), "driving licence")
	require.NoError(t, err)
	assert.Equal(t, Lookup("driving licence"), rec.Articles)
	assert.NotNil(t, rec.Videos)
	assert.Empty(t, rec.Videos)
}

func TestRecommendRegionOverride(t *testing.T) {
	fv := &fakeVideo{}
	r := New(&fakeWeb{}, fv, Options{Region: "in-en"})

	_, err := r.RecommendRegion(context.Background(), "pan", "us-en")
	require.NoError(t, err)
	assert.Equal(t, "us-en", fv.region)

	_, err = r.Recommend(context.Background(), "pan")
	require.NoError(t, err)
	assert.Equal(t, "in-en", fv.region)
}

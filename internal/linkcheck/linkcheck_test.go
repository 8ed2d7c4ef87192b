package linkcheck

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"simple", `<html><head><title>PAN Card - ClearTax</title></head></html>`, "PAN Card - ClearTax"},
		{"whitespace", "<title>\n  Voters' Service\n  Portal </title>", "Voters' Service Portal"},
		{"entities", `<title>Fees &amp; Charges</title>`, "Fees & Charges"},
		{"missing", `<html><body>no title</body></html>`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractTitle(strings.NewReader(tt.html)); got != tt.want {
				t.Errorf("extractTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCheckOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.UserAgent(), "Mozilla/5.0")
		_, _ = w.Write([]byte(`<html><title>Passport Seva</title></html>`))
	}))
	defer srv.Close()

	res := New(WithHTTPClient(srv.Client())).Check(context.Background(), srv.URL)
	require.NoError(t, res.Err)
	assert.True(t, res.OK())
	assert.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, "Passport Seva", res.Title)
}

func TestCheckRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`<title>ok</title>`))
	}))
	defer srv.Close()

	c := New(WithHTTPClient(srv.Client()), WithRetryInterval(time.Millisecond))
	res := c.Check(context.Background(), srv.URL)
	assert.True(t, res.OK())
	assert.Equal(t, int32(3), calls.Load())
}

func TestCheckGivesUp(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(WithHTTPClient(srv.Client()), WithRetryInterval(time.Millisecond), WithMaxTries(2))
	res := c.Check(context.Background(), srv.URL)
	assert.False(t, res.OK())
	assert.Error(t, res.Err)
	assert.Equal(t, http.StatusTooManyRequests, res.Status)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCheckNotFoundIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.NotFound(w, nil)
	}))
	defer srv.Close()

	res := New(WithHTTPClient(srv.Client()), WithRetryInterval(time.Millisecond)).Check(context.Background(), srv.URL)
	assert.NoError(t, res.Err)
	assert.False(t, res.OK())
	assert.Equal(t, http.StatusNotFound, res.Status)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCheckAllKeepsOrder(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/slow", func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(20 * time.Millisecond)
		_, _ = w.Write([]byte(`<title>slow</title>`))
	})
	mux.HandleFunc("/fast", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<title>fast</title>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	urls := []string{srv.URL + "/slow", srv.URL + "/fast", srv.URL + "/missing"}
	results := New(WithHTTPClient(srv.Client()), WithConcurrency(3)).CheckAll(context.Background(), urls)

	require.Len(t, results, 3)
	assert.Equal(t, "slow", results[0].Title)
	assert.Equal(t, "fast", results[1].Title)
	assert.Equal(t, http.StatusNotFound, results[2].Status)
}

func TestReport(t *testing.T) {
	results := []Result{
		{URL: "https://cleartax.in/s/pan-card", Status: 200, Title: "PAN Card"},
		{URL: "https://www.nvsp.in/", Status: 200},
		{URL: "https://gone.example/", Status: 404},
		{URL: "https://down.example/", Err: assert.AnError},
	}
	var buf bytes.Buffer
	failed := Report(&buf, results)

	assert.Equal(t, 2, failed)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "[200] https://cleartax.in/s/pan-card - PAN Card", lines[0])
	assert.Equal(t, "[200] https://www.nvsp.in/", lines[1])
	assert.Equal(t, "[404] https://gone.example/", lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "[FAIL] https://down.example/ - "))
}

// Package linkcheck probes the curated fallback URLs.
package linkcheck

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/anatolykoptev/go_finguide/internal/engine"
	"github.com/cenkalti/backoff/v5"
	"golang.org/x/net/html"
)

const (
	defaultTimeout     = 5 * time.Second
	defaultConcurrency = 4
	defaultMaxTries    = 3
	maxBodyBytes       = 512 * 1024
)

// Result is the outcome of probing one URL.
type Result struct {
	URL    string
	Status int
	Title  string
	Err    error
}

// OK reports whether the URL answered without error and below 400.
func (r Result) OK() bool {
	return r.Err == nil && r.Status > 0 && r.Status < http.StatusBadRequest
}

// Checker issues GET requests with a browser User-Agent.
type Checker struct {
	client        *http.Client
	concurrency   int
	maxTries      uint
	retryInterval time.Duration
}

// Option configures a Checker.
type Option func(*Checker)

func WithHTTPClient(c *http.Client) Option { return func(ch *Checker) { ch.client = c } }
func WithConcurrency(n int) Option         { return func(ch *Checker) { ch.concurrency = n } }
func WithMaxTries(n uint) Option           { return func(ch *Checker) { ch.maxTries = n } }

// WithRetryInterval sets the initial backoff between retries.
func WithRetryInterval(d time.Duration) Option { return func(ch *Checker) { ch.retryInterval = d } }

func New(opts ...Option) *Checker {
	c := &Checker{
		client:        &http.Client{Timeout: defaultTimeout},
		concurrency:   defaultConcurrency,
		maxTries:      defaultMaxTries,
		retryInterval: time.Second,
	}
	for _, o := range opts {
		o(c)
	}
	if c.concurrency < 1 {
		c.concurrency = 1
	}
	if c.maxTries < 1 {
		c.maxTries = 1
	}
	return c
}

// Check probes one URL. 429 and 5xx responses are retried with exponential
// backoff; transport errors are not.
func (c *Checker) Check(ctx context.Context, u string) Result {
	res := Result{URL: u}

	operation := func() (Result, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return res, backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", engine.UserAgentChrome)
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

		resp, err := c.client.Do(req)
		if err != nil {
			return res, backoff.Permanent(err)
		}
		defer resp.Body.Close()

		res.Status = resp.StatusCode
		if engine.IsRetryableStatus(resp.StatusCode) {
			return res, fmt.Errorf("status %d", resp.StatusCode)
		}
		res.Title = extractTitle(io.LimitReader(resp.Body, maxBodyBytes))
		return res, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retryInterval
	bo.MaxInterval = 10 * c.retryInterval

	out, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(c.maxTries),
		backoff.WithMaxElapsedTime(30*time.Second))
	if err != nil {
		// res keeps the status of the last attempt.
		res.Err = err
		return res
	}
	return out
}

// CheckAll probes urls concurrently and returns results in input order.
func (c *Checker) CheckAll(ctx context.Context, urls []string) []Result {
	results := make([]Result, len(urls))
	sem := make(chan struct{}, c.concurrency)
	var wg sync.WaitGroup

	for i, u := range urls {
		wg.Add(1)
		go func() {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results[i] = Result{URL: u, Err: ctx.Err()}
				return
			}
			defer func() { <-sem }()
			results[i] = c.Check(ctx, u)
		}()
	}
	wg.Wait()
	return results
}

// Report writes one line per result and returns the number of failures.
func Report(w io.Writer, results []Result) int {
	failed := 0
	for _, r := range results {
		switch {
		case r.Err != nil && r.Status > 0:
			failed++
			fmt.Fprintf(w, "[%d] %s - %v\n", r.Status, r.URL, r.Err)
		case r.Err != nil:
			failed++
			fmt.Fprintf(w, "[FAIL] %s - %v\n", r.URL, r.Err)
		case !r.OK():
			failed++
			fmt.Fprintf(w, "[%d] %s\n", r.Status, r.URL)
		case r.Title != "":
			fmt.Fprintf(w, "[%d] %s - %s\n", r.Status, r.URL, r.Title)
		default:
			fmt.Fprintf(w, "[%d] %s\n", r.Status, r.URL)
		}
	}
	return failed
}

// extractTitle returns the text of the first <title> element, whitespace-collapsed.
func extractTitle(r io.Reader) string {
	z := html.NewTokenizer(r)
	inTitle := false
	var sb strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(sb.String()), " ")
		case html.StartTagToken:
			name, _ := z.TagName()
			if string(name) == "title" {
				inTitle = true
			}
		case html.TextToken:
			if inTitle {
				sb.Write(z.Text())
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if inTitle && string(name) == "title" {
				return strings.Join(strings.Fields(sb.String()), " ")
			}
		}
	}
}

package engine

import (
	"context"
	"io"
	"net/http"
	"time"

	stealth "github.com/anatolykoptev/go-stealth"
)

// Re-export stealth types and functions for engine consumers.
type BrowserClient = stealth.BrowserClient

type RetryConfig = stealth.RetryConfig

// SearchRetryConfig gives each search call one quick retry. Domain searches
// run under a per-call timeout, so longer backoff would only burn the budget.
var SearchRetryConfig = RetryConfig{
	MaxRetries:  1,
	InitialWait: 500 * time.Millisecond,
	MaxWait:     2 * time.Second,
	Multiplier:  2.0,
}

func ChromeHeaders() map[string]string { return stealth.ChromeHeaders() }
func RandomUserAgent() string          { return stealth.RandomUserAgent() }
func IsRetryableStatus(code int) bool  { return stealth.IsRetryableStatus(code) }

func RetryDo[T any](ctx context.Context, rc RetryConfig, fn func() (T, error)) (T, error) {
	return stealth.RetryDo(ctx, rc, fn)
}

func RetryHTTP(ctx context.Context, rc RetryConfig, fn func() (*http.Response, error)) (*http.Response, error) {
	return stealth.RetryHTTP(ctx, rc, fn)
}

type browserResp struct {
	data   []byte
	status int
	err    error
}

// browserDo runs bc.Do but gives up when ctx is done. The browser client has
// no context support of its own, so an abandoned request finishes in the
// background under the client's own timeout.
func browserDo(ctx context.Context, bc *BrowserClient, method, u string, headers map[string]string, body io.Reader) ([]byte, int, error) {
	ch := make(chan browserResp, 1)
	go func() {
		data, _, status, err := bc.Do(method, u, headers, body)
		ch <- browserResp{data: data, status: status, err: err}
	}()
	select {
	case r := <-ch:
		return r.data, r.status, r.err
	case <-ctx.Done():
		return nil, 0, ctx.Err()
	}
}

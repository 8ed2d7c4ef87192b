package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	ddgHTMLEndpoint = "https://html.duckduckgo.com/html/"
	ddgHome         = "https://duckduckgo.com/"
	ddgLinksAPI     = "https://links.duckduckgo.com/d.js"
)

var vqdPatterns = []*regexp.Regexp{
	regexp.MustCompile(`vqd='([^']+)'`),
	regexp.MustCompile(`vqd="([^"]+)"`),
	regexp.MustCompile(`vqd=([a-zA-Z0-9_-]+)`),
}

// ddgLink is one entry of the d.js links payload.
type ddgLink struct {
	T string `json:"t"` // title
	A string `json:"a"` // abstract (HTML)
	U string `json:"u"` // URL
	C string `json:"c"` // content URL
}

// SearchDDGDirect queries DuckDuckGo with the browser client.
// The HTML lite endpoint is tried first; the d.js API (which needs a vqd
// token) is the fallback. region is a DDG kl code such as "in-en".
func SearchDDGDirect(ctx context.Context, bc *BrowserClient, query, region string) ([]SearxngResult, error) {
	if region == "" {
		region = "in-en"
	}

	results, err := ddgSearchHTML(ctx, bc, query, region)
	if err == nil && len(results) > 0 {
		slog.Debug("ddg html results", slog.Int("count", len(results)), slog.String("query", query))
		return results, nil
	}
	if err != nil {
		slog.Debug("ddg html failed, trying d.js", slog.Any("error", err))
	}

	vqd, err := ddgVQD(ctx, bc, query)
	if err != nil {
		return nil, fmt.Errorf("ddg vqd: %w", err)
	}
	results, err = ddgSearchLinks(ctx, bc, query, vqd, region)
	if err != nil {
		return nil, fmt.Errorf("ddg d.js: %w", err)
	}
	return results, nil
}

func ddgSearchHTML(ctx context.Context, bc *BrowserClient, query, region string) ([]SearxngResult, error) {
	form := url.Values{"q": {query}, "kl": {region}, "df": {""}}

	headers := ChromeHeaders()
	headers["referer"] = "https://html.duckduckgo.com/"
	headers["content-type"] = "application/x-www-form-urlencoded"

	data, status, err := browserDo(ctx, bc, "POST", ddgHTMLEndpoint, headers, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	if status != 200 {
		return nil, fmt.Errorf("ddg html status %d", status)
	}
	return parseDDGHTML(data)
}

// parseDDGHTML extracts organic results from the HTML lite page.
func parseDDGHTML(data []byte) ([]SearxngResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	if err != nil {
		return nil, fmt.Errorf("goquery parse: %w", err)
	}

	var results []SearxngResult
	doc.Find(".result, .web-result").Each(func(_ int, s *goquery.Selection) {
		if s.HasClass("result--ad") {
			return
		}
		link := s.Find("a.result__a, .result__title a, a.result-link").First()
		title := strings.TrimSpace(link.Text())
		href, ok := link.Attr("href")
		if !ok || title == "" {
			return
		}
		href = ddgUnwrapURL(href)
		if href == "" {
			return
		}
		results = append(results, SearxngResult{
			Title:   title,
			Content: strings.TrimSpace(s.Find(".result__snippet, .result__body").First().Text()),
			URL:     href,
			Score:   1.0,
		})
	})
	return results, nil
}

// ddgUnwrapURL resolves DDG redirect links of the form
// //duckduckgo.com/l/?uddg=<escaped target>&rut=... to the target URL.
func ddgUnwrapURL(href string) string {
	if strings.Contains(href, "duckduckgo.com/l/") || strings.Contains(href, "uddg=") {
		if u, err := url.Parse(href); err == nil {
			if target := u.Query().Get("uddg"); target != "" {
				return target
			}
		}
	}
	if strings.HasPrefix(href, "http") {
		return href
	}
	return ""
}

// ddgVQD fetches the per-query vqd token required by the d.js and v.js APIs.
func ddgVQD(ctx context.Context, bc *BrowserClient, query string) (string, error) {
	headers := ChromeHeaders()
	headers["referer"] = ddgHome

	data, status, err := browserDo(ctx, bc, "GET", ddgHome+"?q="+url.QueryEscape(query), headers, nil)
	if err != nil {
		return "", err
	}
	if status != 200 {
		return "", fmt.Errorf("ddg homepage status %d", status)
	}
	if vqd := extractVQD(string(data)); vqd != "" {
		return vqd, nil
	}
	return "", fmt.Errorf("vqd token not found in response (%d bytes)", len(data))
}

func extractVQD(body string) string {
	for _, pat := range vqdPatterns {
		if m := pat.FindStringSubmatch(body); len(m) > 1 {
			return m[1]
		}
	}
	return ""
}

func ddgSearchLinks(ctx context.Context, bc *BrowserClient, query, vqd, region string) ([]SearxngResult, error) {
	params := url.Values{
		"q":   {query},
		"vqd": {vqd},
		"kl":  {region},
		"df":  {""},
		"l":   {region},
		"o":   {"json"},
	}

	headers := ChromeHeaders()
	headers["referer"] = ddgHome
	headers["accept"] = "application/json, text/javascript, */*; q=0.01"

	data, status, err := browserDo(ctx, bc, "GET", ddgLinksAPI+"?"+params.Encode(), headers, nil)
	if err != nil {
		return nil, err
	}
	if status != 200 && status != 202 {
		return nil, fmt.Errorf("ddg d.js status %d", status)
	}
	return parseDDGResponse(data)
}

// parseDDGResponse decodes a d.js payload, JSONP-wrapped or bare.
func parseDDGResponse(data []byte) ([]SearxngResult, error) {
	body := strings.TrimSpace(string(data))
	if start := strings.Index(body, "["); start >= 0 {
		if end := strings.LastIndex(body, "]"); end > start {
			body = body[start : end+1]
		}
	}

	var raw []ddgLink
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, fmt.Errorf("ddg json parse: %w (first 200 bytes: %s)", err, Truncate(body, 200))
	}

	var results []SearxngResult
	for _, r := range raw {
		link := r.U
		if link == "" {
			link = r.C
		}
		if link == "" || r.T == "" || strings.HasPrefix(link, ddgHome) {
			continue
		}
		results = append(results, SearxngResult{
			Title:   CleanHTML(r.T),
			Content: CleanHTML(r.A),
			URL:     link,
			Score:   1.0,
		})
	}
	return results, nil
}

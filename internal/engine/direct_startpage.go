package engine

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const startpageSearchURL = "https://www.startpage.com/sp/search"

// SearchStartpageDirect queries Startpage with the browser client.
// Startpage proxies Google results, which makes it a useful last resort for
// site: queries when DuckDuckGo rate-limits us.
func SearchStartpageDirect(ctx context.Context, bc *BrowserClient, query, language string) ([]SearxngResult, error) {
	if language == "" || language == "all" {
		language = "english"
	}
	form := url.Values{"query": {query}, "cat": {"web"}, "language": {language}}

	headers := ChromeHeaders()
	headers["referer"] = "https://www.startpage.com/"
	headers["content-type"] = "application/x-www-form-urlencoded"

	data, status, err := browserDo(ctx, bc, "POST", startpageSearchURL, headers, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("startpage request: %w", err)
	}
	if status != 200 {
		return nil, fmt.Errorf("startpage status %d", status)
	}

	results, err := parseStartpageHTML(data)
	if err != nil {
		return nil, fmt.Errorf("startpage parse: %w", err)
	}
	slog.Debug("startpage results", slog.Int("count", len(results)), slog.String("query", query))
	return results, nil
}

func parseStartpageHTML(data []byte) ([]SearxngResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	if err != nil {
		return nil, fmt.Errorf("goquery parse: %w", err)
	}

	var results []SearxngResult
	doc.Find(".w-gl__result, .result").Each(func(_ int, s *goquery.Selection) {
		link := s.Find("a.w-gl__result-title, h3 a, a.result-link").First()
		title := strings.TrimSpace(link.Text())
		href, _ := link.Attr("href")
		if title == "" || href == "" || strings.Contains(href, "startpage.com/do/") {
			return
		}
		results = append(results, SearxngResult{
			Title:   title,
			Content: strings.TrimSpace(s.Find("p.w-gl__description, .w-gl__description, p.result-description").First().Text()),
			URL:     href,
			Score:   1.0,
		})
	})
	return results, nil
}

package engine

import "testing"

func TestParseStartpageHTML(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		wantURLs []string
	}{
		{
			name: "site query results",
			html: `<html><body>
				<div class="w-gl__result">
					<a class="w-gl__result-title" href="https://www.paisabazaar.com/pan-card/">PAN Card - Paisabazaar</a>
					<p class="w-gl__description">Apply online in minutes.</p>
				</div>
				<div class="w-gl__result">
					<a class="w-gl__result-title" href="https://www.paisabazaar.com/pan-card/status/">PAN Status</a>
				</div>
			</body></html>`,
			wantURLs: []string{"https://www.paisabazaar.com/pan-card/", "https://www.paisabazaar.com/pan-card/status/"},
		},
		{
			name: "legacy markup",
			html: `<html><body>
				<div class="result">
					<h3><a href="https://groww.in/blog/how-to-file-itr-online">File ITR online</a></h3>
					<p class="result-description">Step by step.</p>
				</div>
			</body></html>`,
			wantURLs: []string{"https://groww.in/blog/how-to-file-itr-online"},
		},
		{
			name: "empty href and proxy links skipped",
			html: `<html><body>
				<div class="w-gl__result">
					<a class="w-gl__result-title" href="">No URL</a>
				</div>
				<div class="w-gl__result">
					<a class="w-gl__result-title" href="https://www.startpage.com/do/anonymous-view">Anonymous View</a>
				</div>
			</body></html>`,
			wantURLs: nil,
		},
		{
			name:     "no results",
			html:     `<html><body><p>No results found</p></body></html>`,
			wantURLs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := parseStartpageHTML([]byte(tt.html))
			if err != nil {
				t.Fatalf("parseStartpageHTML() error = %v", err)
			}
			if len(results) != len(tt.wantURLs) {
				t.Fatalf("parseStartpageHTML() returned %d results, want %d", len(results), len(tt.wantURLs))
			}
			for i, want := range tt.wantURLs {
				if results[i].URL != want {
					t.Errorf("result[%d].URL = %q, want %q", i, results[i].URL, want)
				}
			}
		})
	}
}

func TestParseStartpageHTMLSnippet(t *testing.T) {
	results, err := parseStartpageHTML([]byte(`<div class="w-gl__result">
		<a class="w-gl__result-title" href="https://cleartax.in/s/pan-card">PAN Card</a>
		<p class="w-gl__description">  Form 49A guide.  </p>
	</div>`))
	if err != nil || len(results) != 1 {
		t.Fatalf("parseStartpageHTML() = %v, %v", results, err)
	}
	if results[0].Content != "Form 49A guide." {
		t.Errorf("Content = %q", results[0].Content)
	}
}

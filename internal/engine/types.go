package engine

// --- Core domain types ---

// Resource is a single learning resource: an article or a video.
type Resource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Suggestions is the LLM-generated resource list (search URLs, not direct links).
type Suggestions struct {
	Articles []Resource `json:"articles"`
	Videos   []Resource `json:"videos"`
}

// --- Tool input types ---

type RecommendInput struct {
	Topic  string `json:"topic" jsonschema:"Financial or government-process topic, e.g. Apply for PAN Card"`
	Region string `json:"region,omitempty" jsonschema:"Video search region (default: in-en)"`
}

type ExplainInput struct {
	Topic   string `json:"topic" jsonschema:"Topic to explain in plain language"`
	Context string `json:"context,omitempty" jsonschema:"Optional extra context, e.g. the current workflow step"`
}

type SuggestInput struct {
	Topic string `json:"topic" jsonschema:"Topic to suggest search links for"`
}

// --- Tool output types ---

type ExplainOutput struct {
	Topic       string `json:"topic"`
	Explanation string `json:"explanation"`
}

// --- Internal types ---

type SearxngResult struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	URL     string  `json:"url"`
	Score   float64 `json:"score"`
}

type searxngResponse struct {
	Results []SearxngResult `json:"results"`
}

// VideoResult is a raw video search hit. Field names follow the DuckDuckGo
// v.js payload: Content carries the video page URL.
type VideoResult struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	Description string `json:"description,omitempty"`
	Publisher   string `json:"publisher,omitempty"`
	Duration    string `json:"duration,omitempty"`
}

type ddgVideoResponse struct {
	Results []VideoResult `json:"results"`
}

package assistant

// NewsItem is one entry of the daily news digest
type NewsItem struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

// Source types
const (
	SourceWeb     = "web"
	SourceYouTube = "youtube"
)

// SourceRef is a page the search answer is grounded on
type SourceRef struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type"`
}

// SearchResult is the expert answer to a search query
type SearchResult struct {
	Text      string      `json:"text"`
	AgentRole string      `json:"agent_role"`
	Sources   []SourceRef `json:"sources"`
}

// MergedPhoto is a generated image, base64 encoded
type MergedPhoto struct {
	Image    string `json:"image"`
	MIMEType string `json:"mime_type"`
}

package model

// Article is a trending-article summary shown on the landing screen
type Article struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	CredibilityScore int    `json:"credibilityScore"`
	URL              string `json:"url,omitempty"`
	Category         string `json:"category,omitempty"`
	PublishedAt      string `json:"publishedAt,omitempty"`
	Source           string `json:"source,omitempty"`
}

// MaxArticles caps every trending list regardless of the requested limit
const MaxArticles = 5

package models

// SourceType classifies where a scraped business came from.
type SourceType string

const (
	SourceTypeSearch    SourceType = "search"
	SourceTypeDirectory SourceType = "directory"
	SourceTypeSocial    SourceType = "social"
)

// ScrapedBusiness is the normalized shape produced by the web-search path.
// It is distinct from Business and the two are never reconciled.
type ScrapedBusiness struct {
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Description string     `json:"description"`
	Phone       string     `json:"phone,omitempty"`
	Address     string     `json:"address,omitempty"`
	Rating      *float64   `json:"rating,omitempty"`
	Hours       []string   `json:"hours,omitempty"`
	Categories  []string   `json:"categories,omitempty"`
	Website     string     `json:"website,omitempty"`
	Source      string     `json:"source"`
	SourceType  SourceType `json:"sourceType"`
}

// WebSearchRequest is the input to the aggregator. Radius is optional; nil means unset.
type WebSearchRequest struct {
	Query    string `form:"query" json:"query"`
	Location string `form:"location" json:"location,omitempty"`
	Radius   *int   `form:"radius" json:"radius,omitempty"`
}

// WebSearchResult is the aggregate returned to clients. TimeTaken is in milliseconds.
type WebSearchResult struct {
	OriginalQuery string            `json:"originalQuery"`
	Businesses    []ScrapedBusiness `json:"businesses"`
	TotalResults  int               `json:"totalResults"`
	TimeTaken     int64             `json:"timeTaken"`
	Sources       []string          `json:"sources"`
}

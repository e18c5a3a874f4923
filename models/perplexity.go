package models

// Citation is a grounding source returned with an enhanced query.
type Citation struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// PerplexityResult is created per search request and never persisted.
type PerplexityResult struct {
	OriginalQuery string     `json:"originalQuery"`
	EnhancedQuery string     `json:"enhancedQuery"`
	IsEnhanced    bool       `json:"isEnhanced"`
	Citations     []Citation `json:"citations,omitempty"`
}

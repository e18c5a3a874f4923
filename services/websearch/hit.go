package websearch

import (
	"context"
	"strings"

	"towgo/models"
)

// Query is what a provider receives from the aggregator.
type Query struct {
	Text     string
	Location string
	Radius   int
}

// Phrase joins the query text and location for keyword APIs.
func (q Query) Phrase() string {
	if q.Location == "" {
		return q.Text
	}
	return q.Text + " " + q.Location
}

// Provider is one web source of business listings.
type Provider interface {
	Name() string
	Kind() models.SourceType
	Search(ctx context.Context, q Query) ([]Hit, error)
}

// SearchHit is a result from a general web search API.
type SearchHit struct {
	Link    string
	Title   string
	Snippet string
	Phone   string
	Address string
	Rating  *float64
}

// DirectoryHit is a listing card scraped from a business directory page.
type DirectoryHit struct {
	Name        string
	URL         string
	Description string
	Phone       string
	Address     string
	Rating      *float64
	Hours       []string
	Categories  []string
	Website     string
}

// SocialHit is a business profile on a social network.
type SocialHit struct {
	ProfileURL string
	Name       string
	Snippet    string
	Platform   string
	Phone      string
}

// Hit holds exactly one provider-specific variant.
type Hit struct {
	Search    *SearchHit
	Directory *DirectoryHit
	Social    *SocialHit
}

// Normalize converts a hit to the common scraped shape. ok is false for an
// empty hit.
func Normalize(h Hit, source string) (models.ScrapedBusiness, bool) {
	switch {
	case h.Search != nil:
		return fromSearch(*h.Search, source), true
	case h.Directory != nil:
		return fromDirectory(*h.Directory, source), true
	case h.Social != nil:
		return fromSocial(*h.Social, source), true
	default:
		return models.ScrapedBusiness{}, false
	}
}

func fromSearch(s SearchHit, source string) models.ScrapedBusiness {
	return models.ScrapedBusiness{
		Title:       strings.TrimSpace(s.Title),
		URL:         s.Link,
		Description: strings.TrimSpace(s.Snippet),
		Phone:       strings.TrimSpace(s.Phone),
		Address:     strings.TrimSpace(s.Address),
		Rating:      s.Rating,
		Website:     s.Link,
		Source:      source,
		SourceType:  models.SourceTypeSearch,
	}
}

func fromDirectory(d DirectoryHit, source string) models.ScrapedBusiness {
	return models.ScrapedBusiness{
		Title:       strings.TrimSpace(d.Name),
		URL:         d.URL,
		Description: strings.TrimSpace(d.Description),
		Phone:       strings.TrimSpace(d.Phone),
		Address:     strings.TrimSpace(d.Address),
		Rating:      d.Rating,
		Hours:       d.Hours,
		Categories:  d.Categories,
		Website:     d.Website,
		Source:      source,
		SourceType:  models.SourceTypeDirectory,
	}
}

func fromSocial(s SocialHit, source string) models.ScrapedBusiness {
	var categories []string
	if s.Platform != "" {
		categories = []string{s.Platform}
	}
	return models.ScrapedBusiness{
		Title:       strings.TrimSpace(s.Name),
		URL:         s.ProfileURL,
		Description: strings.TrimSpace(s.Snippet),
		Phone:       strings.TrimSpace(s.Phone),
		Categories:  categories,
		Source:      source,
		SourceType:  models.SourceTypeSocial,
	}
}

package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"towgo/models"
)

// socialSites restricts the social provider's queries.
var socialSites = []string{"facebook.com", "instagram.com", "twitter.com", "linkedin.com", "yelp.com"}

// CustomSearchConfig configures the Google Custom Search JSON API.
type CustomSearchConfig struct {
	APIKey     string
	EngineID   string
	BaseURL    string
	MaxResults int
}

// Configured reports whether both the key and engine id are set.
func (c CustomSearchConfig) Configured() bool {
	return c.APIKey != "" && c.EngineID != ""
}

// CustomSearchProvider queries a Custom Search engine. With a site filter
// it acts as the social provider.
type CustomSearchProvider struct {
	cfg    CustomSearchConfig
	client *http.Client
	name   string
	kind   models.SourceType
	sites  []string
}

// NewCustomSearchProvider returns the general web search provider.
func NewCustomSearchProvider(cfg CustomSearchConfig, client *http.Client) *CustomSearchProvider {
	return newCustomSearch(cfg, client, "customsearch", models.SourceTypeSearch, nil)
}

// NewSocialProvider returns a provider limited to social network profiles.
func NewSocialProvider(cfg CustomSearchConfig, client *http.Client) *CustomSearchProvider {
	return newCustomSearch(cfg, client, "social", models.SourceTypeSocial, socialSites)
}

func newCustomSearch(cfg CustomSearchConfig, client *http.Client, name string, kind models.SourceType, sites []string) *CustomSearchProvider {
	if cfg.MaxResults <= 0 || cfg.MaxResults > 10 {
		cfg.MaxResults = 10
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &CustomSearchProvider{cfg: cfg, client: client, name: name, kind: kind, sites: sites}
}

func (p *CustomSearchProvider) Name() string            { return p.name }
func (p *CustomSearchProvider) Kind() models.SourceType { return p.kind }

type customSearchResponse struct {
	Items []struct {
		Link    string                      `json:"link"`
		Title   string                      `json:"title"`
		Snippet string                      `json:"snippet"`
		Pagemap map[string][]map[string]any `json:"pagemap"`
	} `json:"items"`
}

// Search runs one Custom Search request.
func (p *CustomSearchProvider) Search(ctx context.Context, q Query) ([]Hit, error) {
	searchURL, err := p.buildSearchURL(q)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned %d", resp.StatusCode)
	}

	var apiResponse customSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	hits := make([]Hit, 0, len(apiResponse.Items))
	for _, item := range apiResponse.Items {
		phone := pagemapString(item.Pagemap, "localbusiness", "telephone")
		if p.kind == models.SourceTypeSocial {
			hits = append(hits, Hit{Social: &SocialHit{
				ProfileURL: item.Link,
				Name:       item.Title,
				Snippet:    item.Snippet,
				Platform:   platformOf(item.Link),
				Phone:      phone,
			}})
			continue
		}
		hits = append(hits, Hit{Search: &SearchHit{
			Link:    item.Link,
			Title:   item.Title,
			Snippet: item.Snippet,
			Phone:   phone,
			Address: pagemapAddress(item.Pagemap),
			Rating:  pagemapRating(item.Pagemap),
		}})
	}
	return hits, nil
}

func (p *CustomSearchProvider) buildSearchURL(q Query) (string, error) {
	baseURL, err := url.Parse(p.cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid search API base URL: %w", err)
	}
	terms := q.Phrase()
	if len(p.sites) > 0 {
		filters := make([]string, len(p.sites))
		for i, s := range p.sites {
			filters[i] = "site:" + s
		}
		terms += " (" + strings.Join(filters, " OR ") + ")"
	}
	params := url.Values{}
	params.Add("key", p.cfg.APIKey)
	params.Add("cx", p.cfg.EngineID)
	params.Add("q", terms)
	params.Add("num", strconv.Itoa(p.cfg.MaxResults))
	baseURL.RawQuery = params.Encode()
	return baseURL.String(), nil
}

func pagemapString(pm map[string][]map[string]any, object, field string) string {
	entries := pm[object]
	if len(entries) == 0 {
		return ""
	}
	switch v := entries[0][field].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func pagemapAddress(pm map[string][]map[string]any) string {
	if addr := pagemapString(pm, "localbusiness", "address"); addr != "" {
		return addr
	}
	var parts []string
	for _, field := range []string{"streetaddress", "addresslocality", "addressregion", "postalcode"} {
		if v := pagemapString(pm, "postaladdress", field); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

func pagemapRating(pm map[string][]map[string]any) *float64 {
	raw := pagemapString(pm, "aggregaterating", "ratingvalue")
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func platformOf(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	for _, s := range socialSites {
		if host == s || strings.HasSuffix(host, "."+s) {
			return strings.TrimSuffix(s, ".com")
		}
	}
	return host
}

package websearch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"towgo/models"

	"github.com/PuerkitoBio/goquery"
)

// Selectors locate listing fields inside a directory page.
type Selectors struct {
	Card     string
	Name     string
	Link     string
	Phone    string
	Address  string
	Rating   string
	Category string
	Hours    string
	Snippet  string
	// Website matches the business's own site. Links matching it are never
	// used as the listing URL.
	Website  string
}

// DefaultSelectors match the schema.org-style markup most directories emit.
var DefaultSelectors = Selectors{
	Card:     ".listing",
	Name:     ".name",
	Link:     "a",
	Phone:    ".phone",
	Address:  ".address",
	Rating:   ".rating",
	Category: ".category",
	Hours:    ".hours",
	Snippet:  ".description",
	Website:  "a.website",
}

// DirectoryConfig configures the directory scraper. URLTemplate contains
// {query} and {location} placeholders.
type DirectoryConfig struct {
	URLTemplate string
	Selectors   Selectors
	MaxResults  int
}

// DirectoryProvider scrapes listing cards from a directory search page.
type DirectoryProvider struct {
	cfg    DirectoryConfig
	client *http.Client
}

// NewDirectoryProvider fills missing selectors with DefaultSelectors.
func NewDirectoryProvider(cfg DirectoryConfig, client *http.Client) *DirectoryProvider {
	cfg.Selectors = mergeSelectors(cfg.Selectors, DefaultSelectors)
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 20
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &DirectoryProvider{cfg: cfg, client: client}
}

func (p *DirectoryProvider) Name() string            { return "directory" }
func (p *DirectoryProvider) Kind() models.SourceType { return models.SourceTypeDirectory }

func (p *DirectoryProvider) pageURL(q Query) string {
	r := strings.NewReplacer(
		"{query}", url.QueryEscape(q.Text),
		"{location}", url.QueryEscape(q.Location),
	)
	return r.Replace(p.cfg.URLTemplate)
}

// Search fetches the directory page and extracts one hit per card.
func (p *DirectoryProvider) Search(ctx context.Context, q Query) ([]Hit, error) {
	pageURL := p.pageURL(q)
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid directory URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "TowGo/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directory returned %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse directory page: %w", err)
	}
	return p.extract(doc, base), nil
}

func (p *DirectoryProvider) extract(doc *goquery.Document, base *url.URL) []Hit {
	sel := p.cfg.Selectors
	var hits []Hit
	doc.Find(sel.Card).EachWithBreak(func(i int, card *goquery.Selection) bool {
		name := text(card.Find(sel.Name).First())
		if name == "" {
			return true
		}
		hit := &DirectoryHit{
			Name:        name,
			Description: text(card.Find(sel.Snippet).First()),
			Phone:       text(card.Find(sel.Phone).First()),
			Address:     text(card.Find(sel.Address).First()),
			Rating:      parseRating(text(card.Find(sel.Rating).First())),
		}
		if href, ok := card.Find(sel.Link).Not(sel.Website).First().Attr("href"); ok {
			if ref, err := url.Parse(strings.TrimSpace(href)); err == nil {
				hit.URL = base.ResolveReference(ref).String()
			}
		}
		if website, ok := card.Find(sel.Website).First().Attr("href"); ok {
			hit.Website = strings.TrimSpace(website)
		}
		card.Find(sel.Category).Each(func(_ int, s *goquery.Selection) {
			if c := text(s); c != "" {
				hit.Categories = append(hit.Categories, c)
			}
		})
		card.Find(sel.Hours).Each(func(_ int, s *goquery.Selection) {
			if h := text(s); h != "" {
				hit.Hours = append(hit.Hours, h)
			}
		})
		hits = append(hits, Hit{Directory: hit})
		return len(hits) < p.cfg.MaxResults
	})
	return hits
}

var whitespace = regexp.MustCompile(`\s+`)

func text(s *goquery.Selection) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(s.Text()), " ")
}

var ratingPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

func parseRating(raw string) *float64 {
	m := ratingPattern.FindString(raw)
	if m == "" {
		return nil
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || v > 5 {
		return nil
	}
	return &v
}

func mergeSelectors(s, d Selectors) Selectors {
	pick := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}
	return Selectors{
		Card:     pick(s.Card, d.Card),
		Name:     pick(s.Name, d.Name),
		Link:     pick(s.Link, d.Link),
		Phone:    pick(s.Phone, d.Phone),
		Address:  pick(s.Address, d.Address),
		Rating:   pick(s.Rating, d.Rating),
		Category: pick(s.Category, d.Category),
		Hours:    pick(s.Hours, d.Hours),
		Snippet:  pick(s.Snippet, d.Snippet),
		Website:  pick(s.Website, d.Website),
	}
}

// Package enhance rewrites search queries and suggests business categories
// using the Perplexity chat API. Every operation degrades to a fixed default.
package enhance

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"towgo/models"
	"towgo/observability"
	"towgo/services/degrade"

	"go.uber.org/zap"
)

const (
	component     = "enhance"
	upstream      = "perplexity"
	maxSuggestion = 5
)

// DefaultRecommendations is returned whenever suggestions cannot be generated.
var DefaultRecommendations = []string{
	"Tow Truck Service",
	"Auto Repair Shop",
	"Gas Station",
	"Car Wash",
	"Tire Shop",
}

const enhanceSystemPrompt = "You help drivers find roadside businesses. " +
	"Rewrite the user's search as a short phrase suited to a map search. " +
	"Reply with the phrase only."

const recommendSystemPrompt = "You suggest kinds of businesses a driver may need. " +
	"Reply only with a JSON array of at most 5 short strings."

// Config holds the Perplexity settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Service implements query enhancement and recommendations.
type Service struct {
	cfg        Config
	httpClient *http.Client
	cache      *Cache
	logger     *zap.Logger
}

// NewService creates the enhancement service. cache may be nil.
func NewService(cfg Config, cache *Cache, logger *zap.Logger) *Service {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Model == "" {
		cfg.Model = "sonar"
	}
	return &Service{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cache:      cache,
		logger:     logger,
	}
}

// Enabled reports whether an API key is configured.
func (s *Service) Enabled() bool {
	return s.cfg.APIKey != ""
}

func (s *Service) fallback(reason string) {
	observability.RecordDegraded(component, reason)
}

func reasonFor(err error) string {
	if errors.Is(err, errMalformed) {
		return degrade.ReasonMalformedResponse
	}
	return degrade.ReasonUpstreamError
}

// EnhanceSearchQuery rewrites query into a map-search phrase. On any
// failure the original query is returned unenhanced.
func (s *Service) EnhanceSearchQuery(ctx context.Context, query, location string) degrade.Result[models.PerplexityResult] {
	original := models.PerplexityResult{OriginalQuery: query, EnhancedQuery: query}

	if !s.Enabled() {
		s.logger.Warn("Perplexity API key not configured, returning original query")
		s.fallback(degrade.ReasonMissingCredential)
		return degrade.Fallback(original, degrade.ReasonMissingCredential)
	}

	key := cacheKey("query", query, location)
	var cached cachedEnhancement
	if found, err := s.cache.get(ctx, key, &cached); err != nil {
		s.logger.Warn("Enhancement cache read failed", zap.Error(err))
	} else if found {
		return degrade.OK(cached.resultFor(query))
	}

	userPrompt := "Search: " + query
	if strings.TrimSpace(location) != "" {
		userPrompt += "\nLocation: " + location
	}

	content, citations, err := s.chat(ctx, enhanceSystemPrompt, userPrompt)
	observability.RecordUpstream(upstream, err)
	if err != nil {
		s.logFailure("Query enhancement failed", err)
		reason := reasonFor(err)
		s.fallback(reason)
		return degrade.Fallback(original, reason)
	}

	entry := cachedEnhancement{EnhancedQuery: query, Citations: toCitations(citations)}
	if enhanced := strings.TrimSpace(content); enhanced != "" {
		entry.EnhancedQuery = enhanced
	}

	if err := s.cache.set(ctx, key, entry); err != nil {
		s.logger.Warn("Enhancement cache write failed", zap.Error(err))
	}
	return degrade.OK(entry.resultFor(query))
}

// cachedEnhancement is the caller-independent part of an enhancement. Keys
// are case-folded, so the original query is never stored.
type cachedEnhancement struct {
	EnhancedQuery string            `json:"enhancedQuery"`
	Citations     []models.Citation `json:"citations,omitempty"`
}

func (e cachedEnhancement) resultFor(query string) models.PerplexityResult {
	return models.PerplexityResult{
		OriginalQuery: query,
		EnhancedQuery: e.EnhancedQuery,
		IsEnhanced:    e.EnhancedQuery != query,
		Citations:     e.Citations,
	}
}

// GenerateRecommendations suggests up to five business categories for the
// given preferences. It never fails; see DefaultRecommendations.
func (s *Service) GenerateRecommendations(ctx context.Context, preferences []string, location string) degrade.Result[[]string] {
	prefs := cleanList(preferences, 0)

	if !s.Enabled() {
		s.logger.Warn("Perplexity API key not configured, returning default recommendations")
		s.fallback(degrade.ReasonMissingCredential)
		return degrade.Fallback(defaults(), degrade.ReasonMissingCredential)
	}
	if len(prefs) == 0 {
		s.fallback(degrade.ReasonNoInput)
		return degrade.Fallback(defaults(), degrade.ReasonNoInput)
	}

	key := cacheKey("recs", append([]string{location}, prefs...)...)
	var cached []string
	if found, err := s.cache.get(ctx, key, &cached); err != nil {
		s.logger.Warn("Recommendation cache read failed", zap.Error(err))
	} else if found {
		return degrade.OK(cached)
	}

	userPrompt := "Preferences: " + strings.Join(prefs, ", ")
	if strings.TrimSpace(location) != "" {
		userPrompt += "\nLocation: " + location
	}

	content, _, err := s.chat(ctx, recommendSystemPrompt, userPrompt)
	observability.RecordUpstream(upstream, err)
	if err != nil {
		s.logFailure("Recommendation request failed", err)
		reason := reasonFor(err)
		s.fallback(reason)
		return degrade.Fallback(defaults(), reason)
	}

	recs, ok := parseRecommendations(content)
	if !ok {
		s.logger.Warn("Recommendation content is not a JSON array", zap.String("content", content))
		s.fallback(degrade.ReasonMalformedResponse)
		return degrade.Fallback([]string{}, degrade.ReasonMalformedResponse)
	}

	if err := s.cache.set(ctx, key, recs); err != nil {
		s.logger.Warn("Recommendation cache write failed", zap.Error(err))
	}
	return degrade.OK(recs)
}

func (s *Service) logFailure(msg string, err error) {
	var se *statusError
	if errors.As(err, &se) {
		s.logger.Error(msg, zap.Int("status", se.Status), zap.String("body", se.Body))
		return
	}
	s.logger.Error(msg, zap.Error(err))
}

func defaults() []string {
	out := make([]string, len(DefaultRecommendations))
	copy(out, DefaultRecommendations)
	return out
}

// parseRecommendations accepts a bare JSON array, or the first "[" to the
// last "]" of surrounding prose.
func parseRecommendations(content string) ([]string, bool) {
	content = strings.TrimSpace(content)
	var list []string
	if err := json.Unmarshal([]byte(content), &list); err == nil {
		return cleanList(list, maxSuggestion), true
	}

	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start < 0 || end <= start {
		return []string{}, false
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &list); err != nil {
		return []string{}, false
	}
	return cleanList(list, maxSuggestion), true
}

// cleanList trims entries and drops blanks. limit 0 means no cap.
func cleanList(in []string, limit int) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func toCitations(urls []string) []models.Citation {
	if len(urls) == 0 {
		return nil
	}
	out := make([]models.Citation, 0, len(urls))
	for _, u := range urls {
		out = append(out, models.Citation{URL: u, Title: citationTitle(u)})
	}
	return out
}

// citationTitle is the last non-empty path segment, else the host.
func citationTitle(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	segments := strings.Split(u.Path, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			if unescaped, err := url.PathUnescape(segments[i]); err == nil {
				return unescaped
			}
			return segments[i]
		}
	}
	if u.Host != "" {
		return u.Host
	}
	return raw
}


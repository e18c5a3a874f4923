// Package websearch fans a query out to web providers and merges their
// listings into one deduplicated result.
package websearch

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"towgo/models"
	"towgo/observability"
	"towgo/services/degrade"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrEmptyQuery is returned for a blank query.
var ErrEmptyQuery = errors.New("query is required")

const component = "websearch"

// Aggregator runs every registered provider concurrently.
type Aggregator struct {
	providers []Provider
	timeout   time.Duration
	logger    *zap.Logger
}

// NewAggregator keeps providers in the given order, which is the merge order.
func NewAggregator(logger *zap.Logger, timeout time.Duration, providers ...Provider) *Aggregator {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Aggregator{providers: providers, timeout: timeout, logger: logger}
}

// Providers returns the registered provider names.
func (a *Aggregator) Providers() []string {
	names := make([]string, len(a.providers))
	for i, p := range a.providers {
		names[i] = p.Name()
	}
	return names
}

type providerOutcome struct {
	hits []Hit
	err  error
}

// Search validates the request, queries all providers and merges results.
// Provider failures never fail the call.
func (a *Aggregator) Search(ctx context.Context, req models.WebSearchRequest) (degrade.Result[models.WebSearchResult], error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return degrade.Result[models.WebSearchResult]{}, ErrEmptyQuery
	}
	radius := 0
	if req.Radius != nil {
		if err := models.ValidateRadius(*req.Radius); err != nil {
			return degrade.Result[models.WebSearchResult]{}, err
		}
		radius = *req.Radius
	}

	start := time.Now()
	result := models.WebSearchResult{
		OriginalQuery: req.Query,
		Businesses:    []models.ScrapedBusiness{},
		Sources:       []string{},
	}

	if len(a.providers) == 0 {
		a.logger.Warn("No web search providers configured")
		observability.RecordDegraded(component, degrade.ReasonMissingCredential)
		return degrade.Fallback(result, degrade.ReasonMissingCredential), nil
	}

	q := Query{Text: query, Location: strings.TrimSpace(req.Location), Radius: radius}
	outcomes := make([]providerOutcome, len(a.providers))

	var g errgroup.Group
	for i, p := range a.providers {
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()
			hits, err := p.Search(pctx, q)
			observability.RecordUpstream(p.Name(), err)
			outcomes[i] = providerOutcome{hits: hits, err: err}
			return nil
		})
	}
	_ = g.Wait()

	seen := make(map[string]struct{})
	for i, p := range a.providers {
		out := outcomes[i]
		if out.err != nil {
			a.logger.Warn("Web search provider failed",
				zap.String("provider", p.Name()), zap.Error(out.err))
			continue
		}
		result.Sources = append(result.Sources, p.Name())
		for _, h := range out.hits {
			b, ok := Normalize(h, p.Name())
			if !ok {
				continue
			}
			if key := dedupKey(b); key != "" {
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
			}
			result.Businesses = append(result.Businesses, b)
		}
	}

	result.TotalResults = len(result.Businesses)
	result.TimeTaken = time.Since(start).Milliseconds()

	if len(result.Sources) == 0 {
		observability.RecordDegraded(component, degrade.ReasonUpstreamError)
		return degrade.Fallback(result, degrade.ReasonUpstreamError), nil
	}

	a.logger.Info("Web search completed",
		zap.String("query", query),
		zap.Int("results", result.TotalResults),
		zap.Strings("sources", result.Sources),
		zap.Int64("timeTakenMs", result.TimeTaken))
	return degrade.OK(result), nil
}

var (
	nonDigit = regexp.MustCompile(`\D`)
	nonWord  = regexp.MustCompile(`[^a-z0-9]+`)
)

// dedupKey prefers phone digits, then title and address, then URL.
func dedupKey(b models.ScrapedBusiness) string {
	if digits := nonDigit.ReplaceAllString(b.Phone, ""); digits != "" {
		// Drop a leading US country code so +1 555... and 555... collide.
		if len(digits) == 11 && digits[0] == '1' {
			digits = digits[1:]
		}
		return "phone:" + digits
	}
	title := normalizeText(b.Title)
	address := normalizeText(b.Address)
	if title != "" || address != "" {
		return "name:" + title + "|" + address
	}
	if b.URL != "" {
		return "url:" + strings.TrimRight(strings.ToLower(b.URL), "/")
	}
	return ""
}

func normalizeText(s string) string {
	return strings.Trim(nonWord.ReplaceAllString(strings.ToLower(s), " "), " ")
}

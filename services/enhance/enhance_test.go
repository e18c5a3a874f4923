package enhance

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"towgo/services/degrade"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func perplexityServer(t *testing.T, status int, body string, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "sonar", req.Model)
		assert.Len(t, req.Messages, 2)

		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func chatBody(content string, citations ...string) string {
	b, _ := json.Marshal(map[string]any{
		"choices":   []map[string]any{{"message": map[string]string{"role": "assistant", "content": content}}},
		"citations": citations,
	})
	return string(b)
}

func newTestService(t *testing.T, baseURL string, cache *Cache) *Service {
	return NewService(Config{APIKey: "test-key", BaseURL: baseURL, Timeout: 2 * time.Second}, cache, zaptest.NewLogger(t))
}

func TestEnhanceSearchQuery_NoKey(t *testing.T) {
	svc := NewService(Config{}, nil, zaptest.NewLogger(t))
	assert.False(t, svc.Enabled())

	res := svc.EnhanceSearchQuery(context.Background(), "coffee", "")
	assert.True(t, res.Degraded)
	assert.Equal(t, degrade.ReasonMissingCredential, res.Reason)
	assert.Equal(t, "coffee", res.Value.OriginalQuery)
	assert.Equal(t, "coffee", res.Value.EnhancedQuery)
	assert.False(t, res.Value.IsEnhanced)
}

func TestEnhanceSearchQuery_Success(t *testing.T) {
	srv := perplexityServer(t, http.StatusOK,
		chatBody("  24 hour tow truck service  ", "https://example.com/towing/best-tow", "https://yelp.com"), nil)
	svc := newTestService(t, srv.URL, nil)

	res := svc.EnhanceSearchQuery(context.Background(), "tow", "Denver, CO")
	require.False(t, res.Degraded)
	assert.Equal(t, "tow", res.Value.OriginalQuery)
	assert.Equal(t, "24 hour tow truck service", res.Value.EnhancedQuery)
	assert.True(t, res.Value.IsEnhanced)
	require.Len(t, res.Value.Citations, 2)
	assert.Equal(t, "best-tow", res.Value.Citations[0].Title)
	assert.Equal(t, "yelp.com", res.Value.Citations[1].Title)
}

func TestEnhanceSearchQuery_EmptyContentKeepsOriginal(t *testing.T) {
	srv := perplexityServer(t, http.StatusOK, chatBody("   "), nil)
	svc := newTestService(t, srv.URL, nil)

	res := svc.EnhanceSearchQuery(context.Background(), "tow", "")
	assert.False(t, res.Degraded)
	assert.Equal(t, "tow", res.Value.EnhancedQuery)
	assert.False(t, res.Value.IsEnhanced)
}

func TestEnhanceSearchQuery_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		reason string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`, degrade.ReasonUpstreamError},
		{"unauthorized", http.StatusUnauthorized, `nope`, degrade.ReasonUpstreamError},
		{"malformed body", http.StatusOK, `{not json`, degrade.ReasonMalformedResponse},
		{"no choices", http.StatusOK, `{"choices":[]}`, degrade.ReasonMalformedResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := perplexityServer(t, tt.status, tt.body, nil)
			svc := newTestService(t, srv.URL, nil)

			res := svc.EnhanceSearchQuery(context.Background(), "coffee", "")
			assert.True(t, res.Degraded)
			assert.Equal(t, tt.reason, res.Reason)
			assert.Equal(t, "coffee", res.Value.EnhancedQuery)
			assert.False(t, res.Value.IsEnhanced)
		})
	}
}

func TestEnhanceSearchQuery_TransportError(t *testing.T) {
	svc := newTestService(t, "http://127.0.0.1:1", nil)

	res := svc.EnhanceSearchQuery(context.Background(), "coffee", "")
	assert.True(t, res.Degraded)
	assert.Equal(t, degrade.ReasonUpstreamError, res.Reason)
	assert.Equal(t, "coffee", res.Value.EnhancedQuery)
}

func TestEnhanceSearchQuery_Cached(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	var calls int32
	srv := perplexityServer(t, http.StatusOK, chatBody("tow truck near me"), &calls)
	svc := newTestService(t, srv.URL, NewCache(rdb, time.Minute))

	first := svc.EnhanceSearchQuery(context.Background(), "tow", "Austin")
	second := svc.EnhanceSearchQuery(context.Background(), "TOW ", "austin")

	assert.Equal(t, "tow", first.Value.OriginalQuery)
	assert.Equal(t, "TOW ", second.Value.OriginalQuery)
	assert.Equal(t, first.Value.EnhancedQuery, second.Value.EnhancedQuery)
	assert.True(t, second.Value.IsEnhanced)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Len(t, mr.Keys(), 1)
	assert.Contains(t, mr.Keys()[0], "enhance:query:")
}

func TestEnhanceSearchQuery_CachedResultBelongsToCaller(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	srv := perplexityServer(t, http.StatusOK, chatBody("tow truck"), nil)
	svc := newTestService(t, srv.URL, NewCache(rdb, time.Minute))

	first := svc.EnhanceSearchQuery(context.Background(), "Tow Truck", "")
	second := svc.EnhanceSearchQuery(context.Background(), "tow truck", "")

	assert.True(t, first.Value.IsEnhanced)
	assert.Equal(t, "tow truck", second.Value.OriginalQuery)
	assert.Equal(t, "tow truck", second.Value.EnhancedQuery)
	assert.False(t, second.Value.IsEnhanced)
}

func TestEnhanceSearchQuery_DegradedNotCached(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	srv := perplexityServer(t, http.StatusBadGateway, "down", nil)
	svc := newTestService(t, srv.URL, NewCache(rdb, time.Minute))

	res := svc.EnhanceSearchQuery(context.Background(), "tow", "")
	assert.True(t, res.Degraded)
	assert.Empty(t, mr.Keys())
}

func TestEnhanceSearchQuery_CacheDownStillServes(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mr.Close()
	srv := perplexityServer(t, http.StatusOK, chatBody("tow truck"), nil)
	svc := newTestService(t, srv.URL, NewCache(rdb, time.Minute))

	res := svc.EnhanceSearchQuery(context.Background(), "tow", "")
	assert.False(t, res.Degraded)
	assert.Equal(t, "tow truck", res.Value.EnhancedQuery)
}

func TestGenerateRecommendations_Defaults(t *testing.T) {
	want := []string{"Tow Truck Service", "Auto Repair Shop", "Gas Station", "Car Wash", "Tire Shop"}

	t.Run("no key", func(t *testing.T) {
		svc := NewService(Config{}, nil, zaptest.NewLogger(t))
		res := svc.GenerateRecommendations(context.Background(), []string{"fast"}, "")
		assert.Equal(t, want, res.Value)
		assert.Equal(t, degrade.ReasonMissingCredential, res.Reason)
	})

	t.Run("empty preferences", func(t *testing.T) {
		svc := newTestService(t, "http://127.0.0.1:1", nil)
		res := svc.GenerateRecommendations(context.Background(), []string{" ", ""}, "")
		assert.Equal(t, want, res.Value)
		assert.Equal(t, degrade.ReasonNoInput, res.Reason)
	})

	t.Run("upstream error", func(t *testing.T) {
		srv := perplexityServer(t, http.StatusInternalServerError, "boom", nil)
		svc := newTestService(t, srv.URL, nil)
		res := svc.GenerateRecommendations(context.Background(), []string{"cheap"}, "")
		assert.Equal(t, want, res.Value)
		assert.Equal(t, degrade.ReasonUpstreamError, res.Reason)
	})

	t.Run("defaults are copies", func(t *testing.T) {
		svc := NewService(Config{}, nil, zaptest.NewLogger(t))
		res := svc.GenerateRecommendations(context.Background(), nil, "")
		res.Value[0] = "mutated"
		assert.Equal(t, "Tow Truck Service", DefaultRecommendations[0])
	})
}

func TestGenerateRecommendations_Parsing(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		want     []string
		degraded bool
	}{
		{"bare array", `["Tow Truck Service","Locksmith"]`, []string{"Tow Truck Service", "Locksmith"}, false},
		{"wrapped in prose", "Sure! Here you go: [\"Gas Station\", \" Car Wash \"] Hope that helps.", []string{"Gas Station", "Car Wash"}, false},
		{"capped at five", `["a","b","c","d","e","f","g"]`, []string{"a", "b", "c", "d", "e"}, false},
		{"blanks dropped", `["a","  ","b"]`, []string{"a", "b"}, false},
		{"no brackets", "Tow trucks and gas stations are nearby.", []string{}, true},
		{"broken array", `[ "a", ]`, []string{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := perplexityServer(t, http.StatusOK, chatBody(tt.content), nil)
			svc := newTestService(t, srv.URL, nil)

			res := svc.GenerateRecommendations(context.Background(), []string{"roadside"}, "Reno")
			assert.Equal(t, tt.want, res.Value)
			assert.Equal(t, tt.degraded, res.Degraded)
			if tt.degraded {
				assert.Equal(t, degrade.ReasonMalformedResponse, res.Reason)
			}
		})
	}
}

func TestCitationTitle(t *testing.T) {
	assert.Equal(t, "page", citationTitle("https://example.com/a/page/"))
	assert.Equal(t, "example.com", citationTitle("https://example.com"))
	assert.Equal(t, "tow service", citationTitle("https://example.com/tow%20service"))
}

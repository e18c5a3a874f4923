package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"towgo/models"
	"towgo/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded first valid", map[string]string{"X-Forwarded-For": "garbage, 203.0.113.7, 10.0.0.1"}, "1.1.1.1:80", "203.0.113.7"},
		{"real ip", map[string]string{"X-Real-IP": " 198.51.100.2 "}, "1.1.1.1:80", "198.51.100.2"},
		{"remote addr", nil, "192.0.2.10:5555", "192.0.2.10"},
		{"ipv6 remote", nil, "[2001:db8::1]:443", "2001:db8::1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Request.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				c.Request.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(c))
		})
	}
}

func TestJWTAuthMiddleware(t *testing.T) {
	tokens := utils.NewTokenManager("secret")
	r := gin.New()
	r.GET("/me", JWTAuthMiddleware(tokens, nil), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(utils.ContextUserID))
	})

	good, err := tokens.GenerateToken("user-42", "a@b.c", time.Hour)
	require.NoError(t, err)
	forged, err := utils.NewTokenManager("other").GenerateToken("user-42", "a@b.c", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + good, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + good, http.StatusUnauthorized},
		{"forged", "Bearer " + forged, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "user-42", w.Body.String())
			}
		})
	}
}

type recordingUsers struct {
	mu    sync.Mutex
	calls []models.User
	err   error
}

func (r *recordingUsers) Ensure(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, *u)
	return r.err
}

func (r *recordingUsers) GetByID(context.Context, string) (*models.User, error) {
	return nil, errors.New("not implemented")
}

func TestJWTAuthMiddlewareRecordsUserOnce(t *testing.T) {
	tokens := utils.NewTokenManager("secret")
	users := &recordingUsers{}
	r := gin.New()
	r.GET("/me", JWTAuthMiddleware(tokens, users), func(c *gin.Context) { c.Status(http.StatusOK) })

	token, err := tokens.GenerateToken("user-7", "seven@example.com", time.Hour)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}

	require.Len(t, users.calls, 1)
	assert.Equal(t, "user-7", users.calls[0].ID)
	assert.Equal(t, "seven@example.com", users.calls[0].Email)
}

func TestJWTAuthMiddlewareToleratesRecordFailure(t *testing.T) {
	tokens := utils.NewTokenManager("secret")
	users := &recordingUsers{err: errors.New("db down")}
	r := gin.New()
	r.GET("/me", JWTAuthMiddleware(tokens, users), func(c *gin.Context) { c.Status(http.StatusOK) })

	token, err := tokens.GenerateToken("user-7", "", time.Hour)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
	assert.Len(t, users.calls, 2)
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "203.0.113.9:1234"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.10:1234"
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSearchGuard(t *testing.T) {
	guard := NewSearchGuard()
	entered := make(chan struct{})
	unblock := make(chan struct{})

	r := gin.New()
	r.GET("/api/search", guard.Middleware(), func(c *gin.Context) {
		if c.Query("slow") == "1" {
			close(entered)
			<-unblock
		}
		c.Status(http.StatusOK)
	})

	var wg sync.WaitGroup
	first := httptest.NewRecorder()
	wg.Add(1)
	go func() {
		defer wg.Done()
		r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/search?slow=1", nil))
	}()
	<-entered

	dup := httptest.NewRecorder()
	r.ServeHTTP(dup, httptest.NewRequest(http.MethodGet, "/api/search?slow=1", nil))
	assert.Equal(t, http.StatusTooManyRequests, dup.Code)
	assert.Contains(t, dup.Body.String(), "search already in progress")

	other := httptest.NewRecorder()
	r.ServeHTTP(other, httptest.NewRequest(http.MethodGet, "/api/search?slow=0", nil))
	assert.Equal(t, http.StatusOK, other.Code)

	close(unblock)
	wg.Wait()
	assert.Equal(t, http.StatusOK, first.Code)

	// The slot is released once the first search finishes.
	assert.True(t, guard.acquire("192.0.2.1|/api/search?slow=1"))
}

func TestIPLocator(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		switch r.URL.Path {
		case "/203.0.113.5/json/":
			_, _ = w.Write([]byte(`{"city":"Reno","country_name":"United States","latitude":39.5,"longitude":-119.8}`))
		case "/198.51.100.1/json/":
			_, _ = w.Write([]byte(`{"error":true,"reason":"Reserved IP Address"}`))
		default:
			w.WriteHeader(http.StatusTooManyRequests)
		}
	}))
	defer srv.Close()

	loc := NewIPLocator(srv.URL, time.Second, zaptest.NewLogger(t))

	geo := loc.Locate(t.Context(), "203.0.113.5")
	require.NotNil(t, geo.Point())
	assert.Equal(t, 39.5, geo.Point().Lat)
	assert.Equal(t, "Reno", geo.City)

	loc.Locate(t.Context(), "203.0.113.5")
	assert.Equal(t, 1, calls)

	assert.Nil(t, loc.Locate(t.Context(), "198.51.100.1").Point())
	assert.Nil(t, loc.Locate(t.Context(), "192.0.2.99").Point())

	private := loc.Locate(t.Context(), "10.1.2.3")
	assert.Equal(t, "Unknown", private.Country)
	assert.Nil(t, private.Point())
	assert.Equal(t, 3, calls)
}

func TestIPLocatorCacheExpiresAndStaysBounded(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"city":"Reno","country_name":"United States","latitude":39.5,"longitude":-119.8}`))
	}))
	defer srv.Close()

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	loc := NewIPLocator(srv.URL, time.Second, zaptest.NewLogger(t))
	loc.now = func() time.Time { return clock }
	loc.maxEntries = 3

	loc.Locate(t.Context(), "203.0.113.5")
	loc.Locate(t.Context(), "203.0.113.5")
	assert.Equal(t, 1, calls)

	clock = clock.Add(geoCacheTTL + time.Second)
	loc.Locate(t.Context(), "203.0.113.5")
	assert.Equal(t, 2, calls)

	for i := 1; i <= 10; i++ {
		loc.Locate(t.Context(), fmt.Sprintf("198.51.100.%d", i))
		assert.LessOrEqual(t, len(loc.cache), 3)
	}
	_, latest := loc.cache["198.51.100.10"]
	assert.True(t, latest)
}

func TestRateLimiterStoreSweepsIdleEntries(t *testing.T) {
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := newRateLimiterStore(2)
	store.now = func() time.Time { return clock }
	store.lastSweep = clock

	for i := 1; i <= 50; i++ {
		store.getLimiter(fmt.Sprintf("198.51.100.%d", i))
	}
	active := store.getLimiter("203.0.113.5")
	require.True(t, active.Allow())
	require.True(t, active.Allow())
	assert.Len(t, store.limiters, 51)

	clock = clock.Add(2 * time.Minute)
	store.getLimiter("203.0.113.5")
	assert.Len(t, store.limiters, 51)

	clock = clock.Add(limiterIdleTTL)
	assert.Same(t, active, store.getLimiter("203.0.113.5"))
	assert.Len(t, store.limiters, 1)
}

func TestGeolocationMiddleware(t *testing.T) {
	loc := NewIPLocator("http://127.0.0.1:1", time.Second, zaptest.NewLogger(t))
	r := gin.New()
	r.GET("/", GeolocationMiddleware(loc), func(c *gin.Context) {
		geo := GeoLocationFrom(c)
		require.NotNil(t, geo)
		c.String(http.StatusOK, geo.Country)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "127.0.0.1:9999"
	r.ServeHTTP(w, req)
	assert.Equal(t, "Unknown", w.Body.String())
}

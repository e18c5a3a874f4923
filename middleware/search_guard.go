package middleware

import (
	"net/http"
	"sync"

	"towgo/utils"

	"github.com/gin-gonic/gin"
)

// SearchGuard rejects a search while an identical one from the same client
// is still running. It is advisory and process local.
type SearchGuard struct {
	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewSearchGuard creates an empty guard.
func NewSearchGuard() *SearchGuard {
	return &SearchGuard{inflight: make(map[string]struct{})}
}

func (g *SearchGuard) acquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inflight[key]; busy {
		return false
	}
	g.inflight[key] = struct{}{}
	return true
}

func (g *SearchGuard) release(key string) {
	g.mu.Lock()
	delete(g.inflight, key)
	g.mu.Unlock()
}

// Middleware keys requests by client IP, path and query string.
func (g *SearchGuard) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := getClientIP(c) + "|" + c.Request.URL.Path + "?" + c.Request.URL.RawQuery
		if !g.acquire(key) {
			utils.JSONError(c, http.StatusTooManyRequests, "search already in progress", "")
			return
		}
		defer g.release(key)
		c.Next()
	}
}

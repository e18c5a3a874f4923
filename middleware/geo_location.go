// File: middleware/geolocation.go
package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"towgo/models"
	"towgo/observability"
	"towgo/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GeoLocation represents the geolocation information for an IP.
type GeoLocation struct {
	IP          string  `json:"ip"`
	City        string  `json:"city"`
	Region      string  `json:"region"`
	Country     string  `json:"country_name"`
	CountryCode string  `json:"country_code"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Timezone    string  `json:"timezone"`
	Error       bool    `json:"error,omitempty"`
	Reason      string  `json:"reason,omitempty"`
}

// Point returns the coordinates, or nil when the lookup produced none.
func (g *GeoLocation) Point() *models.LatLng {
	if g == nil || (g.Latitude == 0 && g.Longitude == 0) {
		return nil
	}
	return &models.LatLng{Lat: g.Latitude, Lng: g.Longitude}
}

// isPrivateIP checks if an IP is private or loopback.
func isPrivateIP(ip string) bool {
	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return false
	}
	return parsedIP.IsPrivate() || parsedIP.IsLoopback() || parsedIP.IsLinkLocalUnicast() || parsedIP.IsUnspecified()
}

const (
	geoCacheTTL        = 6 * time.Hour
	geoCacheMaxEntries = 10000
)

type geoCacheEntry struct {
	geo     *GeoLocation
	expires time.Time
}

// IPLocator resolves client IPs through an ipapi.co compatible service and
// caches results in memory for geoCacheTTL, holding at most maxEntries.
type IPLocator struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger

	mu         sync.RWMutex
	cache      map[string]geoCacheEntry
	maxEntries int
	now        func() time.Time
}

// NewIPLocator creates a locator for baseURL, e.g. https://ipapi.co.
func NewIPLocator(baseURL string, timeout time.Duration, logger *zap.Logger) *IPLocator {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &IPLocator{
		baseURL:    strings.TrimRight(baseURL, "/"),
		client:     &http.Client{Timeout: timeout},
		logger:     logger,
		cache:      make(map[string]geoCacheEntry),
		maxEntries: geoCacheMaxEntries,
		now:        time.Now,
	}
}

func unknownLocation(ip string) *GeoLocation {
	return &GeoLocation{IP: ip, Country: "Unknown"}
}

// Locate never fails: private IPs and lookup errors yield an Unknown location
// without coordinates. Only successful lookups are cached.
func (l *IPLocator) Locate(ctx context.Context, ip string) *GeoLocation {
	if ip == "" {
		return unknownLocation(ip)
	}

	l.mu.RLock()
	entry, exists := l.cache[ip]
	l.mu.RUnlock()
	if exists && l.now().Before(entry.expires) {
		return entry.geo
	}

	if isPrivateIP(ip) {
		l.logger.Debug("Client IP is private; using default geolocation", zap.String("ip", ip))
		return unknownLocation(ip)
	}

	geo, err := l.lookup(ctx, ip)
	observability.RecordUpstream("geoip", err)
	if err != nil {
		l.logger.Warn("IP geolocation failed", zap.String("ip", ip), zap.Error(err))
		return unknownLocation(ip)
	}
	if geo.Country == "" {
		geo.Country = "Unknown"
	}

	l.store(ip, geo)
	return geo
}

// store drops expired entries once the cache is full, then arbitrary ones
// until there is room.
func (l *IPLocator) store(ip string, geo *GeoLocation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if _, exists := l.cache[ip]; !exists && len(l.cache) >= l.maxEntries {
		for key, entry := range l.cache {
			if !now.Before(entry.expires) {
				delete(l.cache, key)
			}
		}
		for key := range l.cache {
			if len(l.cache) < l.maxEntries {
				break
			}
			delete(l.cache, key)
		}
	}
	l.cache[ip] = geoCacheEntry{geo: geo, expires: now.Add(geoCacheTTL)}
}

func (l *IPLocator) lookup(ctx context.Context, ip string) (*GeoLocation, error) {
	url := fmt.Sprintf("%s/%s/json/", l.baseURL, ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query geolocation API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geolocation API returned %d", resp.StatusCode)
	}

	var geo GeoLocation
	if err := json.NewDecoder(resp.Body).Decode(&geo); err != nil {
		return nil, fmt.Errorf("failed to decode geolocation response: %w", err)
	}
	if geo.Error {
		return nil, fmt.Errorf("geolocation API error: %s", geo.Reason)
	}
	geo.IP = ip
	return &geo, nil
}

// GeolocationMiddleware stores the caller's IP geolocation under
// utils.ContextGeoLocation.
func GeolocationMiddleware(locator *IPLocator) gin.HandlerFunc {
	return func(c *gin.Context) {
		geo := locator.Locate(c.Request.Context(), getClientIP(c))
		c.Set(utils.ContextGeoLocation, geo)
		c.Next()
	}
}

// GeoLocationFrom returns the location stored by GeolocationMiddleware, if any.
func GeoLocationFrom(c *gin.Context) *GeoLocation {
	v, ok := c.Get(utils.ContextGeoLocation)
	if !ok {
		return nil
	}
	geo, _ := v.(*GeoLocation)
	return geo
}

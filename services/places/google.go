package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"towgo/models"
	"towgo/observability"
)

// DefaultMapsBaseURL is the Google Maps web service root.
const DefaultMapsBaseURL = "https://maps.googleapis.com/maps/api"

// ErrLocationNotFound is returned when an address geocodes to nothing.
var ErrLocationNotFound = errors.New("location could not be resolved")

// MapsClient is the subset of Google Maps used by the search service.
type MapsClient interface {
	Geocode(ctx context.Context, address string) (models.LatLng, error)
	Nearby(ctx context.Context, ref models.LatLng, radius int, keyword string) ([]models.Business, error)
}

// GoogleClient calls the Geocoding and Places Nearby Search APIs.
type GoogleClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGoogleClient creates a Maps client. An empty baseURL uses DefaultMapsBaseURL.
func NewGoogleClient(apiKey, baseURL string, httpClient *http.Client) *GoogleClient {
	if baseURL == "" {
		baseURL = DefaultMapsBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &GoogleClient{apiKey: apiKey, baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Geometry struct {
			Location models.LatLng `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

type nearbyResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		PlaceID          string   `json:"place_id"`
		Name             string   `json:"name"`
		Types            []string `json:"types"`
		Vicinity         string   `json:"vicinity"`
		FormattedAddress string   `json:"formatted_address"`
		Rating           float64  `json:"rating"`
		Geometry         struct {
			Location models.LatLng `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode resolves an address to coordinates.
func (c *GoogleClient) Geocode(ctx context.Context, address string) (models.LatLng, error) {
	params := url.Values{}
	params.Add("address", address)
	params.Add("key", c.apiKey)

	var data geocodeResponse
	err := c.get(ctx, "/geocode/json", params, &data)
	observability.RecordUpstream("google_geocode", err)
	if err != nil {
		return models.LatLng{}, err
	}
	switch data.Status {
	case "OK":
	case "ZERO_RESULTS":
		return models.LatLng{}, ErrLocationNotFound
	default:
		return models.LatLng{}, fmt.Errorf("geocoding failed with status %s: %s", data.Status, data.ErrorMessage)
	}
	if len(data.Results) == 0 {
		return models.LatLng{}, ErrLocationNotFound
	}
	return data.Results[0].Geometry.Location, nil
}

// Nearby returns businesses around ref matching keyword, in provider order.
func (c *GoogleClient) Nearby(ctx context.Context, ref models.LatLng, radius int, keyword string) ([]models.Business, error) {
	params := url.Values{}
	params.Add("location", fmt.Sprintf("%.6f,%.6f", ref.Lat, ref.Lng))
	params.Add("radius", strconv.Itoa(radius))
	if keyword != "" {
		params.Add("keyword", keyword)
	}
	params.Add("key", c.apiKey)

	var data nearbyResponse
	err := c.get(ctx, "/place/nearbysearch/json", params, &data)
	observability.RecordUpstream("google_places", err)
	if err != nil {
		return nil, err
	}
	switch data.Status {
	case "OK", "ZERO_RESULTS":
	default:
		return nil, fmt.Errorf("places search failed with status %s: %s", data.Status, data.ErrorMessage)
	}

	businesses := make([]models.Business, 0, len(data.Results))
	for _, place := range data.Results {
		address := place.Vicinity
		if address == "" {
			address = place.FormattedAddress
		}
		businesses = append(businesses, models.Business{
			PlaceID:  place.PlaceID,
			Name:     place.Name,
			Category: firstMeaningfulType(place.Types),
			Address:  address,
			Rating:   place.Rating,
			Location: place.Geometry.Location,
		})
	}
	return businesses, nil
}

func (c *GoogleClient) get(ctx context.Context, path string, params url.Values, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call Google Maps API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("Google Maps API error (status %d): %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to parse Google Maps response: %w", err)
	}
	return nil
}

// firstMeaningfulType skips Google's generic place types.
func firstMeaningfulType(types []string) string {
	skip := map[string]bool{"point_of_interest": true, "establishment": true}
	for _, t := range types {
		if !skip[t] {
			return t
		}
	}
	if len(types) > 0 {
		return types[0]
	}
	return "business"
}

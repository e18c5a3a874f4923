// Package places finds nearby businesses and orders them for display.
package places

import (
	"context"
	"errors"
	"fmt"

	"towgo/models"

	"go.uber.org/zap"
)

// DefaultBusinessType is searched when the request names none.
const DefaultBusinessType = "tow truck"

var (
	// ErrPlacesUnavailable is returned when no Maps key is configured.
	ErrPlacesUnavailable = errors.New("places search is not configured")
	// ErrNoReferencePoint is returned when neither coordinates, a location nor a fallback is known.
	ErrNoReferencePoint = errors.New("a location or coordinates are required")
)

// Service runs validated nearby searches.
type Service struct {
	maps   MapsClient
	logger *zap.Logger
}

// NewService returns a search service. A nil maps client makes Search
// return ErrPlacesUnavailable.
func NewService(maps MapsClient, logger *zap.Logger) *Service {
	return &Service{maps: maps, logger: logger}
}

// Enabled reports whether a Maps client is configured.
func (s *Service) Enabled() bool {
	return s.maps != nil
}

// Search resolves the reference point (coordinates, then the location
// string, then fallback), queries nearby places and applies the sort.
func (s *Service) Search(ctx context.Context, params models.SearchParams, fallback *models.LatLng) ([]models.Business, error) {
	params.Normalize()
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if s.maps == nil {
		return nil, ErrPlacesUnavailable
	}

	ref, err := s.resolve(ctx, params, fallback)
	if err != nil {
		return nil, err
	}

	keyword := params.BusinessType
	if keyword == "" {
		keyword = DefaultBusinessType
	}

	found, err := s.maps.Nearby(ctx, ref, params.Radius, keyword)
	if err != nil {
		return nil, fmt.Errorf("nearby search failed: %w", err)
	}

	results := Sort(Annotate(found, ref), params.SortBy)
	s.logger.Info("Nearby search completed",
		zap.Float64("lat", ref.Lat),
		zap.Float64("lng", ref.Lng),
		zap.Int("radius", params.Radius),
		zap.String("businessType", keyword),
		zap.Int("results", len(results)))
	return results, nil
}

func (s *Service) resolve(ctx context.Context, params models.SearchParams, fallback *models.LatLng) (models.LatLng, error) {
	if params.HasCoordinates() {
		return params.Coordinates(), nil
	}
	if params.Location != "" {
		ref, err := s.maps.Geocode(ctx, params.Location)
		if err != nil {
			if errors.Is(err, ErrLocationNotFound) {
				return models.LatLng{}, err
			}
			return models.LatLng{}, fmt.Errorf("geocoding failed: %w", err)
		}
		return ref, nil
	}
	if fallback != nil {
		return *fallback, nil
	}
	return models.LatLng{}, ErrNoReferencePoint
}

package models

import (
	"errors"
	"fmt"
	"strings"
)

// SortBy selects the ordering applied to a business list.
type SortBy string

const (
	SortByDistance  SortBy = "distance"
	SortByRelevance SortBy = "relevance"
	SortByCategory  SortBy = "category"
)

// Radius bounds, in meters.
const (
	MinRadius     = 1
	MaxRadius     = 50000
	DefaultRadius = 5000
)

var (
	ErrInvalidRadius      = fmt.Errorf("radius must be between %d and %d meters", MinRadius, MaxRadius)
	ErrInvalidSortBy      = errors.New("sortBy must be one of distance, relevance, category")
	ErrInvalidCoordinates = errors.New("latitude must be within [-90,90] and longitude within [-180,180]")
	ErrPartialCoordinates = errors.New("latitude and longitude must be provided together")
)

// SearchParams describes a nearby-business search.
// Callers populate either Location or the Latitude/Longitude pair.
type SearchParams struct {
	Location     string   `form:"location" json:"location,omitempty"`
	Latitude     *float64 `form:"lat" json:"latitude,omitempty"`
	Longitude    *float64 `form:"lng" json:"longitude,omitempty"`
	Radius       int      `form:"radius" json:"radius"`
	BusinessType string   `form:"businessType" json:"businessType,omitempty"`
	SortBy       SortBy   `form:"sortBy" json:"sortBy"`
}

// HasCoordinates reports whether both coordinates are set.
func (p SearchParams) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// Coordinates returns the coordinate pair. Only meaningful when HasCoordinates is true.
func (p SearchParams) Coordinates() LatLng {
	return LatLng{Lat: *p.Latitude, Lng: *p.Longitude}
}

// Normalize applies defaults for omitted fields.
func (p *SearchParams) Normalize() {
	p.Location = strings.TrimSpace(p.Location)
	p.BusinessType = strings.TrimSpace(p.BusinessType)
	if p.SortBy == "" {
		p.SortBy = SortByDistance
	}
}

// Validate checks the bounded fields. Whether a reference point can be
// resolved is decided by the caller, which may have a fallback location.
func (p SearchParams) Validate() error {
	if err := ValidateRadius(p.Radius); err != nil {
		return err
	}
	switch p.SortBy {
	case SortByDistance, SortByRelevance, SortByCategory:
	default:
		return ErrInvalidSortBy
	}
	if (p.Latitude == nil) != (p.Longitude == nil) {
		return ErrPartialCoordinates
	}
	if p.HasCoordinates() && !ValidCoordinates(p.Coordinates()) {
		return ErrInvalidCoordinates
	}
	return nil
}

// ValidateRadius enforces the 1..50000 meter bound.
func ValidateRadius(radius int) error {
	if radius < MinRadius || radius > MaxRadius {
		return ErrInvalidRadius
	}
	return nil
}

// ValidCoordinates reports whether the point lies within WGS84 bounds.
func ValidCoordinates(p LatLng) bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

package places

import (
	"math"
	"sort"
	"strings"

	"towgo/models"
)

// EarthRadiusMeters is the mean earth radius used by Distance.
const EarthRadiusMeters = 6371000.0

// Distance returns the great-circle distance between a and b in meters.
func Distance(a, b models.LatLng) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * EarthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

// Annotate returns a copy of businesses with Distance set relative to ref.
func Annotate(businesses []models.Business, ref models.LatLng) []models.Business {
	out := make([]models.Business, len(businesses))
	for i, b := range businesses {
		d := Distance(ref, b.Location)
		b.Distance = &d
		out[i] = b
	}
	return out
}

// Sort returns a reordered copy. Unknown modes keep the input order.
func Sort(businesses []models.Business, by models.SortBy) []models.Business {
	out := make([]models.Business, len(businesses))
	copy(out, businesses)

	switch by {
	case models.SortByDistance:
		sort.SliceStable(out, func(i, j int) bool {
			di, dj := out[i].Distance, out[j].Distance
			if di == nil {
				return false
			}
			if dj == nil {
				return true
			}
			return *di < *dj
		})
	case models.SortByCategory:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Category) < strings.ToLower(out[j].Category)
		})
	}
	return out
}

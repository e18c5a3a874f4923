package models

// LatLng is a WGS84 coordinate in decimal degrees.
type LatLng struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// Business is a place returned by the maps search path.
// Distance is derived per request relative to the querying coordinate and is never stored.
type Business struct {
	PlaceID     string   `json:"placeId" binding:"required"`
	Name        string   `json:"name" binding:"required"`
	Category    string   `json:"category,omitempty"`
	Address     string   `json:"address"`
	PhoneNumber string   `json:"phoneNumber,omitempty"`
	Website     string   `json:"website,omitempty"`
	Rating      float64  `json:"rating,omitempty"`
	Location    LatLng   `json:"location"`
	Distance    *float64 `json:"distance,omitempty"`
}

package models

import "time"

// Favorite is a user-saved reference to a business.
type Favorite struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	PlaceID     string    `json:"placeId"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	Location    LatLng    `json:"location"`
	CreatedAt   time.Time `json:"createdAt"`
}

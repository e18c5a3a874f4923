package models

import "time"

// ShareRequest is the body of POST /api/location-share. Expires is in minutes.
type ShareRequest struct {
	Address            string  `json:"address"`
	Location           LatLng  `json:"location"`
	Accuracy           float64 `json:"accuracy"`
	Expires            int     `json:"expires"`
	IncludeVehicleInfo bool    `json:"includeVehicleInfo"`
}

// LocationShare is a time-limited, publicly readable snapshot of a user's position.
type LocationShare struct {
	ShareID            string    `json:"shareId" bson:"shareId"`
	UserID             string    `json:"-" bson:"userId"`
	Address            string    `json:"address" bson:"address"`
	Location           LatLng    `json:"location" bson:"location"`
	Accuracy           float64   `json:"accuracy" bson:"accuracy"`
	IncludeVehicleInfo bool      `json:"includeVehicleInfo" bson:"includeVehicleInfo"`
	ExpiresAt          time.Time `json:"expiresAt" bson:"expiresAt"`
	CreatedAt          time.Time `json:"createdAt" bson:"createdAt"`
}

// File: utils/constants.go
package utils

import "time"

// ContextUserID is the gin context key holding the authenticated user's ID.
const ContextUserID = "userID"

// ContextGeoLocation is the gin context key holding the caller's IP geolocation.
const ContextGeoLocation = "geoLocation"

// DegradedHeader is set on responses that carry a fallback value.
const DegradedHeader = "X-TowGo-Degraded"

// QueryTimeout bounds every repository call.
const QueryTimeout = 5 * time.Second

// Package degrade models best-effort calls that may fall back to a static default.
package degrade

// Reasons reported when a call falls back.
const (
	ReasonMissingCredential = "missing_credential"
	ReasonUpstreamError     = "upstream_error"
	ReasonMalformedResponse = "malformed_response"
	ReasonNoInput           = "no_preferences"
)

// Result carries a value together with whether it is a fallback.
type Result[T any] struct {
	Value    T
	Degraded bool
	Reason   string
}

// OK wraps a value produced by a successful call.
func OK[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Fallback wraps a default value returned instead of a failed or skipped call.
func Fallback[T any](v T, reason string) Result[T] {
	return Result[T]{Value: v, Degraded: true, Reason: reason}
}

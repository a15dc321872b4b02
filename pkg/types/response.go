package types

import "time"

// SuccessEnvelope is the body of every successful API response. Summary and
// Calculations are only set by the analytics endpoints that produce them.
type SuccessEnvelope struct {
	Success      bool      `json:"success"`
	Data         any       `json:"data"`
	Summary      any       `json:"summary,omitempty"`
	Calculations any       `json:"calculations,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Success bool     `json:"success"`
	Error   APIError `json:"error"`
}

// Page wraps a cursor-paginated list.
type Page[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"`
}

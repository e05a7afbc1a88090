// Package api defines the JSON bodies shared by every HTTP handler.
package api

// ErrorResponse is the body returned for every non-2xx response.
type ErrorResponse struct {
	Message string `json:"message"`
}

// MessageResponse is returned by endpoints that only confirm an action.
type MessageResponse struct {
	Message string `json:"message"`
}

// Package types holds the response bodies of the API
package types

import "github.com/celestiaorg/verse/internal/db/models"

// ErrorResponse represents an error response
// Example: {"message":"validation failed","details":{"field":"name","message":"name is required"}}
type ErrorResponse struct {
	// Message describing what went wrong
	Message string `json:"message"`

	// Optional additional details about the error, may include field-specific validation errors
	Details interface{} `json:"details,omitempty"`
}

// MessageResponse carries a single informational message
// Example: {"message":"Welcome welcome!! VERSE API"}
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is returned by the health endpoint
// Example: {"status":"healthy"}
type HealthResponse struct {
	Status string `json:"status"`
}

// RouteNotFoundResponse is returned for unmatched paths
// Example: {"message":"Route not found","path":"nonexistent/path"}
type RouteNotFoundResponse struct {
	Message string `json:"message"`
	Path    string `json:"path"`
}

// ModelWithValidations is a model together with the validation requests raised against it
type ModelWithValidations struct {
	models.Model
	ValidationRequests []models.ValidationRequest `json:"validationRequests"`
}

// ModelsWithValidationsResponse is the aggregated view of a user's models
// Example: {"models":[{"id":"...","name":"mnist","validationRequests":[{"id":"...","status":"pending"}]}]}
type ModelsWithValidationsResponse struct {
	Models []ModelWithValidations `json:"models"`
}

package handlers

import "github.com/celestiaorg/verse/internal/services"

// APIHandler bundles the handlers of the API
type APIHandler struct {
	Model      *ModelHandler
	Validation *ValidationHandler
	Index      *IndexHandler
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(model *services.Model, validation *services.Validation) *APIHandler {
	return &APIHandler{
		Model:      NewModelHandler(model),
		Validation: NewValidationHandler(validation),
		Index:      NewIndexHandler(),
	}
}

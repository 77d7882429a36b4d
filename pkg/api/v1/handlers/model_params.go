package handlers

import "github.com/celestiaorg/verse/internal/services"

// ModelCreateParams defines the parameters for creating a model.
// The owner is always the caller, so no owner field is read.
type ModelCreateParams struct {
	Name         string `json:"name" form:"name"`
	Description  string `json:"description,omitempty" form:"description"`
	VectorFormat string `json:"vectorFormat" form:"vectorFormat"`
}

// Validate validates the parameters for creating a model
func (p ModelCreateParams) Validate() error {
	return services.ValidateModel(p.Name, p.Description, p.VectorFormat)
}

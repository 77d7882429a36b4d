package handlers

import (
	fiber "github.com/gofiber/fiber/v2"

	"github.com/celestiaorg/verse/internal/api/v1/middleware"
	"github.com/celestiaorg/verse/internal/db/models"
	"github.com/celestiaorg/verse/internal/services"
	"github.com/celestiaorg/verse/internal/types"
)

// ModelHandler handles HTTP requests for model operations
type ModelHandler struct {
	service *services.Model
}

// NewModelHandler creates a new model handler instance
func NewModelHandler(service *services.Model) *ModelHandler {
	return &ModelHandler{
		service: service,
	}
}

// CreateModel registers a model owned by the caller
func (h *ModelHandler) CreateModel(c *fiber.Ctx) error {
	var params ModelCreateParams
	if err := c.BodyParser(&params); err != nil {
		return unprocessable(c, ErrMsgInvalidReqBody, err.Error())
	}
	if err := params.Validate(); err != nil {
		return respondError(c, err)
	}

	model, err := h.service.Create(c.Context(), middleware.CurrentUser(c), &models.Model{
		Name:         params.Name,
		Description:  params.Description,
		VectorFormat: params.VectorFormat,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(model)
}

// ListAllModels returns every registered model
func (h *ModelHandler) ListAllModels(c *fiber.Ctx) error {
	list, err := h.service.ListAll(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(nonNil(list))
}

// ListOwnModels returns the models owned by the caller
func (h *ModelHandler) ListOwnModels(c *fiber.Ctx) error {
	list, err := h.service.ListByOwner(c.Context(), middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(nonNil(list))
}

// ListModelsWithValidations returns the caller's models, each with its validation requests
func (h *ModelHandler) ListModelsWithValidations(c *fiber.Ctx) error {
	list, err := h.service.ListWithValidations(c.Context(), middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(types.ModelsWithValidationsResponse{Models: nonNil(list)})
}

// nonNil makes empty lists render as [] instead of null
func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}

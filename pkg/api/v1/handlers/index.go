package handlers

import (
	"strings"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/celestiaorg/verse/internal/types"
)

// WelcomeMessage is returned by the root endpoint
const WelcomeMessage = "Welcome welcome!! VERSE API"

// IndexHandler serves the endpoints outside the model API
type IndexHandler struct{}

// NewIndexHandler creates a new index handler
func NewIndexHandler() *IndexHandler {
	return &IndexHandler{}
}

// Root greets the caller
func (h *IndexHandler) Root(c *fiber.Ctx) error {
	return c.JSON(types.MessageResponse{Message: WelcomeMessage})
}

// Health reports that the server is up
func (h *IndexHandler) Health(c *fiber.Ctx) error {
	return c.JSON(types.HealthResponse{Status: "healthy"})
}

// RouteNotFound answers every path no route matched
func (h *IndexHandler) RouteNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(types.RouteNotFoundResponse{
		Message: ErrMsgRouteNotFound,
		Path:    strings.TrimPrefix(c.Path(), "/"),
	})
}

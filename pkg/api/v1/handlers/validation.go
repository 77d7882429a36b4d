package handlers

import (
	"mime/multipart"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/celestiaorg/verse/internal/api/v1/middleware"
	"github.com/celestiaorg/verse/internal/logger"
	"github.com/celestiaorg/verse/internal/services"
)

// ValidationHandler handles HTTP requests for validation requests
type ValidationHandler struct {
	service *services.Validation
}

// NewValidationHandler creates a new validation handler instance
func NewValidationHandler(service *services.Validation) *ValidationHandler {
	return &ValidationHandler{
		service: service,
	}
}

// CreateValidationRequest raises a validation request from a multipart upload holding
// model_id, elf_file and hashValue
func (h *ValidationHandler) CreateValidationRequest(c *fiber.Ctx) error {
	rawModelID := formValue(c, modelIDFields...)
	if rawModelID == "" {
		return unprocessable(c, ErrMsgValidationFailed, services.NewFieldError(services.FieldModelID, ErrMsgModelIDRequired))
	}
	modelID, ok := parseID(rawModelID)
	if !ok {
		return notFound(c, ErrMsgModelNotFound)
	}

	header := formFile(c, elfFileFields...)
	if header == nil {
		return unprocessable(c, ErrMsgValidationFailed, services.NewFieldError(services.FieldElfFile, ErrMsgElfFileRequired))
	}

	file, err := header.Open()
	if err != nil {
		return unprocessable(c, ErrMsgUploadOpenFailed, err.Error())
	}
	defer closeUpload(file)

	req, err := h.service.Create(c.Context(), middleware.CurrentUser(c), modelID, &services.File{
		Name:    header.Filename,
		Size:    header.Size,
		Content: file,
	}, c.FormValue(services.FieldHashValue))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(req)
}

// ListValidationRequestsForModel returns the requests raised against one of the caller's models
func (h *ValidationHandler) ListValidationRequestsForModel(c *fiber.Ctx) error {
	modelID, ok := parseID(c.Params(ParamModelID))
	if !ok {
		return notFound(c, ErrMsgModelNotFound)
	}

	list, err := h.service.ListForModel(c.Context(), middleware.CurrentUser(c), modelID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(nonNil(list))
}

// ListVerifierValidationRequests returns the requests raised by the caller
func (h *ValidationHandler) ListVerifierValidationRequests(c *fiber.Ctx) error {
	list, err := h.service.ListForVerifier(c.Context(), middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(nonNil(list))
}

// AttachProof attaches the uploaded json_file to a pending validation request
func (h *ValidationHandler) AttachProof(c *fiber.Ctx) error {
	requestID, ok := parseID(c.Params(ParamValidationRequestID))
	if !ok {
		return notFound(c, ErrMsgValidationRequestNotFound)
	}

	var proof *services.File
	if header := formFile(c, jsonFileFields...); header != nil {
		file, err := header.Open()
		if err != nil {
			return unprocessable(c, ErrMsgUploadOpenFailed, err.Error())
		}
		defer closeUpload(file)
		proof = &services.File{Name: header.Filename, Size: header.Size, Content: file}
	}

	// the service checks existence and permission before complaining about a missing file
	req, err := h.service.AttachProof(c.Context(), middleware.CurrentUser(c), requestID, proof)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(req)
}

// GetValidationRequest returns a single validation request
func (h *ValidationHandler) GetValidationRequest(c *fiber.Ctx) error {
	requestID, ok := parseID(c.Params(ParamValidationRequestID))
	if !ok {
		return notFound(c, ErrMsgValidationRequestNotFound)
	}

	req, err := h.service.Get(c.Context(), requestID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(req)
}

func closeUpload(file multipart.File) {
	if err := file.Close(); err != nil {
		logger.Warnf("failed to close upload: %v", err)
	}
}

package handlers

import (
	"mime/multipart"
	"strings"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Multipart field names. The camelCase aliases are accepted as well.
var (
	modelIDFields  = []string{"model_id", "modelId"}
	elfFileFields  = []string{"elf_file", "elfFile"}
	jsonFileFields = []string{"json_file", "jsonFile"}
)

// Path parameters
const (
	ParamModelID             = "modelId"
	ParamValidationRequestID = "validationRequestId"
)

// formValue returns the first non empty value among the given field names
func formValue(c *fiber.Ctx, names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(c.FormValue(name)); v != "" {
			return v
		}
	}
	return ""
}

// formFile returns the first file uploaded under one of the given field names
func formFile(c *fiber.Ctx, names ...string) *multipart.FileHeader {
	for _, name := range names {
		if fh, err := c.FormFile(name); err == nil && fh != nil {
			return fh
		}
	}
	return nil
}

// parseID parses an entity id. Malformed ids cannot name an entity.
func parseID(raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

package models

import "github.com/google/uuid"

// Model field limits
const (
	MaxModelNameLength         = 255
	MaxModelDescriptionLength  = 4096
	MaxModelVectorFormatLength = 1024
)

// Model is a named artifact registered by its owner.
// The owner is fixed at creation.
type Model struct {
	Base
	UserID       uuid.UUID `json:"userId" gorm:"column:user_id;type:uuid;not null;index"`
	Name         string    `json:"name" gorm:"not null"`
	Description  string    `json:"description"`
	VectorFormat string    `json:"vectorFormat" gorm:"column:vector_format;not null"`
}

// IsOwnedBy reports whether userID owns the model
func (m *Model) IsOwnedBy(userID uuid.UUID) bool {
	return m.UserID == userID
}

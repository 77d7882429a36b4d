package models

// User is an identity owned by the external identity service.
// The API only reads users; it never changes them.
type User struct {
	Base
	Email string `json:"email" gorm:"not null;uniqueIndex"`
}

package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/celestiaorg/verse/internal/db/models"
	"github.com/celestiaorg/verse/internal/db/repos"
)

// User provides read access to the users known to the identity service
type User struct {
	repo *repos.UserRepository
}

// NewUserService creates a new user service instance
func NewUserService(repo *repos.UserRepository) *User {
	return &User{
		repo: repo,
	}
}

// GetUserByID retrieves a user by id
func (s User) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(ErrUserNotFound, err)
	}
	return user, nil
}


package test

import (
	"github.com/celestiaorg/verse/internal/db/models"
	"github.com/celestiaorg/verse/internal/db/repos"
	"github.com/celestiaorg/verse/internal/testutil"
)

// SetupTestDB configures the suite with a private in-memory database and its repositories
func SetupTestDB(suite *Suite) {
	suite.DB = testutil.NewDB(suite.t)
	suite.UserRepo = repos.NewUserRepository(suite.DB)
	suite.ModelRepo = repos.NewModelRepository(suite.DB)
	suite.RequestRepo = repos.NewValidationRequestRepository(suite.DB)
}

// CreateUser stores a user with the given email
func (s *Suite) CreateUser(email string) *models.User {
	user := &models.User{Email: email}
	s.Require().NoError(s.UserRepo.Create(s.ctx, user), "Failed to create user")
	return user
}

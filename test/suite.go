package test

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/celestiaorg/verse/internal/db/repos"
	"github.com/celestiaorg/verse/internal/logger"
	"github.com/celestiaorg/verse/internal/storage"
	"github.com/celestiaorg/verse/pkg/api/v1/client"
)

// DefaultTestTimeout is the default timeout for test suites.
const DefaultTestTimeout = 30 * time.Second

// Suite encapsulates all components needed for integration testing.
// It provides a complete test setup with:
//   - In-memory database
//   - Local artifact storage in a temporary directory
//   - Real API server
//   - Real API client
type Suite struct {
	t *testing.T

	// Server components
	App    *fiber.App
	Server *httptest.Server
	Store  *storage.Local

	// APIClient is unauthenticated
	APIClient client.Client

	// Database components
	DB          *gorm.DB
	UserRepo    *repos.UserRepository
	ModelRepo   *repos.ModelRepository
	RequestRepo *repos.ValidationRequestRepository

	// Context management
	ctx        context.Context
	cancelFunc context.CancelFunc

	cleanup func()
}

// NewSuite creates a new test suite.
// The suite must be cleaned up after use by calling Cleanup.
func NewSuite(t *testing.T) *Suite {
	t.Helper()
	logger.SetOutput(io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), DefaultTestTimeout)

	suite := &Suite{
		t:          t,
		ctx:        ctx,
		cancelFunc: cancel,
	}

	suite.cleanup = func() {
		if suite.Server != nil {
			suite.Server.Close()
		}
		if suite.cancelFunc != nil {
			suite.cancelFunc()
		}
	}

	SetupTestDB(suite)
	SetupServer(suite)

	return suite
}

// Cleanup tears down the test suite, releasing all resources.
// This should be deferred immediately after creating the suite.
func (s *Suite) Cleanup() {
	if s.cleanup != nil {
		s.cleanup()
	}
}

// Context returns the suite's context, which is automatically
// canceled when the suite is cleaned up.
func (s *Suite) Context() context.Context {
	return s.ctx
}

// Require returns a require.Assertions instance for this suite.
func (s *Suite) Require() *require.Assertions {
	return require.New(s.t)
}

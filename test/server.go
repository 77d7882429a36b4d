package test

import (
	"net/http/httptest"
	"time"

	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/celestiaorg/verse/internal/app"
	"github.com/celestiaorg/verse/internal/auth"
	"github.com/celestiaorg/verse/internal/services"
	"github.com/celestiaorg/verse/internal/storage"
	"github.com/celestiaorg/verse/pkg/api/v1/client"
	"github.com/celestiaorg/verse/pkg/api/v1/handlers"
)

// testClientTimeout is the timeout for test API client requests
const testClientTimeout = 5 * time.Second

// TestJWTSecret signs the tokens of test users
var TestJWTSecret = []byte("verse-test-secret")

// SetupServer configures the test suite with a real API server
func SetupServer(suite *Suite) {
	// The listener is bound first so that artifact URLs can point at the server
	suite.Server = httptest.NewUnstartedServer(nil)
	baseURL := "http://" + suite.Server.Listener.Addr().String()

	store, err := storage.NewLocal(suite.t.TempDir(), baseURL)
	suite.Require().NoError(err, "Failed to create local storage")
	suite.Store = store

	// Create services
	userService := services.NewUserService(suite.UserRepo)
	modelService := services.NewModelService(suite.ModelRepo, suite.RequestRepo)
	validationService := services.NewValidationService(suite.RequestRepo, suite.ModelRepo, store)

	suite.App = app.NewApp(handlers.NewAPIHandler(modelService, validationService), app.Options{
		FilesDir:  store.Root(),
		JWTSecret: TestJWTSecret,
		Users:     userService,
	})

	// Create test server using adaptor to convert Fiber app to http.Handler
	suite.Server.Config.Handler = adaptor.FiberApp(suite.App)
	suite.Server.Start()

	suite.APIClient = suite.newClient("")
}

// NewUserClient creates a user and returns a client authenticated as that user
func (s *Suite) NewUserClient(email string) client.Client {
	user := s.CreateUser(email)
	token, err := auth.GenerateToken(user.ID, user.Email, TestJWTSecret, time.Hour)
	s.Require().NoError(err, "Failed to sign token")
	return s.newClient(token)
}

func (s *Suite) newClient(token string) client.Client {
	c, err := client.NewClient(&client.Options{
		BaseURL: s.Server.URL,
		Timeout: testClientTimeout,
		Token:   token,
	})
	s.Require().NoError(err, "Failed to create API client")
	return c
}

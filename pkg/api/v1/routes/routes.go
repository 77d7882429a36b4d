// Package routes defines the API routes and URL structure
package routes

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/celestiaorg/verse/pkg/api/v1/handlers"
)

/*

To keep this file organized, routes should be organized in the following way:

1. Smallest scope first (i.e. index routes before model routes)
2. For similar scopes, put the endpoints in alphabetical order
3. Order routes in GET, POST, PUT order.
	a. Within this ordering, param urls (ie /:id) should go last, otherwise fiber will interpret the route slug as that param.
	b. After param considerations, order alphabetically.
4. For clarity, naming should match the action (i.e. ListAllModels, AttachProof)

The app runs with StrictRouting, so "/api/model" and "/api/model/" are different routes.

*/

// API base configuration
const (
	// DefaultPort is the default port for the API
	DefaultPort = "8000"
	// ModelPrefix is the prefix for all model endpoints
	ModelPrefix = "/api/model"
	// FilesPrefix is the prefix under which stored artifacts are served
	FilesPrefix = "/files"
)

// DefaultBaseURL is the default base URL for the API
var DefaultBaseURL = fmt.Sprintf("http://127.0.0.1:%s", DefaultPort)

// Route names for lookup
const (
	// Index routes
	Root        = "Root"
	HealthCheck = "HealthCheck"

	// Model routes
	ListOwnModels                  = "ListOwnModels"
	ListAllModels                  = "ListAllModels"
	ListModelsWithValidations      = "ListModelsWithValidations"
	ListVerifierValidationRequests = "ListVerifierValidationRequests"
	GetValidationRequest           = "GetValidationRequest"
	ListValidationRequestsForModel = "ListValidationRequestsForModel"
	CreateModel                    = "CreateModel"
	CreateModelSlash               = "CreateModelSlash"
	CreateValidationRequest        = "CreateValidationRequest"
	AttachProof                    = "AttachProof"
)

// Options holds the optional parts of the route table
type Options struct {
	// FilesDir is served under FilesPrefix when set
	FilesDir string
}

// routeCache stores extracted routes for use prior to compilation
var (
	routeCache     map[string]string
	routeCacheMu   sync.RWMutex
	routeCacheInit sync.Once
)

// RegisterRoutes configures all the routes. requireUser guards the routes that act on
// behalf of a user.
//
// NOTE: route ordering is important because routes will try and match in the order they are registered.
// For example, if we register ListValidationRequestsForModel before ListVerifierValidationRequests,
// "validation-requests" would be interpreted as a model ID. The catch all is registered last.
func RegisterRoutes(
	app *fiber.App,
	api *handlers.APIHandler,
	requireUser fiber.Handler,
	opts Options,
) {
	// Index
	app.Get("/", api.Index.Root).Name(Root)
	app.Get("/health", api.Index.Health).Name(HealthCheck)

	// ---------------------------
	// Model endpoints
	model := app.Group(ModelPrefix)
	model.Get("", requireUser, api.Model.ListOwnModels).Name(ListOwnModels)
	model.Get("/", api.Model.ListAllModels).Name(ListAllModels)
	model.Get("/validation-request/:validationRequestId", api.Validation.GetValidationRequest).Name(GetValidationRequest)
	model.Get("/validation-requests/verifier", requireUser, api.Validation.ListVerifierValidationRequests).Name(ListVerifierValidationRequests)
	model.Get("/validations", requireUser, api.Model.ListModelsWithValidations).Name(ListModelsWithValidations)
	model.Get("/:modelId/validation-requests", requireUser, api.Validation.ListValidationRequestsForModel).Name(ListValidationRequestsForModel)
	model.Post("", requireUser, api.Model.CreateModel).Name(CreateModel)
	model.Post("/", requireUser, api.Model.CreateModel).Name(CreateModelSlash)
	model.Post("/validation-request", requireUser, api.Validation.CreateValidationRequest).Name(CreateValidationRequest)
	model.Put("/proof/:validationRequestId", requireUser, api.Validation.AttachProof).Name(AttachProof)

	// Stored artifacts
	if opts.FilesDir != "" {
		app.Static(FilesPrefix, opts.FilesDir, fiber.Static{
			Browse:   false,
			Download: true,
		})
	}

	// Anything else
	app.Use(api.Index.RouteNotFound)
}

// initRouteCache initializes the route cache by creating a mock app and extracting routes
func initRouteCache() {
	routeCacheInit.Do(func() {
		routeCache = make(map[string]string)

		// Create a mock app
		app := fiber.New(fiber.Config{StrictRouting: true})

		// Register routes with handlers that are never invoked
		noop := func(c *fiber.Ctx) error { return c.Next() }
		RegisterRoutes(app, handlers.NewAPIHandler(nil, nil), noop, Options{})

		// Extract routes from the app
		for _, route := range app.GetRoutes() {
			if route.Name != "" {
				routeCache[route.Name] = route.Path
			}
		}
	})
}

// GetRoute returns the route pattern for the given route name
func GetRoute(name string) string {
	initRouteCache()

	routeCacheMu.RLock()
	defer routeCacheMu.RUnlock()
	return routeCache[name]
}

// BuildURL builds a URL for the given route name and parameters.
// Trailing slashes are kept, they are significant under strict routing.
func BuildURL(routeName string, params map[string]string, queryParams url.Values) string {
	route := GetRoute(routeName)
	if route == "" {
		return ""
	}

	// Replace parameters in the route
	for param, value := range params {
		route = strings.ReplaceAll(route, ":"+param, url.PathEscape(value))
	}

	// Add query parameters if any
	if len(queryParams) > 0 {
		route = fmt.Sprintf("%s?%s", route, queryParams.Encode())
	}

	return route
}

// Index route helpers

// RootURL returns the URL of the welcome endpoint
func RootURL() string {
	return BuildURL(Root, nil, nil)
}

// HealthCheckURL returns the URL for the health check endpoint
func HealthCheckURL() string {
	return BuildURL(HealthCheck, nil, nil)
}

// Model route helpers

// ListOwnModelsURL returns the URL for listing the caller's models
func ListOwnModelsURL() string {
	return BuildURL(ListOwnModels, nil, nil)
}

// ListAllModelsURL returns the URL for listing every model
func ListAllModelsURL() string {
	return BuildURL(ListAllModels, nil, nil)
}

// ListModelsWithValidationsURL returns the URL of the aggregated view of the caller's models
func ListModelsWithValidationsURL() string {
	return BuildURL(ListModelsWithValidations, nil, nil)
}

// CreateModelURL returns the URL for creating a model
func CreateModelURL() string {
	return BuildURL(CreateModel, nil, nil)
}

// Validation request route helpers

// CreateValidationRequestURL returns the URL for raising a validation request
func CreateValidationRequestURL() string {
	return BuildURL(CreateValidationRequest, nil, nil)
}

// GetValidationRequestURL returns the URL of a single validation request
func GetValidationRequestURL(id string) string {
	return BuildURL(GetValidationRequest, map[string]string{"validationRequestId": id}, nil)
}

// ListValidationRequestsForModelURL returns the URL for listing the requests of a model
func ListValidationRequestsForModelURL(modelID string) string {
	return BuildURL(ListValidationRequestsForModel, map[string]string{"modelId": modelID}, nil)
}

// ListVerifierValidationRequestsURL returns the URL for listing the caller's requests
func ListVerifierValidationRequestsURL() string {
	return BuildURL(ListVerifierValidationRequests, nil, nil)
}

// AttachProofURL returns the URL for attaching a proof to a request
func AttachProofURL(id string) string {
	return BuildURL(AttachProof, map[string]string{"validationRequestId": id}, nil)
}

// Package client provides the API client for interacting with the VERSE API
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/celestiaorg/verse/internal/db/models"
	"github.com/celestiaorg/verse/internal/types"
	"github.com/celestiaorg/verse/pkg/api/v1/handlers"
	"github.com/celestiaorg/verse/pkg/api/v1/routes"
)

// DefaultTimeout is the default timeout for API requests
const DefaultTimeout = 30 * time.Second

// Client is the interface for API client
type Client interface {
	// Health Check
	HealthCheck(ctx context.Context) (types.HealthResponse, error)

	// Model Endpoints
	CreateModel(ctx context.Context, params handlers.ModelCreateParams) (models.Model, error)
	ListOwnModels(ctx context.Context) ([]models.Model, error)
	ListAllModels(ctx context.Context) ([]models.Model, error)
	ListModelsWithValidations(ctx context.Context) (types.ModelsWithValidationsResponse, error)

	// Validation Request Endpoints
	CreateValidationRequest(ctx context.Context, params ValidationRequestParams) (models.ValidationRequest, error)
	GetValidationRequest(ctx context.Context, id string) (models.ValidationRequest, error)
	ListValidationRequestsForModel(ctx context.Context, modelID string) ([]models.ValidationRequest, error)
	ListVerifierValidationRequests(ctx context.Context) ([]models.ValidationRequest, error)
	AttachProof(ctx context.Context, params AttachProofParams) (models.ValidationRequest, error)

	// Artifacts
	Download(ctx context.Context, fileURL string) ([]byte, error)
}

var _ Client = &APIClient{}

// ValidationRequestParams holds the upload of a validation request
type ValidationRequestParams struct {
	ModelID     string
	HashValue   string
	ElfFileName string
	ElfFile     []byte
}

// AttachProofParams holds the upload of a proof
type AttachProofParams struct {
	ValidationRequestID string
	ProofFileName       string
	Proof               []byte
}

// Options contains configuration options for the API client
type Options struct {
	// BaseURL is the base URL of the API
	BaseURL string
	// Timeout is the request timeout
	Timeout time.Duration
	// Token is sent as a bearer token when set
	Token string
}

// DefaultOptions returns the default client options
func DefaultOptions() *Options {
	return &Options{
		BaseURL: routes.DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// APIClient implements the Client interface
type APIClient struct {
	baseURL   string
	timeout   time.Duration
	AuthToken string
}

// NewClient creates a new API client with the given options
func NewClient(opts *Options) (Client, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	// Validate the base URL
	_, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &APIClient{
		baseURL:   strings.TrimSuffix(opts.BaseURL, "/"),
		timeout:   timeout,
		AuthToken: opts.Token,
	}, nil
}

// createAgent creates a new Fiber Agent for the given method and endpoint
func (c *APIClient) createAgent(ctx context.Context, method, endpoint string, body interface{}) (*fiber.Agent, error) {
	// Resolve the endpoint URL
	fullURL := endpoint
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		fullURL = c.baseURL + endpoint
	}

	// Create a new agent based on the HTTP method
	var agent *fiber.Agent
	switch method {
	case http.MethodGet:
		agent = fiber.Get(fullURL)
	case http.MethodPost:
		agent = fiber.Post(fullURL)
	case http.MethodPut:
		agent = fiber.Put(fullURL)
	default:
		return nil, fmt.Errorf("unsupported HTTP method: %s", method)
	}

	// Set timeout from context or client default
	if deadline, ok := ctx.Deadline(); ok {
		agent.Timeout(time.Until(deadline))
	} else {
		agent.Timeout(c.timeout)
	}

	// Set common headers
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if c.AuthToken != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+c.AuthToken)
	}

	// Add body if provided
	if body != nil {
		agent.JSON(body)
	}

	return agent, nil
}

// doRequest sends the HTTP request and processes the response
func (c *APIClient) doRequest(agent *fiber.Agent, v interface{}) error {
	// Execute the request
	statusCode, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("error sending request: %w", errors.Join(errs...))
	}

	// Check for non-success status codes
	if statusCode < 200 || statusCode >= 300 {
		// The raw body is the message; API errors are {"message": ...}
		return &fiber.Error{
			Code:    statusCode,
			Message: string(body),
		}
	}

	// Decode the response body if a target is provided
	if v != nil && len(body) > 0 {
		if raw, ok := v.(*[]byte); ok {
			*raw = body
			return nil
		}
		if err := json.Unmarshal(body, v); err != nil {
			return fmt.Errorf("error decoding response: %w", err)
		}
	}

	return nil
}

// executeRequest creates an agent, sends the request, and processes the response
func (c *APIClient) executeRequest(ctx context.Context, method, endpoint string, body, response interface{}) error {
	agent, err := c.createAgent(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	return c.doRequest(agent, response)
}

// executeUpload sends a multipart form holding fields and a single file
func (c *APIClient) executeUpload(ctx context.Context, method, endpoint string, fields map[string]string, file *fiber.FormFile, response interface{}) error {
	agent, err := c.createAgent(ctx, method, endpoint, nil)
	if err != nil {
		return err
	}

	// files must be attached before the form is encoded
	if file != nil {
		agent.FileData(file)
	}

	args := fiber.AcquireArgs()
	defer fiber.ReleaseArgs(args)
	for k, v := range fields {
		args.Set(k, v)
	}
	agent.MultipartForm(args)

	return c.doRequest(agent, response)
}

// Health check implementation

// HealthCheck checks the health of the API
func (c *APIClient) HealthCheck(ctx context.Context) (types.HealthResponse, error) {
	endpoint := routes.HealthCheckURL()
	var response types.HealthResponse
	if err := c.executeRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return types.HealthResponse{}, err
	}
	return response, nil
}

// Model methods implementation

// CreateModel registers a model owned by the authenticated user
func (c *APIClient) CreateModel(ctx context.Context, params handlers.ModelCreateParams) (models.Model, error) {
	endpoint := routes.CreateModelURL()
	var response models.Model
	if err := c.executeRequest(ctx, http.MethodPost, endpoint, params, &response); err != nil {
		return models.Model{}, err
	}
	return response, nil
}

// ListOwnModels lists the models of the authenticated user
func (c *APIClient) ListOwnModels(ctx context.Context) ([]models.Model, error) {
	endpoint := routes.ListOwnModelsURL()
	var response []models.Model
	if err := c.executeRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return []models.Model{}, err
	}
	return response, nil
}

// ListAllModels lists every registered model
func (c *APIClient) ListAllModels(ctx context.Context) ([]models.Model, error) {
	endpoint := routes.ListAllModelsURL()
	var response []models.Model
	if err := c.executeRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return []models.Model{}, err
	}
	return response, nil
}

// ListModelsWithValidations lists the authenticated user's models with their validation requests
func (c *APIClient) ListModelsWithValidations(ctx context.Context) (types.ModelsWithValidationsResponse, error) {
	endpoint := routes.ListModelsWithValidationsURL()
	var response types.ModelsWithValidationsResponse
	if err := c.executeRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return types.ModelsWithValidationsResponse{}, err
	}
	return response, nil
}

// Validation request methods implementation

// CreateValidationRequest uploads an ELF binary and raises a validation request
func (c *APIClient) CreateValidationRequest(ctx context.Context, params ValidationRequestParams) (models.ValidationRequest, error) {
	endpoint := routes.CreateValidationRequestURL()
	name := params.ElfFileName
	if name == "" {
		name = "guest.elf"
	}

	var response models.ValidationRequest
	err := c.executeUpload(ctx, http.MethodPost, endpoint, map[string]string{
		"model_id":  params.ModelID,
		"hashValue": params.HashValue,
	}, &fiber.FormFile{
		Fieldname: "elf_file",
		Name:      name,
		Content:   params.ElfFile,
	}, &response)
	if err != nil {
		return models.ValidationRequest{}, err
	}
	return response, nil
}

// GetValidationRequest retrieves a validation request
func (c *APIClient) GetValidationRequest(ctx context.Context, id string) (models.ValidationRequest, error) {
	endpoint := routes.GetValidationRequestURL(id)
	var response models.ValidationRequest
	if err := c.executeRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return models.ValidationRequest{}, err
	}
	return response, nil
}

// ListValidationRequestsForModel lists the requests raised against one of the user's models
func (c *APIClient) ListValidationRequestsForModel(ctx context.Context, modelID string) ([]models.ValidationRequest, error) {
	endpoint := routes.ListValidationRequestsForModelURL(modelID)
	var response []models.ValidationRequest
	if err := c.executeRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return []models.ValidationRequest{}, err
	}
	return response, nil
}

// ListVerifierValidationRequests lists the requests raised by the authenticated user
func (c *APIClient) ListVerifierValidationRequests(ctx context.Context) ([]models.ValidationRequest, error) {
	endpoint := routes.ListVerifierValidationRequestsURL()
	var response []models.ValidationRequest
	if err := c.executeRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return []models.ValidationRequest{}, err
	}
	return response, nil
}

// AttachProof uploads a JSON proof for a pending validation request
func (c *APIClient) AttachProof(ctx context.Context, params AttachProofParams) (models.ValidationRequest, error) {
	endpoint := routes.AttachProofURL(params.ValidationRequestID)
	name := params.ProofFileName
	if name == "" {
		name = "proof.json"
	}

	var response models.ValidationRequest
	err := c.executeUpload(ctx, http.MethodPut, endpoint, nil, &fiber.FormFile{
		Fieldname: "json_file",
		Name:      name,
		Content:   params.Proof,
	}, &response)
	if err != nil {
		return models.ValidationRequest{}, err
	}
	return response, nil
}

// Download fetches a stored artifact. Relative references are resolved against the base URL.
func (c *APIClient) Download(ctx context.Context, fileURL string) ([]byte, error) {
	if fileURL == "" {
		return nil, errors.New("file url is empty")
	}
	endpoint := fileURL
	if !strings.HasPrefix(fileURL, "http://") && !strings.HasPrefix(fileURL, "https://") && !strings.HasPrefix(fileURL, "/") {
		endpoint = "/" + fileURL
	}

	var data []byte
	if err := c.executeRequest(ctx, http.MethodGet, endpoint, nil, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// ErrorMessage extracts the API message from an error returned by the client
func ErrorMessage(err error) string {
	var fiberErr *fiber.Error
	if !errors.As(err, &fiberErr) {
		return err.Error()
	}
	var resp types.ErrorResponse
	if json.Unmarshal([]byte(fiberErr.Message), &resp) == nil && resp.Message != "" {
		return fmt.Sprintf("%s (status %d)", resp.Message, fiberErr.Code)
	}
	return fmt.Sprintf("%s (status %d)", fiberErr.Message, fiberErr.Code)
}

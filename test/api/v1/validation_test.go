package api_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celestiaorg/verse/internal/db/models"
	"github.com/celestiaorg/verse/internal/testutil"
	"github.com/celestiaorg/verse/pkg/api/v1/client"
	"github.com/celestiaorg/verse/pkg/api/v1/handlers"
	"github.com/celestiaorg/verse/test"
)

var defaultModelParams = handlers.ModelCreateParams{
	Name:         "mnist",
	Description:  "handwritten digits",
	VectorFormat: "f32[784]",
}

var defaultProof = []byte(`{"journal":"0x01","seal":"0x02"}`)

func statusCode(t *testing.T, err error) int {
	t.Helper()
	var fiberErr *fiber.Error
	require.True(t, errors.As(err, &fiberErr), "expected an API error, got %v", err)
	return fiberErr.Code
}

// TestValidationLifecycle walks a model through registration, a validation request and its proof.
func TestValidationLifecycle(t *testing.T) {
	suite := test.NewSuite(t)
	defer suite.Cleanup()
	ctx := suite.Context()

	owner := suite.NewUserClient("owner@example.com")
	verifier := suite.NewUserClient("verifier@example.com")

	// Owner registers a model
	model, err := owner.CreateModel(ctx, defaultModelParams)
	require.NoError(t, err)
	assert.Equal(t, "mnist", model.Name)
	assert.NotEqual(t, uuid.Nil, model.ID)

	// Everyone sees it in the public listing
	all, err := suite.APIClient.ListAllModels(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, model.ID, all[0].ID)

	// Only the owner sees it among their own models
	own, err := owner.ListOwnModels(ctx)
	require.NoError(t, err)
	require.Len(t, own, 1)
	own, err = verifier.ListOwnModels(ctx)
	require.NoError(t, err)
	assert.Empty(t, own)

	// Verifier raises a validation request
	elf := testutil.MinimalELF()
	req, err := verifier.CreateValidationRequest(ctx, client.ValidationRequestParams{
		ModelID:   model.ID.String(),
		HashValue: "abc123",
		ElfFile:   elf,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ValidationStatusPending, req.Status)
	assert.Equal(t, "abc123", req.ProofHash)
	assert.Equal(t, model.ID, req.ModelID)
	assert.Empty(t, req.JSONURL)

	// The uploaded binary is downloadable as stored
	stored, err := verifier.Download(ctx, req.ElfFileURL)
	require.NoError(t, err)
	assert.Equal(t, elf, stored)

	// Owner sees the pending request on the model
	pending, err := owner.ListValidationRequestsForModel(ctx, model.ID.String())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, req.ID, pending[0].ID)
	assert.Equal(t, models.ValidationStatusPending, pending[0].Status)

	withValidations, err := owner.ListModelsWithValidations(ctx)
	require.NoError(t, err)
	require.Len(t, withValidations.Models, 1)
	require.Len(t, withValidations.Models[0].ValidationRequests, 1)
	assert.Equal(t, req.ID, withValidations.Models[0].ValidationRequests[0].ID)

	// Verifier sees it among their own requests
	mine, err := verifier.ListVerifierValidationRequests(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, req.ID, mine[0].ID)

	// Verifier attaches the proof
	proved, err := verifier.AttachProof(ctx, client.AttachProofParams{
		ValidationRequestID: req.ID.String(),
		Proof:               defaultProof,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ValidationStatusProved, proved.Status)
	assert.NotEmpty(t, proved.JSONURL)
	assert.NotNil(t, proved.ProvedAt)

	got, err := suite.APIClient.GetValidationRequest(ctx, req.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.ValidationStatusProved, got.Status)
	assert.Equal(t, proved.JSONURL, got.JSONURL)

	proof, err := suite.APIClient.Download(ctx, got.JSONURL)
	require.NoError(t, err)
	assert.JSONEq(t, string(defaultProof), string(proof))

	// A second proof is rejected and the first one is kept
	_, err = owner.AttachProof(ctx, client.AttachProofParams{
		ValidationRequestID: req.ID.String(),
		Proof:               []byte(`{"other":true}`),
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, statusCode(t, err))

	got, err = suite.APIClient.GetValidationRequest(ctx, req.ID.String())
	require.NoError(t, err)
	assert.Equal(t, proved.JSONURL, got.JSONURL)
}

func TestValidationRequestErrors(t *testing.T) {
	suite := test.NewSuite(t)
	defer suite.Cleanup()
	ctx := suite.Context()

	owner := suite.NewUserClient("owner@example.com")
	verifier := suite.NewUserClient("verifier@example.com")
	stranger := suite.NewUserClient("stranger@example.com")

	model, err := owner.CreateModel(ctx, defaultModelParams)
	require.NoError(t, err)

	t.Run("unauthenticated create", func(t *testing.T) {
		_, err := suite.APIClient.CreateModel(ctx, defaultModelParams)
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, statusCode(t, err))
	})

	t.Run("invalid model", func(t *testing.T) {
		_, err := owner.CreateModel(ctx, handlers.ModelCreateParams{Name: "x"})
		require.Error(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, statusCode(t, err))
	})

	t.Run("unknown model", func(t *testing.T) {
		_, err := verifier.CreateValidationRequest(ctx, client.ValidationRequestParams{
			ModelID:   uuid.NewString(),
			HashValue: "abc123",
			ElfFile:   testutil.MinimalELF(),
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, statusCode(t, err))
	})

	t.Run("not an elf", func(t *testing.T) {
		_, err := verifier.CreateValidationRequest(ctx, client.ValidationRequestParams{
			ModelID:   model.ID.String(),
			HashValue: "abc123",
			ElfFile:   []byte("#!/bin/sh\necho hi\n"),
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, statusCode(t, err))

		mine, err := verifier.ListVerifierValidationRequests(ctx)
		require.NoError(t, err)
		assert.Empty(t, mine)
	})

	t.Run("requests of a foreign model", func(t *testing.T) {
		_, err := stranger.ListValidationRequestsForModel(ctx, model.ID.String())
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, statusCode(t, err))
	})

	t.Run("proof from a stranger", func(t *testing.T) {
		req, err := verifier.CreateValidationRequest(ctx, client.ValidationRequestParams{
			ModelID:   model.ID.String(),
			HashValue: "abc123",
			ElfFile:   testutil.MinimalELF(),
		})
		require.NoError(t, err)

		_, err = stranger.AttachProof(ctx, client.AttachProofParams{
			ValidationRequestID: req.ID.String(),
			Proof:               defaultProof,
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, statusCode(t, err))

		_, err = verifier.AttachProof(ctx, client.AttachProofParams{
			ValidationRequestID: req.ID.String(),
			Proof:               []byte("not json"),
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, statusCode(t, err))

		got, err := suite.APIClient.GetValidationRequest(ctx, req.ID.String())
		require.NoError(t, err)
		assert.Equal(t, models.ValidationStatusPending, got.Status)
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := suite.APIClient.GetValidationRequest(ctx, "not-a-uuid")
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, statusCode(t, err))
	})
}

func TestRouteNotFound(t *testing.T) {
	suite := test.NewSuite(t)
	defer suite.Cleanup()

	code, body, errs := fiber.Get(suite.Server.URL + "/api/unknown").Bytes()
	require.Empty(t, errs)
	assert.Equal(t, http.StatusNotFound, code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, handlers.ErrMsgRouteNotFound, resp["message"])
	assert.Equal(t, "api/unknown", resp["path"])

	health, err := suite.APIClient.HealthCheck(suite.Context())
	require.NoError(t, err)
	assert.NotEmpty(t, health.Status)
}

// Package services holds the business rules of the VERSE API
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/celestiaorg/verse/internal/db/models"
	"github.com/celestiaorg/verse/internal/db/repos"
	"github.com/celestiaorg/verse/internal/types"
)

// Model provides business logic for model operations
type Model struct {
	repo        *repos.ModelRepository
	requestRepo *repos.ValidationRequestRepository
}

// NewModelService creates a new model service instance
func NewModelService(repo *repos.ModelRepository, requestRepo *repos.ValidationRequestRepository) *Model {
	return &Model{
		repo:        repo,
		requestRepo: requestRepo,
	}
}

// ValidateModel checks the user supplied fields of a model
func ValidateModel(name, description, vectorFormat string) error {
	if strings.TrimSpace(name) == "" {
		return NewFieldError("name", "name is required")
	}
	if utf8.RuneCountInString(name) > models.MaxModelNameLength {
		return NewFieldError("name", "name must be at most %d characters", models.MaxModelNameLength)
	}
	if utf8.RuneCountInString(description) > models.MaxModelDescriptionLength {
		return NewFieldError("description", "description must be at most %d characters", models.MaxModelDescriptionLength)
	}
	if strings.TrimSpace(vectorFormat) == "" {
		return NewFieldError("vectorFormat", "vectorFormat is required")
	}
	if utf8.RuneCountInString(vectorFormat) > models.MaxModelVectorFormatLength {
		return NewFieldError("vectorFormat", "vectorFormat must be at most %d characters", models.MaxModelVectorFormatLength)
	}
	return nil
}

// Create registers a model owned by owner. Any owner set on model is replaced.
func (s *Model) Create(ctx context.Context, owner *models.User, model *models.Model) (*models.Model, error) {
	if owner == nil {
		return nil, errors.New("owner is required")
	}
	if err := ValidateModel(model.Name, model.Description, model.VectorFormat); err != nil {
		return nil, err
	}

	created := &models.Model{
		UserID:       owner.ID,
		Name:         strings.TrimSpace(model.Name),
		Description:  model.Description,
		VectorFormat: model.VectorFormat,
	}
	if err := s.repo.Create(ctx, created); err != nil {
		return nil, err
	}
	return created, nil
}

// GetModel retrieves a model by id
func (s *Model) GetModel(ctx context.Context, id uuid.UUID) (*models.Model, error) {
	model, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(ErrModelNotFound, err)
	}
	return model, nil
}

// ListAll returns every registered model
func (s *Model) ListAll(ctx context.Context) ([]models.Model, error) {
	return s.repo.List(ctx)
}

// ListByOwner returns the models owned by owner
func (s *Model) ListByOwner(ctx context.Context, owner *models.User) ([]models.Model, error) {
	return s.repo.ListByOwner(ctx, owner.ID)
}

// ListWithValidations returns the models owned by owner, each with its validation requests
func (s *Model) ListWithValidations(ctx context.Context, owner *models.User) ([]types.ModelWithValidations, error) {
	owned, err := s.repo.ListByOwner(ctx, owner.ID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(owned))
	for _, m := range owned {
		ids = append(ids, m.ID)
	}

	requests, err := s.requestRepo.ListByModels(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load validation requests: %w", err)
	}

	byModel := make(map[uuid.UUID][]models.ValidationRequest, len(owned))
	for _, req := range requests {
		byModel[req.ModelID] = append(byModel[req.ModelID], req)
	}

	result := make([]types.ModelWithValidations, 0, len(owned))
	for _, m := range owned {
		reqs := byModel[m.ID]
		if reqs == nil {
			reqs = []models.ValidationRequest{}
		}
		result = append(result, types.ModelWithValidations{
			Model:              m,
			ValidationRequests: reqs,
		})
	}
	return result, nil
}

// notFound maps a missing record to sentinel and passes other failures through
func notFound(sentinel, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Join(sentinel, err)
	}
	return err
}

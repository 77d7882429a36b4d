// Package repos provides database repository implementations
package repos

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/celestiaorg/verse/internal/db/models"
)

// ModelRepository handles database operations for models
type ModelRepository struct {
	db *gorm.DB
}

// NewModelRepository creates a new instance of ModelRepository
func NewModelRepository(db *gorm.DB) *ModelRepository {
	return &ModelRepository{
		db: db,
	}
}

// Create creates a new model in the database
func (r *ModelRepository) Create(ctx context.Context, model *models.Model) error {
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create model: %w", err)
	}
	return nil
}

// GetByID retrieves a model by ID
// Returns ErrRecordNotFound if the model doesn't exist
func (r *ModelRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Model, error) {
	var model models.Model
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("model not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get model: %w", err)
	}
	return &model, nil
}

// List retrieves every model, newest first
func (r *ModelRepository) List(ctx context.Context) ([]models.Model, error) {
	var list []models.Model
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	return list, nil
}

// ListByOwner retrieves the models owned by the given user, newest first
func (r *ModelRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Model, error) {
	var list []models.Model
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list models for owner %s: %w", ownerID, err)
	}
	return list, nil
}

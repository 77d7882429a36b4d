package repos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/celestiaorg/verse/internal/db/models"
)

// ErrProofAlreadyAttached is returned when a proof is attached to a request that is no longer pending
var ErrProofAlreadyAttached = errors.New("proof already attached")

// ProofAttachment holds the columns written when a proof is attached
type ProofAttachment struct {
	JSONURL     string
	JSONKey     string
	ProofDigest string
	ProvedAt    time.Time
}

// ValidationRequestRepository handles database operations for validation requests
type ValidationRequestRepository struct {
	db *gorm.DB
}

// NewValidationRequestRepository creates a new instance of ValidationRequestRepository
func NewValidationRequestRepository(db *gorm.DB) *ValidationRequestRepository {
	return &ValidationRequestRepository{db: db}
}

// Create creates a new validation request in the database
func (r *ValidationRequestRepository) Create(ctx context.Context, req *models.ValidationRequest) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(req).Error
	if err != nil {
		return fmt.Errorf("failed to create validation request: %w", err)
	}
	return nil
}

// GetByID retrieves a validation request by ID
// Returns ErrRecordNotFound if the request doesn't exist
func (r *ValidationRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ValidationRequest, error) {
	var req models.ValidationRequest
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("validation request not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get validation request: %w", err)
	}
	return &req, nil
}

// ListByModel retrieves the requests raised against a model, newest first
func (r *ValidationRequestRepository) ListByModel(ctx context.Context, modelID uuid.UUID) ([]models.ValidationRequest, error) {
	var list []models.ValidationRequest
	err := r.db.WithContext(ctx).
		Where("model_id = ?", modelID).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list validation requests for model %s: %w", modelID, err)
	}
	return list, nil
}

// ListByModels retrieves the requests raised against any of the given models, newest first
func (r *ValidationRequestRepository) ListByModels(ctx context.Context, modelIDs []uuid.UUID) ([]models.ValidationRequest, error) {
	if len(modelIDs) == 0 {
		return []models.ValidationRequest{}, nil
	}

	var list []models.ValidationRequest
	err := r.db.WithContext(ctx).
		Where("model_id IN ?", modelIDs).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list validation requests: %w", err)
	}
	return list, nil
}

// ListByVerifier retrieves the requests raised by a verifier together with their model, newest first
func (r *ValidationRequestRepository) ListByVerifier(ctx context.Context, verifierID uuid.UUID) ([]models.ValidationRequest, error) {
	var list []models.ValidationRequest
	err := r.db.WithContext(ctx).
		Preload("Model").
		Where("verifier_id = ?", verifierID).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list validation requests for verifier %s: %w", verifierID, err)
	}
	return list, nil
}

// AttachProof moves a pending request to proved. The update only applies while the
// request is still pending, so concurrent attachments succeed at most once.
// Returns ErrProofAlreadyAttached when the request was already proved.
func (r *ValidationRequestRepository) AttachProof(ctx context.Context, id uuid.UUID, proof ProofAttachment) (*models.ValidationRequest, error) {
	result := r.db.WithContext(ctx).
		Model(&models.ValidationRequest{}).
		Where("id = ? AND status = ?", id, models.ValidationStatusPending).
		Updates(map[string]interface{}{
			"json_url":     proof.JSONURL,
			"json_key":     proof.JSONKey,
			"proof_digest": proof.ProofDigest,
			"status":       models.ValidationStatusProved,
			"proved_at":    proof.ProvedAt,
			"updated_at":   proof.ProvedAt,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to attach proof: %w", result.Error)
	}

	req, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if result.RowsAffected == 0 {
		return req, ErrProofAlreadyAttached
	}
	return req, nil
}

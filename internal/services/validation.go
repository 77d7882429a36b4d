package services

import (
	"bytes"
	"context"
	"debug/elf"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/opencontainers/go-digest"

	"github.com/celestiaorg/verse/internal/db/models"
	"github.com/celestiaorg/verse/internal/db/repos"
	"github.com/celestiaorg/verse/internal/events"
	"github.com/celestiaorg/verse/internal/logger"
	"github.com/celestiaorg/verse/internal/storage"
)

// Upload form field names
const (
	FieldModelID   = "model_id"
	FieldElfFile   = "elf_file"
	FieldHashValue = "hashValue"
	FieldJSONFile  = "json_file"
)

// Upload is the content of an uploaded file. multipart.File satisfies it.
type Upload interface {
	io.Reader
	io.ReaderAt
	io.Seeker
}

// File is an uploaded file together with its metadata
type File struct {
	Name    string
	Size    int64
	Content Upload
}

// Validation provides business logic for validation requests
type Validation struct {
	repo      *repos.ValidationRequestRepository
	modelRepo *repos.ModelRepository
	store     storage.Storage
	now       func() time.Time
}

// NewValidationService creates a new validation service instance
func NewValidationService(repo *repos.ValidationRequestRepository, modelRepo *repos.ModelRepository, store storage.Storage) *Validation {
	return &Validation{
		repo:      repo,
		modelRepo: modelRepo,
		store:     store,
		now:       time.Now,
	}
}

// Create raises a validation request by verifier against a model. The ELF binary is
// stored before the request is persisted and removed again if persisting fails.
func (s *Validation) Create(ctx context.Context, verifier *models.User, modelID uuid.UUID, elfFile *File, hashValue string) (*models.ValidationRequest, error) {
	hashValue = strings.TrimSpace(hashValue)
	if hashValue == "" {
		return nil, NewFieldError(FieldHashValue, "hashValue is required")
	}
	if elfFile == nil || elfFile.Content == nil {
		return nil, NewFieldError(FieldElfFile, "elf file is required")
	}

	model, err := s.modelRepo.GetByID(ctx, modelID)
	if err != nil {
		return nil, notFound(ErrModelNotFound, err)
	}

	size, elfDigest, err := inspectELF(elfFile)
	if err != nil {
		return nil, err
	}

	key := storage.NewKey(storage.PrefixELF, ".elf", s.now())
	obj, err := s.store.Put(ctx, key, elfFile.Content, size, storage.ContentTypeELF)
	if err != nil {
		return nil, fmt.Errorf("failed to store elf file: %w", err)
	}

	req := &models.ValidationRequest{
		ModelID:    model.ID,
		VerifierID: verifier.ID,
		ElfFileURL: obj.URL,
		ElfKey:     obj.Key,
		ElfDigest:  elfDigest.String(),
		ProofHash:  hashValue,
		Status:     models.ValidationStatusPending,
	}
	if err := s.repo.Create(ctx, req); err != nil {
		s.discard(obj.Key)
		return nil, err
	}

	logger.InfoWithFields("validation request created", map[string]interface{}{
		"request_id":  req.ID.String(),
		"model_id":    model.ID.String(),
		"verifier_id": verifier.ID.String(),
		"elf_digest":  req.ElfDigest,
	})
	events.Publish(events.Event{
		Type:      events.EventValidationRequested,
		RequestID: req.ID,
		ModelID:   req.ModelID,
		UserID:    verifier.ID,
		Digest:    req.ElfDigest,
	})
	return req, nil
}

// Get retrieves a validation request by id
func (s *Validation) Get(ctx context.Context, id uuid.UUID) (*models.ValidationRequest, error) {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(ErrValidationRequestNotFound, err)
	}
	return req, nil
}

// ListForModel returns the requests raised against a model owned by owner.
// Models owned by someone else are reported as not found.
func (s *Validation) ListForModel(ctx context.Context, owner *models.User, modelID uuid.UUID) ([]models.ValidationRequest, error) {
	model, err := s.modelRepo.GetByID(ctx, modelID)
	if err != nil {
		return nil, notFound(ErrModelNotFound, err)
	}
	if !model.IsOwnedBy(owner.ID) {
		return nil, ErrModelNotFound
	}
	return s.repo.ListByModel(ctx, modelID)
}

// ListForVerifier returns the requests raised by verifier, each with its model
func (s *Validation) ListForVerifier(ctx context.Context, verifier *models.User) ([]models.ValidationRequest, error) {
	return s.repo.ListByVerifier(ctx, verifier.ID)
}

// AttachProof attaches a JSON proof to a pending request. Only the model owner and the
// verifier may attach; for anyone else the request does not exist. A request accepts
// exactly one proof.
func (s *Validation) AttachProof(ctx context.Context, user *models.User, requestID uuid.UUID, proof *File) (*models.ValidationRequest, error) {
	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, notFound(ErrValidationRequestNotFound, err)
	}

	model, err := s.modelRepo.GetByID(ctx, req.ModelID)
	if err != nil {
		return nil, notFound(ErrValidationRequestNotFound, err)
	}
	if !model.IsOwnedBy(user.ID) && req.VerifierID != user.ID {
		return nil, ErrValidationRequestNotFound
	}
	if req.IsProved() {
		return nil, ErrAlreadyProved
	}

	if proof == nil || proof.Content == nil {
		return nil, NewFieldError(FieldJSONFile, "json file is required")
	}
	data, err := io.ReadAll(proof.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to read proof: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, NewFieldError(FieldJSONFile, "json file is empty")
	}
	if !json.Valid(data) {
		return nil, NewFieldError(FieldJSONFile, "json file is not valid JSON")
	}

	now := s.now()
	key := storage.NewKey(storage.PrefixProofs, ".json", now)
	obj, err := s.store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), storage.ContentTypeJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to store proof: %w", err)
	}

	updated, err := s.repo.AttachProof(ctx, requestID, repos.ProofAttachment{
		JSONURL:     obj.URL,
		JSONKey:     obj.Key,
		ProofDigest: digest.FromBytes(data).String(),
		ProvedAt:    now.UTC(),
	})
	if err != nil {
		s.discard(obj.Key)
		if errors.Is(err, repos.ErrProofAlreadyAttached) {
			return nil, ErrAlreadyProved
		}
		return nil, notFound(ErrValidationRequestNotFound, err)
	}

	logger.InfoWithFields("proof attached", map[string]interface{}{
		"request_id":   updated.ID.String(),
		"user_id":      user.ID.String(),
		"proof_digest": updated.ProofDigest,
	})
	events.Publish(events.Event{
		Type:      events.EventProofAttached,
		RequestID: updated.ID,
		ModelID:   updated.ModelID,
		UserID:    user.ID,
		Digest:    updated.ProofDigest,
	})
	return updated, nil
}

// discard removes an object whose database record could not be written
func (s *Validation) discard(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.store.Delete(ctx, key); err != nil {
		logger.WarnWithFields("failed to remove orphaned object", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

// inspectELF checks that f holds an ELF binary and returns its size and digest.
// The content is rewound afterwards.
func inspectELF(f *File) (int64, digest.Digest, error) {
	if _, err := elf.NewFile(f.Content); err != nil {
		return 0, "", NewFieldError(FieldElfFile, "file is not a valid ELF binary")
	}

	if _, err := f.Content.Seek(0, io.SeekStart); err != nil {
		return 0, "", fmt.Errorf("failed to rewind elf file: %w", err)
	}
	counter := &countingReader{r: f.Content}
	d, err := digest.FromReader(counter)
	if err != nil {
		return 0, "", fmt.Errorf("failed to digest elf file: %w", err)
	}
	if _, err := f.Content.Seek(0, io.SeekStart); err != nil {
		return 0, "", fmt.Errorf("failed to rewind elf file: %w", err)
	}
	return counter.n, d, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

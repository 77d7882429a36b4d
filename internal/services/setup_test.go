package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/celestiaorg/verse/internal/db/models"
	"github.com/celestiaorg/verse/internal/db/repos"
	"github.com/celestiaorg/verse/internal/storage"
	"github.com/celestiaorg/verse/internal/testutil"
)

// TestSetup wires real repositories and services against sqlite and a local store
type TestSetup struct {
	DB                *gorm.DB
	StoreDir          string
	Store             storage.Storage
	UserRepo          *repos.UserRepository
	ModelRepo         *repos.ModelRepository
	RequestRepo       *repos.ValidationRequestRepository
	ModelService      *Model
	ValidationService *Validation
	ctx               context.Context
}

// NewTestSetup creates a new test setup
func NewTestSetup(t *testing.T) *TestSetup {
	db := testutil.NewDB(t)
	dir := t.TempDir()

	store, err := storage.NewLocal(dir, "http://127.0.0.1:8000")
	require.NoError(t, err)

	userRepo := repos.NewUserRepository(db)
	modelRepo := repos.NewModelRepository(db)
	requestRepo := repos.NewValidationRequestRepository(db)

	return &TestSetup{
		DB:                db,
		StoreDir:          store.Root(),
		Store:             store,
		UserRepo:          userRepo,
		ModelRepo:         modelRepo,
		RequestRepo:       requestRepo,
		ModelService:      NewModelService(modelRepo, requestRepo),
		ValidationService: NewValidationService(requestRepo, modelRepo, store),
		ctx:               context.Background(),
	}
}

func (ts *TestSetup) createUser(t *testing.T, name string) *models.User {
	user := &models.User{Email: fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8])}
	require.NoError(t, ts.UserRepo.Create(ts.ctx, user))
	return user
}

func (ts *TestSetup) createModel(t *testing.T, owner *models.User, name string) *models.Model {
	model, err := ts.ModelService.Create(ts.ctx, owner, &models.Model{
		Name:         name,
		VectorFormat: "f32[4]",
	})
	require.NoError(t, err)
	return model
}

func (ts *TestSetup) createRequest(t *testing.T, verifier *models.User, model *models.Model) *models.ValidationRequest {
	req, err := ts.ValidationService.Create(ts.ctx, verifier, model.ID, elfUpload(), "abc123")
	require.NoError(t, err)
	return req
}

// storedFiles lists every regular file under the store directory
func (ts *TestSetup) storedFiles(t *testing.T) []string {
	var files []string
	err := filepath.Walk(ts.StoreDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			rel, _ := filepath.Rel(ts.StoreDir, path)
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	require.NoError(t, err)
	return files
}

func elfUpload() *File {
	data := testutil.MinimalELF()
	return &File{Name: "guest.elf", Size: int64(len(data)), Content: bytes.NewReader(data)}
}

func jsonUpload(body string) *File {
	return &File{Name: "proof.json", Size: int64(len(body)), Content: bytes.NewReader([]byte(body))}
}

// brokenStore accepts uploads and fails every delete
type brokenStore struct {
	storage.Storage
	deletes []string
}

func (b *brokenStore) Delete(_ context.Context, key string) error {
	b.deletes = append(b.deletes, key)
	return errors.New("delete failed")
}


// racingStore attaches a competing proof to a request while the upload is in flight
type racingStore struct {
	storage.Storage
	repo      *repos.ValidationRequestRepository
	requestID uuid.UUID
	winner    repos.ProofAttachment
}

func (r *racingStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (storage.Object, error) {
	if _, err := r.repo.AttachProof(ctx, r.requestID, r.winner); err != nil {
		return storage.Object{}, err
	}
	return r.Storage.Put(ctx, key, body, size, contentType)
}

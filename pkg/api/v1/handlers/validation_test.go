package handlers_test

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/celestiaorg/verse/internal/db/models"
	"github.com/celestiaorg/verse/internal/testutil"
	"github.com/celestiaorg/verse/internal/types"
	"github.com/celestiaorg/verse/pkg/api/v1/handlers"
)

func (s *HandlerTestSuite) TestCreateValidationRequest() {
	alice, aliceToken := s.newUser("alice")
	bob, bobToken := s.newUser("bob")
	model := s.createModel(aliceToken, "mnist")

	status, body := s.createRequest(bobToken, model.ID, "abc123")
	s.Require().Equal(http.StatusCreated, status, string(body))

	req := decode[models.ValidationRequest](s.T(), body)
	s.Equal(model.ID, req.ModelID)
	s.Equal(bob.ID, req.VerifierID)
	s.NotEqual(alice.ID, req.VerifierID)
	s.Equal("abc123", req.ProofHash)
	s.Equal(models.ValidationStatusPending, req.Status)
	s.Empty(req.JSONURL)
	s.True(strings.HasPrefix(req.ElfFileURL, "http://127.0.0.1:8000/files/elf/"))

	raw := decode[map[string]interface{}](s.T(), body)
	s.Equal("pending", raw["status"])
	s.NotContains(raw, "elfKey")
	s.NotContains(raw, "provedAt")

	// the stored ELF is served back under /files
	path := strings.TrimPrefix(req.ElfFileURL, "http://127.0.0.1:8000")
	status, data := s.do(http.MethodGet, path, "", nil, "")
	s.Equal(http.StatusOK, status)
	s.Equal(testutil.MinimalELF(), data)
}

func (s *HandlerTestSuite) TestCreateValidationRequestCamelCaseFields() {
	_, token := s.newUser("alice")
	model := s.createModel(token, "mnist")

	body, contentType := multipartBody(
		map[string]string{"modelId": model.ID.String(), "hashValue": "abc"},
		formFile{field: "elfFile", name: "guest.elf", data: testutil.MinimalELF()},
	)
	status, resp := s.do(http.MethodPost, "/api/model/validation-request", token, body, contentType)
	s.Equal(http.StatusCreated, status, string(resp))
}

func (s *HandlerTestSuite) TestCreateValidationRequestErrors() {
	_, token := s.newUser("alice")
	model := s.createModel(token, "mnist")
	elf := formFile{field: "elf_file", name: "guest.elf", data: testutil.MinimalELF()}

	tests := []struct {
		name       string
		token      string
		fields     map[string]string
		files      []formFile
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "no token",
			fields:     map[string]string{"model_id": model.ID.String(), "hashValue": "abc"},
			files:      []formFile{elf},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown model",
			token:      token,
			fields:     map[string]string{"model_id": uuid.NewString(), "hashValue": "abc"},
			files:      []formFile{elf},
			wantStatus: http.StatusNotFound,
			wantMsg:    handlers.ErrMsgModelNotFound,
		},
		{
			name:       "malformed model id",
			token:      token,
			fields:     map[string]string{"model_id": "42", "hashValue": "abc"},
			files:      []formFile{elf},
			wantStatus: http.StatusNotFound,
			wantMsg:    handlers.ErrMsgModelNotFound,
		},
		{
			name:       "missing model id",
			token:      token,
			fields:     map[string]string{"hashValue": "abc"},
			files:      []formFile{elf},
			wantStatus: http.StatusUnprocessableEntity,
			wantMsg:    handlers.ErrMsgValidationFailed,
		},
		{
			name:       "missing file",
			token:      token,
			fields:     map[string]string{"model_id": model.ID.String(), "hashValue": "abc"},
			wantStatus: http.StatusUnprocessableEntity,
			wantMsg:    handlers.ErrMsgValidationFailed,
		},
		{
			name:       "missing hash",
			token:      token,
			fields:     map[string]string{"model_id": model.ID.String()},
			files:      []formFile{elf},
			wantStatus: http.StatusUnprocessableEntity,
			wantMsg:    handlers.ErrMsgValidationFailed,
		},
		{
			name:       "not an elf",
			token:      token,
			fields:     map[string]string{"model_id": model.ID.String(), "hashValue": "abc"},
			files:      []formFile{{field: "elf_file", name: "guest.elf", data: []byte("#!/bin/sh\necho hi\n")}},
			wantStatus: http.StatusUnprocessableEntity,
			wantMsg:    handlers.ErrMsgValidationFailed,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			body, contentType := multipartBody(tt.fields, tt.files...)
			status, resp := s.do(http.MethodPost, "/api/model/validation-request", tt.token, body, contentType)
			s.Equal(tt.wantStatus, status, string(resp))
			if tt.wantMsg != "" {
				s.Equal(tt.wantMsg, decode[types.ErrorResponse](s.T(), resp).Message)
			}
		})
	}

	// nothing reached storage
	entries, err := os.ReadDir(filepath.Join(s.filesDir, "elf"))
	if err == nil {
		s.Empty(entries)
	} else {
		s.True(os.IsNotExist(err))
	}
}

func (s *HandlerTestSuite) TestListValidationRequestsForModel() {
	_, aliceToken := s.newUser("alice")
	_, bobToken := s.newUser("bob")
	model := s.createModel(aliceToken, "mnist")

	status, body := s.createRequest(bobToken, model.ID, "abc123")
	s.Require().Equal(http.StatusCreated, status)
	req := decode[models.ValidationRequest](s.T(), body)

	status, body = s.do(http.MethodGet, "/api/model/"+model.ID.String()+"/validation-requests", aliceToken, nil, "")
	s.Require().Equal(http.StatusOK, status)
	list := decode[[]models.ValidationRequest](s.T(), body)
	s.Require().Len(list, 1)
	s.Equal(req.ID, list[0].ID)

	// bob is not the owner
	status, _ = s.do(http.MethodGet, "/api/model/"+model.ID.String()+"/validation-requests", bobToken, nil, "")
	s.Equal(http.StatusNotFound, status)

	status, _ = s.do(http.MethodGet, "/api/model/"+uuid.NewString()+"/validation-requests", aliceToken, nil, "")
	s.Equal(http.StatusNotFound, status)

	status, _ = s.do(http.MethodGet, "/api/model/not-a-uuid/validation-requests", aliceToken, nil, "")
	s.Equal(http.StatusNotFound, status)

	status, _ = s.do(http.MethodGet, "/api/model/"+model.ID.String()+"/validation-requests", "", nil, "")
	s.Equal(http.StatusUnauthorized, status)
}

func (s *HandlerTestSuite) TestListVerifierValidationRequests() {
	_, aliceToken := s.newUser("alice")
	bob, bobToken := s.newUser("bob")
	_, carolToken := s.newUser("carol")

	aliceModel := s.createModel(aliceToken, "alice-model")
	carolModel := s.createModel(carolToken, "carol-model")

	var want []uuid.UUID
	for _, m := range []models.Model{aliceModel, carolModel} {
		status, body := s.createRequest(bobToken, m.ID, "abc")
		s.Require().Equal(http.StatusCreated, status)
		want = append(want, decode[models.ValidationRequest](s.T(), body).ID)
	}
	status, _ := s.createRequest(carolToken, aliceModel.ID, "abc")
	s.Require().Equal(http.StatusCreated, status)

	status, body := s.do(http.MethodGet, "/api/model/validation-requests/verifier", bobToken, nil, "")
	s.Require().Equal(http.StatusOK, status)

	list := decode[[]models.ValidationRequest](s.T(), body)
	got := []uuid.UUID{}
	for _, r := range list {
		got = append(got, r.ID)
		s.Equal(bob.ID, r.VerifierID)
		s.Require().NotNil(r.Model)
		s.Equal(r.ModelID, r.Model.ID)
	}
	s.ElementsMatch(want, got)
}

func (s *HandlerTestSuite) TestAttachProofLifecycle() {
	_, aliceToken := s.newUser("alice")
	_, bobToken := s.newUser("bob")
	_, malloryToken := s.newUser("mallory")
	model := s.createModel(aliceToken, "mnist")

	status, body := s.createRequest(bobToken, model.ID, "abc123")
	s.Require().Equal(http.StatusCreated, status)
	req := decode[models.ValidationRequest](s.T(), body)

	// strangers cannot see the request
	status, _ = s.attachProof(malloryToken, req.ID, `{"ok":true}`)
	s.Equal(http.StatusNotFound, status)

	status, body = s.attachProof(bobToken, req.ID, `{not json`)
	s.Equal(http.StatusUnprocessableEntity, status, string(body))

	status, body = s.do(http.MethodPut, "/api/model/proof/"+req.ID.String(), bobToken, nil, "")
	s.Equal(http.StatusUnprocessableEntity, status, string(body))

	status, body = s.attachProof(bobToken, req.ID, `{"receipt":[1,2,3]}`)
	s.Require().Equal(http.StatusOK, status, string(body))
	proved := decode[models.ValidationRequest](s.T(), body)
	s.Equal(models.ValidationStatusProved, proved.Status)
	s.NotEmpty(proved.JSONURL)
	s.NotNil(proved.ProvedAt)

	status, body = s.attachProof(aliceToken, req.ID, `{"receipt":[4]}`)
	s.Equal(http.StatusConflict, status)
	s.Equal(handlers.ErrMsgAlreadyProved, decode[types.ErrorResponse](s.T(), body).Message)

	// the public read reflects the first proof
	status, body = s.do(http.MethodGet, "/api/model/validation-request/"+req.ID.String(), "", nil, "")
	s.Require().Equal(http.StatusOK, status)
	got := decode[models.ValidationRequest](s.T(), body)
	s.Equal(proved.JSONURL, got.JSONURL)
	s.Equal(req.ElfFileURL, got.ElfFileURL)
	s.Equal(models.ValidationStatusProved, got.Status)

	path := strings.TrimPrefix(got.JSONURL, "http://127.0.0.1:8000")
	status, data := s.do(http.MethodGet, path, "", nil, "")
	s.Equal(http.StatusOK, status)
	s.JSONEq(`{"receipt":[1,2,3]}`, string(data))
}

func (s *HandlerTestSuite) TestAttachProofErrors() {
	_, token := s.newUser("alice")

	status, _ := s.attachProof(token, uuid.New(), `{}`)
	s.Equal(http.StatusNotFound, status)

	status, _ = s.do(http.MethodPut, "/api/model/proof/not-a-uuid", token, nil, "")
	s.Equal(http.StatusNotFound, status)

	status, _ = s.attachProof("", uuid.New(), `{}`)
	s.Equal(http.StatusUnauthorized, status)
}

func (s *HandlerTestSuite) TestGetValidationRequestErrors() {
	status, body := s.do(http.MethodGet, "/api/model/validation-request/"+uuid.NewString(), "", nil, "")
	s.Equal(http.StatusNotFound, status)
	s.Equal(handlers.ErrMsgValidationRequestNotFound, decode[types.ErrorResponse](s.T(), body).Message)

	status, _ = s.do(http.MethodGet, "/api/model/validation-request/abc", "", nil, "")
	s.Equal(http.StatusNotFound, status)
}

package handlers_test

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/celestiaorg/verse/internal/db/models"
	"github.com/celestiaorg/verse/internal/types"
	"github.com/celestiaorg/verse/pkg/api/v1/handlers"
)

func (s *HandlerTestSuite) TestCreateModel() {
	alice, token := s.newUser("alice")
	bob, _ := s.newUser("bob")

	// a client supplied owner is ignored
	status, body := s.doJSON(http.MethodPost, "/api/model/", token, map[string]string{
		"name":         "mnist",
		"description":  "digits",
		"vectorFormat": "f32[784]",
		"userId":       bob.ID.String(),
	})
	s.Require().Equal(http.StatusCreated, status, string(body))

	model := decode[models.Model](s.T(), body)
	s.Equal(alice.ID, model.UserID)
	s.Equal("mnist", model.Name)
	s.Equal("f32[784]", model.VectorFormat)
	s.NotEqual(uuid.Nil, model.ID)

	raw := decode[map[string]interface{}](s.T(), body)
	for _, key := range []string{"id", "name", "userId", "description", "vectorFormat", "createdAt", "updatedAt"} {
		s.Contains(raw, key)
	}
}

func (s *HandlerTestSuite) TestCreateModelErrors() {
	_, token := s.newUser("alice")

	status, _ := s.doJSON(http.MethodPost, "/api/model", "", map[string]string{"name": "m", "vectorFormat": "f32"})
	s.Equal(http.StatusUnauthorized, status)

	status, body := s.doJSON(http.MethodPost, "/api/model", token, map[string]string{"name": "m"})
	s.Equal(http.StatusUnprocessableEntity, status)
	resp := decode[types.ErrorResponse](s.T(), body)
	s.Equal(handlers.ErrMsgValidationFailed, resp.Message)
	s.NotNil(resp.Details)

	status, _ = s.doJSON(http.MethodPost, "/api/model", token, map[string]string{
		"name":         strings.Repeat("n", models.MaxModelNameLength+1),
		"vectorFormat": "f32",
	})
	s.Equal(http.StatusUnprocessableEntity, status)

	status, body = s.do(http.MethodPost, "/api/model", token, strings.NewReader("{not json"), "application/json")
	s.Equal(http.StatusUnprocessableEntity, status)
	s.Equal(handlers.ErrMsgInvalidReqBody, decode[types.ErrorResponse](s.T(), body).Message)
}

func (s *HandlerTestSuite) TestListModels() {
	_, aliceToken := s.newUser("alice")
	_, bobToken := s.newUser("bob")

	a1 := s.createModel(aliceToken, "a1")
	b1 := s.createModel(bobToken, "b1")

	// owned models need a token and never include other users' models
	status, _ := s.do(http.MethodGet, "/api/model", "", nil, "")
	s.Equal(http.StatusUnauthorized, status)

	status, body := s.do(http.MethodGet, "/api/model", aliceToken, nil, "")
	s.Require().Equal(http.StatusOK, status)
	owned := decode[[]models.Model](s.T(), body)
	s.Require().Len(owned, 1)
	s.Equal(a1.ID, owned[0].ID)

	// the trailing slash lists everything without authentication
	status, body = s.do(http.MethodGet, "/api/model/", "", nil, "")
	s.Require().Equal(http.StatusOK, status)
	all := decode[[]models.Model](s.T(), body)
	ids := []uuid.UUID{}
	for _, m := range all {
		ids = append(ids, m.ID)
	}
	s.ElementsMatch([]uuid.UUID{a1.ID, b1.ID}, ids)
}

func (s *HandlerTestSuite) TestListOwnModelsEmpty() {
	_, token := s.newUser("alice")

	status, body := s.do(http.MethodGet, "/api/model", token, nil, "")
	s.Equal(http.StatusOK, status)
	s.JSONEq(`[]`, string(body))
}

func (s *HandlerTestSuite) TestListModelsWithValidations() {
	_, aliceToken := s.newUser("alice")
	_, bobToken := s.newUser("bob")

	model := s.createModel(aliceToken, "mnist")
	empty := s.createModel(aliceToken, "empty")
	status, body := s.createRequest(bobToken, model.ID, "abc123")
	s.Require().Equal(http.StatusCreated, status, string(body))
	req := decode[models.ValidationRequest](s.T(), body)

	status, body = s.do(http.MethodGet, "/api/model/validations", aliceToken, nil, "")
	s.Require().Equal(http.StatusOK, status)

	resp := decode[types.ModelsWithValidationsResponse](s.T(), body)
	s.Require().Len(resp.Models, 2)
	for _, m := range resp.Models {
		switch m.ID {
		case model.ID:
			s.Require().Len(m.ValidationRequests, 1)
			s.Equal(req.ID, m.ValidationRequests[0].ID)
			s.Equal(models.ValidationStatusPending, m.ValidationRequests[0].Status)
		case empty.ID:
			s.Empty(m.ValidationRequests)
		default:
			s.Failf("unexpected model", "%s", m.ID)
		}
	}

	raw := decode[map[string][]map[string]interface{}](s.T(), body)
	for _, m := range raw["models"] {
		s.Contains(m, "validationRequests")
		s.Contains(m, "vectorFormat")
	}
}

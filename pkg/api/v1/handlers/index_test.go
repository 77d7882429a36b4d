package handlers_test

import (
	"net/http"

	"github.com/celestiaorg/verse/internal/types"
	"github.com/celestiaorg/verse/pkg/api/v1/handlers"
)

func (s *HandlerTestSuite) TestRoot() {
	status, body := s.do(http.MethodGet, "/", "", nil, "")
	s.Equal(http.StatusOK, status)
	s.Equal(handlers.WelcomeMessage, decode[types.MessageResponse](s.T(), body).Message)
}

func (s *HandlerTestSuite) TestHealth() {
	status, body := s.do(http.MethodGet, "/health", "", nil, "")
	s.Equal(http.StatusOK, status)
	s.Equal("healthy", decode[types.HealthResponse](s.T(), body).Status)
}

func (s *HandlerTestSuite) TestRouteNotFound() {
	tests := []struct {
		method string
		path   string
		want   string
	}{
		{method: http.MethodGet, path: "/nonexistent/path", want: "nonexistent/path"},
		{method: http.MethodPost, path: "/api/unknown", want: "api/unknown"},
		{method: http.MethodGet, path: "/files/missing.json", want: "files/missing.json"},
	}

	for _, tt := range tests {
		status, body := s.do(tt.method, tt.path, "", nil, "")
		s.Equal(http.StatusNotFound, status, tt.path)

		resp := decode[types.RouteNotFoundResponse](s.T(), body)
		s.Equal(handlers.ErrMsgRouteNotFound, resp.Message)
		s.Equal(tt.want, resp.Path)
	}
}

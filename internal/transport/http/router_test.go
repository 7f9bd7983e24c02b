package httptransport

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"verifi/internal/access"
	"verifi/internal/alias"
	"verifi/internal/document"
	jwttoken "verifi/internal/jwt_token"
	"verifi/internal/ledger"
	"verifi/internal/platform/metrics"
	"verifi/internal/registry"
	"verifi/internal/roles"
	"verifi/pkg/domain"
)

type RouterSuite struct {
	suite.Suite
	router http.Handler
	jwt    *jwttoken.JWTService
}

func (s *RouterSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	svc, err := registry.New(
		roles.NewInMemory(),
		alias.NewInMemory(),
		document.NewInMemory(),
		access.NewInMemory(),
		ledger.NewInMemory(),
		"root",
		registry.WithLogger(logger),
		registry.WithMetrics(m),
	)
	s.Require().NoError(err)

	s.jwt = jwttoken.NewJWTService("test-signing-key", "test-issuer", "test-audience")
	handler := NewHandler(svc, logger, m, jwttoken.NewMiddlewareAdapter(s.jwt))
	s.router = NewRouter(handler, reg)
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) token(principal domain.Principal) string {
	token, err := s.jwt.GenerateAccessToken(principal, time.Hour)
	s.Require().NoError(err)
	return token
}

// do performs a request as the given principal; empty principal means
// unauthenticated.
func (s *RouterSuite) do(method, path string, principal domain.Principal, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if !principal.IsNil() {
		req.Header.Set("Authorization", "Bearer "+s.token(principal))
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *RouterSuite) decode(w *httptest.ResponseRecorder) map[string]any {
	var resp map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// grantVerifier makes "verifier-1" a verifier via the bootstrap admin.
func (s *RouterSuite) grantVerifier() {
	w := s.do(http.MethodPost, "/roles/grant", "root",
		map[string]string{"role": "verifier", "principal": "verifier-1"})
	s.Require().Equal(http.StatusOK, w.Code)
}

// uploadDoc registers document 42 owned by student-1.
func (s *RouterSuite) uploadDoc() {
	s.grantVerifier()
	w := s.do(http.MethodPost, "/documents", "verifier-1", map[string]string{
		"id":            "42",
		"title":         "Transcript",
		"description":   "Final transcript",
		"document_type": "PDF",
		"content_cid":   "Qm123456789",
		"owner":         "student-1",
	})
	s.Require().Equal(http.StatusCreated, w.Code)
}

func (s *RouterSuite) TestAuthRequired() {
	s.Run("missing token", func() {
		w := s.do(http.MethodPost, "/roles/grant", domain.NilPrincipal,
			map[string]string{"role": "verifier", "principal": "verifier-1"})
		s.Equal(http.StatusUnauthorized, w.Code)
	})

	s.Run("garbage token", func() {
		req := httptest.NewRequest(http.MethodPost, "/roles/grant", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Authorization", "Bearer not-a-token")
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		s.Equal(http.StatusUnauthorized, w.Code)
	})

	s.Run("public endpoints need no token", func() {
		w := s.do(http.MethodGet, "/healthz", domain.NilPrincipal, nil)
		s.Equal(http.StatusOK, w.Code)
	})
}

func (s *RouterSuite) TestRoles() {
	s.Run("grant then query", func() {
		s.grantVerifier()
		w := s.do(http.MethodGet, "/roles/verifier/verifier-1", domain.NilPrincipal, nil)
		s.Require().Equal(http.StatusOK, w.Code)
		s.Equal(true, s.decode(w)["held"])
	})

	s.Run("non-admin grant is forbidden", func() {
		w := s.do(http.MethodPost, "/roles/grant", "student-1",
			map[string]string{"role": "verifier", "principal": "student-1"})
		s.Equal(http.StatusForbidden, w.Code)
	})

	s.Run("unknown role is a bad request", func() {
		w := s.do(http.MethodPost, "/roles/grant", "root",
			map[string]string{"role": "superuser", "principal": "x"})
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("missing fields are a bad request", func() {
		w := s.do(http.MethodPost, "/roles/grant", "root", map[string]string{"role": "verifier"})
		s.Equal(http.StatusBadRequest, w.Code)
	})
}

func (s *RouterSuite) TestAliases() {
	s.Run("bind and resolve", func() {
		w := s.do(http.MethodPost, "/aliases", "root",
			map[string]string{"alias": "AB12", "principal": "student-1"})
		s.Require().Equal(http.StatusCreated, w.Code)

		w = s.do(http.MethodGet, "/aliases/AB12", domain.NilPrincipal, nil)
		s.Require().Equal(http.StatusOK, w.Code)
		s.Equal("student-1", s.decode(w)["principal"])
	})

	s.Run("rebind conflicts", func() {
		s.do(http.MethodPost, "/aliases", "root",
			map[string]string{"alias": "AB12", "principal": "student-1"})
		w := s.do(http.MethodPost, "/aliases", "root",
			map[string]string{"alias": "AB12", "principal": "employer-1"})
		s.Equal(http.StatusConflict, w.Code)
	})

	s.Run("unbound alias is 404", func() {
		w := s.do(http.MethodGet, "/aliases/ZZ99", domain.NilPrincipal, nil)
		s.Equal(http.StatusNotFound, w.Code)
	})
}

func (s *RouterSuite) TestDocuments() {
	s.uploadDoc()

	s.Run("retrieve as verifier", func() {
		w := s.do(http.MethodGet, "/documents/42", "verifier-1", nil)
		s.Require().Equal(http.StatusOK, w.Code)
		resp := s.decode(w)
		s.Equal("Transcript", resp["title"])
		s.Equal("student-1", resp["owner"])
	})

	s.Run("retrieve without verifier role is forbidden", func() {
		w := s.do(http.MethodGet, "/documents/42", "employer-1", nil)
		s.Equal(http.StatusForbidden, w.Code)
	})

	s.Run("duplicate upload conflicts", func() {
		w := s.do(http.MethodPost, "/documents", "verifier-1", map[string]string{
			"id": "42", "title": "x", "description": "y",
			"document_type": "PDF", "content_cid": "Qm2",
		})
		s.Equal(http.StatusConflict, w.Code)
	})

	s.Run("exists is public", func() {
		w := s.do(http.MethodGet, "/documents/42/exists", domain.NilPrincipal, nil)
		s.Require().Equal(http.StatusOK, w.Code)
		s.Equal(true, s.decode(w)["exists"])
	})

	s.Run("list by uploader", func() {
		w := s.do(http.MethodGet, "/documents?uploader=verifier-1", domain.NilPrincipal, nil)
		s.Require().Equal(http.StatusOK, w.Code)
		docs := s.decode(w)["documents"].([]any)
		s.Len(docs, 1)
	})

	s.Run("non-numeric id is a bad request", func() {
		w := s.do(http.MethodGet, "/documents/abc/exists", domain.NilPrincipal, nil)
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("delete by non-uploader is rejected", func() {
		w := s.do(http.MethodPost, "/roles/grant", "root",
			map[string]string{"role": "verifier", "principal": "verifier-2"})
		s.Require().Equal(http.StatusOK, w.Code)
		w = s.do(http.MethodDelete, "/documents/42", "verifier-2", nil)
		s.Equal(http.StatusForbidden, w.Code)

		w = s.do(http.MethodDelete, "/documents/42", "verifier-1", nil)
		s.Equal(http.StatusOK, w.Code)
	})
}

func (s *RouterSuite) TestVerifyAndCertificate() {
	s.uploadDoc()

	s.Run("admin verifies", func() {
		w := s.do(http.MethodPost, "/documents/42/verify", "root", nil)
		s.Require().Equal(http.StatusOK, w.Code)

		w = s.do(http.MethodPost, "/documents/42/verify", "root", nil)
		s.Equal(http.StatusConflict, w.Code)
	})

	s.Run("certificate mint and fetch", func() {
		w := s.do(http.MethodPost, "/documents/42/certificate", "root", nil)
		s.Require().Equal(http.StatusCreated, w.Code)

		w = s.do(http.MethodGet, "/documents/42/certificate", domain.NilPrincipal, nil)
		s.Require().Equal(http.StatusOK, w.Code)
		s.Equal("42", s.decode(w)["document_id"])

		w = s.do(http.MethodPost, "/documents/42/certificate", "root", nil)
		s.Equal(http.StatusConflict, w.Code)
	})
}

func (s *RouterSuite) TestAccessFlow() {
	s.uploadDoc()
	w := s.do(http.MethodPost, "/aliases", "root",
		map[string]string{"alias": "AB12", "principal": "student-1"})
	s.Require().Equal(http.StatusCreated, w.Code)

	// employer requests by alias
	w = s.do(http.MethodPost, "/documents/42/access/request", "employer-1",
		map[string]string{"alias": "AB12"})
	s.Require().Equal(http.StatusAccepted, w.Code)

	// pending list shows the employer
	w = s.do(http.MethodGet, "/documents/42/access/pending", domain.NilPrincipal, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal([]any{"employer-1"}, s.decode(w)["pending"].([]any))

	// owner grants
	w = s.do(http.MethodPost, "/documents/42/access/grant", "student-1",
		map[string]string{"requester": "employer-1"})
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/documents/42/access/employer-1", domain.NilPrincipal, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal(true, s.decode(w)["granted"])

	// owner revokes
	w = s.do(http.MethodPost, "/documents/42/access/revoke", "student-1",
		map[string]string{"requester": "employer-1"})
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/documents/42/access/employer-1", domain.NilPrincipal, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal(false, s.decode(w)["granted"])
}

func (s *RouterSuite) TestAccessDecisionErrors() {
	s.uploadDoc()

	s.Run("grant without request is 404", func() {
		w := s.do(http.MethodPost, "/documents/42/access/grant", "student-1",
			map[string]string{"requester": "employer-1"})
		s.Equal(http.StatusNotFound, w.Code)
	})

	s.Run("owner self-request is a bad request", func() {
		w := s.do(http.MethodPost, "/documents/42/access/request", "student-1", nil)
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("non-owner decision is forbidden", func() {
		w := s.do(http.MethodPost, "/documents/42/access/request", "employer-1", nil)
		s.Require().Equal(http.StatusAccepted, w.Code)
		w = s.do(http.MethodPost, "/documents/42/access/grant", "verifier-1",
			map[string]string{"requester": "employer-1"})
		s.Equal(http.StatusForbidden, w.Code)
	})

	s.Run("revoke without grant conflicts", func() {
		w := s.do(http.MethodPost, "/documents/42/access/revoke", "student-1",
			map[string]string{"requester": "nobody"})
		s.Equal(http.StatusConflict, w.Code)
	})
}

func (s *RouterSuite) TestEvents() {
	s.uploadDoc()

	w := s.do(http.MethodGet, "/events", domain.NilPrincipal, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	events := s.decode(w)["events"].([]any)
	// bootstrap grant, verifier grant, upload
	s.Require().Len(events, 3)
	first := events[0].(map[string]any)
	s.Equal("role_granted", first["action"])

	s.Run("cursor pagination", func() {
		w := s.do(http.MethodGet, "/events?since=2&limit=10", domain.NilPrincipal, nil)
		s.Require().Equal(http.StatusOK, w.Code)
		events := s.decode(w)["events"].([]any)
		s.Require().Len(events, 1)
		s.Equal("document_uploaded", events[0].(map[string]any)["action"])
	})

	s.Run("bad cursor", func() {
		w := s.do(http.MethodGet, "/events?since=abc", domain.NilPrincipal, nil)
		s.Equal(http.StatusBadRequest, w.Code)
	})
}

func (s *RouterSuite) TestMetricsEndpoint() {
	w := s.do(http.MethodGet, "/metrics", domain.NilPrincipal, nil)
	s.Equal(http.StatusOK, w.Code)
}

// Package httptransport is the thin HTTP layer. It delegates to the registry
// service without embedding business logic so transport concerns remain
// isolated.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"verifi/internal/document"
	"verifi/internal/ledger"
	"verifi/internal/platform/metrics"
	"verifi/internal/platform/middleware"
	"verifi/internal/registry"
	"verifi/pkg/domain"
)

// Service is the slice of the registry the transport needs.
type Service interface {
	GrantRole(ctx context.Context, caller domain.Principal, role domain.Role, principal domain.Principal) error
	RevokeRole(ctx context.Context, caller domain.Principal, role domain.Role, principal domain.Principal) error
	HasRole(ctx context.Context, role domain.Role, principal domain.Principal) (bool, error)

	BindAlias(ctx context.Context, caller domain.Principal, a domain.Alias, principal domain.Principal) error
	ResolveAlias(ctx context.Context, a domain.Alias) (domain.Principal, error)

	Upload(ctx context.Context, caller domain.Principal, req registry.UploadRequest) (*document.Document, error)
	Retrieve(ctx context.Context, caller domain.Principal, id domain.DocumentID) (*document.Document, error)
	Remove(ctx context.Context, caller domain.Principal, id domain.DocumentID) error
	Exists(ctx context.Context, id domain.DocumentID) (bool, error)
	DocumentsByUploader(ctx context.Context, uploader domain.Principal) ([]*document.Document, error)
	VerifyDocument(ctx context.Context, caller domain.Principal, id domain.DocumentID) error
	MintCertificate(ctx context.Context, caller domain.Principal, id domain.DocumentID) (*document.Certificate, error)
	Certificate(ctx context.Context, id domain.DocumentID) (*document.Certificate, error)

	RequestAccess(ctx context.Context, caller domain.Principal, id domain.DocumentID) error
	RequestAccessByAlias(ctx context.Context, caller domain.Principal, a domain.Alias, id domain.DocumentID) error
	GrantAccess(ctx context.Context, caller domain.Principal, id domain.DocumentID, requester domain.Principal) error
	RejectAccess(ctx context.Context, caller domain.Principal, id domain.DocumentID, requester domain.Principal) error
	RevokeAccess(ctx context.Context, caller domain.Principal, id domain.DocumentID, requester domain.Principal) error
	CheckAccess(ctx context.Context, id domain.DocumentID, requester domain.Principal) (bool, error)
	PendingRequests(ctx context.Context, id domain.DocumentID) ([]domain.Principal, error)

	Events(ctx context.Context, since uint64, limit int) ([]ledger.Event, error)
}

// Handler holds the dependencies every endpoint shares.
type Handler struct {
	logger       *slog.Logger
	service      Service
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
}

func NewHandler(
	service Service,
	logger *slog.Logger,
	m *metrics.Metrics,
	jwtValidator middleware.JWTValidator,
) *Handler {
	return &Handler{
		logger:       logger,
		service:      service,
		metrics:      m,
		jwtValidator: jwtValidator,
	}
}

// NewRouter wires all endpoints. Mutations sit behind RequireAuth; pure
// queries are public, mirroring the read/write split of the service.
func NewRouter(h *Handler, reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(h.logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(h.logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.jwtValidator, h.logger))

		r.With(middleware.LatencyMiddleware(h.metrics, "/roles/grant")).
			Post("/roles/grant", h.handleGrantRole)
		r.With(middleware.LatencyMiddleware(h.metrics, "/roles/revoke")).
			Post("/roles/revoke", h.handleRevokeRole)

		r.With(middleware.LatencyMiddleware(h.metrics, "/aliases")).
			Post("/aliases", h.handleBindAlias)

		r.With(middleware.LatencyMiddleware(h.metrics, "/documents")).
			Post("/documents", h.handleUpload)
		r.With(middleware.LatencyMiddleware(h.metrics, "/documents/{id}")).
			Get("/documents/{id}", h.handleRetrieve)
		r.With(middleware.LatencyMiddleware(h.metrics, "/documents/{id}")).
			Delete("/documents/{id}", h.handleRemove)
		r.With(middleware.LatencyMiddleware(h.metrics, "/documents/{id}/verify")).
			Post("/documents/{id}/verify", h.handleVerifyDocument)
		r.With(middleware.LatencyMiddleware(h.metrics, "/documents/{id}/certificate")).
			Post("/documents/{id}/certificate", h.handleMintCertificate)

		r.With(middleware.LatencyMiddleware(h.metrics, "/documents/{id}/access/request")).
			Post("/documents/{id}/access/request", h.handleRequestAccess)
		r.With(middleware.LatencyMiddleware(h.metrics, "/documents/{id}/access/grant")).
			Post("/documents/{id}/access/grant", h.handleGrantAccess)
		r.With(middleware.LatencyMiddleware(h.metrics, "/documents/{id}/access/reject")).
			Post("/documents/{id}/access/reject", h.handleRejectAccess)
		r.With(middleware.LatencyMiddleware(h.metrics, "/documents/{id}/access/revoke")).
			Post("/documents/{id}/access/revoke", h.handleRevokeAccess)
	})

	// Public queries
	r.Get("/roles/{role}/{principal}", h.handleHasRole)
	r.Get("/aliases/{alias}", h.handleResolveAlias)
	r.Get("/documents", h.handleDocumentsByUploader)
	r.Get("/documents/{id}/exists", h.handleExists)
	r.Get("/documents/{id}/certificate", h.handleGetCertificate)
	r.Get("/documents/{id}/access/pending", h.handlePendingRequests)
	r.Get("/documents/{id}/access/{requester}", h.handleCheckAccess)
	r.Get("/events", h.handleEvents)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if reg != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	return r
}

// Package registry is the core of the system: one service that owns the
// role, alias, document and access tables plus the event log, and applies
// every state transition as a single serialized commit.
package registry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"verifi/internal/access"
	"verifi/internal/alias"
	"verifi/internal/document"
	"verifi/internal/ledger"
	"verifi/internal/platform/metrics"
	"verifi/pkg/domain"
	dErrors "verifi/pkg/domain-errors"
)

// AddressingMode selects how document IDs come to exist. One deployment uses
// one mode for its whole lifetime.
type AddressingMode string

const (
	// AddressingExplicit: callers supply numeric IDs; a deleted ID becomes
	// available again.
	AddressingExplicit AddressingMode = "explicit"
	// AddressingContent: IDs derive from the content pointer, so the same
	// content always maps to the same ID.
	AddressingContent AddressingMode = "content"
)

// Service serializes every mutating operation behind one commit lock: a
// transition validates, applies its writes across the tables, appends its
// event, and only then releases the lock. Queries take the read side and see
// only fully committed state.
type Service struct {
	mu sync.RWMutex

	roles     RoleStore
	aliases   AliasStore
	documents DocumentStore
	access    AccessStore
	log       EventLog

	addressing AddressingMode
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
	now        func() time.Time
}

// Store interfaces are declared here, on the consumer side, so the service
// can be wired against the memory or postgres implementations alike.
type RoleStore interface {
	Grant(ctx context.Context, role domain.Role, principal domain.Principal) error
	Revoke(ctx context.Context, role domain.Role, principal domain.Principal) error
	Has(ctx context.Context, role domain.Role, principal domain.Principal) (bool, error)
}

type AliasStore interface {
	Bind(ctx context.Context, entry alias.Entry) error
	Resolve(ctx context.Context, a domain.Alias) (alias.Entry, error)
}

type DocumentStore interface {
	Create(ctx context.Context, doc *document.Document) error
	Get(ctx context.Context, id domain.DocumentID) (*document.Document, error)
	Update(ctx context.Context, doc *document.Document) error
	Delete(ctx context.Context, id domain.DocumentID) error
	Exists(ctx context.Context, id domain.DocumentID) (bool, error)
	ListByUploader(ctx context.Context, uploader domain.Principal) ([]*document.Document, error)
	CreateCertificate(ctx context.Context, cert *document.Certificate) error
	GetCertificate(ctx context.Context, id domain.DocumentID) (*document.Certificate, error)
	DeleteCertificate(ctx context.Context, id domain.DocumentID) error
}

type AccessStore interface {
	Create(ctx context.Context, req *access.Request) error
	Get(ctx context.Context, key access.Key) (*access.Request, error)
	Update(ctx context.Context, req *access.Request) error
	Delete(ctx context.Context, key access.Key) error
	DeleteByDocument(ctx context.Context, id domain.DocumentID) error
	PendingRequesters(ctx context.Context, owner domain.Principal, id domain.DocumentID) ([]domain.Principal, error)
}

type EventLog interface {
	Append(ctx context.Context, event *ledger.Event) error
	ListSince(ctx context.Context, since uint64, limit int) ([]ledger.Event, error)
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides the time source; grant timestamps and event times come
// from it.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithAddressing(mode AddressingMode) Option {
	return func(s *Service) { s.addressing = mode }
}

// New constructs the service and seeds bootstrapAdmin into the admin role,
// so an admin exists from the first operation on.
func New(
	roleStore RoleStore,
	aliasStore AliasStore,
	documentStore DocumentStore,
	accessStore AccessStore,
	log EventLog,
	bootstrapAdmin domain.Principal,
	opts ...Option,
) (*Service, error) {
	if bootstrapAdmin.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "bootstrap admin principal is required")
	}
	s := &Service{
		roles:      roleStore,
		aliases:    aliasStore,
		documents:  documentStore,
		access:     accessStore,
		log:        log,
		addressing: AddressingExplicit,
		tracer:     otel.Tracer("verifi/registry"),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	ctx := context.Background()
	if err := s.roles.Grant(ctx, domain.RoleAdmin, bootstrapAdmin); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to seed bootstrap admin")
	}
	if err := s.emit(ctx, ledger.Event{
		Action:  ledger.ActionRoleGranted,
		Actor:   bootstrapAdmin,
		Subject: bootstrapAdmin,
		Role:    domain.RoleAdmin,
		Detail:  "bootstrap",
	}); err != nil {
		return nil, err
	}
	return s, nil
}

// Events exposes the log to external consumers; cursor semantics are those
// of the store.
func (s *Service) Events(ctx context.Context, since uint64, limit int) ([]ledger.Event, error) {
	events, err := s.log.ListSince(ctx, since, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read event log")
	}
	return events, nil
}

// requireRole authorizes the caller against the role table.
func (s *Service) requireRole(ctx context.Context, role domain.Role, caller domain.Principal) error {
	held, err := s.roles.Has(ctx, role, caller)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check role membership")
	}
	if !held {
		return ErrUnauthorized
	}
	return nil
}

// emit appends the event inside the current commit. The log store shares the
// engine with the tables, so an append failure is a commit failure.
func (s *Service) emit(ctx context.Context, event ledger.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	if err := s.log.Append(ctx, &event); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to append event")
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, string(event.Action),
			"event", event.Action,
			"seq", event.Seq,
			"actor", event.Actor,
			"log_type", "audit",
		)
	}
	return nil
}

func (s *Service) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name)
}

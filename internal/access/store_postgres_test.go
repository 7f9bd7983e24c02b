//go:build integration

package access_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"verifi/internal/access"
	"verifi/pkg/domain"
	"verifi/pkg/platform/sentinel"
	"verifi/pkg/testutil/containers"
)

type PostgresAccessSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *access.Postgres
	ctx   context.Context
}

func (s *PostgresAccessSuite) SetupSuite() {
	s.ctx = context.Background()
	s.pg = containers.NewPostgresContainer(s.T())
	s.pg.Migrate(s.T(), "../../migrations")
	s.store = access.NewPostgres(s.pg.DB)
}

func (s *PostgresAccessSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateAll(s.ctx))
}

func TestPostgresAccessSuite(t *testing.T) {
	suite.Run(t, new(PostgresAccessSuite))
}

func (s *PostgresAccessSuite) request(requester domain.Principal, at time.Time) *access.Request {
	return &access.Request{
		Key:         access.Key{Owner: "student-1", DocumentID: 42, Requester: requester},
		Status:      access.StatusPending,
		RequestedAt: at,
	}
}

func (s *PostgresAccessSuite) TestLifecycle() {
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	req := s.request("employer-1", now)
	s.Require().NoError(s.store.Create(s.ctx, req))

	s.Require().ErrorIs(s.store.Create(s.ctx, req), sentinel.ErrConflict)

	got, err := s.store.Get(s.ctx, req.Key)
	s.Require().NoError(err)
	s.Equal(access.StatusPending, got.Status)
	s.Nil(got.GrantedAt)

	granted := now.Add(time.Minute)
	got.Status = access.StatusApproved
	got.GrantedAt = &granted
	s.Require().NoError(s.store.Update(s.ctx, got))

	got, err = s.store.Get(s.ctx, req.Key)
	s.Require().NoError(err)
	s.Equal(access.StatusApproved, got.Status)
	s.Require().NotNil(got.GrantedAt)

	s.Require().NoError(s.store.Delete(s.ctx, req.Key))
	_, err = s.store.Get(s.ctx, req.Key)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
	s.Require().ErrorIs(s.store.Delete(s.ctx, req.Key), sentinel.ErrNotFound)
}

func (s *PostgresAccessSuite) TestPendingRequestersInRequestOrder() {
	base := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.store.Create(s.ctx, s.request("late", base.Add(2*time.Second))))
	s.Require().NoError(s.store.Create(s.ctx, s.request("early", base)))

	approved := s.request("approved", base.Add(time.Second))
	s.Require().NoError(s.store.Create(s.ctx, approved))
	approved.Status = access.StatusApproved
	s.Require().NoError(s.store.Update(s.ctx, approved))

	waiting, err := s.store.PendingRequesters(s.ctx, "student-1", 42)
	s.Require().NoError(err)
	s.Equal([]domain.Principal{"early", "late"}, waiting)
}

func (s *PostgresAccessSuite) TestDeleteByDocument() {
	now := time.Now().UTC()
	s.Require().NoError(s.store.Create(s.ctx, s.request("employer-1", now)))
	s.Require().NoError(s.store.Create(s.ctx, s.request("employer-2", now)))

	other := s.request("employer-1", now)
	other.Key.DocumentID = 7
	s.Require().NoError(s.store.Create(s.ctx, other))

	s.Require().NoError(s.store.DeleteByDocument(s.ctx, 42))

	waiting, err := s.store.PendingRequesters(s.ctx, "student-1", 42)
	s.Require().NoError(err)
	s.Empty(waiting)

	_, err = s.store.Get(s.ctx, other.Key)
	s.Require().NoError(err)
}

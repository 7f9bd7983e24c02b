package roles

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"verifi/pkg/domain"
)

type RoleStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *RoleStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestRoleStoreSuite(t *testing.T) {
	suite.Run(t, new(RoleStoreSuite))
}

func (s *RoleStoreSuite) TestMembership() {
	s.Run("grant then has", func() {
		s.Require().NoError(s.store.Grant(s.ctx, domain.RoleVerifier, "verifier-1"))
		held, err := s.store.Has(s.ctx, domain.RoleVerifier, "verifier-1")
		s.Require().NoError(err)
		s.True(held)
	})

	s.Run("membership is per role", func() {
		s.Require().NoError(s.store.Grant(s.ctx, domain.RoleVerifier, "verifier-1"))
		held, err := s.store.Has(s.ctx, domain.RoleAdmin, "verifier-1")
		s.Require().NoError(err)
		s.False(held)
	})

	s.Run("grant is idempotent", func() {
		s.Require().NoError(s.store.Grant(s.ctx, domain.RoleAdmin, "root"))
		s.Require().NoError(s.store.Grant(s.ctx, domain.RoleAdmin, "root"))
		members, err := s.store.ListMembers(s.ctx, domain.RoleAdmin)
		s.Require().NoError(err)
		s.Equal([]domain.Principal{"root"}, members)
	})
}

func (s *RoleStoreSuite) TestRevocation() {
	s.Run("revoke removes membership", func() {
		s.Require().NoError(s.store.Grant(s.ctx, domain.RoleVerifier, "verifier-1"))
		s.Require().NoError(s.store.Revoke(s.ctx, domain.RoleVerifier, "verifier-1"))
		held, err := s.store.Has(s.ctx, domain.RoleVerifier, "verifier-1")
		s.Require().NoError(err)
		s.False(held)
	})

	s.Run("revoking an absent membership is a no-op", func() {
		s.Require().NoError(s.store.Revoke(s.ctx, domain.RoleVerifier, "stranger"))
	})
}

func (s *RoleStoreSuite) TestListMembers() {
	s.Require().NoError(s.store.Grant(s.ctx, domain.RoleVerifier, "b"))
	s.Require().NoError(s.store.Grant(s.ctx, domain.RoleVerifier, "a"))
	members, err := s.store.ListMembers(s.ctx, domain.RoleVerifier)
	s.Require().NoError(err)
	s.Equal([]domain.Principal{"a", "b"}, members)
}

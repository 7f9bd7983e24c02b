package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type LedgerStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *LedgerStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestLedgerStoreSuite(t *testing.T) {
	suite.Run(t, new(LedgerStoreSuite))
}

func (s *LedgerStoreSuite) append(action Action) Event {
	event := Event{Timestamp: time.Now(), Action: action, Actor: "root"}
	s.Require().NoError(s.store.Append(s.ctx, &event))
	return event
}

func (s *LedgerStoreSuite) TestAppendAssignsSequence() {
	first := s.append(ActionRoleGranted)
	second := s.append(ActionDocumentUploaded)

	s.Equal(uint64(1), first.Seq)
	s.Equal(uint64(2), second.Seq)
	s.NotEmpty(first.ID)
	s.NotEqual(first.ID, second.ID)

	last, err := s.store.LastSeq(s.ctx)
	s.Require().NoError(err)
	s.Equal(uint64(2), last)
}

func (s *LedgerStoreSuite) TestListSince() {
	for i := 0; i < 5; i++ {
		s.append(ActionAccessRequested)
	}

	s.Run("cursor zero returns everything", func() {
		events, err := s.store.ListSince(s.ctx, 0, 0)
		s.Require().NoError(err)
		s.Len(events, 5)
	})

	s.Run("cursor skips consumed events", func() {
		events, err := s.store.ListSince(s.ctx, 3, 0)
		s.Require().NoError(err)
		s.Require().Len(events, 2)
		s.Equal(uint64(4), events[0].Seq)
	})

	s.Run("limit bounds the batch", func() {
		events, err := s.store.ListSince(s.ctx, 0, 2)
		s.Require().NoError(err)
		s.Len(events, 2)
	})

	s.Run("cursor at head returns nothing", func() {
		events, err := s.store.ListSince(s.ctx, 5, 0)
		s.Require().NoError(err)
		s.Empty(events)
	})
}

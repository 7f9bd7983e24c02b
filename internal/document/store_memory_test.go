package document

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"verifi/pkg/domain"
	"verifi/pkg/platform/sentinel"
)

type DocumentStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *DocumentStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestDocumentStoreSuite(t *testing.T) {
	suite.Run(t, new(DocumentStoreSuite))
}

func (s *DocumentStoreSuite) newDoc(id domain.DocumentID, uploader domain.Principal) *Document {
	return &Document{
		ID:           id,
		Title:        "Transcript",
		Description:  "Final transcript",
		DocumentType: "PDF",
		ContentCID:   "Qm123456789",
		Uploader:     uploader,
		Owner:        "student-1",
		UploadedAt:   time.Now(),
	}
}

func (s *DocumentStoreSuite) TestCreateAndGet() {
	s.Run("creates and retrieves", func() {
		doc := s.newDoc(1, "verifier-1")
		s.Require().NoError(s.store.Create(s.ctx, doc))

		found, err := s.store.Get(s.ctx, 1)
		s.Require().NoError(err)
		s.Equal(doc.Title, found.Title)
		s.Equal(doc.Owner, found.Owner)
	})

	s.Run("occupied id conflicts and leaves the original untouched", func() {
		s.Require().NoError(s.store.Create(s.ctx, s.newDoc(2, "verifier-1")))
		dup := s.newDoc(2, "verifier-2")
		dup.Title = "Replacement"
		s.Require().ErrorIs(s.store.Create(s.ctx, dup), sentinel.ErrConflict)

		found, err := s.store.Get(s.ctx, 2)
		s.Require().NoError(err)
		s.Equal("Transcript", found.Title)
	})

	s.Run("absent id yields ErrNotFound", func() {
		_, err := s.store.Get(s.ctx, 999)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *DocumentStoreSuite) TestUpdate() {
	doc := s.newDoc(1, "verifier-1")
	s.Require().NoError(s.store.Create(s.ctx, doc))

	now := time.Now()
	doc.Verified = true
	doc.VerifiedBy = "root"
	doc.VerifiedAt = &now
	s.Require().NoError(s.store.Update(s.ctx, doc))

	found, err := s.store.Get(s.ctx, 1)
	s.Require().NoError(err)
	s.True(found.Verified)
	s.Equal(domain.Principal("root"), found.VerifiedBy)

	missing := s.newDoc(7, "verifier-1")
	s.Require().ErrorIs(s.store.Update(s.ctx, missing), sentinel.ErrNotFound)
}

func (s *DocumentStoreSuite) TestDeleteAndExists() {
	doc := s.newDoc(1, "verifier-1")
	s.Require().NoError(s.store.Create(s.ctx, doc))

	ok, err := s.store.Exists(s.ctx, 1)
	s.Require().NoError(err)
	s.True(ok)

	s.Require().NoError(s.store.Delete(s.ctx, 1))

	ok, err = s.store.Exists(s.ctx, 1)
	s.Require().NoError(err)
	s.False(ok)

	s.Require().ErrorIs(s.store.Delete(s.ctx, 1), sentinel.ErrNotFound)

	// id is reusable after deletion
	s.Require().NoError(s.store.Create(s.ctx, s.newDoc(1, "verifier-2")))
}

func (s *DocumentStoreSuite) TestListByUploader() {
	s.Require().NoError(s.store.Create(s.ctx, s.newDoc(3, "verifier-1")))
	s.Require().NoError(s.store.Create(s.ctx, s.newDoc(1, "verifier-1")))
	s.Require().NoError(s.store.Create(s.ctx, s.newDoc(2, "verifier-2")))

	docs, err := s.store.ListByUploader(s.ctx, "verifier-1")
	s.Require().NoError(err)
	s.Require().Len(docs, 2)
	s.Equal(domain.DocumentID(1), docs[0].ID)
	s.Equal(domain.DocumentID(3), docs[1].ID)
}

func (s *DocumentStoreSuite) TestCertificates() {
	cert := &Certificate{DocumentID: 1, IssuedBy: "root", IssuedAt: time.Now()}
	s.Require().NoError(s.store.CreateCertificate(s.ctx, cert))

	found, err := s.store.GetCertificate(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(domain.Principal("root"), found.IssuedBy)

	s.Require().ErrorIs(s.store.CreateCertificate(s.ctx, cert), sentinel.ErrAlreadyUsed)

	_, err = s.store.GetCertificate(s.ctx, 2)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	// purge: deleting frees the id for a new mint, absent ids are a no-op
	s.Require().NoError(s.store.DeleteCertificate(s.ctx, 1))
	s.Require().NoError(s.store.DeleteCertificate(s.ctx, 1))
	_, err = s.store.GetCertificate(s.ctx, 1)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
	s.Require().NoError(s.store.CreateCertificate(s.ctx, cert))
}

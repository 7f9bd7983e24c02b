//go:build integration

package document_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"verifi/internal/document"
	"verifi/pkg/domain"
	"verifi/pkg/platform/sentinel"
	"verifi/pkg/testutil/containers"
)

type PostgresDocumentSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *document.Postgres
	ctx   context.Context
}

func (s *PostgresDocumentSuite) SetupSuite() {
	s.ctx = context.Background()
	s.pg = containers.NewPostgresContainer(s.T())
	s.pg.Migrate(s.T(), "../../migrations")
	s.store = document.NewPostgres(s.pg.DB)
}

func (s *PostgresDocumentSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateAll(s.ctx))
}

func TestPostgresDocumentSuite(t *testing.T) {
	suite.Run(t, new(PostgresDocumentSuite))
}

func (s *PostgresDocumentSuite) doc(id domain.DocumentID) *document.Document {
	return &document.Document{
		ID:           id,
		Title:        "Transcript",
		Description:  "Final transcript",
		DocumentType: "PDF",
		ContentCID:   "Qm123456789",
		Uploader:     "verifier-1",
		Owner:        "student-1",
		UploadedAt:   time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC),
	}
}

func (s *PostgresDocumentSuite) TestCreateGetRoundTrip() {
	s.Require().NoError(s.store.Create(s.ctx, s.doc(42)))

	got, err := s.store.Get(s.ctx, 42)
	s.Require().NoError(err)
	s.Equal("Transcript", got.Title)
	s.Equal(domain.Principal("student-1"), got.Owner)
	s.False(got.Verified)
	s.Nil(got.VerifiedAt)
}

func (s *PostgresDocumentSuite) TestCreateConflict() {
	s.Require().NoError(s.store.Create(s.ctx, s.doc(42)))
	err := s.store.Create(s.ctx, s.doc(42))
	s.Require().ErrorIs(err, sentinel.ErrConflict)
}

func (s *PostgresDocumentSuite) TestContentDerivedIDRange() {
	// content-derived IDs can exceed int64; the NUMERIC column must hold them
	id := domain.DeriveDocumentID("Qm123456789")
	s.Require().NoError(s.store.Create(s.ctx, s.doc(id)))

	got, err := s.store.Get(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(id, got.ID)
}

func (s *PostgresDocumentSuite) TestUpdateVerification() {
	s.Require().NoError(s.store.Create(s.ctx, s.doc(42)))

	got, err := s.store.Get(s.ctx, 42)
	s.Require().NoError(err)
	now := time.Now().UTC()
	got.Verified = true
	got.VerifiedBy = "root"
	got.VerifiedAt = &now
	s.Require().NoError(s.store.Update(s.ctx, got))

	got, err = s.store.Get(s.ctx, 42)
	s.Require().NoError(err)
	s.True(got.Verified)
	s.Equal(domain.Principal("root"), got.VerifiedBy)
	s.Require().NotNil(got.VerifiedAt)
}

func (s *PostgresDocumentSuite) TestDeleteAndExists() {
	s.Require().NoError(s.store.Create(s.ctx, s.doc(42)))

	exists, err := s.store.Exists(s.ctx, 42)
	s.Require().NoError(err)
	s.True(exists)

	s.Require().NoError(s.store.Delete(s.ctx, 42))

	exists, err = s.store.Exists(s.ctx, 42)
	s.Require().NoError(err)
	s.False(exists)

	s.Require().ErrorIs(s.store.Delete(s.ctx, 42), sentinel.ErrNotFound)
	_, err = s.store.Get(s.ctx, 42)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresDocumentSuite) TestListByUploader() {
	s.Require().NoError(s.store.Create(s.ctx, s.doc(42)))
	s.Require().NoError(s.store.Create(s.ctx, s.doc(7)))
	other := s.doc(9)
	other.Uploader = "verifier-2"
	s.Require().NoError(s.store.Create(s.ctx, other))

	docs, err := s.store.ListByUploader(s.ctx, "verifier-1")
	s.Require().NoError(err)
	s.Require().Len(docs, 2)
	s.Equal(domain.DocumentID(7), docs[0].ID)
	s.Equal(domain.DocumentID(42), docs[1].ID)
}

func (s *PostgresDocumentSuite) TestCertificates() {
	s.Require().NoError(s.store.Create(s.ctx, s.doc(42)))

	cert := &document.Certificate{DocumentID: 42, IssuedBy: "root", IssuedAt: time.Now().UTC()}
	s.Require().NoError(s.store.CreateCertificate(s.ctx, cert))

	err := s.store.CreateCertificate(s.ctx, cert)
	s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)

	got, err := s.store.GetCertificate(s.ctx, 42)
	s.Require().NoError(err)
	s.Equal(domain.Principal("root"), got.IssuedBy)

	_, err = s.store.GetCertificate(s.ctx, 7)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	// purge: deleting frees the id for a new mint, absent ids are a no-op
	s.Require().NoError(s.store.DeleteCertificate(s.ctx, 42))
	s.Require().NoError(s.store.DeleteCertificate(s.ctx, 42))
	_, err = s.store.GetCertificate(s.ctx, 42)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
	s.Require().NoError(s.store.CreateCertificate(s.ctx, cert))
}

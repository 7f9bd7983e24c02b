package document

import (
	"context"
	"sort"
	"sync"

	"verifi/pkg/domain"
	"verifi/pkg/platform/sentinel"
)

type InMemory struct {
	mu    sync.RWMutex
	docs  map[domain.DocumentID]Document
	certs map[domain.DocumentID]Certificate
}

func NewInMemory() *InMemory {
	return &InMemory{
		docs:  make(map[domain.DocumentID]Document),
		certs: make(map[domain.DocumentID]Certificate),
	}
}

func (s *InMemory) Create(_ context.Context, doc *Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[doc.ID]; ok {
		return sentinel.ErrConflict
	}
	s.docs[doc.ID] = *doc
	return nil
}

func (s *InMemory) Get(_ context.Context, id domain.DocumentID) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &doc, nil
}

func (s *InMemory) Update(_ context.Context, doc *Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[doc.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.docs[doc.ID] = *doc
	return nil
}

func (s *InMemory) Delete(_ context.Context, id domain.DocumentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.docs, id)
	return nil
}

func (s *InMemory) Exists(_ context.Context, id domain.DocumentID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.docs[id]
	return ok, nil
}

func (s *InMemory) ListByUploader(_ context.Context, uploader domain.Principal) ([]*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Document
	for _, doc := range s.docs {
		if doc.Uploader == uploader {
			d := doc
			out = append(out, &d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemory) CreateCertificate(_ context.Context, cert *Certificate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.certs[cert.DocumentID]; ok {
		return sentinel.ErrAlreadyUsed
	}
	s.certs[cert.DocumentID] = *cert
	return nil
}

func (s *InMemory) GetCertificate(_ context.Context, id domain.DocumentID) (*Certificate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cert, ok := s.certs[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &cert, nil
}

func (s *InMemory) DeleteCertificate(_ context.Context, id domain.DocumentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.certs, id)
	return nil
}

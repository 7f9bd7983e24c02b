package access

import (
	"context"

	"verifi/pkg/domain"
)

// Store persists access requests and maintains the pending index alongside
// every write, so "who is waiting" never scans the request table.
//
// Sentinels: Create returns sentinel.ErrConflict when a live record exists
// for the key; Get, Update and Delete return sentinel.ErrNotFound.
type Store interface {
	Create(ctx context.Context, req *Request) error
	Get(ctx context.Context, key Key) (*Request, error)
	Update(ctx context.Context, req *Request) error
	Delete(ctx context.Context, key Key) error

	// DeleteByDocument purges every record and pending entry for the
	// document. Called when the document itself is removed.
	DeleteByDocument(ctx context.Context, id domain.DocumentID) error

	// PendingRequesters lists requesters currently pending for the
	// (owner, document) pair, in request order.
	PendingRequesters(ctx context.Context, owner domain.Principal, id domain.DocumentID) ([]domain.Principal, error)
}

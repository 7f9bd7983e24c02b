// Package access holds the access-request table and its derived
// pending-request index.
package access

import (
	"time"

	"verifi/pkg/domain"
)

// Status is the persisted state of one access request. Rejection and
// revocation delete the record instead of flagging it, so only the two live
// states are ever stored; an absent key is eligible for a fresh request.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
)

// Key identifies one request: which requester wants which document from
// which owner.
type Key struct {
	Owner      domain.Principal
	DocumentID domain.DocumentID
	Requester  domain.Principal
}

// Request is one live access request. GrantedAt is set only once Status is
// StatusApproved; consumers derive any expiry policy from it.
type Request struct {
	Key         Key
	Status      Status
	RequestedAt time.Time
	GrantedAt   *time.Time
}

// Package ledger is the append-only event log. Every committed state
// transition in the registry appends exactly one record here, in commit
// order; external consumers (cache, UI, Kafka relay, projections) treat this
// log as the single source of truth and re-derive their views from it.
package ledger

import (
	"time"

	"verifi/pkg/domain"
)

// Action names one kind of committed transition.
type Action string

const (
	ActionRoleGranted       Action = "role_granted"
	ActionRoleRevoked       Action = "role_revoked"
	ActionAliasBound        Action = "alias_bound"
	ActionDocumentUploaded  Action = "document_uploaded"
	ActionDocumentDeleted   Action = "document_deleted"
	ActionDocumentVerified  Action = "document_verified"
	ActionCertificateMinted Action = "certificate_minted"
	ActionAccessRequested   Action = "access_requested"
	ActionAccessGranted     Action = "access_granted"
	ActionAccessRejected    Action = "access_rejected"
	ActionAccessRevoked     Action = "access_revoked"
)

// Event is one immutable log record. Seq is assigned by the store on append
// and is strictly increasing; it doubles as the consumer cursor.
//
// Actor is the principal that invoked the operation. Subject is the
// principal the transition is about (the grantee of a role, the owner of a
// document); it equals Actor when the caller acts on itself.
type Event struct {
	Seq        uint64            `json:"seq"`
	ID         string            `json:"id"`
	Timestamp  time.Time         `json:"timestamp"`
	Action     Action            `json:"action"`
	Actor      domain.Principal  `json:"actor"`
	Subject    domain.Principal  `json:"subject,omitempty"`
	Requester  domain.Principal  `json:"requester,omitempty"`
	Role       domain.Role       `json:"role,omitempty"`
	Alias      domain.Alias      `json:"alias,omitempty"`
	DocumentID *domain.DocumentID `json:"document_id,omitempty"`
	Detail     string            `json:"detail,omitempty"`
}

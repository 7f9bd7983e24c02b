package ledger

import "context"

// Store is the durable log. Append assigns the next sequence number and the
// record ID, writing them back into the event. Records are never updated or
// deleted.
type Store interface {
	Append(ctx context.Context, event *Event) error
	// ListSince returns up to limit events with Seq > since, in order.
	ListSince(ctx context.Context, since uint64, limit int) ([]Event, error)
	LastSeq(ctx context.Context) (uint64, error)
}

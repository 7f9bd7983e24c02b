package projection

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"verifi/internal/ledger"
)

// EventSource is the slice of the log store the worker reads.
type EventSource interface {
	ListSince(ctx context.Context, since uint64, limit int) ([]ledger.Event, error)
}

const defaultBatchSize = 100

// Worker folds log events into the grant cache. It applies events in
// sequence order and only advances its cursor after the cache accepted the
// write, so a failed apply is retried on the next tick.
type Worker struct {
	source    EventSource
	cache     Cache
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
	cursor    atomic.Uint64
}

type Option func(*Worker)

func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) { w.logger = logger }
}

func WithBatchSize(n int) Option {
	return func(w *Worker) {
		if n > 0 {
			w.batchSize = n
		}
	}
}

// WithCursor starts the worker after the given sequence number. Useful when
// the cache is persistent and already caught up.
func WithCursor(seq uint64) Option {
	return func(w *Worker) { w.cursor.Store(seq) }
}

func New(source EventSource, cache Cache, interval time.Duration, opts ...Option) *Worker {
	w := &Worker{
		source:    source,
		cache:     cache,
		interval:  interval,
		batchSize: defaultBatchSize,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run polls until the context is canceled.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.CatchUp(ctx); err != nil {
				if w.logger != nil {
					w.logger.WarnContext(ctx, "projection catch-up failed",
						"error", err.Error(),
						"cursor", w.cursor.Load(),
					)
				}
			}
		}
	}
}

// CatchUp applies everything past the cursor. Exported so tests and startup
// paths can replay without the ticker.
func (w *Worker) CatchUp(ctx context.Context) error {
	for {
		events, err := w.source.ListSince(ctx, w.cursor.Load(), w.batchSize)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return nil
		}
		for _, event := range events {
			if err := w.apply(ctx, event); err != nil {
				return fmt.Errorf("apply seq %d: %w", event.Seq, err)
			}
			w.cursor.Store(event.Seq)
		}
	}
}

func (w *Worker) apply(ctx context.Context, event ledger.Event) error {
	switch event.Action {
	case ledger.ActionAccessGranted:
		if event.DocumentID == nil {
			return nil
		}
		return w.cache.SetGrant(ctx, *event.DocumentID, event.Requester, event.Timestamp)
	case ledger.ActionAccessRevoked, ledger.ActionAccessRejected:
		if event.DocumentID == nil {
			return nil
		}
		return w.cache.DeleteGrant(ctx, *event.DocumentID, event.Requester)
	case ledger.ActionDocumentDeleted:
		if event.DocumentID == nil {
			return nil
		}
		return w.cache.DropDocument(ctx, *event.DocumentID)
	default:
		// Everything else does not touch grants.
		return nil
	}
}

// Cursor reports the last applied sequence number.
func (w *Worker) Cursor() uint64 {
	return w.cursor.Load()
}
